package composite

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setanarut/imagelab"
)

func solid(w, h int, px [4]uint8) *imagelab.PixelBuffer {
	img, _ := imagelab.New(w, h, imagelab.BGRA32)
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:i+4], px[:])
	}
	return img
}

func pixel(img *imagelab.PixelBuffer, x, y int) [4]uint8 {
	bl, g, r, a := img.BGRA(x, y)
	return [4]uint8{bl, g, r, a}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	m, err := ParseMode(" Multiply ")
	require.NoError(t, err)
	assert.Equal(t, Multiply, m)

	_, err = ParseMode("screen")
	assert.ErrorIs(t, err, imagelab.ErrInvalidMethod)
	assert.Equal(t, "Mode(42)", Mode(42).String())
}

func TestNormalOpaqueReproducesOverlay(t *testing.T) {
	base := solid(3, 2, [4]uint8{10, 20, 30, 40})
	overlay, _ := imagelab.New(3, 2, imagelab.BGRA32)
	for i := range overlay.Pix {
		overlay.Pix[i] = uint8(i * 11)
	}
	for i := 3; i < len(overlay.Pix); i += 4 {
		overlay.Pix[i] = 255
	}

	for _, applyOpacity := range []bool{true, false} {
		out, err := ApplyBlend(base, overlay, Normal, 1, applyOpacity)
		require.NoError(t, err)
		assert.Equal(t, overlay.Pix, out.Pix)
	}

	// Opacity is ignored unless enabled.
	out, err := ApplyBlend(base, overlay, Normal, 0.2, false)
	require.NoError(t, err)
	assert.Equal(t, overlay.Pix, out.Pix)
}

func TestBlendModes(t *testing.T) {
	base := solid(2, 2, [4]uint8{100, 100, 100, 255})
	overlay := solid(2, 2, [4]uint8{200, 50, 0, 255})

	tests := []struct {
		mode Mode
		want [4]uint8
	}{
		{Normal, [4]uint8{200, 50, 0, 255}},
		{Add, [4]uint8{255, 150, 100, 255}},
		{Multiply, [4]uint8{78, 19, 0, 255}},
		{Average, [4]uint8{150, 75, 50, 255}},
		{Max, [4]uint8{200, 100, 100, 255}},
		{Min, [4]uint8{100, 50, 0, 255}},
	}
	for _, x := range tests {
		t.Run(x.mode.String(), func(t *testing.T) {
			out, err := ApplyBlend(base, overlay, x.mode, 1, true)
			require.NoError(t, err)
			assert.Equal(t, x.want, pixel(out, 1, 1))
		})
	}
}

func TestBlendHalfOpacity(t *testing.T) {
	base := solid(1, 1, [4]uint8{100, 100, 100, 255})
	overlay := solid(1, 1, [4]uint8{0, 50, 200, 255})
	out, err := ApplyBlend(base, overlay, Normal, 0.5, true)
	require.NoError(t, err)
	assert.Equal(t, [4]uint8{50, 75, 150, 255}, pixel(out, 0, 0))

	out, err = ApplyBlend(base, overlay, Max, 0.5, true)
	require.NoError(t, err)
	assert.Equal(t, [4]uint8{100, 100, 150, 255}, pixel(out, 0, 0))
}

func TestBlendAlphaAccumulation(t *testing.T) {
	base := solid(1, 1, [4]uint8{0, 0, 0, 100})
	overlay := solid(1, 1, [4]uint8{0, 0, 0, 100})

	out, err := ApplyBlend(base, overlay, Normal, 1, false)
	require.NoError(t, err)
	assert.Equal(t, uint8(160), out.Pix[3])

	for _, m := range Modes[1:] {
		out, err := ApplyBlend(base, overlay, m, 1, false)
		require.NoError(t, err)
		assert.Equal(t, uint8(200), out.Pix[3], m.String())
	}

	full := solid(1, 1, [4]uint8{0, 0, 0, 200})
	out, err = ApplyBlend(full, full, Add, 1, false)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), out.Pix[3])
}

func TestTransparentOverlayKeepsBase(t *testing.T) {
	base := solid(2, 2, [4]uint8{1, 2, 3, 255})
	overlay := solid(2, 2, [4]uint8{200, 200, 200, 0})
	for _, m := range Modes {
		out, err := ApplyBlend(base, overlay, m, 1, true)
		require.NoError(t, err)
		assert.Equal(t, base.Pix, out.Pix, m.String())
	}
}

func TestBlendResizesOverlay(t *testing.T) {
	base := solid(4, 3, [4]uint8{0, 0, 0, 255})
	overlay := solid(1, 1, [4]uint8{0, 0, 255, 255})
	out, err := ApplyBlend(base, overlay, Normal, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 4, out.W)
	assert.Equal(t, 3, out.H)
	for y := range 3 {
		for x := range 4 {
			assert.Equal(t, [4]uint8{0, 0, 255, 255}, pixel(out, x, y))
		}
	}
}

func TestBlendGrayInputs(t *testing.T) {
	base, _ := imagelab.Wrap(2, 1, imagelab.Gray8, []uint8{10, 20})
	overlay, _ := imagelab.Wrap(2, 1, imagelab.Gray8, []uint8{30, 5})
	out, err := ApplyBlend(base, overlay, Max, 1, true)
	require.NoError(t, err)
	assert.Equal(t, imagelab.BGRA32, out.Format)
	assert.Equal(t, []uint8{30, 30, 30, 255, 20, 20, 20, 255}, out.Pix)
}

func TestBlendInvalid(t *testing.T) {
	base := solid(1, 1, [4]uint8{})
	for _, op := range []float64{-0.1, 1.5, math.NaN()} {
		_, err := ApplyBlend(base, base, Normal, op, true)
		assert.ErrorIs(t, err, imagelab.ErrInvalidParameter)
	}
	_, err := ApplyBlend(base, base, Mode(42), 1, true)
	assert.ErrorIs(t, err, imagelab.ErrInvalidMethod)

	_, err = ApplyBlend(base, &imagelab.PixelBuffer{W: 3, H: 3, Format: imagelab.BGRA32}, Normal, 1, true)
	assert.ErrorIs(t, err, imagelab.ErrInvalidParameter)
}

func TestApplyChannelMask(t *testing.T) {
	img := solid(2, 1, [4]uint8{10, 20, 30, 40})
	tests := []struct {
		name    string
		r, g, b bool
		want    [4]uint8
	}{
		{"all", true, true, true, [4]uint8{10, 20, 30, 40}},
		{"red only", true, false, false, [4]uint8{0, 0, 30, 40}},
		{"no blue", true, true, false, [4]uint8{0, 20, 30, 40}},
		{"none", false, false, false, [4]uint8{0, 0, 0, 40}},
	}
	for _, x := range tests {
		t.Run(x.name, func(t *testing.T) {
			out, err := ApplyChannelMask(img, x.r, x.g, x.b)
			require.NoError(t, err)
			assert.Equal(t, x.want, pixel(out, 1, 0))
		})
	}
	assert.Equal(t, [4]uint8{10, 20, 30, 40}, pixel(img, 0, 0))
}

func TestFlatten(t *testing.T) {
	bottom := NewLayer(solid(2, 2, [4]uint8{100, 100, 100, 255}))
	top := NewLayer(solid(2, 2, [4]uint8{200, 50, 0, 255}))
	top.Mode = Average
	top.Blue = false

	out, err := Flatten([]Layer{bottom, {}, top})
	require.NoError(t, err)
	assert.Equal(t, [4]uint8{50, 75, 50, 255}, pixel(out, 0, 0))
}

func TestFlattenTransparentBase(t *testing.T) {
	bottom := NewLayer(solid(2, 2, [4]uint8{100, 200, 50, 255}))
	bottom.Transparency = true
	bottom.Opacity = 0.5

	out, err := Flatten([]Layer{bottom})
	require.NoError(t, err)
	assert.Equal(t, [4]uint8{50, 100, 25, 127}, pixel(out, 1, 1))

	_, err = Flatten(nil)
	assert.ErrorIs(t, err, imagelab.ErrInvalidParameter)
}

func TestFillTint(t *testing.T) {
	tint, err := colorful.Hex("#ff8000")
	require.NoError(t, err)
	overlay, err := Fill(2, 2, tint, 255)
	require.NoError(t, err)
	assert.Equal(t, [4]uint8{0, 128, 255, 255}, pixel(overlay, 0, 0))

	base := solid(2, 2, [4]uint8{255, 255, 255, 255})
	out, err := Flatten([]Layer{NewLayer(base), {Image: overlay, Mode: Multiply, Opacity: 1, Red: true, Green: true, Blue: true}})
	require.NoError(t, err)
	assert.Equal(t, [4]uint8{0, 128, 255, 255}, pixel(out, 1, 0))
}
