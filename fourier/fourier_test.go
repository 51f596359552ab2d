package fourier

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setanarut/imagelab"
)

var algorithms = []Algorithm{AlgorithmDFT, AlgorithmFFT}

func noiseImage(w, h int, seed uint64) *imagelab.PixelBuffer {
	rnd := rand.New(rand.NewPCG(seed, 7))
	img, _ := imagelab.New(w, h, imagelab.BGRA32)
	for i := range img.Pix {
		img.Pix[i] = uint8(rnd.IntN(256))
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func assertComplexSlice(t *testing.T, want, got []complex128, delta float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, real(want[i]), real(got[i]), delta, "real[%d]", i)
		assert.InDelta(t, imag(want[i]), imag(got[i]), delta, "imag[%d]", i)
	}
}

func TestCompute1DDFT(t *testing.T) {
	x := []complex128{1, 2, 3, 4}
	X := Compute1DDFT(x)
	assertComplexSlice(t, []complex128{10, complex(-2, 2), -2, complex(-2, -2)}, X, 1e-12)
	assertComplexSlice(t, x, Compute1DIDFT(X), 1e-12)

	assert.Empty(t, Compute1DDFT(nil))
}

func TestFFTMatchesDFT(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	for _, n := range []int{1, 2, 5, 6, 12, 17} {
		src := make([]complex128, n)
		for i := range src {
			src[i] = complex(rnd.Float64()*255, rnd.Float64()*10)
		}
		want := Compute1DDFT(src)

		got := make([]complex128, n)
		back := make([]complex128, n)
		f := AlgorithmFFT.plan(n)
		f.forward(got, src)
		assertComplexSlice(t, want, got, 1e-9)
		f.inverse(back, got)
		assertComplexSlice(t, src, back, 1e-9)
	}
}

func TestParseAlgorithm(t *testing.T) {
	a, err := ParseAlgorithm("FFT")
	require.NoError(t, err)
	assert.Equal(t, AlgorithmFFT, a)
	assert.Equal(t, "fft", a.String())

	a, err = ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, AlgorithmDFT, a)

	_, err = ParseAlgorithm("wavelet")
	assert.ErrorIs(t, err, imagelab.ErrInvalidMethod)

	_, err = ComputeDFT(noiseImage(2, 2, 1), Algorithm(9))
	assert.ErrorIs(t, err, imagelab.ErrInvalidMethod)
}

func TestRoundTrip(t *testing.T) {
	sizes := [][2]int{{8, 6}, {5, 7}, {1, 1}, {16, 3}}
	for _, alg := range algorithms {
		for _, sz := range sizes {
			img := noiseImage(sz[0], sz[1], uint64(sz[0]*31+sz[1]))
			s, err := ComputeDFT(img, alg)
			require.NoError(t, err)
			out, err := ComputeInverseDFT(s, alg)
			require.NoError(t, err)
			assert.Equal(t, img.Pix, out.Pix, "%v %dx%d", alg, sz[0], sz[1])
		}
	}
}

func TestGrayInput(t *testing.T) {
	img, _ := imagelab.Wrap(2, 2, imagelab.Gray8, []uint8{0, 50, 100, 250})
	s, err := ComputeDFT(img, AlgorithmFFT)
	require.NoError(t, err)
	out, err := ComputeInverseDFT(s, AlgorithmFFT)
	require.NoError(t, err)
	assert.Equal(t, img.ToBGRA().Pix, out.Pix)
}

func TestSpectrumCentered(t *testing.T) {
	img, _ := imagelab.New(4, 4, imagelab.Gray8)
	for i := range img.Pix {
		img.Pix[i] = 100
	}
	for _, alg := range algorithms {
		s, err := ComputeDFT(img, alg)
		require.NoError(t, err)
		for c := range 3 {
			assert.InDelta(t, 1600.0, real(s.At(c, 2, 2)), 1e-9)
			assert.InDelta(t, 0.0, real(s.At(c, 0, 0)), 1e-9)
		}
	}
}

func TestDFTMatchesFFT2D(t *testing.T) {
	img := noiseImage(6, 10, 3)
	a, err := ComputeDFT(img, AlgorithmDFT)
	require.NoError(t, err)
	b, err := ComputeDFT(img, AlgorithmFFT)
	require.NoError(t, err)
	for c := range 3 {
		assertComplexSlice(t, a.C[c], b.C[c], 1e-6)
	}
}

// Both sides are even: with an odd dimension the checkerboard centering
// misses DC by half a cell and LowPass{0} does not reduce to the mean.
func TestLowPassZeroRadiusGivesMean(t *testing.T) {
	w, h := 8, 6
	img, _ := imagelab.New(w, h, imagelab.BGRA32)
	for y := range h {
		for x := range w {
			o := img.Offset(x, y)
			img.Pix[o] = uint8(x * 10) // mean 35
			img.Pix[o+1] = 77
			if (x+y)%3 == 0 {
				img.Pix[o+2] = 10
			} else {
				img.Pix[o+2] = 30
			}
			img.Pix[o+3] = 255
		}
	}
	// Red mean: 16 cells of 10 and 32 of 30.
	wantRed := uint8((16*10 + 32*30) / 48)

	for _, alg := range algorithms {
		e := NewEngine(alg)
		require.NoError(t, e.Compute(img))
		s, out, err := e.Filter(LowPass{Radius: 0})
		require.NoError(t, err)

		nonZero := 0
		for c := range 3 {
			for _, v := range s.C[c] {
				if v != 0 {
					nonZero++
				}
			}
		}
		assert.Equal(t, 3, nonZero)

		for y := range h {
			for x := range w {
				bl, g, r, a := out.BGRA(x, y)
				assert.Equal(t, [4]uint8{35, 77, wantRed, 255}, [4]uint8{bl, g, r, a}, "%v (%d,%d)", alg, x, y)
			}
		}
	}
}

func TestEngineState(t *testing.T) {
	e := NewEngine(AlgorithmFFT)
	assert.Equal(t, Uncomputed, e.State())

	_, err := e.Spectrum()
	assert.ErrorIs(t, err, imagelab.ErrTransformNotReady)
	_, _, err = e.Filter(LowPass{Radius: 3})
	assert.ErrorIs(t, err, imagelab.ErrTransformNotReady)
	_, err = e.Inverse()
	assert.ErrorIs(t, err, imagelab.ErrTransformNotReady)
	_, err = e.Visualize()
	assert.ErrorIs(t, err, imagelab.ErrTransformNotReady)

	img := noiseImage(4, 4, 9)
	require.NoError(t, e.Compute(img))
	assert.Equal(t, Computed, e.State())

	out, err := e.Inverse()
	require.NoError(t, err)
	assert.Equal(t, img.Pix, out.Pix)

	require.Error(t, e.Compute(&imagelab.PixelBuffer{W: 2, H: 2, Format: imagelab.Gray8}))
	assert.Equal(t, Computed, e.State())

	e.Reset()
	assert.Equal(t, Uncomputed, e.State())
	_, err = e.Inverse()
	assert.ErrorIs(t, err, imagelab.ErrTransformNotReady)

	_, err = ComputeInverseDFT(nil, AlgorithmDFT)
	assert.ErrorIs(t, err, imagelab.ErrTransformNotReady)
	_, err = ApplyFilter(nil, LowPass{})
	assert.ErrorIs(t, err, imagelab.ErrTransformNotReady)
	_, err = VisualizeSpectrum(nil)
	assert.ErrorIs(t, err, imagelab.ErrTransformNotReady)
}

func TestApplyFilterLeavesInput(t *testing.T) {
	s, err := ComputeDFT(noiseImage(6, 6, 4), AlgorithmDFT)
	require.NoError(t, err)
	before := s.Clone()
	filtered, err := ApplyFilter(s, HighPass{Radius: 2})
	require.NoError(t, err)
	assert.Equal(t, before, s)
	assert.Equal(t, complex128(0), filtered.At(0, 3, 3))
	assert.Equal(t, s.At(1, 0, 0), filtered.At(1, 0, 0))
}

func count(mask []bool) int {
	n := 0
	for _, v := range mask {
		if v {
			n++
		}
	}
	return n
}

func TestMasks(t *testing.T) {
	w, h := 9, 9
	low, err := LowPass{Radius: 0}.Mask(w, h)
	require.NoError(t, err)
	assert.Equal(t, 1, count(low))
	assert.True(t, low[4*w+4])

	low, _ = LowPass{Radius: 1}.Mask(w, h)
	assert.Equal(t, 5, count(low))
	high, _ := HighPass{Radius: 1}.Mask(w, h)
	for i := range low {
		assert.NotEqual(t, low[i], high[i])
	}

	pass, _ := BandPass{Inner: 1, Outer: 2}.Mask(w, h)
	reject, _ := BandReject{Inner: 1, Outer: 2}.Mask(w, h)
	assert.Equal(t, 12, count(pass))
	for i := range pass {
		assert.NotEqual(t, pass[i], reject[i])
	}
	assert.False(t, pass[4*w+4])
	assert.True(t, pass[4*w+5])
}

func TestNarrowBandMask(t *testing.T) {
	w, h := 9, 9
	pass, err := NarrowBandPass{Count: 4, Radius: 0, Distance: 2}.Mask(w, h)
	require.NoError(t, err)
	assert.Equal(t, 4, count(pass))
	for _, p := range [][2]int{{6, 4}, {4, 6}, {2, 4}, {4, 2}} {
		assert.True(t, pass[p[1]*w+p[0]], "disk at %v", p)
	}

	reject, err := NarrowBandReject{Count: 4, Radius: 0, Distance: 2}.Mask(w, h)
	require.NoError(t, err)
	assert.Equal(t, w*h-4, count(reject))

	big, _ := NarrowBandPass{Count: 1, Radius: 1.5, Distance: 0}.Mask(w, h)
	assert.Equal(t, 9, count(big))

	// Disks partly outside the grid are clipped.
	edge, err := NarrowBandPass{Count: 1, Radius: 1, Distance: 4}.Mask(w, h)
	require.NoError(t, err)
	assert.Equal(t, 4, count(edge))
}

func TestFilterParameters(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
	}{
		{"negative radius", LowPass{Radius: -1}},
		{"negative highpass", HighPass{Radius: -0.5}},
		{"inverted band", BandPass{Inner: 5, Outer: 2}},
		{"negative band", BandReject{Inner: -1, Outer: 2}},
		{"no circles", NarrowBandPass{Count: 0, Radius: 2, Distance: 3}},
		{"negative circle radius", NarrowBandReject{Count: 3, Radius: -2, Distance: 3}},
	}
	s, _ := ComputeDFT(noiseImage(4, 4, 5), AlgorithmFFT)
	for _, x := range tests {
		t.Run(x.name, func(t *testing.T) {
			_, err := ApplyFilter(s, x.f)
			assert.ErrorIs(t, err, imagelab.ErrInvalidParameter)
		})
	}
}

func TestParseFilter(t *testing.T) {
	opt := DefaultOptions()
	for _, name := range Names {
		f, err := ParseFilter(name, opt)
		require.NoError(t, err)
		assert.Equal(t, name, f.Name())
	}
	f, _ := ParseFilter("NarrowReject", opt)
	assert.Equal(t, NarrowBandReject{Count: 4, Radius: 5, Distance: 30}, f)

	_, err := ParseFilter("notch", opt)
	assert.ErrorIs(t, err, imagelab.ErrInvalidMethod)
}

func TestVisualizeSpectrum(t *testing.T) {
	img, _ := imagelab.New(4, 4, imagelab.Gray8)
	for i := range img.Pix {
		img.Pix[i] = 100
	}
	e := NewEngine(AlgorithmDFT)
	require.NoError(t, e.Compute(img))
	vis, err := e.Visualize()
	require.NoError(t, err)
	assert.Equal(t, imagelab.Gray8, vis.Format)

	want := make([]uint8, 16)
	want[2*4+2] = 255
	assert.Equal(t, want, vis.Pix)

	s, _ := e.Spectrum()
	colored, err := VisualizeSpectrumColor(s)
	require.NoError(t, err)
	bl, g, r, a := colored.BGRA(2, 2)
	assert.Equal(t, [4]uint8{255, 255, 255, 255}, [4]uint8{bl, g, r, a})
	bl, g, r, a = colored.BGRA(0, 0)
	assert.Equal(t, [4]uint8{0, 0, 0, 255}, [4]uint8{bl, g, r, a})

	zero := newSpectrum(3, 3)
	vis, err = VisualizeSpectrum(zero)
	require.NoError(t, err)
	assert.Equal(t, make([]uint8, 9), vis.Pix)
}

func TestRenderMask(t *testing.T) {
	out, err := RenderMask(5, 5, LowPass{Radius: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint8{
		0, 0, 0, 0, 0,
		0, 0, 255, 0, 0,
		0, 255, 255, 255, 0,
		0, 0, 255, 0, 0,
		0, 0, 0, 0, 0,
	}, out.Pix)

	_, err = RenderMask(0, 5, LowPass{Radius: 1})
	assert.ErrorIs(t, err, imagelab.ErrInvalidParameter)
}

func TestCircleMask(t *testing.T) {
	m, err := CircleMask(5, 5, 1)
	require.NoError(t, err)
	bl, g, r, a := m.BGRA(2, 1)
	assert.Equal(t, [4]uint8{255, 255, 255, 255}, [4]uint8{bl, g, r, a})
	bl, g, r, a = m.BGRA(1, 1)
	assert.Equal(t, [4]uint8{0, 0, 0, 0}, [4]uint8{bl, g, r, a})

	_, err = CircleMask(5, 5, -1)
	assert.ErrorIs(t, err, imagelab.ErrInvalidParameter)
}
