package fourier

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/setanarut/imagelab"
)

// logLevels maps every cell to log(1+avg)/log(1+max), where avg is the mean
// of the three channel magnitudes and max the largest magnitude overall.
func logLevels(s *Spectrum) ([]float64, error) {
	if s == nil {
		return nil, fmt.Errorf("render spectrum: %w", imagelab.ErrTransformNotReady)
	}
	n := s.W * s.H
	for c := range s.C {
		if len(s.C[c]) != n {
			return nil, fmt.Errorf("spectrum plane %d has %d cells, want %d: %w",
				c, len(s.C[c]), n, imagelab.ErrDimensionMismatch)
		}
	}
	levels := make([]float64, n)
	peak := s.MaxMagnitude()
	if peak == 0 {
		return levels, nil
	}
	norm := math.Log1p(peak)
	parallel.Line(s.H, func(start, end int) {
		for i := start * s.W; i < end*s.W; i++ {
			avg := (cmplx.Abs(s.C[0][i]) + cmplx.Abs(s.C[1][i]) + cmplx.Abs(s.C[2][i])) / 3
			levels[i] = math.Log1p(avg) / norm
		}
	})
	return levels, nil
}

// VisualizeSpectrum renders s as a log-compressed, globally normalized
// Gray8 image.
func VisualizeSpectrum(s *Spectrum) (*imagelab.PixelBuffer, error) {
	levels, err := logLevels(s)
	if err != nil {
		return nil, err
	}
	out, err := imagelab.New(s.W, s.H, imagelab.Gray8)
	if err != nil {
		return nil, err
	}
	for i, v := range levels {
		out.Pix[i] = imagelab.ClampByte(v * 255)
	}
	return out, nil
}

// heat is the false-colour ramp, from no energy to peak energy.
var heat = []colorful.Color{
	{R: 0, G: 0, B: 0},
	{R: 0.18, G: 0.05, B: 0.45},
	{R: 0.85, G: 0.15, B: 0.25},
	{R: 1, G: 0.75, B: 0.1},
	{R: 1, G: 1, B: 1},
}

func heatColor(t float64) colorful.Color {
	t = min(max(t, 0), 1)
	pos := t * float64(len(heat)-1)
	i := min(int(pos), len(heat)-2)
	return heat[i].BlendLab(heat[i+1], pos-float64(i)).Clamped()
}

// VisualizeSpectrumColor renders the same levels as VisualizeSpectrum
// through a black-purple-red-yellow-white ramp interpolated in Lab space.
func VisualizeSpectrumColor(s *Spectrum) (*imagelab.PixelBuffer, error) {
	levels, err := logLevels(s)
	if err != nil {
		return nil, err
	}
	out, err := imagelab.New(s.W, s.H, imagelab.BGRA32)
	if err != nil {
		return nil, err
	}
	for i, v := range levels {
		r, g, b := heatColor(v).RGB255()
		o := i * 4
		out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = b, g, r, 255
	}
	return out, nil
}

// RenderMask draws the keep-mask of f for a w x h spectrum: kept cells are
// white, zeroed cells black.
func RenderMask(w, h int, f Filter) (*imagelab.PixelBuffer, error) {
	if f == nil {
		return nil, fmt.Errorf("nil filter: %w", imagelab.ErrInvalidMethod)
	}
	mask, err := f.Mask(w, h)
	if err != nil {
		return nil, err
	}
	out, err := imagelab.New(w, h, imagelab.Gray8)
	if err != nil {
		return nil, err
	}
	for i, keep := range mask {
		if keep {
			out.Pix[i] = 255
		}
	}
	return out, nil
}

// CircleMask returns a BGRA image holding an opaque white disk of the
// given radius centered at (w/2, h/2) on a transparent background.
func CircleMask(w, h, radius int) (*imagelab.PixelBuffer, error) {
	if radius < 0 {
		return nil, fmt.Errorf("circle radius %d: %w", radius, imagelab.ErrInvalidParameter)
	}
	mask, err := LowPass{Radius: float64(radius)}.Mask(w, h)
	if err != nil {
		return nil, err
	}
	out, err := imagelab.New(w, h, imagelab.BGRA32)
	if err != nil {
		return nil, err
	}
	for i, in := range mask {
		if in {
			copy(out.Pix[i*4:i*4+4], []uint8{255, 255, 255, 255})
		}
	}
	return out, nil
}
