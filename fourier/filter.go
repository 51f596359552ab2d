package fourier

import (
	"fmt"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/setanarut/imagelab"
)

// Filter is a frequency-domain mask. Mask reports, for a w x h centered
// spectrum, which cells are kept; all other cells are zeroed.
type Filter interface {
	Name() string
	Mask(w, h int) ([]bool, error)
}

// LowPass keeps cells within Radius of the center.
type LowPass struct{ Radius float64 }

// HighPass keeps cells farther than Radius from the center.
type HighPass struct{ Radius float64 }

// BandPass keeps Inner <= radius <= Outer.
type BandPass struct{ Inner, Outer float64 }

// BandReject keeps radius < Inner or radius > Outer.
type BandReject struct{ Inner, Outer float64 }

// NarrowBandPass keeps the cells covered by Count disks of the given
// Radius, spaced evenly on a circle of radius Distance around the center.
type NarrowBandPass struct {
	Count    int
	Radius   float64
	Distance float64
}

// NarrowBandReject zeroes the cells covered by the NarrowBandPass disks.
type NarrowBandReject NarrowBandPass

func (LowPass) Name() string          { return "lowpass" }
func (HighPass) Name() string         { return "highpass" }
func (BandPass) Name() string         { return "bandpass" }
func (BandReject) Name() string       { return "bandreject" }
func (NarrowBandPass) Name() string   { return "narrowpass" }
func (NarrowBandReject) Name() string { return "narrowreject" }

// Names lists the filter names accepted by ParseFilter.
var Names = []string{"lowpass", "highpass", "bandpass", "bandreject", "narrowpass", "narrowreject"}

func checkRadius(what string, r float64) error {
	if r < 0 || math.IsNaN(r) {
		return fmt.Errorf("%s %v: %w", what, r, imagelab.ErrInvalidParameter)
	}
	return nil
}

func checkBand(inner, outer float64) error {
	if err := checkRadius("inner radius", inner); err != nil {
		return err
	}
	if err := checkRadius("outer radius", outer); err != nil {
		return err
	}
	if inner > outer {
		return fmt.Errorf("inner radius %v > outer radius %v: %w", inner, outer, imagelab.ErrInvalidParameter)
	}
	return nil
}

func checkSize(w, h int) error {
	if w < 1 || h < 1 {
		return fmt.Errorf("mask size %dx%d: %w", w, h, imagelab.ErrInvalidParameter)
	}
	return nil
}

// radial evaluates keep on the distance of every cell from (w/2, h/2).
func radial(w, h int, keep func(d float64) bool) []bool {
	mask := make([]bool, w*h)
	cx, cy := w/2, h/2
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			dy := float64(y - cy)
			for x := range w {
				dx := float64(x - cx)
				mask[y*w+x] = keep(math.Sqrt(dx*dx + dy*dy))
			}
		}
	})
	return mask
}

func (f LowPass) Mask(w, h int) ([]bool, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	if err := checkRadius("radius", f.Radius); err != nil {
		return nil, err
	}
	return radial(w, h, func(d float64) bool { return d <= f.Radius }), nil
}

func (f HighPass) Mask(w, h int) ([]bool, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	if err := checkRadius("radius", f.Radius); err != nil {
		return nil, err
	}
	return radial(w, h, func(d float64) bool { return d > f.Radius }), nil
}

func (f BandPass) Mask(w, h int) ([]bool, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	if err := checkBand(f.Inner, f.Outer); err != nil {
		return nil, err
	}
	return radial(w, h, func(d float64) bool { return d >= f.Inner && d <= f.Outer }), nil
}

func (f BandReject) Mask(w, h int) ([]bool, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	if err := checkBand(f.Inner, f.Outer); err != nil {
		return nil, err
	}
	return radial(w, h, func(d float64) bool { return d < f.Inner || d > f.Outer }), nil
}

func (f NarrowBandPass) Mask(w, h int) ([]bool, error) {
	return narrowBand(w, h, f.Count, f.Radius, f.Distance, true)
}

func (f NarrowBandReject) Mask(w, h int) ([]bool, error) {
	return narrowBand(w, h, f.Count, f.Radius, f.Distance, false)
}

// narrowBand stamps count disks centered at distance from (w/2, h/2),
// the i-th one at angle 2πi/count. Disk centers are truncated to whole
// cells.
func narrowBand(w, h, count int, radius, distance float64, keepInside bool) ([]bool, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, fmt.Errorf("circle count %d: %w", count, imagelab.ErrInvalidParameter)
	}
	if err := checkRadius("circle radius", radius); err != nil {
		return nil, err
	}
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		return nil, fmt.Errorf("circle distance %v: %w", distance, imagelab.ErrInvalidParameter)
	}

	disk := make([]bool, w*h)
	cx, cy := w/2, h/2
	step := 2 * math.Pi / float64(count)
	r := int(math.Ceil(radius))
	r2 := radius * radius
	for i := range count {
		angle := float64(i) * step
		px := cx + int(distance*math.Cos(angle))
		py := cy + int(distance*math.Sin(angle))
		for y := max(0, py-r); y <= min(h-1, py+r); y++ {
			for x := max(0, px-r); x <= min(w-1, px+r); x++ {
				dx, dy := float64(x-px), float64(y-py)
				if dx*dx+dy*dy <= r2 {
					disk[y*w+x] = true
				}
			}
		}
	}
	if !keepInside {
		for i, v := range disk {
			disk[i] = !v
		}
	}
	return disk, nil
}

// ApplyFilter returns a copy of s with every cell outside f's mask
// zeroed in all three planes. s is not modified.
func ApplyFilter(s *Spectrum, f Filter) (*Spectrum, error) {
	if s == nil {
		return nil, fmt.Errorf("filter: %w", imagelab.ErrTransformNotReady)
	}
	if f == nil {
		return nil, fmt.Errorf("nil filter: %w", imagelab.ErrInvalidMethod)
	}
	mask, err := f.Mask(s.W, s.H)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name(), err)
	}
	out := s.Clone()
	for c := range out.C {
		plane := out.C[c]
		if len(plane) != len(mask) {
			return nil, fmt.Errorf("spectrum plane %d has %d cells, want %d: %w",
				c, len(plane), len(mask), imagelab.ErrDimensionMismatch)
		}
		for i, keep := range mask {
			if !keep {
				plane[i] = 0
			}
		}
	}
	return out, nil
}

type Options struct {
	Algorithm Algorithm
	// Cutoff for lowpass and highpass.
	Radius float64
	// Band limits for bandpass and bandreject.
	Inner, Outer float64
	// Disk layout for the narrow band filters.
	CircleCount    int
	CircleRadius   float64
	CircleDistance float64
}

func DefaultOptions() Options {
	return Options{
		Algorithm:      AlgorithmDFT,
		Radius:         30,
		Inner:          10,
		Outer:          40,
		CircleCount:    4,
		CircleRadius:   5,
		CircleDistance: 30,
	}
}

// ParseFilter maps an external filter name to its variant.
func ParseFilter(name string, opt Options) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lowpass":
		return LowPass{Radius: opt.Radius}, nil
	case "highpass":
		return HighPass{Radius: opt.Radius}, nil
	case "bandpass":
		return BandPass{Inner: opt.Inner, Outer: opt.Outer}, nil
	case "bandreject":
		return BandReject{Inner: opt.Inner, Outer: opt.Outer}, nil
	case "narrowpass":
		return NarrowBandPass{Count: opt.CircleCount, Radius: opt.CircleRadius, Distance: opt.CircleDistance}, nil
	case "narrowreject":
		return NarrowBandReject{Count: opt.CircleCount, Radius: opt.CircleRadius, Distance: opt.CircleDistance}, nil
	}
	return nil, fmt.Errorf("frequency filter %q: %w", name, imagelab.ErrInvalidMethod)
}
