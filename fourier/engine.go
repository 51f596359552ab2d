package fourier

import (
	"fmt"

	"github.com/setanarut/imagelab"
)

// State of an Engine.
type State int

const (
	Uncomputed State = iota
	Computed
)

func (s State) String() string {
	if s == Computed {
		return "computed"
	}
	return "uncomputed"
}

// Engine keeps the forward transform of one image so that several filters
// can be tried against it. It is not safe for concurrent use.
type Engine struct {
	alg      Algorithm
	spectrum *Spectrum
}

func NewEngine(alg Algorithm) *Engine {
	return &Engine{alg: alg}
}

func (e *Engine) State() State {
	if e.spectrum == nil {
		return Uncomputed
	}
	return Computed
}

// Compute replaces the held spectrum with the transform of img. On error
// the engine state is unchanged.
func (e *Engine) Compute(img *imagelab.PixelBuffer) error {
	s, err := ComputeDFT(img, e.alg)
	if err != nil {
		return err
	}
	e.spectrum = s
	return nil
}

// Reset drops the held spectrum.
func (e *Engine) Reset() {
	e.spectrum = nil
}

func (e *Engine) ready() error {
	if e.spectrum == nil {
		return fmt.Errorf("engine %v: %w", e.State(), imagelab.ErrTransformNotReady)
	}
	return nil
}

// Spectrum returns a copy of the held spectrum.
func (e *Engine) Spectrum() (*Spectrum, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	return e.spectrum.Clone(), nil
}

// Filter applies f to a copy of the held spectrum and returns the filtered
// spectrum together with its reconstruction.
func (e *Engine) Filter(f Filter) (*Spectrum, *imagelab.PixelBuffer, error) {
	if err := e.ready(); err != nil {
		return nil, nil, err
	}
	s, err := ApplyFilter(e.spectrum, f)
	if err != nil {
		return nil, nil, err
	}
	img, err := ComputeInverseDFT(s, e.alg)
	if err != nil {
		return nil, nil, err
	}
	return s, img, nil
}

// Inverse reconstructs the image from the unfiltered spectrum.
func (e *Engine) Inverse() (*imagelab.PixelBuffer, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	return ComputeInverseDFT(e.spectrum, e.alg)
}

// Visualize renders the held spectrum, see VisualizeSpectrum.
func (e *Engine) Visualize() (*imagelab.PixelBuffer, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	return VisualizeSpectrum(e.spectrum)
}
