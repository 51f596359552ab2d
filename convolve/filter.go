package convolve

import (
	"fmt"
	"strings"

	"github.com/setanarut/imagelab"
)

// Filter is one of the spatial filter variants.
type Filter interface {
	Name() string
	Apply(img *imagelab.PixelBuffer) (*imagelab.PixelBuffer, error)
}

// Box blurs with a uniform W x H kernel.
type Box struct{ W, H int }

// Gaussian blurs with a normalized sampled Gaussian.
type Gaussian struct {
	W, H  int
	Sigma float64
}

// Custom correlates with a user supplied kernel, used as given.
type Custom struct{ Kernel *Kernel }

// Median applies the W x H median filter.
type Median struct{ W, H int }

func (Box) Name() string      { return "box" }
func (Gaussian) Name() string { return "gaussian" }
func (Custom) Name() string   { return "custom" }
func (Median) Name() string   { return "median" }

func (f Box) Apply(img *imagelab.PixelBuffer) (*imagelab.PixelBuffer, error) {
	k, err := BoxKernel(f.W, f.H)
	if err != nil {
		return nil, err
	}
	return ApplyLinearFilter(img, k)
}

func (f Gaussian) Apply(img *imagelab.PixelBuffer) (*imagelab.PixelBuffer, error) {
	k, err := GaussianKernel(f.W, f.H, f.Sigma)
	if err != nil {
		return nil, err
	}
	return ApplyLinearFilter(img, k)
}

func (f Custom) Apply(img *imagelab.PixelBuffer) (*imagelab.PixelBuffer, error) {
	return ApplyLinearFilter(img, f.Kernel)
}

func (f Median) Apply(img *imagelab.PixelBuffer) (*imagelab.PixelBuffer, error) {
	return ApplyMedianFilter(img, f.W, f.H)
}

type Options struct {
	Width  int
	Height int
	// Gaussian standard deviation.
	Sigma float64
	// Weights for the custom filter.
	Kernel *Kernel
}

func DefaultOptions() Options {
	return Options{
		Width:  3,
		Height: 3,
		Sigma:  1.0,
	}
}

// ParseFilter maps an external filter name to its variant.
func ParseFilter(name string, opt Options) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "box", "blur":
		return Box{W: opt.Width, H: opt.Height}, nil
	case "gaussian", "gauss":
		return Gaussian{W: opt.Width, H: opt.Height, Sigma: opt.Sigma}, nil
	case "median":
		return Median{W: opt.Width, H: opt.Height}, nil
	case "custom":
		if opt.Kernel == nil {
			return nil, fmt.Errorf("custom filter without kernel: %w", imagelab.ErrInvalidParameter)
		}
		return Custom{Kernel: opt.Kernel}, nil
	}
	return nil, fmt.Errorf("filter %q: %w", name, imagelab.ErrInvalidMethod)
}
