package binarize

import (
	"fmt"
	"strings"

	"github.com/setanarut/imagelab"
)

// Method is one of the closed set of thresholding strategies. Each variant
// carries its own parameters.
type Method interface {
	// Name returns the canonical method name accepted by ParseMethod.
	Name() string
	apply(g *grayImage, out []uint8) error
}

// Canonical method names.
const (
	NameGlobalMean  = "global-mean"
	NameOtsu        = "otsu"
	NameNiblack     = "niblack"
	NameSauvola     = "sauvola"
	NameBradleyRoth = "bradley-roth"
	NameWolf        = "wolf"
	NameKMeans      = "kmeans"
)

// Names lists every name accepted by ParseMethod.
var Names = []string{
	NameGlobalMean,
	NameOtsu,
	NameNiblack,
	NameSauvola,
	NameBradleyRoth,
	NameWolf,
	NameKMeans,
}

type Options struct {
	// Side of the square sliding window used by the local methods.
	Window int
	// k for Niblack, Sauvola and Bradley-Roth.
	Sensitivity float64
	// Dynamic range of the standard deviation in Sauvola's formula.
	SauvolaR float64
	// Weight a in Wolf's formula.
	WolfA float64
	// Upper bound of gray samples fed to k-means.
	KMeansSamples int
}

func DefaultOptions() Options {
	return Options{
		Window:        15,
		Sensitivity:   -0.2,
		SauvolaR:      128,
		WolfA:         0.5,
		KMeansSamples: 12000,
	}
}

// GlobalMean thresholds every pixel against the image mean.
type GlobalMean struct{}

// Otsu thresholds at the level maximizing inter-class variance.
type Otsu struct{}

// Niblack thresholds at μ + K·σ over a Window x Window neighbourhood.
type Niblack struct {
	Window int
	K      float64
}

// Sauvola thresholds at μ·(1 + K·(σ/R − 1)).
type Sauvola struct {
	Window int
	K      float64
	R      float64
}

// BradleyRoth marks a pixel as foreground when it is darker than the
// windowed mean scaled by (1−K). Means come from a summed-area table.
type BradleyRoth struct {
	Window int
	K      float64
}

// Wolf uses the global minimum and the largest windowed σ to
// normalize Sauvola's contrast term.
type Wolf struct {
	Window int
	A      float64
}

// KMeans clusters gray levels in two groups and thresholds halfway
// between the cluster centers.
type KMeans struct {
	Samples int
}

func (GlobalMean) Name() string  { return NameGlobalMean }
func (Otsu) Name() string        { return NameOtsu }
func (Niblack) Name() string     { return NameNiblack }
func (Sauvola) Name() string     { return NameSauvola }
func (BradleyRoth) Name() string { return NameBradleyRoth }
func (Wolf) Name() string        { return NameWolf }
func (KMeans) Name() string      { return NameKMeans }

// ParseMethod maps an external method name to its variant, filled from opt.
func ParseMethod(name string, opt Options) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameGlobalMean:
		return GlobalMean{}, nil
	case NameOtsu:
		return Otsu{}, nil
	case NameNiblack:
		return Niblack{Window: opt.Window, K: opt.Sensitivity}, nil
	case NameSauvola:
		return Sauvola{Window: opt.Window, K: opt.Sensitivity, R: opt.SauvolaR}, nil
	case NameBradleyRoth:
		return BradleyRoth{Window: opt.Window, K: opt.Sensitivity}, nil
	case NameWolf:
		return Wolf{Window: opt.Window, A: opt.WolfA}, nil
	case NameKMeans:
		return KMeans{Samples: opt.KMeansSamples}, nil
	}
	return nil, fmt.Errorf("binarization method %q: %w", name, imagelab.ErrInvalidMethod)
}

func checkWindow(window int) error {
	if window <= 0 {
		return fmt.Errorf("window size %d: %w", window, imagelab.ErrInvalidParameter)
	}
	return nil
}
