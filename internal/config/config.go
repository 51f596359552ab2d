// Package config holds the command line tool settings, loaded from a TOML
// file on top of built-in defaults.
package config

import (
	"os"
	"runtime"

	"github.com/pelletier/go-toml"

	"github.com/setanarut/imagelab/binarize"
	"github.com/setanarut/imagelab/convolve"
	"github.com/setanarut/imagelab/fourier"
)

type config struct {
	Main     configMain     `toml:"main"`
	Binarize configBinarize `toml:"binarize"`
	Filter   configFilter   `toml:"filter"`
	Fourier  configFourier  `toml:"fourier"`
	Batch    configBatch    `toml:"batch"`
}

type configMain struct {
	LogLevel string `toml:"log_level"`
	DevMode  bool   `toml:"dev_mode"`
}

type configBinarize struct {
	Method        string  `toml:"method"`
	Window        int     `toml:"window"`
	Sensitivity   float64 `toml:"sensitivity"`
	SauvolaR      float64 `toml:"sauvola_r"`
	WolfA         float64 `toml:"wolf_a"`
	KMeansSamples int     `toml:"kmeans_samples"`
}

type configFilter struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Sigma  float64 `toml:"sigma"`
}

type configFourier struct {
	Algorithm      string  `toml:"algorithm"`
	Radius         float64 `toml:"radius"`
	Inner          float64 `toml:"inner"`
	Outer          float64 `toml:"outer"`
	CircleCount    int     `toml:"circle_count"`
	CircleRadius   float64 `toml:"circle_radius"`
	CircleDistance float64 `toml:"circle_distance"`
}

type configBatch struct {
	Workers   int    `toml:"workers"`
	OutputDir string `toml:"output_dir"`
}

func defaults() config {
	b := binarize.DefaultOptions()
	f := convolve.DefaultOptions()
	ft := fourier.DefaultOptions()
	return config{
		Main: configMain{
			LogLevel: "info",
		},
		Binarize: configBinarize{
			Method:        binarize.NameOtsu,
			Window:        b.Window,
			Sensitivity:   b.Sensitivity,
			SauvolaR:      b.SauvolaR,
			WolfA:         b.WolfA,
			KMeansSamples: b.KMeansSamples,
		},
		Filter: configFilter{
			Width:  f.Width,
			Height: f.Height,
			Sigma:  f.Sigma,
		},
		Fourier: configFourier{
			Algorithm:      ft.Algorithm.String(),
			Radius:         ft.Radius,
			Inner:          ft.Inner,
			Outer:          ft.Outer,
			CircleCount:    ft.CircleCount,
			CircleRadius:   ft.CircleRadius,
			CircleDistance: ft.CircleDistance,
		},
		Batch: configBatch{
			Workers: runtime.NumCPU(),
		},
	}
}

// Config holds the configuration data from the configuration file
// or flags.
//
// It starts with the engine defaults that a configuration file
// may overwrite.
var Config = defaults()

// Reset restores the defaults.
func Reset() {
	Config = defaults()
}

// LoadConfiguration loads the configuration file. An empty path keeps the
// current values.
func LoadConfiguration(configPath string) error {
	if configPath == "" {
		return nil
	}

	fd, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer fd.Close()

	dec := toml.NewDecoder(fd)
	if err := dec.Decode(&Config); err != nil {
		return err
	}

	return nil
}

// WriteConfig writes the current configuration to a file.
func WriteConfig(filename string) error {
	fd, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	enc := toml.NewEncoder(fd).
		Indentation("  ").
		Order(toml.OrderPreserve)

	if err = enc.Encode(Config); err != nil {
		defer fd.Close()
		return err
	}

	return fd.Close()
}

// BinarizeOptions returns the [binarize] section as engine options.
func (c config) BinarizeOptions() binarize.Options {
	return binarize.Options{
		Window:        c.Binarize.Window,
		Sensitivity:   c.Binarize.Sensitivity,
		SauvolaR:      c.Binarize.SauvolaR,
		WolfA:         c.Binarize.WolfA,
		KMeansSamples: c.Binarize.KMeansSamples,
	}
}

// FilterOptions returns the [filter] section as engine options.
func (c config) FilterOptions() convolve.Options {
	return convolve.Options{
		Width:  c.Filter.Width,
		Height: c.Filter.Height,
		Sigma:  c.Filter.Sigma,
	}
}

// FourierOptions returns the [fourier] section as engine options.
func (c config) FourierOptions() (fourier.Options, error) {
	alg, err := fourier.ParseAlgorithm(c.Fourier.Algorithm)
	if err != nil {
		return fourier.Options{}, err
	}
	return fourier.Options{
		Algorithm:      alg,
		Radius:         c.Fourier.Radius,
		Inner:          c.Fourier.Inner,
		Outer:          c.Fourier.Outer,
		CircleCount:    c.Fourier.CircleCount,
		CircleRadius:   c.Fourier.CircleRadius,
		CircleDistance: c.Fourier.CircleDistance,
	}, nil
}
