package app

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/setanarut/imagelab"
	"github.com/setanarut/imagelab/fourier"
	"github.com/setanarut/imagelab/internal/config"
	"github.com/setanarut/imagelab/utils"
)

var fourierFlags struct {
	filter    string
	algorithm string
	radius    float64
	inner     float64
	outer     float64
	circles   int
	circleR   float64
	distance  float64
	color     bool
	mask      bool
	maxSize   int
	output    string
}

var fourierCmd = &cobra.Command{
	Use:   "fourier [flags] FILE",
	Short: "Render the spectrum of an image or filter it in the frequency domain",
	Long: "Render the spectrum of an image or filter it in the frequency domain. " +
		"Filters: " + strings.Join(fourier.Names, ", ") + ". Without --filter only " +
		"the spectrum is written.",
	Args: cobra.ExactArgs(1),
	RunE: runFourier,
}

func init() {
	rootCmd.AddCommand(fourierCmd)
	f := fourierCmd.Flags()
	f.StringVarP(&fourierFlags.filter, "filter", "f", "", "Frequency filter")
	f.StringVarP(&fourierFlags.algorithm, "algorithm", "a", "", "Transform: dft or fft")
	f.Float64VarP(&fourierFlags.radius, "radius", "r", 0, "Lowpass/highpass cutoff radius")
	f.Float64Var(&fourierFlags.inner, "inner", 0, "Band inner radius")
	f.Float64Var(&fourierFlags.outer, "outer", 0, "Band outer radius")
	f.IntVar(&fourierFlags.circles, "circles", 0, "Narrow band disk count")
	f.Float64Var(&fourierFlags.circleR, "circle-radius", 0, "Narrow band disk radius")
	f.Float64Var(&fourierFlags.distance, "distance", 0, "Narrow band disk distance from the center")
	f.BoolVar(&fourierFlags.color, "color", false, "Render spectra in false colour")
	f.BoolVar(&fourierFlags.mask, "mask", false, "Also write the filter mask")
	f.IntVar(&fourierFlags.maxSize, "max-size", 0, "Downscale the input to fit this size first")
	f.StringVarP(&fourierFlags.output, "output", "o", "", "Output directory")
}

func fourierOptions(cmd *cobra.Command) (fourier.Options, error) {
	opt, err := config.Config.FourierOptions()
	if err != nil {
		return opt, err
	}
	fl := cmd.Flags()
	if fl.Changed("algorithm") {
		if opt.Algorithm, err = fourier.ParseAlgorithm(fourierFlags.algorithm); err != nil {
			return opt, err
		}
	}
	if fl.Changed("radius") {
		opt.Radius = fourierFlags.radius
	}
	if fl.Changed("inner") {
		opt.Inner = fourierFlags.inner
	}
	if fl.Changed("outer") {
		opt.Outer = fourierFlags.outer
	}
	if fl.Changed("circles") {
		opt.CircleCount = fourierFlags.circles
	}
	if fl.Changed("circle-radius") {
		opt.CircleRadius = fourierFlags.circleR
	}
	if fl.Changed("distance") {
		opt.CircleDistance = fourierFlags.distance
	}
	return opt, nil
}

func runFourier(cmd *cobra.Command, args []string) error {
	opt, err := fourierOptions(cmd)
	if err != nil {
		return err
	}
	var filter fourier.Filter
	if fourierFlags.filter != "" {
		if filter, err = fourier.ParseFilter(fourierFlags.filter, opt); err != nil {
			return err
		}
	}

	input := args[0]
	img, err := utils.ReadImage(input)
	if err != nil {
		return err
	}
	if fourierFlags.maxSize > 0 {
		if img, err = imagelab.Fit(img, fourierFlags.maxSize, fourierFlags.maxSize); err != nil {
			return err
		}
	}

	render := fourier.VisualizeSpectrum
	if fourierFlags.color {
		render = fourier.VisualizeSpectrumColor
	}
	outDir := outputDir(cmd, fourierFlags.output)
	save := func(b *imagelab.PixelBuffer, suffix string) error {
		output := utils.OutputPath(input, outDir, suffix)
		if err := utils.SaveImage(b, output); err != nil {
			return err
		}
		log.WithField("output", output).Info("saved")
		return nil
	}

	e := fourier.NewEngine(opt.Algorithm)
	if err := e.Compute(img); err != nil {
		return err
	}
	s, err := e.Spectrum()
	if err != nil {
		return err
	}
	spectrum, err := render(s)
	if err != nil {
		return err
	}
	if err := save(spectrum, "spectrum"); err != nil {
		return err
	}
	if filter == nil {
		return nil
	}

	filtered, out, err := e.Filter(filter)
	if err != nil {
		return err
	}
	if spectrum, err = render(filtered); err != nil {
		return err
	}
	if err := save(spectrum, filter.Name()+"_spectrum"); err != nil {
		return err
	}
	if fourierFlags.mask {
		mask, err := fourier.RenderMask(img.W, img.H, filter)
		if err != nil {
			return err
		}
		if err := save(mask, filter.Name()+"_mask"); err != nil {
			return err
		}
	}
	return save(out, filter.Name())
}
