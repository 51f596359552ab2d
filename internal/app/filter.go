package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/setanarut/imagelab/convolve"
	"github.com/setanarut/imagelab/internal/config"
	"github.com/setanarut/imagelab/utils"
)

var filterFlags struct {
	kind   string
	width  int
	height int
	sigma  float64
	kernel string
	output string
}

var filterCmd = &cobra.Command{
	Use:   "filter [flags] FILE...",
	Short: "Apply a spatial filter",
	Long: "Apply a box, gaussian, median or custom kernel filter. A custom kernel is " +
		"read from a text file, one row per line.",
	Args: cobra.MinimumNArgs(1),
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)
	f := filterCmd.Flags()
	f.StringVarP(&filterFlags.kind, "type", "t", "gaussian", "Filter type: box, gaussian, median, custom")
	f.IntVar(&filterFlags.width, "width", 0, "Kernel width (odd)")
	f.IntVar(&filterFlags.height, "height", 0, "Kernel height (odd)")
	f.Float64VarP(&filterFlags.sigma, "sigma", "s", 0, "Gaussian sigma")
	f.StringVarP(&filterFlags.kernel, "kernel", "k", "", "Custom kernel file")
	f.StringVarP(&filterFlags.output, "output", "o", "", "Output directory")
}

func runFilter(cmd *cobra.Command, args []string) error {
	opt := config.Config.FilterOptions()
	if cmd.Flags().Changed("width") {
		opt.Width = filterFlags.width
	}
	if cmd.Flags().Changed("height") {
		opt.Height = filterFlags.height
	}
	if cmd.Flags().Changed("sigma") {
		opt.Sigma = filterFlags.sigma
	}
	if filterFlags.kernel != "" {
		text, err := os.ReadFile(filterFlags.kernel)
		if err != nil {
			return err
		}
		if opt.Kernel, err = convolve.ParseKernel(string(text)); err != nil {
			return err
		}
	}
	filter, err := convolve.ParseFilter(filterFlags.kind, opt)
	if err != nil {
		return err
	}

	outDir := outputDir(cmd, filterFlags.output)
	return runBatch(config.Config.Batch.Workers, args, func(input string) (string, error) {
		img, err := utils.ReadImage(input)
		if err != nil {
			return "", err
		}
		out, err := filter.Apply(img)
		if err != nil {
			return "", err
		}
		output := utils.OutputPath(input, outDir, filter.Name())
		return output, utils.SaveImage(out, output)
	})
}
