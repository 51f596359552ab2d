package app

import (
	"github.com/spf13/cobra"

	"github.com/setanarut/imagelab/binarize"
	"github.com/setanarut/imagelab/internal/config"
	"github.com/setanarut/imagelab/utils"
)

var binarizeFlags struct {
	method      string
	window      int
	sensitivity float64
	output      string
}

var binarizeCmd = &cobra.Command{
	Use:   "binarize [flags] FILE...",
	Short: "Convert images to black and white",
	Long: "Convert images to black and white. Methods: global-mean, otsu, niblack, " +
		"sauvola, bradley-roth, wolf, kmeans.",
	Args: cobra.MinimumNArgs(1),
	RunE: runBinarize,
}

func init() {
	rootCmd.AddCommand(binarizeCmd)
	f := binarizeCmd.Flags()
	f.StringVarP(&binarizeFlags.method, "method", "m", "", "Thresholding method")
	f.IntVarP(&binarizeFlags.window, "window", "w", 0, "Window size of the local methods")
	f.Float64VarP(&binarizeFlags.sensitivity, "sensitivity", "k", 0, "Sensitivity k")
	f.StringVarP(&binarizeFlags.output, "output", "o", "", "Output directory")
}

func runBinarize(cmd *cobra.Command, args []string) error {
	name := config.Config.Binarize.Method
	opt := config.Config.BinarizeOptions()
	if cmd.Flags().Changed("method") {
		name = binarizeFlags.method
	}
	if cmd.Flags().Changed("window") {
		opt.Window = binarizeFlags.window
	}
	if cmd.Flags().Changed("sensitivity") {
		opt.Sensitivity = binarizeFlags.sensitivity
	}
	m, err := binarize.ParseMethod(name, opt)
	if err != nil {
		return err
	}

	outDir := outputDir(cmd, binarizeFlags.output)
	return runBatch(config.Config.Batch.Workers, args, func(input string) (string, error) {
		img, err := utils.ReadImage(input)
		if err != nil {
			return "", err
		}
		bw, err := binarize.Binarize(img, m)
		if err != nil {
			return "", err
		}
		output := utils.OutputPath(input, outDir, m.Name())
		return output, utils.SaveImage(bw, output)
	})
}

// outputDir returns the flag value when set, else the [batch] setting.
func outputDir(cmd *cobra.Command, flag string) string {
	if cmd.Flags().Changed("output") {
		return flag
	}
	return config.Config.Batch.OutputDir
}
