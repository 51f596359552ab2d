package app

import (
	"github.com/spf13/cobra"

	"github.com/setanarut/imagelab/curve"
	"github.com/setanarut/imagelab/utils"
)

var curveFlags struct {
	points string
	output string
}

var curveCmd = &cobra.Command{
	Use:   "curve [flags] FILE",
	Short: "Apply a tone curve",
	Long: `Apply a piecewise linear tone curve to the color channels. Control points
are x:y pairs, e.g. --points "0:0,64:32,192:224,255:255".`,
	Args: cobra.ExactArgs(1),
	RunE: runCurve,
}

func init() {
	rootCmd.AddCommand(curveCmd)
	f := curveCmd.Flags()
	f.StringVarP(&curveFlags.points, "points", "p", "0:0,255:255", "Control points")
	f.StringVarP(&curveFlags.output, "output", "o", "", "Output directory")
}

func runCurve(cmd *cobra.Command, args []string) error {
	points, err := curve.ParsePoints(curveFlags.points)
	if err != nil {
		return err
	}
	lut := curve.CreateCurve(points)

	img, err := utils.ReadImage(args[0])
	if err != nil {
		return err
	}
	out, err := curve.ApplyCurve(img, lut)
	if err != nil {
		return err
	}
	return utils.SaveImage(out, utils.OutputPath(args[0], outputDir(cmd, curveFlags.output), "curve"))
}
