package app

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/setanarut/imagelab/utils"
)

var paletteFlags struct {
	colors   int
	method   string
	tile     int
	output   string
	quantize string
}

var paletteCmd = &cobra.Command{
	Use:   "palette [flags] FILE",
	Short: "Extract a color palette",
	Args:  cobra.ExactArgs(1),
	RunE:  runPalette,
}

func init() {
	rootCmd.AddCommand(paletteCmd)
	f := paletteCmd.Flags()
	f.IntVarP(&paletteFlags.colors, "colors", "k", 7, "Number of colors")
	f.StringVarP(&paletteFlags.method, "method", "m", "dominantcolor", "dominantcolor or kmeans")
	f.IntVar(&paletteFlags.tile, "tile", 64, "Swatch tile size")
	f.StringVarP(&paletteFlags.output, "output", "o", "", "Write the swatch to this file")
	f.StringVarP(&paletteFlags.quantize, "quantize", "q", "", "Write the image reduced to the palette to this file")
}

func runPalette(cmd *cobra.Command, args []string) error {
	method, err := utils.ParsePaletteMethod(paletteFlags.method)
	if err != nil {
		return err
	}
	img, err := utils.ReadImage(args[0])
	if err != nil {
		return err
	}
	palette, err := utils.ExtractPalette(img, paletteFlags.colors, method)
	if err != nil {
		return err
	}
	utils.SortPaletteByBrightness(palette)

	w := cmd.OutOrStdout()
	for _, c := range palette {
		r, g, b := c.RGB255()
		color.RGB(int(r), int(g), int(b)).Fprint(w, "██")
		fmt.Fprintf(w, " %s\n", c.Hex())
	}

	if paletteFlags.output != "" {
		if err := utils.SavePalette(palette, paletteFlags.tile, paletteFlags.output); err != nil {
			return err
		}
	}
	if paletteFlags.quantize != "" {
		q, err := utils.Quantize(img, palette)
		if err != nil {
			return err
		}
		return utils.SaveImage(q, paletteFlags.quantize)
	}
	return nil
}
