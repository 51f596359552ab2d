package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/setanarut/imagelab"
	"github.com/setanarut/imagelab/binarize"
	"github.com/setanarut/imagelab/curve"
	"github.com/setanarut/imagelab/utils"
)

var histogramFlags struct {
	buckets int
	width   int
}

var histogramCmd = &cobra.Command{
	Use:   "histogram [flags] FILE",
	Short: "Print the brightness histogram",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistogram,
}

func init() {
	rootCmd.AddCommand(histogramCmd)
	f := histogramCmd.Flags()
	f.IntVarP(&histogramFlags.buckets, "buckets", "b", 32, "Number of bars, must divide 256")
	f.IntVarP(&histogramFlags.width, "width", "w", 60, "Width of the longest bar")
}

func runHistogram(cmd *cobra.Command, args []string) error {
	if histogramFlags.width < 1 {
		return fmt.Errorf("histogram width %d: %w", histogramFlags.width, imagelab.ErrInvalidParameter)
	}
	img, err := utils.ReadImage(args[0])
	if err != nil {
		return err
	}
	h, err := curve.CalculateHistogram(img)
	if err != nil {
		return err
	}
	gray, err := binarize.Grayscale(img)
	if err != nil {
		return err
	}
	otsu, err := binarize.OtsuThreshold(gray)
	if err != nil {
		return err
	}
	return printHistogram(cmd.OutOrStdout(), &h, histogramFlags.buckets, histogramFlags.width, otsu)
}

func printHistogram(w io.Writer, h *curve.Histogram, buckets, width int, otsu uint8) error {
	bars := h.Buckets(buckets)
	if bars == nil {
		return fmt.Errorf("%d buckets do not divide 256", buckets)
	}
	peak := 0
	for _, v := range bars {
		peak = max(peak, v)
	}
	step := 256 / buckets

	label := color.New(color.FgCyan)
	bar := color.New(color.FgWhite)
	mark := color.New(color.FgYellow, color.Bold)
	for i, v := range bars {
		n := 0
		if peak > 0 {
			n = v * width / peak
		}
		lo := i * step
		label.Fprintf(w, "%3d-%3d ", lo, lo+step-1)
		c := bar
		if int(otsu) >= lo && int(otsu) < lo+step {
			c = mark
		}
		c.Fprint(w, strings.Repeat("#", n))
		fmt.Fprintf(w, " %d\n", v)
	}

	level, count := h.Peak()
	fmt.Fprintf(w, "pixels %d  mean %.2f  peak %d (%d)  otsu %d\n", h.Total(), h.Mean(), level, count, otsu)
	return nil
}
