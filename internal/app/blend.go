package app

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/setanarut/imagelab"
	"github.com/setanarut/imagelab/composite"
	"github.com/setanarut/imagelab/fourier"
	"github.com/setanarut/imagelab/utils"
)

var blendFlags struct {
	modes        []string
	opacities    []float64
	transparency bool
	channels     string
	tint         string
	vignette     int
	output       string
}

var blendCmd = &cobra.Command{
	Use:   "blend [flags] BASE OVERLAY...",
	Short: "Flatten a stack of layers",
	Long: "Flatten a stack of layers. --mode and --opacity take one value per overlay; " +
		"the last value repeats. Modes: normal, add, multiply, average, max, min.",
	Args: cobra.MinimumNArgs(1),
	RunE: runBlend,
}

func init() {
	rootCmd.AddCommand(blendCmd)
	bindBlendFlags(blendCmd.Flags())
}

// bindBlendFlags registers the blend flags on f, resetting every target to
// its default.
func bindBlendFlags(f *pflag.FlagSet) {
	f.StringSliceVarP(&blendFlags.modes, "mode", "m", []string{"normal"}, "Blend mode per overlay")
	f.Float64SliceVar(&blendFlags.opacities, "opacity", []float64{1}, "Opacity per overlay, 0..1")
	f.BoolVar(&blendFlags.transparency, "transparency", true, "Apply the overlay opacity")
	f.StringVar(&blendFlags.channels, "channels", "rgb", "Color channels kept from the overlays")
	f.StringVar(&blendFlags.tint, "tint", "", "Multiply the result with this color, e.g. #ffcc88")
	f.IntVar(&blendFlags.vignette, "vignette", -1, "Keep only a centered disk of this radius")
	f.StringVarP(&blendFlags.output, "output", "o", "blend.png", "Output file")
}

func pick[T any](values []T, i int, fallback T) T {
	if len(values) == 0 {
		return fallback
	}
	return values[min(i, len(values)-1)]
}

func parseChannels(s string) (r, g, b bool, err error) {
	for _, c := range s {
		switch c {
		case 'r', 'R':
			r = true
		case 'g', 'G':
			g = true
		case 'b', 'B':
			b = true
		default:
			return false, false, false, fmt.Errorf("unknown channel %q", c)
		}
	}
	return r, g, b, nil
}

func runBlend(_ *cobra.Command, args []string) error {
	base, err := utils.ReadImage(args[0])
	if err != nil {
		return err
	}
	keepR, keepG, keepB, err := parseChannels(blendFlags.channels)
	if err != nil {
		return err
	}

	layers := []composite.Layer{composite.NewLayer(base)}
	for i, path := range args[1:] {
		img, err := utils.ReadImage(path)
		if err != nil {
			return err
		}
		mode, err := composite.ParseMode(pick(blendFlags.modes, i, "normal"))
		if err != nil {
			return err
		}
		l := composite.NewLayer(img)
		l.Mode = mode
		l.Opacity = pick(blendFlags.opacities, i, 1)
		l.Transparency = blendFlags.transparency
		l.Red, l.Green, l.Blue = keepR, keepG, keepB
		layers = append(layers, l)
	}

	if blendFlags.tint != "" {
		c, err := colorful.Hex(blendFlags.tint)
		if err != nil {
			return fmt.Errorf("tint: %w", err)
		}
		fill, err := composite.Fill(base.W, base.H, c, 255)
		if err != nil {
			return err
		}
		l := composite.NewLayer(fill)
		l.Mode = composite.Multiply
		layers = append(layers, l)
	}
	if blendFlags.vignette >= 0 {
		matte, err := vignetteMatte(base.W, base.H, blendFlags.vignette)
		if err != nil {
			return err
		}
		l := composite.NewLayer(matte)
		l.Mode = composite.Multiply
		layers = append(layers, l)
	}

	out, err := composite.Flatten(layers)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"layers": len(layers), "output": blendFlags.output}).Info("flattened")
	return utils.SaveImage(out, blendFlags.output)
}

// vignetteMatte is an opaque white disk on black.
func vignetteMatte(w, h, radius int) (*imagelab.PixelBuffer, error) {
	disk, err := fourier.CircleMask(w, h, radius)
	if err != nil {
		return nil, err
	}
	black, err := composite.Fill(w, h, colorful.Color{}, 255)
	if err != nil {
		return nil, err
	}
	return composite.Flatten([]composite.Layer{composite.NewLayer(black), composite.NewLayer(disk)})
}
