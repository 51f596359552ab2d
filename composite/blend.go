// Package composite blends pixel buffers and flattens layer stacks.
package composite

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/setanarut/imagelab"
)

// ApplyChannelMask returns a BGRA copy of img with every disabled color
// channel set to 0. Alpha is kept.
func ApplyChannelMask(img *imagelab.PixelBuffer, keepR, keepG, keepB bool) (*imagelab.PixelBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	out := img.ToBGRA()
	if keepR && keepG && keepB {
		return out, nil
	}
	for i := 0; i < len(out.Pix); i += 4 {
		if !keepB {
			out.Pix[i] = 0
		}
		if !keepG {
			out.Pix[i+1] = 0
		}
		if !keepR {
			out.Pix[i+2] = 0
		}
	}
	return out, nil
}

// ApplyBlend composites overlay over base. The overlay is first scaled to
// the size of base with nearest neighbor sampling. With applyOpacity the
// overlay alpha is multiplied by opacity.
//
// Each color channel becomes S·a + base·(1−a), a = overlay alpha/255, with S
// chosen by mode. Normal accumulates alpha as oA + bA·(1−a); the other
// modes use min(oA+bA, 255).
func ApplyBlend(base, overlay *imagelab.PixelBuffer, mode Mode, opacity float64, applyOpacity bool) (*imagelab.PixelBuffer, error) {
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}
	if err := overlay.Validate(); err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}
	if math.IsNaN(opacity) || opacity < 0 || opacity > 1 {
		return nil, fmt.Errorf("opacity %v: %w", opacity, imagelab.ErrInvalidParameter)
	}
	if mode < Normal || mode > Min {
		return nil, fmt.Errorf("blend %v: %w", mode, imagelab.ErrInvalidMethod)
	}

	ov, err := imagelab.Reconcile(base, overlay.ToBGRA(), imagelab.NearestNeighbor)
	if err != nil {
		return nil, err
	}
	out := base.ToBGRA()
	scale := 1.0
	if applyOpacity {
		scale = opacity
	}

	w := out.W
	parallel.Line(out.H, func(start, end int) {
		for i := start * w * 4; i < end*w*4; i += 4 {
			oA := float64(ov.Pix[i+3]) * scale
			a := oA / 255
			for c := range 3 {
				b := float64(out.Pix[i+c])
				o := float64(ov.Pix[i+c])
				out.Pix[i+c] = imagelab.ClampByte(mode.source(b, o)*a + b*(1-a))
			}
			bA := float64(out.Pix[i+3])
			if mode == Normal {
				out.Pix[i+3] = imagelab.ClampByte(oA + bA*(1-a))
			} else {
				out.Pix[i+3] = imagelab.ClampByte(min(oA+bA, 255))
			}
		}
	})
	return out, nil
}
