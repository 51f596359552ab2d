package composite

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"

	"github.com/setanarut/imagelab"
)

// Layer is one entry of a layer stack.
type Layer struct {
	Image   *imagelab.PixelBuffer
	Mode    Mode
	Opacity float64
	// Transparency enables Opacity. The first layer is blended onto the
	// transparent canvas instead of copied when it is set.
	Transparency bool
	// Enabled color channels.
	Red, Green, Blue bool
}

// NewLayer returns an opaque Normal layer with all channels enabled.
func NewLayer(img *imagelab.PixelBuffer) Layer {
	return Layer{
		Image:   img,
		Mode:    Normal,
		Opacity: 1,
		Red:     true,
		Green:   true,
		Blue:    true,
	}
}

// Flatten composes layers bottom to top onto a transparent canvas the size
// of the first layer. Layers without an image are skipped.
func Flatten(layers []Layer) (*imagelab.PixelBuffer, error) {
	if len(layers) == 0 || layers[0].Image == nil {
		return nil, fmt.Errorf("flatten: no base layer: %w", imagelab.ErrInvalidParameter)
	}
	result, err := imagelab.New(layers[0].Image.W, layers[0].Image.H, imagelab.BGRA32)
	if err != nil {
		return nil, err
	}
	for i, l := range layers {
		if l.Image == nil {
			continue
		}
		overlay, err := ApplyChannelMask(l.Image, l.Red, l.Green, l.Blue)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if i == 0 && !l.Transparency {
			result = overlay
			continue
		}
		result, err = ApplyBlend(result, overlay, l.Mode, l.Opacity, l.Transparency)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		log.WithFields(log.Fields{"layer": i, "mode": l.Mode, "opacity": l.Opacity}).Debug("blended layer")
	}
	return result, nil
}

// Fill returns a w x h BGRA buffer of a single color with the given alpha.
// Blended in Multiply mode it tints the layers below.
func Fill(w, h int, c colorful.Color, alpha uint8) (*imagelab.PixelBuffer, error) {
	out, err := imagelab.New(w, h, imagelab.BGRA32)
	if err != nil {
		return nil, err
	}
	r, g, b := c.Clamped().RGB255()
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = b, g, r, alpha
	}
	return out, nil
}
