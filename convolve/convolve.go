// Package convolve implements kernel generation, 2D linear filtering with
// max-magnitude normalization and per-channel median filtering.
package convolve

import (
	"fmt"

	"github.com/anthonynsimon/bild/parallel"
	log "github.com/sirupsen/logrus"

	"github.com/setanarut/imagelab"
)

// colorChannels returns the number of leading non-alpha channels.
func colorChannels(f imagelab.Format) int {
	if f == imagelab.Gray8 {
		return 1
	}
	return 3
}

// ApplyLinearFilter correlates img with k over the interior pixels (a
// padX/padY margin is left black), takes the magnitude of every channel
// sum and rescales the whole image so the largest magnitude maps to 255.
// BGRA output is fully opaque.
func ApplyLinearFilter(img *imagelab.PixelBuffer, k *Kernel) (*imagelab.PixelBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if k == nil {
		return nil, fmt.Errorf("nil kernel: %w", imagelab.ErrInvalidParameter)
	}
	kw, kh := k.Size()
	padX, padY := k.Pad()
	weights := k.weights()
	log.WithFields(log.Fields{"kernel": fmt.Sprintf("%dx%d", kw, kh), "sum": k.Sum()}).Debug("linear filter")

	w, h := img.W, img.H
	ch := img.Channels()
	cc := colorChannels(img.Format)
	sums := make([]float64, w*h*cc)
	rowMax := make([]float64, h)

	parallel.Line(h, func(start, end int) {
		acc := make([]float64, cc)
		for y := max(start, padY); y < min(end, h-padY); y++ {
			for x := padX; x < w-padX; x++ {
				clear(acc)
				for ky := range kh {
					row := (y + ky - padY) * w
					for kx := range kw {
						wt := weights[ky*kw+kx]
						idx := (row + x + kx - padX) * ch
						for c := range cc {
							acc[c] += float64(img.Pix[idx+c]) * wt
						}
					}
				}
				pos := (y*w + x) * cc
				for c := range cc {
					v := max(acc[c], -acc[c])
					sums[pos+c] = v
					rowMax[y] = max(rowMax[y], v)
				}
			}
		}
	})

	maxMagnitude := 0.0
	for _, v := range rowMax {
		maxMagnitude = max(maxMagnitude, v)
	}

	out, err := imagelab.New(w, h, img.Format)
	if err != nil {
		return nil, err
	}
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := range w {
				src := (y*w + x) * cc
				dst := (y*w + x) * ch
				for c := range cc {
					if maxMagnitude > 0 {
						out.Pix[dst+c] = imagelab.ClampByte(sums[src+c] / maxMagnitude * 255)
					}
				}
				if ch == 4 {
					out.Pix[dst+3] = 255
				}
			}
		}
	})
	return out, nil
}
