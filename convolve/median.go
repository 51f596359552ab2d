package convolve

import (
	"slices"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/setanarut/imagelab"
)

// ApplyMedianFilter replaces every interior pixel by the per-channel median
// of its kw x kh window, the upper median for even sample counts. Channels
// are sorted independently. The padX/padY margin is left black and BGRA
// output is fully opaque.
func ApplyMedianFilter(img *imagelab.PixelBuffer, kw, kh int) (*imagelab.PixelBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := checkShape(kw, kh); err != nil {
		return nil, err
	}
	w, h := img.W, img.H
	ch := img.Channels()
	cc := colorChannels(img.Format)
	padX, padY := kw/2, kh/2

	out, err := imagelab.New(w, h, img.Format)
	if err != nil {
		return nil, err
	}

	parallel.Line(h, func(start, end int) {
		window := make([][]uint8, cc)
		for c := range window {
			window[c] = make([]uint8, kw*kh)
		}
		for y := start; y < end; y++ {
			for x := range w {
				dst := (y*w + x) * ch
				if ch == 4 {
					out.Pix[dst+3] = 255
				}
				if y < padY || y >= h-padY || x < padX || x >= w-padX {
					continue
				}
				n := 0
				for ky := -padY; ky <= padY; ky++ {
					for kx := -padX; kx <= padX; kx++ {
						idx := ((y+ky)*w + x + kx) * ch
						for c := range cc {
							window[c][n] = img.Pix[idx+c]
						}
						n++
					}
				}
				for c := range cc {
					slices.Sort(window[c][:n])
					out.Pix[dst+c] = window[c][n/2]
				}
			}
		}
	})
	return out, nil
}
