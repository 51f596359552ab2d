package binarize

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// integral holds summed-area tables of the gray values and of their
// squares, (w+1)*(h+1) entries with a zero first row and column.
type integral struct {
	w, h  int
	sum   []int64
	sumSq []int64
}

func newIntegral(g *grayImage) *integral {
	w, h := g.w, g.h
	stride := w + 1
	in := &integral{
		w:     w,
		h:     h,
		sum:   make([]int64, stride*(h+1)),
		sumSq: make([]int64, stride*(h+1)),
	}
	for y := 1; y <= h; y++ {
		var rowSum, rowSq int64
		for x := 1; x <= w; x++ {
			v := int64(g.pix[(y-1)*w+(x-1)])
			rowSum += v
			rowSq += v * v
			in.sum[y*stride+x] = in.sum[(y-1)*stride+x] + rowSum
			in.sumSq[y*stride+x] = in.sumSq[(y-1)*stride+x] + rowSq
		}
	}
	return in
}

// window returns the inclusive window of half-extent half around (x, y)
// clamped to the image. Edge windows are smaller.
func (in *integral) window(x, y, half int) (x0, y0, x1, y1 int) {
	x0 = max(0, x-half)
	y0 = max(0, y-half)
	x1 = min(in.w-1, x+half)
	y1 = min(in.h-1, y+half)
	return
}

func rect(t []int64, stride, x0, y0, x1, y1 int) int64 {
	return t[(y1+1)*stride+x1+1] - t[y0*stride+x1+1] - t[(y1+1)*stride+x0] + t[y0*stride+x0]
}

// sumAt returns the windowed sum and pixel count.
func (in *integral) sumAt(x, y, half int) (sum int64, count int) {
	x0, y0, x1, y1 := in.window(x, y, half)
	return rect(in.sum, in.w+1, x0, y0, x1, y1), (x1 - x0 + 1) * (y1 - y0 + 1)
}

// stats returns the windowed mean and standard deviation.
func (in *integral) stats(x, y, half int) (mean, stdDev float64) {
	x0, y0, x1, y1 := in.window(x, y, half)
	stride := in.w + 1
	n := float64((x1 - x0 + 1) * (y1 - y0 + 1))
	mean = float64(rect(in.sum, stride, x0, y0, x1, y1)) / n
	variance := float64(rect(in.sumSq, stride, x0, y0, x1, y1))/n - mean*mean
	return mean, math.Sqrt(max(0, variance))
}

// localThreshold thresholds every pixel against fn(mean, stdDev) of its
// window, one band of rows per goroutine.
func localThreshold(g *grayImage, in *integral, half int, out []uint8, fn func(mean, stdDev float64) float64) {
	w := g.w
	parallel.Line(g.h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := range w {
				t := fn(in.stats(x, y, half))
				i := y*w + x
				if float64(g.pix[i]) <= t {
					out[i] = 0
				} else {
					out[i] = 255
				}
			}
		}
	})
}

func (m Niblack) apply(g *grayImage, out []uint8) error {
	if err := checkWindow(m.Window); err != nil {
		return err
	}
	localThreshold(g, newIntegral(g), m.Window/2, out, func(mean, stdDev float64) float64 {
		return mean + m.K*stdDev
	})
	return nil
}

func (m Sauvola) apply(g *grayImage, out []uint8) error {
	if err := checkWindow(m.Window); err != nil {
		return err
	}
	r := m.R
	if r <= 0 {
		r = 128
	}
	localThreshold(g, newIntegral(g), m.Window/2, out, func(mean, stdDev float64) float64 {
		return mean * (1 + m.K*(stdDev/r-1))
	})
	return nil
}

func (m Wolf) apply(g *grayImage, out []uint8) error {
	if err := checkWindow(m.Window); err != nil {
		return err
	}
	in := newIntegral(g)
	half := m.Window / 2
	lo, _ := g.bounds()
	minI := float64(lo)

	// Largest windowed standard deviation over the whole image.
	rowMax := make([]float64, g.h)
	parallel.Line(g.h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := range g.w {
				_, s := in.stats(x, y, half)
				rowMax[y] = max(rowMax[y], s)
			}
		}
	})
	r := 0.0
	for _, v := range rowMax {
		r = max(r, v)
	}

	a := m.A
	localThreshold(g, in, half, out, func(mean, stdDev float64) float64 {
		contrast := 0.0
		if r > 0 {
			contrast = stdDev / r
		}
		return (1-a)*mean + a*minI + a*contrast*(mean-minI)
	})
	return nil
}

func (m BradleyRoth) apply(g *grayImage, out []uint8) error {
	if err := checkWindow(m.Window); err != nil {
		return err
	}
	in := newIntegral(g)
	half := m.Window / 2
	w := g.w
	scale := 1 - m.K
	parallel.Line(g.h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := range w {
				sum, count := in.sumAt(x, y, half)
				i := y*w + x
				if float64(int64(g.pix[i])*int64(count)) < float64(sum)*scale {
					out[i] = 0
				} else {
					out[i] = 255
				}
			}
		}
	})
	return nil
}
