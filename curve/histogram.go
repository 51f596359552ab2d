package curve

import (
	"gonum.org/v1/gonum/stat"

	"github.com/setanarut/imagelab"
)

// Histogram counts pixels per brightness level.
type Histogram [256]int

// CalculateHistogram bins every pixel of img by (R+G+B)/3, rounded down.
func CalculateHistogram(img *imagelab.PixelBuffer) (Histogram, error) {
	var h Histogram
	if err := img.Validate(); err != nil {
		return h, err
	}
	if img.Format == imagelab.Gray8 {
		for _, v := range img.Pix {
			h[v]++
		}
		return h, nil
	}
	for i := 0; i < len(img.Pix); i += 4 {
		h[(int(img.Pix[i])+int(img.Pix[i+1])+int(img.Pix[i+2]))/3]++
	}
	return h, nil
}

// Total returns the number of counted pixels.
func (h *Histogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// Mean returns the average brightness, 0 for an empty histogram.
func (h *Histogram) Mean() float64 {
	if h.Total() == 0 {
		return 0
	}
	levels := make([]float64, len(h))
	weights := make([]float64, len(h))
	for i, c := range h {
		levels[i] = float64(i)
		weights[i] = float64(c)
	}
	return stat.Mean(levels, weights)
}

// Peak returns the most populated level and its count. Ties keep the
// darker level.
func (h *Histogram) Peak() (level uint8, count int) {
	for i, c := range h {
		if c > count {
			level, count = uint8(i), c
		}
	}
	return level, count
}

// Buckets sums the histogram into n equally wide buckets. n must divide 256.
func (h *Histogram) Buckets(n int) []int {
	if n <= 0 || 256%n != 0 {
		return nil
	}
	width := 256 / n
	out := make([]int, n)
	for i, c := range h {
		out[i/width] += c
	}
	return out
}
