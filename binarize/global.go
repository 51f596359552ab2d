package binarize

import (
	"fmt"
	"math"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/setanarut/imagelab"
)

var levels = func() []float64 {
	l := make([]float64, 256)
	for i := range l {
		l[i] = float64(i)
	}
	return l
}()

func (GlobalMean) apply(g *grayImage, out []uint8) error {
	hist := g.histogram()
	weights := make([]float64, 256)
	for i, n := range hist {
		weights[i] = float64(n)
	}
	t := stat.Mean(levels, weights)
	log.WithFields(log.Fields{"method": NameGlobalMean, "threshold": t}).Debug("binarize")
	thresholdAll(g.pix, t, out)
	return nil
}

func (Otsu) apply(g *grayImage, out []uint8) error {
	t := otsuLevel(g.histogram(), len(g.pix))
	log.WithFields(log.Fields{"method": NameOtsu, "threshold": t}).Debug("binarize")
	thresholdAll(g.pix, float64(t), out)
	return nil
}

// OtsuThreshold returns the level t* chosen by Otsu's method for img.
func OtsuThreshold(img *imagelab.PixelBuffer) (uint8, error) {
	gray, err := Grayscale(img)
	if err != nil {
		return 0, err
	}
	g := &grayImage{w: gray.W, h: gray.H, pix: gray.Pix}
	return otsuLevel(g.histogram(), len(g.pix)), nil
}

// otsuLevel scans every candidate level keeping the first one that
// maximizes wB·wF·(mB−mF)².
func otsuLevel(hist [256]int, total int) uint8 {
	sum := 0.0
	for i, n := range hist {
		sum += float64(i * n)
	}

	sumB := 0.0
	wB := 0
	best := 0.0
	t := uint8(0)
	for i := range 256 {
		wB += hist[i]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(i * hist[i])
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		v := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if v > best {
			best = v
			t = uint8(i)
		}
	}
	return t
}

func (m KMeans) apply(g *grayImage, out []uint8) error {
	samples := m.Samples
	if samples <= 0 {
		return fmt.Errorf("k-means samples %d: %w", samples, imagelab.ErrInvalidParameter)
	}

	// Subsample to keep kmeans tractable on large images.
	step := 1
	if len(g.pix) > samples {
		step = len(g.pix)/samples + 1
	}
	dataset := make(clusters.Observations, 0, min(len(g.pix), samples))
	for i := 0; i < len(g.pix); i += step {
		dataset = append(dataset, clusters.Coordinates{float64(g.pix[i])})
	}

	var t float64
	km := kmeans.New()
	cc, err := km.Partition(dataset, 2)
	if err != nil || len(cc) < 2 || len(cc[0].Center) == 0 || len(cc[1].Center) == 0 {
		t = float64(otsuLevel(g.histogram(), len(g.pix)))
		log.WithError(err).WithField("threshold", t).Debug("k-means did not split, using otsu level")
	} else {
		t = (cc[0].Center[0] + cc[1].Center[0]) / 2
		if math.IsNaN(t) {
			t = float64(otsuLevel(g.histogram(), len(g.pix)))
		}
	}
	log.WithFields(log.Fields{"method": NameKMeans, "threshold": t}).Debug("binarize")
	thresholdAll(g.pix, t, out)
	return nil
}
