package utils

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"strings"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	log "github.com/sirupsen/logrus"

	"github.com/setanarut/imagelab"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParsePaletteMethod accepts "dominantcolor" (or "dominant") and "kmeans".
func ParsePaletteMethod(name string) (PaletteMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dominantcolor", "dominant", "":
		return PaletteMethodDominantColor, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	}
	return 0, fmt.Errorf("palette method %q: %w", name, imagelab.ErrInvalidMethod)
}

type swatch struct {
	col    colorful.Color
	weight float64
}

// SortPaletteByBrightness orders colors from darkest to brightest by
// relative luminance.
func SortPaletteByBrightness(palette []colorful.Color) {
	luma := func(c colorful.Color) float64 {
		r, g, b := c.LinearRgb()
		return 0.2126*r + 0.7152*g + 0.0722*b
	}
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		la, lb := luma(a), luma(b)
		switch {
		case la < lb:
			return -1
		case la > lb:
			return 1
		}
		return 0
	})
}

// ExtractPalette returns up to k representative colors of b. The k-means
// method falls back to dominant colors when clustering yields nothing.
func ExtractPalette(b *imagelab.PixelBuffer, k int, method PaletteMethod) ([]colorful.Color, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, fmt.Errorf("palette size %d: %w", k, imagelab.ErrInvalidParameter)
	}
	if method == PaletteMethodKMeans {
		if p := kmeansPalette(b, k); len(p) != 0 {
			return p, nil
		}
		log.WithField("k", k).Warn("kmeans palette is empty, using dominant colors")
	}
	return dominantPalette(b, k), nil
}

func dominantPalette(b *imagelab.PixelBuffer, k int) []colorful.Color {
	found := dominantcolor.FindWeight(b.Image(), max(24, k*8))
	if len(found) == 0 {
		found = append(found, dominantcolor.Color{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1,
		})
	}
	cands := make([]swatch, 0, len(found))
	for _, c := range found {
		col, _ := colorful.MakeColor(c.RGBA)
		cands = append(cands, swatch{col: col, weight: c.Weight})
	}
	return pickDiverse(cands, k)
}

// kmeansPalette clusters a subsample of the opaque pixels in RGB space.
func kmeansPalette(b *imagelab.PixelBuffer, k int) []colorful.Color {
	const maxSamples = 12000
	step := 1
	if n := b.W * b.H; n > maxSamples {
		step = int(math.Sqrt(float64(n)/maxSamples)) + 1
	}
	dataset := make(clusters.Observations, 0, min(b.W*b.H, maxSamples))
	for y := 0; y < b.H; y += step {
		for x := 0; x < b.W; x += step {
			bl, g, r, a := b.BGRA(x, y)
			if a == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r) / 255,
				float64(g) / 255,
				float64(bl) / 255,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, min(max(k*4, k+2), len(dataset)))
	if err != nil {
		log.WithError(err).Debug("kmeans palette")
		return nil
	}
	cands := make([]swatch, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}
		cands = append(cands, swatch{col: col, weight: float64(len(c.Observations))})
	}
	return pickDiverse(cands, k)
}

// pickDiverse greedily selects k candidates. It starts with the heaviest
// one and then repeatedly takes the candidate farthest in Lab space from
// everything picked so far, scaled by its relative weight.
func pickDiverse(cands []swatch, k int) []colorful.Color {
	if len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))
	maxW := 0.0
	for i := range cands {
		cands[i].col = cands[i].col.Clamped()
		cands[i].weight = max(cands[i].weight, 1e-6)
		maxW = max(maxW, cands[i].weight)
	}

	seed := 0
	for i, c := range cands {
		if c.weight > cands[seed].weight {
			seed = i
		}
	}
	picked := []int{seed}
	used := make([]bool, len(cands))
	used[seed] = true

	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if used[i] {
				continue
			}
			nearest := math.MaxFloat64
			for _, p := range picked {
				nearest = min(nearest, c.col.DistanceLab(cands[p].col))
			}
			score := nearest * (0.55 + 0.45*math.Sqrt(c.weight/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		used[best] = true
		picked = append(picked, best)
	}

	out := make([]colorful.Color, len(picked))
	for i, p := range picked {
		out[i] = cands[p].col
	}
	return out
}

// Quantize replaces every pixel color of b by the nearest palette entry in
// Lab space. Alpha is kept.
func Quantize(b *imagelab.PixelBuffer, palette []colorful.Color) (*imagelab.PixelBuffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if len(palette) == 0 {
		return nil, fmt.Errorf("empty palette: %w", imagelab.ErrInvalidParameter)
	}
	out := b.ToBGRA()
	entries := make([][3]uint8, len(palette))
	for i, c := range palette {
		r, g, bl := c.Clamped().RGB255()
		entries[i] = [3]uint8{bl, g, r}
	}
	parallel.Line(out.H, func(start, end int) {
		// Most images repeat colors, memoize per worker.
		memo := make(map[[3]uint8]int)
		for i := start * out.W * 4; i < end*out.W*4; i += 4 {
			key := [3]uint8{out.Pix[i], out.Pix[i+1], out.Pix[i+2]}
			idx, ok := memo[key]
			if !ok {
				col := colorful.Color{R: float64(key[2]) / 255, G: float64(key[1]) / 255, B: float64(key[0]) / 255}
				best := math.MaxFloat64
				for j, p := range palette {
					if d := col.DistanceLab(p); d < best {
						best, idx = d, j
					}
				}
				memo[key] = idx
			}
			copy(out.Pix[i:i+3], entries[idx][:])
		}
	})
	return out, nil
}

// PaletteSwatch renders the palette as a row of tileSize squares.
func PaletteSwatch(palette []colorful.Color, tileSize int) (*imagelab.PixelBuffer, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("empty palette: %w", imagelab.ErrInvalidParameter)
	}
	if tileSize <= 0 {
		tileSize = 64
	}
	out, err := imagelab.New(tileSize*len(palette), tileSize, imagelab.BGRA32)
	if err != nil {
		return nil, err
	}
	for y := range out.H {
		for x := range out.W {
			r, g, b := palette[x/tileSize].Clamped().RGB255()
			o := out.Offset(x, y)
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = b, g, r, 255
		}
	}
	return out, nil
}

// SavePalette writes the swatch of palette to filename.
func SavePalette(palette []colorful.Color, tileSize int, filename string) error {
	sw, err := PaletteSwatch(palette, tileSize)
	if err != nil {
		return err
	}
	return SaveImage(sw, filename)
}
