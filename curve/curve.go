// Package curve implements tone curves and brightness histograms.
package curve

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/setanarut/imagelab"
)

// Point is a curve control point in the 0..255 range on both axes.
type Point struct {
	X, Y float64
}

// LUT maps every input byte to its output.
type LUT [256]uint8

// Identity returns the identity mapping.
func Identity() LUT {
	var l LUT
	for i := range l {
		l[i] = uint8(i)
	}
	return l
}

// Map returns f(v).
func (l *LUT) Map(v uint8) uint8 {
	return l[v]
}

// CreateCurve builds the piecewise linear curve through points, ordered by
// X. Inputs left of the first point or right of the last one take that
// point's Y. Fewer than two points give the identity.
func CreateCurve(points []Point) LUT {
	if len(points) < 2 {
		return Identity()
	}
	pts := slices.Clone(points)
	slices.SortStableFunc(pts, func(a, b Point) int { return cmp.Compare(a.X, b.X) })
	first, last := pts[0], pts[len(pts)-1]

	var l LUT
	seg := 0
	for i := range l {
		x := float64(i)
		switch {
		case x <= first.X:
			l[i] = imagelab.ClampByte(first.Y)
			continue
		case x >= last.X:
			l[i] = imagelab.ClampByte(last.Y)
			continue
		}
		for x > pts[seg+1].X {
			seg++
		}
		// p.X < x <= q.X
		p, q := pts[seg], pts[seg+1]
		l[i] = imagelab.ClampByte(p.Y + (x-p.X)*(q.Y-p.Y)/(q.X-p.X))
	}
	return l
}

// ParsePoints reads control points written as "x:y" pairs separated by
// commas or spaces, e.g. "0:0, 64:40, 255:255".
func ParsePoints(text string) ([]Point, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ' ' || r == ';' })
	points := make([]Point, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ":")
		if !ok {
			return nil, fmt.Errorf("control point %q: %w", f, imagelab.ErrInvalidParameter)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil || math.IsNaN(x) {
			return nil, fmt.Errorf("control point %q: %w", f, imagelab.ErrInvalidParameter)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil || math.IsNaN(y) {
			return nil, fmt.Errorf("control point %q: %w", f, imagelab.ErrInvalidParameter)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

// ApplyCurve maps the color channels of img through l. Alpha is kept.
func ApplyCurve(img *imagelab.PixelBuffer, l LUT) (*imagelab.PixelBuffer, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	out := img.Clone()
	ch := img.Channels()
	rowLen := img.W * ch
	parallel.Line(img.H, func(start, end int) {
		for i := start * rowLen; i < end*rowLen; i += ch {
			for c := range min(ch, 3) {
				out.Pix[i+c] = l[out.Pix[i+c]]
			}
		}
	})
	return out, nil
}
