package convolve

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/setanarut/imagelab"
)

// Kernel is a kw x kh weight matrix with odd dimensions. Row ky of the
// underlying matrix holds the weights of image row y+ky-padY.
type Kernel struct {
	m *mat.Dense
}

func checkShape(kw, kh int) error {
	if kw <= 0 || kh <= 0 {
		return fmt.Errorf("kernel size %dx%d: %w", kw, kh, imagelab.ErrInvalidParameter)
	}
	if kw%2 == 0 || kh%2 == 0 {
		return fmt.Errorf("kernel size %dx%d must be odd: %w", kw, kh, imagelab.ErrInvalidKernelShape)
	}
	return nil
}

// NewKernel builds a custom kernel from rows of weights. The weights are
// used as given.
func NewKernel(rows [][]float64) (*Kernel, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty kernel: %w", imagelab.ErrInvalidParameter)
	}
	kh, kw := len(rows), len(rows[0])
	data := make([]float64, 0, kw*kh)
	for i, r := range rows {
		if len(r) != kw {
			return nil, fmt.Errorf("kernel row %d has %d weights, want %d: %w", i, len(r), kw, imagelab.ErrInvalidParameter)
		}
		data = append(data, r...)
	}
	if err := checkShape(kw, kh); err != nil {
		return nil, err
	}
	return &Kernel{m: mat.NewDense(kh, kw, data)}, nil
}

// KernelFromMatrix wraps a copy of m.
func KernelFromMatrix(m mat.Matrix) (*Kernel, error) {
	kh, kw := m.Dims()
	if err := checkShape(kw, kh); err != nil {
		return nil, err
	}
	return &Kernel{m: mat.DenseCopyOf(m)}, nil
}

// BoxKernel returns a uniform kernel with weight 1/(kw·kh).
func BoxKernel(kw, kh int) (*Kernel, error) {
	if err := checkShape(kw, kh); err != nil {
		return nil, err
	}
	data := make([]float64, kw*kh)
	floats.AddConst(1/float64(kw*kh), data)
	return &Kernel{m: mat.NewDense(kh, kw, data)}, nil
}

// GaussianKernel samples exp(−(x²+y²)/2σ²)/(2πσ²) on the centered grid
// and renormalizes the weights to sum 1.
func GaussianKernel(kw, kh int, sigma float64) (*Kernel, error) {
	if err := checkShape(kw, kh); err != nil {
		return nil, err
	}
	if sigma <= 0 || math.IsNaN(sigma) {
		return nil, fmt.Errorf("gaussian sigma %v: %w", sigma, imagelab.ErrInvalidParameter)
	}
	padX, padY := kw/2, kh/2
	s2 := 2 * sigma * sigma
	m := mat.NewDense(kh, kw, nil)
	m.Apply(func(ky, kx int, _ float64) float64 {
		x := float64(kx - padX)
		y := float64(ky - padY)
		return math.Exp(-(x*x+y*y)/s2) / (math.Pi * s2)
	}, m)
	m.Scale(1/mat.Sum(m), m)
	return &Kernel{m: m}, nil
}

// ParseKernel reads a custom kernel, one row per line, weights separated
// by spaces, tabs or commas.
func ParseKernel(text string) (*Kernel, error) {
	var rows [][]float64
	for _, line := range strings.Split(text, "\n") {
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ',' || r == ';' || r == '\r'
		})
		if len(fields) == 0 {
			continue
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("kernel weight %q: %w", f, imagelab.ErrInvalidParameter)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return NewKernel(rows)
}

// Size returns the kernel width and height.
func (k *Kernel) Size() (kw, kh int) {
	kh, kw = k.m.Dims()
	return kw, kh
}

// Pad returns the half extents kw/2 and kh/2.
func (k *Kernel) Pad() (padX, padY int) {
	kw, kh := k.Size()
	return kw / 2, kh / 2
}

// At returns the weight at column kx, row ky.
func (k *Kernel) At(kx, ky int) float64 {
	return k.m.At(ky, kx)
}

// Sum returns the sum of all weights.
func (k *Kernel) Sum() float64 {
	return mat.Sum(k.m)
}

// Matrix returns a copy of the weights.
func (k *Kernel) Matrix() *mat.Dense {
	return mat.DenseCopyOf(k.m)
}

func (k *Kernel) String() string {
	return fmt.Sprintf("%v", mat.Formatted(k.m, mat.Squeeze()))
}

// weights returns the weights in row-major order.
func (k *Kernel) weights() []float64 {
	raw := k.m.RawMatrix()
	kw, kh := k.Size()
	if raw.Stride == kw {
		return raw.Data[:kw*kh]
	}
	out := make([]float64, 0, kw*kh)
	for ky := range kh {
		out = append(out, raw.Data[ky*raw.Stride:ky*raw.Stride+kw]...)
	}
	return out
}
