package fourier

import (
	"fmt"
	"math"
	"strings"

	gfourier "gonum.org/v1/gonum/dsp/fourier"

	"github.com/setanarut/imagelab"
)

// Algorithm selects the 1D transform used for the row and column passes.
// Both produce the same spectrum up to floating point rounding.
type Algorithm int

const (
	// AlgorithmDFT is the direct O(N²) transform.
	AlgorithmDFT Algorithm = iota
	// AlgorithmFFT uses gonum's mixed radix FFT.
	AlgorithmFFT
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmDFT:
		return "dft"
	case AlgorithmFFT:
		return "fft"
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

func (a Algorithm) valid() bool {
	return a == AlgorithmDFT || a == AlgorithmFFT
}

// ParseAlgorithm accepts "dft" or "fft".
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dft", "":
		return AlgorithmDFT, nil
	case "fft":
		return AlgorithmFFT, nil
	}
	return 0, fmt.Errorf("transform algorithm %q: %w", name, imagelab.ErrInvalidMethod)
}

// transform is a 1D transform of a fixed length. dst and src must not
// overlap. A transform is not safe for concurrent use.
type transform interface {
	forward(dst, src []complex128)
	// inverse is normalized by 1/N.
	inverse(dst, src []complex128)
}

func (a Algorithm) plan(n int) transform {
	if a == AlgorithmFFT {
		return &fft{plan: gfourier.NewCmplxFFT(n), n: float64(n)}
	}
	return newDFT(n)
}

type dft struct {
	// twiddle[m] = e^(−2πim/N)
	twiddle []complex128
}

func newDFT(n int) *dft {
	tw := make([]complex128, n)
	for m := range n {
		angle := -2 * math.Pi * float64(m) / float64(n)
		tw[m] = complex(math.Cos(angle), math.Sin(angle))
	}
	return &dft{twiddle: tw}
}

func (t *dft) forward(dst, src []complex128) { t.apply(dst, src, false) }
func (t *dft) inverse(dst, src []complex128) { t.apply(dst, src, true) }

func (t *dft) apply(dst, src []complex128, inverse bool) {
	n := len(t.twiddle)
	for k := range n {
		var sum complex128
		m := 0
		for _, v := range src {
			w := t.twiddle[m]
			if inverse {
				w = complex(real(w), -imag(w))
			}
			sum += v * w
			// m = k·j mod N
			m += k
			if m >= n {
				m -= n
			}
		}
		if inverse {
			sum /= complex(float64(n), 0)
		}
		dst[k] = sum
	}
}

type fft struct {
	plan *gfourier.CmplxFFT
	n    float64
}

func (t *fft) forward(dst, src []complex128) {
	t.plan.Coefficients(dst, src)
}

func (t *fft) inverse(dst, src []complex128) {
	t.plan.Sequence(dst, src)
	scale := complex(1/t.n, 0)
	for i := range dst {
		dst[i] *= scale
	}
}

// Compute1DDFT returns X[k] = Σ x[n]·(cos(−2πkn/N) + i·sin(−2πkn/N)).
func Compute1DDFT(x []complex128) []complex128 {
	out := make([]complex128, len(x))
	if len(x) > 0 {
		newDFT(len(x)).forward(out, x)
	}
	return out
}

// Compute1DIDFT is the conjugate-sign transform of X divided by N.
func Compute1DIDFT(X []complex128) []complex128 {
	out := make([]complex128, len(X))
	if len(X) > 0 {
		newDFT(len(X)).inverse(out, X)
	}
	return out
}
