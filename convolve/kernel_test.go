package convolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/setanarut/imagelab"
)

func TestKernelShape(t *testing.T) {
	tests := []struct {
		name   string
		kw, kh int
		err    error
	}{
		{"3x3", 3, 3, nil},
		{"1x5", 1, 5, nil},
		{"even width", 4, 3, imagelab.ErrInvalidKernelShape},
		{"even height", 3, 2, imagelab.ErrInvalidKernelShape},
		{"zero", 0, 3, imagelab.ErrInvalidParameter},
		{"negative", 3, -1, imagelab.ErrInvalidParameter},
	}

	for _, x := range tests {
		t.Run(x.name, func(t *testing.T) {
			k, err := BoxKernel(x.kw, x.kh)
			if x.err != nil {
				assert.Nil(t, k)
				assert.ErrorIs(t, err, x.err)
				return
			}
			require.NoError(t, err)
			kw, kh := k.Size()
			assert.Equal(t, []int{x.kw, x.kh}, []int{kw, kh})
		})
	}
}

func TestBoxKernel(t *testing.T) {
	k, err := BoxKernel(5, 3)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, k.Sum(), 1e-12)
	assert.InDelta(t, 1.0/15, k.At(4, 2), 1e-15)
	padX, padY := k.Pad()
	assert.Equal(t, 2, padX)
	assert.Equal(t, 1, padY)
}

func TestGaussianKernel(t *testing.T) {
	k, err := GaussianKernel(5, 5, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, k.Sum(), 1e-12)

	// Symmetric and peaked at the center.
	assert.InDelta(t, k.At(0, 2), k.At(4, 2), 1e-15)
	assert.InDelta(t, k.At(2, 0), k.At(2, 4), 1e-15)
	assert.Greater(t, k.At(2, 2), k.At(1, 2))
	assert.Greater(t, k.At(1, 2), k.At(0, 2))

	_, err = GaussianKernel(3, 3, 0)
	assert.ErrorIs(t, err, imagelab.ErrInvalidParameter)
	_, err = GaussianKernel(2, 3, 1)
	assert.ErrorIs(t, err, imagelab.ErrInvalidKernelShape)
}

func TestNewKernel(t *testing.T) {
	k, err := NewKernel([][]float64{
		{0, -1, 0},
		{-1, 5, -1},
		{0, -1, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, k.Sum())
	assert.Equal(t, 5.0, k.At(1, 1))

	_, err = NewKernel([][]float64{{1, 2, 3}, {1, 2}})
	assert.ErrorIs(t, err, imagelab.ErrInvalidParameter)

	_, err = NewKernel([][]float64{{1, 2}})
	assert.ErrorIs(t, err, imagelab.ErrInvalidKernelShape)

	_, err = NewKernel(nil)
	assert.ErrorIs(t, err, imagelab.ErrInvalidParameter)
}

func TestKernelFromMatrix(t *testing.T) {
	src := mat.NewDense(3, 1, []float64{1, 2, 1})
	k, err := KernelFromMatrix(src)
	require.NoError(t, err)
	kw, kh := k.Size()
	assert.Equal(t, 1, kw)
	assert.Equal(t, 3, kh)

	src.Set(0, 0, 9)
	assert.Equal(t, 1.0, k.At(0, 0))
}

func TestParseKernel(t *testing.T) {
	k, err := ParseKernel("-1 -1 -1\n-1, 8, -1\n\n-1\t-1 -1\n")
	require.NoError(t, err)
	assert.Equal(t, 0.0, k.Sum())
	assert.Equal(t, 8.0, k.At(1, 1))

	_, err = ParseKernel("1 x 1")
	assert.ErrorIs(t, err, imagelab.ErrInvalidParameter)
}
