// Package imagelab holds the pixel buffer shared by the binarize, convolve,
// fourier, composite and curve engines.
package imagelab

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Format is the channel layout of a PixelBuffer.
type Format int

const (
	// Gray8 is a single 8-bit intensity channel.
	Gray8 Format = iota + 1
	// BGRA32 is four interleaved 8-bit channels in B, G, R, A order.
	BGRA32
)

// Channels returns the number of interleaved bytes per pixel.
func (f Format) Channels() int {
	switch f {
	case Gray8:
		return 1
	case BGRA32:
		return 4
	default:
		return 0
	}
}

func (f Format) String() string {
	switch f {
	case Gray8:
		return "gray8"
	case BGRA32:
		return "bgra32"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// PixelBuffer is a dense row-major pixel buffer.
// len(Pix) == W*H*Format.Channels()
type PixelBuffer struct {
	W, H   int
	Format Format
	Pix    []uint8
}

// New allocates a zeroed buffer.
func New(w, h int, f Format) (*PixelBuffer, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("buffer size %dx%d: %w", w, h, ErrInvalidParameter)
	}
	if f.Channels() == 0 {
		return nil, fmt.Errorf("buffer format %s: %w", f, ErrInvalidParameter)
	}
	return &PixelBuffer{
		W:      w,
		H:      h,
		Format: f,
		Pix:    make([]uint8, w*h*f.Channels()),
	}, nil
}

// Wrap validates pix against the given geometry and returns a buffer
// backed by it. The caller must not mutate pix afterwards.
func Wrap(w, h int, f Format, pix []uint8) (*PixelBuffer, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("buffer size %dx%d: %w", w, h, ErrInvalidParameter)
	}
	if f.Channels() == 0 {
		return nil, fmt.Errorf("buffer format %s: %w", f, ErrInvalidParameter)
	}
	if len(pix) != w*h*f.Channels() {
		return nil, fmt.Errorf("buffer has %d bytes, want %d: %w", len(pix), w*h*f.Channels(), ErrInvalidParameter)
	}
	return &PixelBuffer{W: w, H: h, Format: f, Pix: pix}, nil
}

// Validate reports whether the buffer geometry is consistent.
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("nil buffer: %w", ErrInvalidParameter)
	}
	_, err := Wrap(b.W, b.H, b.Format, b.Pix)
	return err
}

// Channels returns the number of bytes per pixel.
func (b *PixelBuffer) Channels() int {
	return b.Format.Channels()
}

// Offset returns the index of the first byte of pixel (x, y).
func (b *PixelBuffer) Offset(x, y int) int {
	return (y*b.W + x) * b.Format.Channels()
}

// SameSize reports whether both buffers have identical dimensions.
func (b *PixelBuffer) SameSize(o *PixelBuffer) bool {
	return b.W == o.W && b.H == o.H
}

// Clone returns a deep copy.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{W: b.W, H: b.H, Format: b.Format, Pix: pix}
}

// BGRA returns the colour of pixel (x, y). Gray pixels are expanded to an
// opaque colour with equal channels.
func (b *PixelBuffer) BGRA(x, y int) (bl, g, r, a uint8) {
	off := b.Offset(x, y)
	if b.Format == Gray8 {
		v := b.Pix[off]
		return v, v, v, 255
	}
	return b.Pix[off], b.Pix[off+1], b.Pix[off+2], b.Pix[off+3]
}

// ToBGRA returns a BGRA32 copy of the buffer.
func (b *PixelBuffer) ToBGRA() *PixelBuffer {
	if b.Format == BGRA32 {
		return b.Clone()
	}
	out := &PixelBuffer{W: b.W, H: b.H, Format: BGRA32, Pix: make([]uint8, b.W*b.H*4)}
	for i, v := range b.Pix {
		o := i * 4
		out.Pix[o] = v
		out.Pix[o+1] = v
		out.Pix[o+2] = v
		out.Pix[o+3] = 255
	}
	return out
}

// FromImage copies any image.Image into a buffer. *image.Gray sources keep a
// single channel, everything else becomes non-premultiplied BGRA32.
func FromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if g, ok := img.(*image.Gray); ok {
		out := &PixelBuffer{W: w, H: h, Format: Gray8, Pix: make([]uint8, w*h)}
		for y := range h {
			row := g.Pix[g.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			copy(out.Pix[y*w:(y+1)*w], row[:w])
		}
		return out
	}
	out := &PixelBuffer{W: w, H: h, Format: BGRA32, Pix: make([]uint8, w*h*4)}
	for y := range h {
		for x := range w {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			off := (y*w + x) * 4
			out.Pix[off] = c.B
			out.Pix[off+1] = c.G
			out.Pix[off+2] = c.R
			out.Pix[off+3] = c.A
		}
	}
	return out
}

// Image returns the buffer as *image.Gray or *image.NRGBA.
func (b *PixelBuffer) Image() image.Image {
	rect := image.Rect(0, 0, b.W, b.H)
	if b.Format == Gray8 {
		g := image.NewGray(rect)
		copy(g.Pix, b.Pix)
		return g
	}
	m := image.NewNRGBA(rect)
	for i := 0; i < len(b.Pix); i += 4 {
		m.Pix[i] = b.Pix[i+2]
		m.Pix[i+1] = b.Pix[i+1]
		m.Pix[i+2] = b.Pix[i]
		m.Pix[i+3] = b.Pix[i+3]
	}
	return m
}

// ClampByte truncates v to an 8-bit value, saturating outside [0,255].
func ClampByte(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
