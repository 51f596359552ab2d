package composite

import (
	"fmt"
	"strings"

	"github.com/setanarut/imagelab"
)

// Mode selects the source term of a blend.
type Mode int

const (
	Normal Mode = iota
	Add
	Multiply
	Average
	Max
	Min
)

// Modes lists every blend mode in menu order.
var Modes = []Mode{Normal, Add, Multiply, Average, Max, Min}

var modeNames = [...]string{"normal", "add", "multiply", "average", "max", "min"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode accepts a mode name in any letter case.
func ParseMode(name string) (Mode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range modeNames {
		if s == n {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("blend mode %q: %w", name, imagelab.ErrInvalidMethod)
}

// source returns S(base, overlay) for one channel.
func (m Mode) source(b, o float64) float64 {
	switch m {
	case Add:
		return min(b+o, 255)
	case Multiply:
		return b * o / 255
	case Average:
		return (b + o) / 2
	case Max:
		return max(b, o)
	case Min:
		return min(b, o)
	}
	return o
}
