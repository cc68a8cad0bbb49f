package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrUnknownWeight = errors.New("engine: unknown weight")
	ErrWeightRange   = errors.New("engine: weight out of range")
)

// Weight bounds keep every score, corner penalty included, strictly inside
// (-MaxScore, MaxScore): 64*MaxTerminalWeight + MaxWeight < MaxScore.
const (
	MaxWeight         = 1_000_000
	MaxTerminalWeight = 15_000_000
)

// WeightNames lists the tunable weights in protocol order.
var WeightNames = []string{
	"Corner", "XSquare", "CSquare", "Mobility", "Stability",
	"Frontier", "Material", "CornerDonation", "Terminal",
}

func (w *Weights) field(name string) (i *int32, f *float64) {
	switch strings.ToLower(name) {
	case "corner":
		return &w.Corner, nil
	case "xsquare":
		return &w.XSquare, nil
	case "csquare":
		return &w.CSquare, nil
	case "mobility":
		return &w.Mobility, nil
	case "stability":
		return &w.Stability, nil
	case "frontier":
		return nil, &w.Frontier
	case "material":
		return nil, &w.Material
	case "cornerdonation":
		return &w.CornerDonation, nil
	case "terminal":
		return &w.Terminal, nil
	}
	return nil, nil
}

// Set changes one weight by case-insensitive name. Integer weights are
// rounded. Terminal must lie in [0, MaxTerminalWeight]; every other weight in
// [-MaxWeight, MaxWeight].
func (w *Weights) Set(name string, value float64) error {
	i, f := w.field(name)
	if i == nil && f == nil {
		return fmt.Errorf("%w: %q", ErrUnknownWeight, name)
	}
	low, high := float64(-MaxWeight), float64(MaxWeight)
	if i == &w.Terminal {
		low, high = 0, float64(MaxTerminalWeight)
	}
	if !(value >= low && value <= high) {
		return fmt.Errorf("%w: %s=%v not in [%v, %v]", ErrWeightRange, name, value, low, high)
	}
	if i != nil {
		*i = int32(math.Round(value))
	} else {
		*f = value
	}
	return nil
}

// Get reads one weight by case-insensitive name.
func (w Weights) Get(name string) (float64, bool) {
	i, f := w.field(name)
	switch {
	case i != nil:
		return float64(*i), true
	case f != nil:
		return *f, true
	}
	return 0, false
}
