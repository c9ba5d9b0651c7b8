package tune

import (
	"math"

	"github.com/born-ml/wame/internal/optim"
)

// dimension maps one coordinate of the unit cube onto a hyperparameter.
type dimension struct {
	name   string
	lo, hi float64
	log    bool // interpolate log10(value)
	field  func(h *optim.Hyperparameters) *float64
}

func (d dimension) decode(u float64) float64 {
	u = math.Min(1, math.Max(0, u))
	if d.log {
		return math.Pow(10, math.Log10(d.lo)+u*(math.Log10(d.hi)-math.Log10(d.lo)))
	}
	return d.lo + u*(d.hi-d.lo)
}

func (d dimension) encode(v float64) float64 {
	if d.log {
		return (math.Log10(v) - math.Log10(d.lo)) / (math.Log10(d.hi) - math.Log10(d.lo))
	}
	return (v - d.lo) / (d.hi - d.lo)
}

// Space is the searched region of hyperparameter space. Zeta bounds are
// not searched; they come from the base configuration.
type Space struct {
	base optim.Hyperparameters
	dims []dimension
}

// NewSpace builds the search space around base. VariantAdapted also
// searches lr on a log scale.
func NewSpace(base optim.Hyperparameters) Space {
	dims := []dimension{
		{"decay", 0.5, 0.999, false, func(h *optim.Hyperparameters) *float64 { return &h.Decay }},
		{"eta_plus", 1.0, 2.0, false, func(h *optim.Hyperparameters) *float64 { return &h.EtaPlus }},
		{"eta_minus", 0.01, 0.9, false, func(h *optim.Hyperparameters) *float64 { return &h.EtaMinus }},
	}
	if base.Variant == optim.VariantAdapted {
		dims = append(dims, dimension{"lr", 1e-4, 1e-1, true, func(h *optim.Hyperparameters) *float64 { return &h.LR }})
	}
	return Space{base: base, dims: dims}
}

// Dim returns the number of searched coordinates.
func (s Space) Dim() int {
	return len(s.dims)
}

// Decode maps a point of the unit cube to hyperparameters.
func (s Space) Decode(position []float64) optim.Hyperparameters {
	h := s.base
	for i, d := range s.dims {
		*d.field(&h) = d.decode(position[i])
	}
	return h
}

// Encode maps h back into the unit cube.
func (s Space) Encode(h optim.Hyperparameters) []float64 {
	pos := make([]float64, len(s.dims))
	for i, d := range s.dims {
		pos[i] = d.encode(*d.field(&h))
	}
	return pos
}
