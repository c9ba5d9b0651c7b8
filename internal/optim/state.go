package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/wame/internal/tensor"
)

// ParamState is the per-parameter WAME history. Every tensor has the
// parameter's shape.
type ParamState struct {
	PrevGrad *tensor.RawTensor // Gradient seen on the previous step (init: zeros)
	Zeta     *tensor.RawTensor // Adaptive scaling factor (init: ones)
	Z        *tensor.RawTensor // EMA of zeta (init: zeros)
	Theta    *tensor.RawTensor // EMA of the variant's second-moment observation (init: zeros)
}

// NewParamState returns the initial state for a parameter of the given shape.
//
// Zeta starts at one, clamped into [zeta_min, zeta_max] for configurations
// whose range excludes one.
func NewParamState(shape tensor.Shape, h Hyperparameters) *ParamState {
	return &ParamState{
		PrevGrad: tensor.Zeros(shape),
		Zeta:     tensor.Full(shape, clamp(1.0, h.ZetaMin, h.ZetaMax)),
		Z:        tensor.Zeros(shape),
		Theta:    tensor.Zeros(shape),
	}
}

// Clone returns a deep copy of the state.
func (s *ParamState) Clone() *ParamState {
	return &ParamState{
		PrevGrad: s.PrevGrad.Clone(),
		Zeta:     s.Zeta.Clone(),
		Z:        s.Z.Clone(),
		Theta:    s.Theta.Clone(),
	}
}

// tensors returns the state tensors keyed by their state dict prefix.
func (s *ParamState) tensors() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"prev_grad": s.PrevGrad,
		"zeta":      s.Zeta,
		"z":         s.Z,
		"theta":     s.Theta,
	}
}

// stateKeys lists the state dict prefixes in a fixed order.
var stateKeys = []string{"prev_grad", "zeta", "z", "theta"}

// clampZeta pulls committed zeta values into [zeta_min, zeta_max] of h.
func (s *ParamState) clampZeta(h Hyperparameters) {
	data := s.Zeta.Data()
	for i, v := range data {
		data[i] = clamp(v, h.ZetaMin, h.ZetaMax)
	}
}

// checkStateTensor returns why data cannot be state tensor name under h,
// or "" if it is acceptable.
//
//	prev_grad: finite
//	zeta:      in [zeta_min, zeta_max]
//	z, theta:  finite and >= 0
func checkStateTensor(name string, data []float64, h Hyperparameters) string {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Sprintf("element %d is %v", i, v)
		}
		switch name {
		case "zeta":
			if v < h.ZetaMin || v > h.ZetaMax {
				return fmt.Sprintf("element %d = %g outside [%g, %g]", i, v, h.ZetaMin, h.ZetaMax)
			}
		case "z", "theta":
			if v < 0 {
				return fmt.Sprintf("element %d = %g is negative", i, v)
			}
		}
	}
	return ""
}
