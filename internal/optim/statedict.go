package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/wame/internal/nn"
	"github.com/born-ml/wame/internal/tensor"
)

// iterationsKey stores the step counter as a scalar tensor.
const iterationsKey = "iterations"

// StateDict returns the optimizer state for serialization.
//
// State keys: "{prev_grad|zeta|z|theta}.{param_index}" -> state tensor, plus
// "iterations" -> scalar step counter. Parameters that have not been stepped
// yet are omitted. Tensors are copies.
func (w *Wame) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)

	for i, param := range w.params {
		st, exists := w.state[param]
		if !exists {
			continue // No history yet
		}
		for name, raw := range st.tensors() {
			stateDict[fmt.Sprintf("%s.%d", name, i)] = raw.Clone()
		}
	}

	counter := tensor.Full(tensor.Shape{}, float64(w.iterations))
	stateDict[iterationsKey] = counter
	return stateDict
}

// LoadStateDict loads optimizer state from serialization, checked against
// the current hyperparameters. See LoadState.
func (w *Wame) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return w.LoadState(w.hp, stateDict)
}

// LoadState replaces hyperparameters and state together.
//
// A parameter's state is restored only when all four of its tensors are
// present; a partial set is an error. Returns a *ShapeError if a tensor's
// shape doesn't match its parameter and a *StateError if its values break
// the invariants under h: zeta in [zeta_min, zeta_max], z and theta
// non-negative, everything finite, iterations a non-negative integer.
// On error the current hyperparameters and state are kept.
func (w *Wame) LoadState(h Hyperparameters, stateDict map[string]*tensor.RawTensor) error {
	if h.Variant == VariantWame {
		h.LR = 0
	}
	if err := h.Validate(); err != nil {
		return err
	}

	loaded := make(map[*nn.Parameter]*ParamState)
	for i, param := range w.params {
		found := make(map[string]*tensor.RawTensor, len(stateKeys))
		for _, name := range stateKeys {
			key := fmt.Sprintf("%s.%d", name, i)
			raw, exists := stateDict[key]
			if !exists {
				continue
			}
			if raw == nil {
				return &StateError{Key: key, Reason: "nil tensor"}
			}
			if !raw.Shape().Equal(param.Tensor().Shape()) {
				return &ShapeError{Param: key, Want: param.Tensor().Shape(), Got: raw.Shape()}
			}
			if reason := checkStateTensor(name, raw.Data(), h); reason != "" {
				return &StateError{Key: key, Reason: reason}
			}
			found[name] = raw.Clone()
		}

		switch len(found) {
		case 0:
			// No state for this parameter - will be initialized on first step
			continue
		case len(stateKeys):
			loaded[param] = &ParamState{
				PrevGrad: found["prev_grad"],
				Zeta:     found["zeta"],
				Z:        found["z"],
				Theta:    found["theta"],
			}
		default:
			return fmt.Errorf("incomplete state for parameter %d (%q): have %d of %d tensors",
				i, param.Name(), len(found), len(stateKeys))
		}
	}

	iterations, err := loadIterations(stateDict)
	if err != nil {
		return err
	}

	w.hp = h
	w.state = loaded
	w.iterations = iterations
	return nil
}

// loadIterations reads the step counter; a missing counter means zero.
func loadIterations(stateDict map[string]*tensor.RawTensor) (int64, error) {
	counter, exists := stateDict[iterationsKey]
	if !exists {
		return 0, nil
	}
	if counter == nil {
		return 0, &StateError{Key: iterationsKey, Reason: "nil tensor"}
	}
	if counter.NumElements() != 1 {
		return 0, &StateError{Key: iterationsKey, Reason: fmt.Sprintf("expected scalar, got shape %v", counter.Shape())}
	}
	v := counter.Data()[0]
	if v < 0 || v != math.Trunc(v) || v >= math.MaxInt64 {
		return 0, &StateError{Key: iterationsKey, Reason: fmt.Sprintf("%g is not a non-negative integer", v)}
	}
	return int64(v), nil
}
