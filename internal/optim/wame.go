package optim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/born-ml/wame/internal/nn"
	"github.com/born-ml/wame/internal/parallel"
	"github.com/born-ml/wame/internal/tensor"
)

// Wame implements both WAME variants over a fixed list of parameters.
//
// Update rule, per element:
//
//	zeta  = clamp(zeta * (eta_plus | eta_minus | 1), zeta_min, zeta_max)  // by sign(grad * prev_grad)
//	z     = d * z + (1-d) * zeta
//	theta = d * theta + (1-d) * obs         // obs = 1 (wame) or grad² (wame_adapted)
//	param = param + delta
//
//	wame:          delta = -0.1 / z * grad / theta
//	wame_adapted:  delta = -lr / z * grad / (sqrt(theta) + 1e-11)
//
// With validated hyperparameters z >= (1-d)*zeta_min > 0 and, for wame,
// theta >= 1-d > 0, so neither denominator reaches zero.
//
// Wame is not safe for concurrent use. Step fans the per-parameter work out
// internally and returns once every parameter is committed.
//
// Example:
//
//	optimizer, err := optim.NewWame(model.Parameters(), optim.Hyperparameters{
//	    Variant: optim.VariantAdapted,
//	    LR:      0.001,
//	})
//
//	for range epochs {
//	    grads := computeGradients(model, batch)
//	    if err := optimizer.Step(grads); err != nil {
//	        return err
//	    }
//	    optimizer.ZeroGrad()
//	}
type Wame struct {
	params     []*nn.Parameter
	hp         Hyperparameters
	state      map[*nn.Parameter]*ParamState // Created on the first step that sees a gradient
	iterations int64
	parallel   parallel.Config
	logger     *slog.Logger
}

// Update is one pending assignment produced by Updates: the parameter, its
// next value and its next state.
type Update struct {
	Param *nn.Parameter
	Value *tensor.RawTensor
	State *ParamState
}

// NewWame creates a new WAME optimizer.
//
// Zero fields of h are filled from the variant defaults (DefaultWame or
// DefaultWameAdapted); an empty Variant selects VariantAdapted. The result
// is validated as in Configure.
func NewWame(params []*nn.Parameter, h Hyperparameters) (*Wame, error) {
	w := &Wame{
		params:   params,
		state:    make(map[*nn.Parameter]*ParamState),
		parallel: parallel.DefaultConfig(),
		logger:   slog.New(slog.DiscardHandler),
	}
	if err := w.Configure(h.withDefaults()); err != nil {
		return nil, err
	}
	return w, nil
}

// Configure validates and stores h. VariantWame ignores LR, so it is
// zeroed before validation. On error the previous hyperparameters stay in
// place.
//
// Existing per-parameter state is kept; committed zeta values are clamped
// into the new [zeta_min, zeta_max].
func (w *Wame) Configure(h Hyperparameters) error {
	if h.Variant == VariantWame {
		h.LR = 0
	}
	if err := h.Validate(); err != nil {
		return err
	}
	w.hp = h
	for _, st := range w.state {
		st.clampZeta(h)
	}
	return nil
}

// Hyperparameters returns the active configuration.
func (w *Wame) Hyperparameters() Hyperparameters {
	return w.hp
}

// ExportConfig returns the hyperparameters as config name -> value.
func (w *Wame) ExportConfig() map[string]float64 {
	return w.hp.ExportConfig()
}

// ImportConfig replaces the hyperparameters from a config map of the
// optimizer's current variant. See the package-level ImportConfig.
func (w *Wame) ImportConfig(config map[string]float64) error {
	h, err := ImportConfig(w.hp.Variant, config)
	if err != nil {
		return err
	}
	return w.Configure(h)
}

// SetLogger routes per-step debug telemetry to logger. A nil logger
// silences it.
func (w *Wame) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w.logger = logger
}

// SetParallel overrides the per-parameter fan-out configuration.
func (w *Wame) SetParallel(cfg parallel.Config) {
	w.parallel = cfg
}

// Parameters returns the parameters being optimized.
func (w *Wame) Parameters() []*nn.Parameter {
	return w.params
}

// State returns the committed state of param, or nil before its first step.
func (w *Wame) State(param *nn.Parameter) *ParamState {
	return w.state[param]
}

// Iterations returns how many Step calls have been committed.
func (w *Wame) Iterations() int64 {
	return w.iterations
}

// Updates computes the next value and state of every parameter that has a
// gradient in grads, without modifying anything.
//
// Shapes are checked for all parameters before any computation; the first
// mismatch is returned as a *ShapeError.
func (w *Wame) Updates(grads map[*tensor.RawTensor]*tensor.RawTensor) ([]Update, error) {
	type work struct {
		param *nn.Parameter
		grad  *tensor.RawTensor
	}

	pending := make([]work, 0, len(w.params))
	for _, param := range w.params {
		grad := getGradient(param, grads)
		if grad == nil {
			// Parameter didn't participate in forward pass, skip
			continue
		}
		if !grad.Shape().Equal(param.Tensor().Shape()) {
			return nil, &ShapeError{
				Param: param.Name(),
				Want:  param.Tensor().Shape(),
				Got:   grad.Shape(),
			}
		}
		pending = append(pending, work{param: param, grad: grad})
	}

	updates := make([]Update, len(pending))
	parallel.For(len(pending),
		func(i int) int { return pending[i].grad.NumElements() },
		func(i int) {
			p := pending[i]
			st, ok := w.state[p.param]
			if !ok {
				st = NewParamState(p.param.Tensor().Shape(), w.hp)
			}
			value, next := w.UpdateParam(p.param.Tensor(), p.grad, st)
			updates[i] = Update{Param: p.param, Value: value, State: next}
		},
		w.parallel,
	)
	return updates, nil
}

// UpdateParam runs one WAME step for a single parameter.
//
// It reads param, grad and state and returns the new parameter value and
// the new state as fresh tensors; none of its inputs are modified. All
// shapes must match.
func (w *Wame) UpdateParam(param, grad *tensor.RawTensor, state *ParamState) (*tensor.RawTensor, *ParamState) {
	shape := param.Shape()
	value := tensor.Zeros(shape)
	next := &ParamState{
		PrevGrad: grad.Clone(),
		Zeta:     tensor.Zeros(shape),
		Z:        tensor.Zeros(shape),
		Theta:    tensor.Zeros(shape),
	}

	w.hp.updateElements(
		param.Data(), grad.Data(),
		state.PrevGrad.Data(), state.Zeta.Data(), state.Z.Data(), state.Theta.Data(),
		value.Data(), next.Zeta.Data(), next.Z.Data(), next.Theta.Data(),
	)
	return value, next
}

// Step performs a single optimization step.
//
// Either every parameter with a gradient is updated, or, on error, none is.
func (w *Wame) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) error {
	updates, err := w.Updates(grads)
	if err == nil {
		err = w.Apply(updates)
	}
	if err != nil {
		return fmt.Errorf("wame step %d: %w", w.iterations+1, err)
	}
	return nil
}

// Apply commits updates produced by Updates: parameter values are written
// back in place and the states become the committed history. Apply counts
// as one iteration.
//
// Every update is checked before anything is written; a value or state
// whose shape differs from its parameter is returned as a *ShapeError.
func (w *Wame) Apply(updates []Update) error {
	for _, u := range updates {
		if err := checkUpdate(u); err != nil {
			return err
		}
	}
	for _, u := range updates {
		if err := u.Param.Tensor().CopyFrom(u.Value); err != nil {
			return err
		}
		w.state[u.Param] = u.State
	}
	w.iterations++

	w.logger.Debug("wame step",
		"variant", string(w.hp.Variant),
		"iteration", w.iterations,
		"updated", len(updates),
		"params", len(w.params),
	)
	return nil
}

func checkUpdate(u Update) error {
	if u.Param == nil || u.Value == nil || u.State == nil {
		return errors.New("incomplete update")
	}
	want := u.Param.Tensor().Shape()
	for name, raw := range map[string]*tensor.RawTensor{
		"value":     u.Value,
		"prev_grad": u.State.PrevGrad,
		"zeta":      u.State.Zeta,
		"z":         u.State.Z,
		"theta":     u.State.Theta,
	} {
		if raw == nil {
			return fmt.Errorf("update for %q: missing %s", u.Param.Name(), name)
		}
		if !raw.Shape().Equal(want) {
			return &ShapeError{Param: u.Param.Name() + " " + name, Want: want, Got: raw.Shape()}
		}
	}
	return nil
}

// ZeroGrad clears gradients for all parameters.
func (w *Wame) ZeroGrad() {
	for _, param := range w.params {
		param.ZeroGrad()
	}
}

// GetLR returns the base learning rate. For VariantWame this is the fixed
// step scale.
func (w *Wame) GetLR() float64 {
	if w.hp.Variant == VariantWame {
		return wameStepScale
	}
	return w.hp.LR
}
