// Package objective provides differentiable test functions with analytic
// gradients. They stand in for an autodiff engine: Evaluate computes the
// loss at the current parameter values and stores each parameter's gradient.
package objective

import (
	"errors"
	"fmt"

	"github.com/born-ml/wame/internal/nn"
	"github.com/born-ml/wame/internal/tensor"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrUnknownObjective is returned by Lookup for unregistered names.
var ErrUnknownObjective = errors.New("unknown objective")

// Objective is a scalar loss over a set of parameters.
type Objective interface {
	// Name identifies the objective.
	Name() string

	// Start returns freshly allocated parameters at the objective's
	// conventional starting point, dim elements in total.
	Start(dim int) ([]*nn.Parameter, error)

	// Evaluate returns the loss at the current parameter values and sets
	// every parameter's gradient.
	Evaluate(params []*nn.Parameter) (float64, error)
}

// flatFunc computes loss and gradient over the concatenation of all
// parameter elements. grad has len(x) and is zeroed on entry.
type flatFunc func(x, grad []float64) float64

// evaluateFlat gathers params into one vector, runs f, and scatters the
// gradient back into per-parameter tensors.
func evaluateFlat(params []*nn.Parameter, f flatFunc) (float64, error) {
	n := 0
	for _, p := range params {
		if p == nil {
			return 0, errors.New("nil parameter")
		}
		n += p.Tensor().NumElements()
	}

	x := make([]float64, 0, n)
	for _, p := range params {
		x = append(x, p.Tensor().Data()...)
	}
	grad := make([]float64, n)
	loss := f(x, grad)

	off := 0
	for _, p := range params {
		size := p.Tensor().NumElements()
		g, err := tensor.FromSlice(grad[off:off+size], p.Tensor().Shape())
		if err != nil {
			return 0, fmt.Errorf("gradient for %q: %w", p.Name(), err)
		}
		p.SetGrad(g)
		off += size
	}
	return loss, nil
}

// vectorParam wraps values as a single parameter named "x".
func vectorParam(values []float64) ([]*nn.Parameter, error) {
	raw, err := tensor.FromSlice(values, tensor.Shape{len(values)})
	if err != nil {
		return nil, err
	}
	return []*nn.Parameter{nn.NewParameter("x", raw)}, nil
}

var registry = map[string]func() Objective{
	"sphere":     func() Objective { return Sphere{} },
	"quadratic":  func() Objective { return NewIllConditioned(100) },
	"rosenbrock": func() Objective { return Rosenbrock{} },
}

// Lookup returns the registered objective with the given name.
func Lookup(name string) (Objective, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownObjective, name, Names())
	}
	return ctor(), nil
}

// Names lists the registered objectives in sorted order.
func Names() []string {
	names := maps.Keys(registry)
	slices.Sort(names)
	return names
}
