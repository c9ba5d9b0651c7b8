package objective

import (
	"errors"
	"math"

	"github.com/born-ml/wame/internal/nn"
)

var errDim = errors.New("dim must be > 0")

// Sphere is f(x) = sum(x_i^2), minimum 0 at the origin.
type Sphere struct{}

// Name implements Objective.
func (Sphere) Name() string { return "sphere" }

// Start places every element at 1.
func (Sphere) Start(dim int) ([]*nn.Parameter, error) {
	if dim <= 0 {
		return nil, errDim
	}
	x := make([]float64, dim)
	for i := range x {
		x[i] = 1
	}
	return vectorParam(x)
}

// Evaluate implements Objective.
func (Sphere) Evaluate(params []*nn.Parameter) (float64, error) {
	return evaluateFlat(params, func(x, grad []float64) float64 {
		var loss float64
		for i, v := range x {
			loss += v * v
			grad[i] = 2 * v
		}
		return loss
	})
}

// Quadratic is f(x) = sum(w_i * (x_i - c_i)^2).
//
// Weights and Center are indexed modulo their length; an empty Weights
// means all ones and an empty Center means the origin.
type Quadratic struct {
	Weights []float64
	Center  []float64
}

// NewIllConditioned returns a quadratic whose weights span [1, condition]
// geometrically over 16 distinct values, centered at all ones.
func NewIllConditioned(condition float64) Quadratic {
	const levels = 16
	w := make([]float64, levels)
	for i := range w {
		w[i] = math.Pow(condition, float64(i)/(levels-1))
	}
	return Quadratic{Weights: w, Center: []float64{1}}
}

// Name implements Objective.
func (Quadratic) Name() string { return "quadratic" }

// Start places every element at 0.
func (Quadratic) Start(dim int) ([]*nn.Parameter, error) {
	if dim <= 0 {
		return nil, errDim
	}
	return vectorParam(make([]float64, dim))
}

// Evaluate implements Objective.
func (q Quadratic) Evaluate(params []*nn.Parameter) (float64, error) {
	return evaluateFlat(params, func(x, grad []float64) float64 {
		var loss float64
		for i, v := range x {
			w, c := 1.0, 0.0
			if len(q.Weights) > 0 {
				w = q.Weights[i%len(q.Weights)]
			}
			if len(q.Center) > 0 {
				c = q.Center[i%len(q.Center)]
			}
			d := v - c
			loss += w * d * d
			grad[i] = 2 * w * d
		}
		return loss
	})
}

// Rosenbrock is the extended Rosenbrock function
//
//	f(x) = sum_{i<n-1} 100*(x_{i+1} - x_i^2)^2 + (1 - x_i)^2
//
// with minimum 0 at all ones.
type Rosenbrock struct{}

// Name implements Objective.
func (Rosenbrock) Name() string { return "rosenbrock" }

// Start uses the classic (-1.2, 1, -1.2, 1, ...) starting point. dim must
// be at least 2.
func (Rosenbrock) Start(dim int) ([]*nn.Parameter, error) {
	if dim < 2 {
		return nil, errors.New("rosenbrock needs dim >= 2")
	}
	x := make([]float64, dim)
	for i := range x {
		if i%2 == 0 {
			x[i] = -1.2
		} else {
			x[i] = 1
		}
	}
	return vectorParam(x)
}

// Evaluate implements Objective.
func (Rosenbrock) Evaluate(params []*nn.Parameter) (float64, error) {
	return evaluateFlat(params, func(x, grad []float64) float64 {
		var loss float64
		for i := 0; i+1 < len(x); i++ {
			a := x[i+1] - x[i]*x[i]
			b := 1 - x[i]
			loss += 100*a*a + b*b
			grad[i] += -400*x[i]*a - 2*b
			grad[i+1] += 200 * a
		}
		return loss
	})
}
