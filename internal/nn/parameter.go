// Package nn holds the trainable parameter type shared by the training loop
// and the optimizers.
package nn

import (
	"github.com/born-ml/wame/internal/tensor"
)

// Parameter represents a trainable tensor owned by the host model.
//
// The optimizer never creates or destroys parameters; it reads the current
// value and writes the updated value back into the same RawTensor.
//
// Example:
//
//	w, _ := tensor.FromSlice([]float64{0.5, -0.2}, tensor.Shape{2})
//	weight := nn.NewParameter("linear.weight", w)
//	grad := weight.Grad()
type Parameter struct {
	name   string            // Parameter name (e.g., "weight", "bias")
	tensor *tensor.RawTensor // The parameter tensor
	grad   *tensor.RawTensor // Gradient from the last backward pass, nil if none
}

// NewParameter creates a new trainable parameter.
func NewParameter(name string, t *tensor.RawTensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.RawTensor {
	return p.tensor
}

// Grad returns the gradient tensor.
//
// Returns nil if no gradient has been computed yet.
func (p *Parameter) Grad() *tensor.RawTensor {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter) SetGrad(grad *tensor.RawTensor) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}

// Gradients collects the gradients of params into the map form optimizers
// consume, keyed by each parameter's tensor. Parameters without a gradient
// are left out.
func Gradients(params []*Parameter) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor, len(params))
	for _, p := range params {
		if p == nil || p.grad == nil {
			continue
		}
		grads[p.tensor] = p.grad
	}
	return grads
}
