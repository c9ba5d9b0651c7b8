// Package optim implements the WAME family of optimizers.
//
// WAME (weight-wise adaptive learning rates with moving average estimator)
// keeps one scaling factor zeta per parameter element. Zeta grows while
// consecutive gradients agree in sign and shrinks when they disagree. An
// exponential moving average of zeta and a second running average (theta)
// then scale the gradient step.
//
// Two variants share state and control flow:
//   - Wame (VariantWame): alpha, eta_pos, eta_neg. Theta averages a constant
//     observation and the step scale is fixed at 0.1. Kept as a reference mode.
//   - WameAdapted (VariantAdapted): lr, beta, eta_plus, eta_minus. Theta is
//     the running average of squared gradients; preferred for real training.
//
// Example usage:
//
//	optimizer, err := optim.NewWame(params, optim.DefaultWameAdapted())
//	if err != nil {
//	    return err
//	}
//
//	for range steps {
//	    if _, err := obj.Evaluate(params); err != nil { // fills param gradients
//	        return err
//	    }
//	    if err := optimizer.Step(nn.Gradients(params)); err != nil {
//	        return err
//	    }
//	    optimizer.ZeroGrad()
//	}
package optim

import (
	"github.com/born-ml/wame/internal/nn"
	"github.com/born-ml/wame/internal/tensor"
)

// Optimizer is the capability interface the training loop consumes.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters
//   - ZeroGrad: Clear gradients before next iteration
//   - GetLR: Get current learning rate (for monitoring)
type Optimizer interface {
	// Step applies gradient updates to all parameters.
	//
	// The gradient map is keyed by each parameter's tensor. Parameters
	// missing from the map are left untouched. An error means no parameter
	// was modified.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor) error

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the base learning rate.
	GetLR() float64
}

// getGradient safely retrieves gradient for a parameter.
//
// Returns nil if no gradient is found (parameter wasn't part of computation graph).
func getGradient(param *nn.Parameter, grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor()]
}
