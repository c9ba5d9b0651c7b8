// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the trainable parameter type optimizers update.
package nn

import (
	"github.com/born-ml/wame/internal/nn"
	"github.com/born-ml/wame/tensor"
)

// Parameter represents a trainable tensor owned by the model.
//
// Example:
//
//	w, _ := tensor.FromSlice([]float64{0.1, 0.2}, tensor.Shape{2})
//	weight := nn.NewParameter("weight", w)
//	weight.SetGrad(grad)
//
// Methods:
//
//	Name() string
//	    Returns the parameter name (e.g., "weight", "bias").
//
//	Tensor() *tensor.RawTensor
//	    Returns the parameter tensor.
//
//	Grad() *tensor.RawTensor
//	    Returns the gradient tensor (nil if not computed yet).
//
//	SetGrad(grad *tensor.RawTensor)
//	    Sets the gradient tensor.
//
//	ZeroGrad()
//	    Clears the gradient tensor.
type Parameter = nn.Parameter

// NewParameter creates a new trainable parameter.
func NewParameter(name string, t *tensor.RawTensor) *Parameter {
	return nn.NewParameter(name, t)
}

// Gradients collects parameter gradients into the map form Step consumes.
func Gradients(params []*Parameter) map[*tensor.RawTensor]*tensor.RawTensor {
	return nn.Gradients(params)
}
