// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/wame/internal/tensor"
)

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// RawTensor is a shape plus a contiguous row-major float64 buffer.
//
// Optimizers identify parameters by *RawTensor, so parameter tensors are
// updated in place.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3})
//	data := raw.Data()   // zero-copy access
//	clone := raw.Clone() // deep copy
type RawTensor = tensor.RawTensor

// NewRaw creates a zero-filled tensor.
func NewRaw(shape Shape) (*RawTensor, error) {
	return tensor.NewRaw(shape)
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice(data []float64, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *RawTensor {
	return tensor.Zeros(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *RawTensor {
	return tensor.Ones(shape)
}

// Full creates a tensor with every element set to value.
func Full(shape Shape, value float64) *RawTensor {
	return tensor.Full(shape, value)
}
