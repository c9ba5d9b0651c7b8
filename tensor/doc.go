// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the shaped float64 arrays exchanged with the WAME
// optimizer: parameter values, gradients and optimizer state.
//
// # Basic Usage
//
//	w, err := tensor.FromSlice([]float64{0.5, -1, 2, 0}, tensor.Shape{2, 2})
//	if err != nil {
//	    return err
//	}
//	grad := tensor.Zeros(w.Shape())
//	grad.Data()[0] = 0.1
package tensor
