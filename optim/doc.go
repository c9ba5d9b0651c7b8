// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the WAME optimizer.
//
// # Overview
//
// WAME adapts a per-element scaling factor zeta from the sign agreement of
// consecutive gradients and scales each step by running averages of zeta
// and of a second-moment term. Two variants are available:
//   - VariantAdapted (wame_adapted): lr, beta, eta_plus, eta_minus, zeta_min, zeta_max.
//     Recommended for training.
//   - VariantWame (wame): alpha, eta_pos, eta_neg, zeta_min, zeta_max.
//     Reference formulation without the squared-gradient term.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/wame/nn"
//	    "github.com/born-ml/wame/optim"
//	    "github.com/born-ml/wame/tensor"
//	)
//
//	func main() {
//	    w, _ := tensor.FromSlice([]float64{1, -1}, tensor.Shape{2})
//	    params := []*nn.Parameter{nn.NewParameter("w", w)}
//
//	    optimizer, err := optim.NewWame(params, optim.DefaultWameAdapted())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    for range 100 {
//	        computeGradients(params) // sets p.SetGrad(...)
//	        if err := optimizer.Step(nn.Gradients(params)); err != nil {
//	            log.Fatal(err)
//	        }
//	        optimizer.ZeroGrad()
//	    }
//	}
//
// # Configuration
//
// ExportConfig and ImportConfig exchange hyperparameters as a flat
// name -> value map suitable for merging into a host checkpoint config:
//
//	config := optimizer.ExportConfig() // {"lr": 0.001, "beta": 0.9, ...}
//	err := optimizer.ImportConfig(config)
package optim
