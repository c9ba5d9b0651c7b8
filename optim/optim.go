// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/wame/internal/optim"
	"github.com/born-ml/wame/nn"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Variant selects the WAME update formula.
type Variant = optim.Variant

// Supported variants.
const (
	VariantWame    = optim.VariantWame
	VariantAdapted = optim.VariantAdapted
)

// Hyperparameters configures a Wame optimizer.
type Hyperparameters = optim.Hyperparameters

// Wame is the WAME optimizer.
type Wame = optim.Wame

// ParamState is the per-parameter optimizer history.
type ParamState = optim.ParamState

// Update is a pending parameter assignment returned by Wame.Updates.
type Update = optim.Update

// ShapeError reports a gradient whose shape differs from its parameter.
type ShapeError = optim.ShapeError

// HyperparameterError reports an out-of-range hyperparameter.
type HyperparameterError = optim.HyperparameterError

// StateError reports loaded optimizer state that breaks its invariants.
type StateError = optim.StateError

// Errors.
var (
	ErrShapeMismatch         = optim.ErrShapeMismatch
	ErrInvalidHyperparameter = optim.ErrInvalidHyperparameter
	ErrUnknownVariant        = optim.ErrUnknownVariant
	ErrInvalidState          = optim.ErrInvalidState
)

// NewWame creates a new WAME optimizer.
//
// Zero fields of h take the variant defaults; an empty Variant selects
// VariantAdapted.
//
// Example:
//
//	optimizer, err := optim.NewWame(params, optim.Hyperparameters{
//	    Variant: optim.VariantAdapted,
//	    LR:      0.001,
//	})
func NewWame(params []*nn.Parameter, h Hyperparameters) (*Wame, error) {
	return optim.NewWame(params, h)
}

// DefaultWame returns the VariantWame defaults.
func DefaultWame() Hyperparameters {
	return optim.DefaultWame()
}

// DefaultWameAdapted returns the VariantAdapted defaults.
func DefaultWameAdapted() Hyperparameters {
	return optim.DefaultWameAdapted()
}

// ParseVariant converts a name to a Variant.
func ParseVariant(name string) (Variant, error) {
	return optim.ParseVariant(name)
}

// ImportConfig builds Hyperparameters of variant v from a config map.
func ImportConfig(v Variant, config map[string]float64) (Hyperparameters, error) {
	return optim.ImportConfig(v, config)
}
