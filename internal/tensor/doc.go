// Package tensor provides the shaped numeric arrays that optimizers read and
// write: parameter values, gradients and per-parameter optimizer state.
package tensor
