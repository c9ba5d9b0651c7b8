package tensor

import (
	"fmt"
)

// RawTensor is the low-level tensor representation: a shape and a
// contiguous row-major float64 buffer.
//
// Optimizers identify parameters by the *RawTensor pointer, so a
// RawTensor is updated in place rather than replaced.
type RawTensor struct {
	shape Shape
	data  []float64
}

// NewRaw creates a new zero-filled RawTensor with the given shape.
func NewRaw(shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &RawTensor{
		shape: shape.Clone(),
		data:  make([]float64, shape.NumElements()),
	}, nil
}

// FromSlice creates a RawTensor that copies data into a new buffer.
//
// Returns an error if len(data) does not match the number of elements
// described by shape.
func FromSlice(data []float64, shape Shape) (*RawTensor, error) {
	raw, err := NewRaw(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != raw.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, raw.NumElements())
	}
	copy(raw.data, data)
	return raw, nil
}

// Zeros creates a RawTensor filled with zeros.
//
// Panics on an invalid shape; shapes passed here come from existing tensors.
func Zeros(shape Shape) *RawTensor {
	return Full(shape, 0)
}

// Ones creates a RawTensor filled with ones.
func Ones(shape Shape) *RawTensor {
	return Full(shape, 1)
}

// Full creates a RawTensor with every element set to value.
func Full(shape Shape, value float64) *RawTensor {
	raw, err := NewRaw(shape)
	if err != nil {
		panic(err)
	}
	if value != 0 {
		for i := range raw.data {
			raw.data[i] = value
		}
	}
	return raw
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return len(r.data)
}

// Data returns the underlying buffer.
// WARNING: Direct access to underlying memory. Writes are visible to every holder.
func (r *RawTensor) Data() []float64 {
	return r.data
}

// Clone returns a deep copy with its own buffer.
func (r *RawTensor) Clone() *RawTensor {
	data := make([]float64, len(r.data))
	copy(data, r.data)
	return &RawTensor{shape: r.shape.Clone(), data: data}
}

// CopyFrom overwrites r's values with src's values in place.
func (r *RawTensor) CopyFrom(src *RawTensor) error {
	if !r.shape.Equal(src.shape) {
		return fmt.Errorf("copy shape mismatch: dst %v, src %v", r.shape, src.shape)
	}
	copy(r.data, src.data)
	return nil
}

// String implements fmt.Stringer.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor(shape=%v, data=%v)", r.shape, r.data)
}
