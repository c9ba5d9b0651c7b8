package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeNumElements(t *testing.T) {
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 3, Shape{3}.NumElements())
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
}

func TestShapeValidate(t *testing.T) {
	require.NoError(t, Shape{2, 3}.Validate())
	assert.Error(t, Shape{2, 0}.Validate())
	assert.Error(t, Shape{-1}.Validate())
}

func TestShapeEqualAndClone(t *testing.T) {
	s := Shape{2, 3}
	c := s.Clone()
	assert.True(t, s.Equal(c))

	c[0] = 5
	assert.False(t, s.Equal(c), "clone must not alias")
	assert.False(t, Shape{3}.Equal(Shape{3, 1}))
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "()", Shape{}.String())
	assert.Equal(t, "(3,)", Shape{3}.String())
	assert.Equal(t, "(2, 3)", Shape{2, 3}.String())
}

func TestFromSlice(t *testing.T) {
	src := []float64{1, 2, 3}
	raw, err := FromSlice(src, Shape{3})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, raw.Data())

	// FromSlice copies.
	src[0] = 42
	assert.Equal(t, 1.0, raw.Data()[0])

	_, err = FromSlice([]float64{1, 2}, Shape{3})
	assert.Error(t, err)
}

func TestFullZerosOnes(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 0, 0}, Zeros(Shape{2, 2}).Data())
	assert.Equal(t, []float64{1, 1}, Ones(Shape{2}).Data())
	assert.Equal(t, []float64{2.5, 2.5, 2.5}, Full(Shape{3}, 2.5).Data())
	assert.Panics(t, func() { Zeros(Shape{0}) })
}

func TestCloneIsDeep(t *testing.T) {
	raw := Ones(Shape{2})
	c := raw.Clone()
	c.Data()[0] = 7
	assert.Equal(t, 1.0, raw.Data()[0])
}

func TestCopyFrom(t *testing.T) {
	dst := Zeros(Shape{2})
	require.NoError(t, dst.CopyFrom(Full(Shape{2}, 3)))
	assert.Equal(t, []float64{3, 3}, dst.Data())

	assert.Error(t, dst.CopyFrom(Zeros(Shape{3})))
}
