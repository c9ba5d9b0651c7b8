package optim_test

import (
	"testing"

	"github.com/born-ml/wame/nn"
	"github.com/born-ml/wame/optim"
	"github.com/born-ml/wame/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPublicAPI exercises the facade end to end on f(x) = x^2.
func TestPublicAPI(t *testing.T) {
	x, err := tensor.FromSlice([]float64{2}, tensor.Shape{1})
	require.NoError(t, err)
	params := []*nn.Parameter{nn.NewParameter("x", x)}

	optimizer, err := optim.NewWame(params, optim.Hyperparameters{Variant: optim.VariantAdapted, LR: 0.05})
	require.NoError(t, err)

	var opt optim.Optimizer = optimizer
	for range 50 {
		g := tensor.Full(tensor.Shape{1}, 2*x.Data()[0])
		params[0].SetGrad(g)
		require.NoError(t, opt.Step(nn.Gradients(params)))
		opt.ZeroGrad()
	}
	assert.Less(t, x.Data()[0]*x.Data()[0], 4.0)

	h, err := optim.ImportConfig(optim.VariantAdapted, optimizer.ExportConfig())
	require.NoError(t, err)
	assert.Equal(t, optimizer.Hyperparameters(), h)

	bad := tensor.Zeros(tensor.Shape{2})
	err = optimizer.Step(map[*tensor.RawTensor]*tensor.RawTensor{x: bad})
	assert.ErrorIs(t, err, optim.ErrShapeMismatch)
}
