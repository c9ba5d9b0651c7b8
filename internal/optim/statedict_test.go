package optim_test

import (
	"math"
	"testing"

	"github.com/born-ml/wame/internal/nn"
	"github.com/born-ml/wame/internal/optim"
	"github.com/born-ml/wame/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateDict_Keys(t *testing.T) {
	a := newParam(t, "a", []float64{1, 2}, tensor.Shape{2})
	b := newParam(t, "b", []float64{3}, tensor.Shape{1})
	opt, err := optim.NewWame([]*nn.Parameter{a, b}, optim.DefaultWameAdapted())
	require.NoError(t, err)

	require.NoError(t, opt.Step(gradFor(t, a, 0.1, 0.2)))

	sd := opt.StateDict()
	for _, key := range []string{"prev_grad.0", "zeta.0", "z.0", "theta.0", "iterations"} {
		assert.Contains(t, sd, key)
	}
	assert.NotContains(t, sd, "zeta.1", "b has no history yet")
	assert.Equal(t, []float64{1}, sd["iterations"].Data())

	// Copies, not views.
	sd["zeta.0"].Data()[0] = 42
	assert.NotEqual(t, 42.0, opt.State(a).Zeta.Data()[0])
}

// TestStateDict_ResumeMatchesContinuous checks that restoring a state dict
// into a fresh optimizer continues exactly where the original left off.
func TestStateDict_ResumeMatchesContinuous(t *testing.T) {
	grads := [][]float64{{0.5, -0.2}, {0.4, 0.3}, {-0.1, 0.3}, {0.2, 0.2}}

	p := newParam(t, "w", []float64{1, 1}, tensor.Shape{2})
	opt, err := optim.NewWame([]*nn.Parameter{p}, optim.DefaultWameAdapted())
	require.NoError(t, err)
	for _, g := range grads[:2] {
		require.NoError(t, opt.Step(gradFor(t, p, g...)))
	}

	sd := opt.StateDict()
	resumed := newParam(t, "w", p.Tensor().Data(), tensor.Shape{2})
	opt2, err := optim.NewWame([]*nn.Parameter{resumed}, optim.DefaultWameAdapted())
	require.NoError(t, err)
	require.NoError(t, opt2.LoadStateDict(sd))
	assert.Equal(t, int64(2), opt2.Iterations())

	for _, g := range grads[2:] {
		require.NoError(t, opt.Step(gradFor(t, p, g...)))
		require.NoError(t, opt2.Step(gradFor(t, resumed, g...)))
	}
	assert.Equal(t, p.Tensor().Data(), resumed.Tensor().Data())
	assert.Equal(t, opt.State(p), opt2.State(resumed))
	assert.Equal(t, int64(4), opt2.Iterations())
}

func TestLoadStateDict_ShapeMismatch(t *testing.T) {
	p := newParam(t, "w", []float64{1, 1}, tensor.Shape{2})
	opt, err := optim.NewWame([]*nn.Parameter{p}, optim.DefaultWame())
	require.NoError(t, err)

	sd := map[string]*tensor.RawTensor{
		"prev_grad.0": tensor.Zeros(tensor.Shape{3}),
		"zeta.0":      tensor.Ones(tensor.Shape{2}),
		"z.0":         tensor.Zeros(tensor.Shape{2}),
		"theta.0":     tensor.Zeros(tensor.Shape{2}),
	}
	require.ErrorIs(t, opt.LoadStateDict(sd), optim.ErrShapeMismatch)
	assert.Nil(t, opt.State(p))
}

func TestLoadStateDict_Incomplete(t *testing.T) {
	p := newParam(t, "w", []float64{1}, tensor.Shape{1})
	opt, err := optim.NewWame([]*nn.Parameter{p}, optim.DefaultWame())
	require.NoError(t, err)
	require.NoError(t, opt.Step(gradFor(t, p, 1)))
	before := opt.State(p)

	err = opt.LoadStateDict(map[string]*tensor.RawTensor{"zeta.0": tensor.Ones(tensor.Shape{1})})
	require.Error(t, err)
	assert.Same(t, before, opt.State(p))
	assert.Equal(t, int64(1), opt.Iterations())
}

// validStateDict returns a complete, valid state for a single parameter of
// shape (1,).
func validStateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"prev_grad.0": tensor.Full(tensor.Shape{1}, 0.5),
		"zeta.0":      tensor.Full(tensor.Shape{1}, 1.2),
		"z.0":         tensor.Full(tensor.Shape{1}, 0.1),
		"theta.0":     tensor.Full(tensor.Shape{1}, 0.025),
		"iterations":  tensor.Full(tensor.Shape{}, 3),
	}
}

func TestLoadStateDict_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value *tensor.RawTensor
	}{
		{"zeta above max", "zeta.0", tensor.Full(tensor.Shape{1}, 500)},
		{"zeta below min", "zeta.0", tensor.Full(tensor.Shape{1}, 0.001)},
		{"negative z", "z.0", tensor.Full(tensor.Shape{1}, -1e5)},
		{"negative theta", "theta.0", tensor.Full(tensor.Shape{1}, -0.1)},
		{"NaN theta", "theta.0", tensor.Full(tensor.Shape{1}, math.NaN())},
		{"infinite prev_grad", "prev_grad.0", tensor.Full(tensor.Shape{1}, math.Inf(-1))},
		{"nil tensor", "z.0", nil},
		{"nil iterations", "iterations", nil},
		{"negative iterations", "iterations", tensor.Full(tensor.Shape{}, -7)},
		{"fractional iterations", "iterations", tensor.Full(tensor.Shape{}, 7.5)},
		{"NaN iterations", "iterations", tensor.Full(tensor.Shape{}, math.NaN())},
		{"infinite iterations", "iterations", tensor.Full(tensor.Shape{}, math.Inf(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParam(t, "w", []float64{1}, tensor.Shape{1})
			opt, err := optim.NewWame([]*nn.Parameter{p}, optim.DefaultWame())
			require.NoError(t, err)

			sd := validStateDict()
			sd[tt.key] = tt.value

			err = opt.LoadStateDict(sd)
			require.ErrorIs(t, err, optim.ErrInvalidState)

			var stateErr *optim.StateError
			require.ErrorAs(t, err, &stateErr)
			assert.Equal(t, tt.key, stateErr.Key)
			assert.Nil(t, opt.State(p))
			assert.Equal(t, int64(0), opt.Iterations())
		})
	}

	// The unmodified dict loads.
	p := newParam(t, "w", []float64{1}, tensor.Shape{1})
	opt, err := optim.NewWame([]*nn.Parameter{p}, optim.DefaultWame())
	require.NoError(t, err)
	require.NoError(t, opt.LoadStateDict(validStateDict()))
	assert.Equal(t, int64(3), opt.Iterations())
}

// TestLoadStateDict_StepDescends checks that a loaded state still moves a
// parameter against a positive gradient.
func TestLoadStateDict_StepDescends(t *testing.T) {
	for _, h := range []optim.Hyperparameters{optim.DefaultWame(), optim.DefaultWameAdapted()} {
		t.Run(string(h.Variant), func(t *testing.T) {
			p := newParam(t, "w", []float64{1}, tensor.Shape{1})
			opt, err := optim.NewWame([]*nn.Parameter{p}, h)
			require.NoError(t, err)
			require.NoError(t, opt.LoadStateDict(validStateDict()))

			require.NoError(t, opt.Step(gradFor(t, p, 1)))
			assert.Less(t, p.Tensor().Data()[0], 1.0)
		})
	}
}

func TestLoadState_UsesGivenBounds(t *testing.T) {
	p := newParam(t, "w", []float64{1}, tensor.Shape{1})
	opt, err := optim.NewWame([]*nn.Parameter{p}, optim.DefaultWameAdapted())
	require.NoError(t, err)

	sd := validStateDict()
	sd["zeta.0"] = tensor.Full(tensor.Shape{1}, 50)

	narrow := optim.DefaultWame()
	narrow.ZetaMax = 10
	require.ErrorIs(t, opt.LoadState(narrow, sd), optim.ErrInvalidState)
	assert.Equal(t, optim.DefaultWameAdapted(), opt.Hyperparameters())

	require.NoError(t, opt.LoadState(optim.DefaultWame(), sd))
	assert.Equal(t, optim.DefaultWame(), opt.Hyperparameters())
	assert.Equal(t, []float64{50}, opt.State(p).Zeta.Data())

	bad := optim.DefaultWame()
	bad.Decay = 2
	require.ErrorIs(t, opt.LoadState(bad, validStateDict()), optim.ErrInvalidHyperparameter)
	assert.Equal(t, []float64{50}, opt.State(p).Zeta.Data())
}
