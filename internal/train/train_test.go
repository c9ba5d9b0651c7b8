package train

import (
	"context"
	"log/slog"
	"testing"

	"github.com/born-ml/wame/internal/nn"
	"github.com/born-ml/wame/internal/objective"
	"github.com/born-ml/wame/internal/optim"
	"github.com/born-ml/wame/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.DiscardHandler)

func TestRun_SphereAdapted(t *testing.T) {
	obj := objective.Sphere{}
	params, err := obj.Start(8)
	require.NoError(t, err)

	h := optim.DefaultWameAdapted()
	h.LR = 0.01
	opt, err := optim.NewWame(params, h)
	require.NoError(t, err)

	res, err := Run(context.Background(), opt, params, obj, Options{Steps: 300, Logger: quiet})
	require.NoError(t, err)
	assert.Equal(t, 300, res.Steps)
	assert.Equal(t, 8.0, res.InitialLoss)
	assert.Less(t, res.FinalLoss, res.InitialLoss)
	assert.Equal(t, int64(300), opt.Iterations())
	assert.Nil(t, params[0].Grad(), "gradients cleared after run")
}

func TestRun_Tolerance(t *testing.T) {
	obj := objective.Sphere{}
	params, err := obj.Start(2)
	require.NoError(t, err)
	opt, err := optim.NewWame(params, optim.Hyperparameters{LR: 0.05})
	require.NoError(t, err)

	res, err := Run(context.Background(), opt, params, obj, Options{Steps: 100000, Tolerance: 1.9, Logger: quiet})
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.LessOrEqual(t, res.FinalLoss, 1.9)
	assert.Less(t, res.Steps, 100000)
}

func TestRun_Cancelled(t *testing.T) {
	obj := objective.Sphere{}
	params, err := obj.Start(2)
	require.NoError(t, err)
	opt, err := optim.NewWame(params, optim.DefaultWameAdapted())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, opt, params, obj, Options{Steps: 10, Logger: quiet})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Steps)
	assert.Equal(t, []float64{1, 1}, params[0].Tensor().Data())
}

func TestRun_Constraint(t *testing.T) {
	obj := objective.Sphere{}
	params, err := obj.Start(2)
	require.NoError(t, err)
	opt, err := optim.NewWame(params, optim.Hyperparameters{LR: 0.05})
	require.NoError(t, err)

	// The unconstrained minimum is at 0; the box keeps x >= 0.5.
	res, err := Run(context.Background(), opt, params, obj, Options{
		Steps:      20,
		Constraint: BoxConstraint(0.5, 2),
		Logger:     quiet,
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, params[0].Tensor().Data())
	assert.Equal(t, 0.5, res.FinalLoss)
}

func TestBoxConstraint(t *testing.T) {
	x, _ := tensor.FromSlice([]float64{-3, 0.2, 9}, tensor.Shape{3})
	BoxConstraint(-1, 1)(nn.NewParameter("x", x))
	assert.Equal(t, []float64{-1, 0.2, 1}, x.Data())
}

func TestRun_InvalidSteps(t *testing.T) {
	_, err := Run(context.Background(), nil, nil, objective.Sphere{}, Options{})
	assert.Error(t, err)
}

// shapeShifter reports gradients of the wrong shape.
type shapeShifter struct{ objective.Sphere }

func (shapeShifter) Evaluate(params []*nn.Parameter) (float64, error) {
	for _, p := range params {
		p.SetGrad(tensor.Zeros(tensor.Shape{p.Tensor().NumElements() + 1}))
	}
	return 1, nil
}

func TestRun_PropagatesShapeMismatch(t *testing.T) {
	params, err := objective.Sphere{}.Start(3)
	require.NoError(t, err)
	opt, err := optim.NewWame(params, optim.DefaultWameAdapted())
	require.NoError(t, err)

	_, err = Run(context.Background(), opt, params, shapeShifter{}, Options{Steps: 5, Logger: quiet})
	assert.ErrorIs(t, err, optim.ErrShapeMismatch)
}

func TestClipGradients(t *testing.T) {
	p := nn.NewParameter("x", tensor.Zeros(tensor.Shape{3}))
	g, _ := tensor.FromSlice([]float64{-5, 0.5, 7}, tensor.Shape{3})
	p.SetGrad(g)

	clipGradients([]*nn.Parameter{p, nn.NewParameter("nograd", tensor.Zeros(tensor.Shape{1}))}, 1)
	assert.Equal(t, []float64{-1, 0.5, 1}, p.Grad().Data())
}
