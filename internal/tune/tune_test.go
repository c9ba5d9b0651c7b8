package tune

import (
	"context"
	"log/slog"
	"testing"

	"github.com/born-ml/wame/internal/objective"
	"github.com/born-ml/wame/internal/optim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpace_RoundTrip(t *testing.T) {
	for _, base := range []optim.Hyperparameters{optim.DefaultWame(), optim.DefaultWameAdapted()} {
		s := NewSpace(base)
		pos := s.Encode(base)
		require.Len(t, pos, s.Dim())
		for _, u := range pos {
			assert.GreaterOrEqual(t, u, 0.0)
			assert.LessOrEqual(t, u, 1.0)
		}

		got := s.Decode(pos)
		assert.Equal(t, base.Variant, got.Variant)
		assert.InDelta(t, base.Decay, got.Decay, 1e-12)
		assert.InDelta(t, base.EtaPlus, got.EtaPlus, 1e-12)
		assert.InDelta(t, base.EtaMinus, got.EtaMinus, 1e-12)
		assert.InDelta(t, base.LR, got.LR, 1e-12)
	}
	assert.Equal(t, 3, NewSpace(optim.DefaultWame()).Dim())
	assert.Equal(t, 4, NewSpace(optim.DefaultWameAdapted()).Dim())
}

func TestSpace_DecodeIsAlwaysValid(t *testing.T) {
	s := NewSpace(optim.DefaultWameAdapted())
	for _, u := range []float64{-1, 0, 0.25, 0.5, 1, 2} {
		h := s.Decode([]float64{u, u, u, u})
		assert.NoError(t, h.Validate(), "u=%g", u)
	}
}

func TestScore(t *testing.T) {
	o := Options{Objective: objective.Sphere{}, Dim: 4, Steps: 50}

	good := score(context.Background(), optim.DefaultWameAdapted(), o)
	assert.Less(t, good, 4.0)

	o.Dim = 0 // Start fails
	assert.Equal(t, penalty, score(context.Background(), optim.DefaultWameAdapted(), o))
}

func TestSearch_Validation(t *testing.T) {
	_, err := Search(context.Background(), Options{})
	assert.Error(t, err)

	_, err = Search(context.Background(), Options{Objective: objective.Sphere{}, Steps: 10})
	assert.Error(t, err)

	_, err = Search(context.Background(), Options{
		Objective:  objective.Sphere{},
		Steps:      10,
		Iterations: 1,
		Base:       optim.Hyperparameters{Variant: "rprop"},
	})
	assert.ErrorIs(t, err, optim.ErrUnknownVariant)
}

func TestSearch_Sphere(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping search in short mode")
	}
	res, err := Search(context.Background(), Options{
		Objective:  objective.Sphere{},
		Dim:        2,
		Steps:      30,
		Iterations: 5,
		Population: 20,
		Seed:       1,
		Logger:     slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)
	assert.NoError(t, res.Best.Validate())
	assert.Equal(t, optim.VariantAdapted, res.Best.Variant)
	assert.Greater(t, res.Evaluations, int64(0))
	assert.Less(t, res.Loss, 2.0)
}
