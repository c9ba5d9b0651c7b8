// Package tune searches WAME hyperparameters for a given objective with the
// mayfly metaheuristic. Every candidate trains a fresh copy of the
// objective's start point and is scored by its final loss.
package tune

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/cwbudde/mayfly"

	"github.com/born-ml/wame/internal/objective"
	"github.com/born-ml/wame/internal/optim"
	"github.com/born-ml/wame/internal/parallel"
	"github.com/born-ml/wame/internal/train"
)

// minPopulation is the smallest population mayfly accepts.
const minPopulation = 20

// penalty scores candidates that fail or diverge.
const penalty = 1e12

// Options controls a search.
type Options struct {
	Base       optim.Hyperparameters // Variant and zeta bounds; zero fields take defaults
	Objective  objective.Objective
	Dim        int   // Problem dimension passed to Objective.Start
	Steps      int   // Training steps per candidate
	Iterations int   // Mayfly iterations
	Population int   // Mayfly population (raised to 20 if smaller)
	Seed       int64 // Random seed
	Logger     *slog.Logger
}

// Result is the best configuration found.
type Result struct {
	Best        optim.Hyperparameters
	Loss        float64
	Evaluations int64
}

// Search runs the mayfly optimizer over NewSpace(o.Base).
//
// Cancelling ctx makes remaining candidate evaluations return the penalty
// immediately; Search then reports ctx.Err().
func Search(ctx context.Context, o Options) (Result, error) {
	if o.Objective == nil {
		return Result{}, errors.New("objective is required")
	}
	if o.Steps <= 0 || o.Iterations <= 0 {
		return Result{}, fmt.Errorf("steps and iterations must be > 0 (got %d, %d)", o.Steps, o.Iterations)
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base, err := baseline(o.Base)
	if err != nil {
		return Result{}, err
	}
	space := NewSpace(base)

	var evals atomic.Int64
	eval := func(position []float64) float64 {
		evals.Add(1)
		if ctx.Err() != nil {
			return penalty
		}
		return score(ctx, space.Decode(position), o)
	}

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = eval
	config.ProblemSize = space.Dim()
	config.MaxIterations = o.Iterations
	config.NPop = max(o.Population, minPopulation)
	config.LowerBound = 0
	config.UpperBound = 1
	config.Rand = rand.New(rand.NewSource(o.Seed))

	logger.Info("Starting hyperparameter search",
		"variant", string(base.Variant),
		"objective", o.Objective.Name(),
		"dims", space.Dim(),
		"iterations", o.Iterations,
		"population", config.NPop,
	)

	result, err := mayfly.Optimize(config)
	if err != nil {
		return Result{}, fmt.Errorf("mayfly: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{
		Best:        space.Decode(result.GlobalBest.Position),
		Loss:        result.GlobalBest.Cost,
		Evaluations: evals.Load(),
	}
	logger.Info("Search complete", "loss", res.Loss, "evaluations", res.Evaluations, "config", res.Best.ExportConfig())
	return res, nil
}

// baseline fills defaults and validates the fixed part of the search.
func baseline(h optim.Hyperparameters) (optim.Hyperparameters, error) {
	if h.Variant == "" {
		h.Variant = optim.VariantAdapted
	}
	d, err := optim.Defaults(h.Variant)
	if err != nil {
		return optim.Hyperparameters{}, err
	}
	if h.ZetaMin == 0 {
		h.ZetaMin = d.ZetaMin
	}
	if h.ZetaMax == 0 {
		h.ZetaMax = d.ZetaMax
	}
	h.LR, h.Decay, h.EtaPlus, h.EtaMinus = d.LR, d.Decay, d.EtaPlus, d.EtaMinus
	if err := h.Validate(); err != nil {
		return optim.Hyperparameters{}, err
	}
	return h, nil
}

// score trains one candidate and returns its final loss.
func score(ctx context.Context, h optim.Hyperparameters, o Options) float64 {
	params, err := o.Objective.Start(o.Dim)
	if err != nil {
		return penalty
	}
	opt, err := optim.NewWame(params, h)
	if err != nil {
		return penalty
	}
	// Candidates may be evaluated concurrently; keep each one on its goroutine.
	opt.SetParallel(parallel.Sequential())

	res, err := train.Run(ctx, opt, params, o.Objective, train.Options{
		Steps:  o.Steps,
		Logger: slog.New(slog.DiscardHandler),
	})
	if err != nil || math.IsNaN(res.FinalLoss) || math.IsInf(res.FinalLoss, 0) {
		return penalty
	}
	return min(res.FinalLoss, penalty)
}
