// Package train runs the host side of an optimization: ask the objective for
// gradients, apply host constraints, step the optimizer, repeat.
package train

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/born-ml/wame/internal/nn"
	"github.com/born-ml/wame/internal/objective"
	"github.com/born-ml/wame/internal/optim"
)

// ErrDiverged is returned when the loss stops being finite.
var ErrDiverged = errors.New("loss is not finite")

// Constraint projects a parameter back into its feasible set in place. The
// optimizer itself never constrains parameters; the host applies this to the
// updated values.
type Constraint func(p *nn.Parameter)

// BoxConstraint clamps every parameter element into [lo, hi].
func BoxConstraint(lo, hi float64) Constraint {
	return func(p *nn.Parameter) {
		data := p.Tensor().Data()
		for i, v := range data {
			data[i] = math.Max(lo, math.Min(hi, v))
		}
	}
}

// Options controls a training run.
type Options struct {
	Steps      int          // Number of optimizer steps (must be > 0)
	LogEvery   int          // Log progress every N steps (0 = only start and end)
	ClipValue  float64      // Clamp gradients to [-ClipValue, ClipValue] before stepping (0 = off)
	Constraint Constraint   // Applied to every parameter after each step (nil = none)
	Tolerance  float64      // Stop once loss <= Tolerance (0 = run all steps)
	Logger     *slog.Logger // nil = slog.Default()
}

// Result summarizes a run.
type Result struct {
	Steps       int
	InitialLoss float64
	FinalLoss   float64
	Converged   bool
	Duration    time.Duration
}

// Run minimizes obj over params with opt.
//
// The context is checked between steps; on cancellation Run returns the
// progress so far together with ctx.Err(). Gradients are cleared after
// every step.
func Run(ctx context.Context, opt optim.Optimizer, params []*nn.Parameter, obj objective.Objective, o Options) (Result, error) {
	if o.Steps <= 0 {
		return Result{}, fmt.Errorf("steps must be > 0, got %d", o.Steps)
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	var res Result

	loss, err := obj.Evaluate(params)
	if err != nil {
		return res, fmt.Errorf("evaluate %s: %w", obj.Name(), err)
	}
	res.InitialLoss = loss
	logger.Info("Starting optimization", "objective", obj.Name(), "steps", o.Steps, "loss", loss)

	for step := 1; ; step++ {
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			res.FinalLoss = loss
			res.Duration = time.Since(start)
			return res, fmt.Errorf("step %d: %w", res.Steps, ErrDiverged)
		}
		if o.Tolerance > 0 && loss <= o.Tolerance {
			res.Converged = true
			break
		}
		if step > o.Steps {
			break
		}
		if err := ctx.Err(); err != nil {
			res.FinalLoss = loss
			res.Duration = time.Since(start)
			return res, err
		}

		if o.ClipValue > 0 {
			clipGradients(params, o.ClipValue)
		}
		if err := opt.Step(nn.Gradients(params)); err != nil {
			return res, err
		}
		opt.ZeroGrad()
		if o.Constraint != nil {
			for _, p := range params {
				o.Constraint(p)
			}
		}
		res.Steps = step

		loss, err = obj.Evaluate(params)
		if err != nil {
			return res, fmt.Errorf("evaluate %s: %w", obj.Name(), err)
		}
		if o.LogEvery > 0 && step%o.LogEvery == 0 {
			logger.Info("Progress", "step", step, "loss", loss, "lr", opt.GetLR())
		}
	}

	for _, p := range params {
		p.ZeroGrad()
	}
	res.FinalLoss = loss
	res.Duration = time.Since(start)

	logger.Info("Optimization complete",
		"steps", res.Steps,
		"initial_loss", res.InitialLoss,
		"final_loss", res.FinalLoss,
		"converged", res.Converged,
		"duration", res.Duration,
	)
	return res, nil
}

// clipGradients clamps every gradient element into [-limit, limit] in place.
func clipGradients(params []*nn.Parameter, limit float64) {
	for _, p := range params {
		g := p.Grad()
		if g == nil {
			continue
		}
		data := g.Data()
		for i, v := range data {
			data[i] = math.Max(-limit, math.Min(limit, v))
		}
	}
}
