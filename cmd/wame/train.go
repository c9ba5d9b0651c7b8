package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/born-ml/wame/internal/objective"
	"github.com/born-ml/wame/internal/optim"
	"github.com/born-ml/wame/internal/serialization"
	"github.com/born-ml/wame/internal/train"
)

var (
	trainHP         hyperparamFlags
	trainObjective  string
	trainDim        int
	trainSteps      int
	trainLogEvery   int
	trainClip       float64
	trainParamLimit float64
	trainTol        float64
	trainCheckpoint string
	trainResume     string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Minimize a built-in objective with WAME",
	Long: `Runs the WAME optimizer on a test objective and reports the loss.
Optimizer state can be saved to and resumed from a checkpoint file.`,
	RunE: runTrain,
}

func init() {
	trainHP.register(trainCmd.Flags())
	trainCmd.Flags().StringVar(&trainObjective, "objective", "rosenbrock", fmt.Sprintf("Objective %v", objective.Names()))
	trainCmd.Flags().IntVar(&trainDim, "dim", 2, "Problem dimension")
	trainCmd.Flags().IntVar(&trainSteps, "steps", 1000, "Optimizer steps")
	trainCmd.Flags().IntVar(&trainLogEvery, "log-every", 100, "Log progress every N steps (0 = off)")
	trainCmd.Flags().Float64Var(&trainClip, "clip", 0, "Clip gradient values to [-clip, clip] (0 = off)")
	trainCmd.Flags().Float64Var(&trainParamLimit, "param-limit", 0, "Clamp parameters to [-limit, limit] after every step (0 = off)")
	trainCmd.Flags().Float64Var(&trainTol, "tol", 0, "Stop once loss <= tol (0 = off)")
	trainCmd.Flags().StringVar(&trainCheckpoint, "checkpoint", "", "Write a checkpoint here when done")
	trainCmd.Flags().StringVar(&trainResume, "resume", "", "Resume from this checkpoint")

	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	obj, err := objective.Lookup(trainObjective)
	if err != nil {
		return err
	}
	params, err := obj.Start(trainDim)
	if err != nil {
		return fmt.Errorf("failed to initialize %s: %w", obj.Name(), err)
	}

	var base optim.Hyperparameters
	var ckpt *serialization.Checkpoint
	if trainResume != "" {
		if ckpt, err = serialization.LoadCheckpoint(trainResume); err != nil {
			return err
		}
		if base, err = ckpt.Optimizer.Hyperparameters(); err != nil {
			return fmt.Errorf("checkpoint config: %w", err)
		}
	}
	h, err := trainHP.resolve(cmd.Flags(), base)
	if err != nil {
		return err
	}

	opt, err := optim.NewWame(params, h)
	if err != nil {
		return err
	}
	opt.SetLogger(slog.Default())

	if ckpt != nil {
		if err := ckpt.Restore(opt); err != nil {
			return fmt.Errorf("failed to resume from %s: %w", trainResume, err)
		}
		// Flags given on the command line win over the checkpoint config.
		if err := opt.Configure(h); err != nil {
			return err
		}
		slog.Info("Resumed from checkpoint", "path", trainResume, "iterations", opt.Iterations())
	}

	slog.Info("Optimizer config", "variant", string(h.Variant), "config", h.ExportConfig())

	var constraint train.Constraint
	if trainParamLimit > 0 {
		constraint = train.BoxConstraint(-trainParamLimit, trainParamLimit)
	}

	res, err := train.Run(cmd.Context(), opt, params, obj, train.Options{
		Steps:      trainSteps,
		LogEvery:   trainLogEvery,
		ClipValue:  trainClip,
		Constraint: constraint,
		Tolerance:  trainTol,
	})
	if err != nil {
		return err
	}

	if trainCheckpoint != "" {
		out, err := serialization.NewCheckpoint(opt)
		if err != nil {
			return err
		}
		if err := out.Save(trainCheckpoint); err != nil {
			return err
		}
		slog.Info("Saved checkpoint", "path", trainCheckpoint, "iterations", opt.Iterations())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "steps=%d loss=%.6g -> %.6g x=%v\n",
		res.Steps, res.InitialLoss, res.FinalLoss, params[0].Tensor().Data())
	return nil
}
