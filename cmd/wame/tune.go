package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/wame/internal/objective"
	"github.com/born-ml/wame/internal/optim"
	"github.com/born-ml/wame/internal/serialization"
	"github.com/born-ml/wame/internal/tune"
)

var (
	tuneHP        hyperparamFlags
	tuneObjective string
	tuneDim       int
	tuneSteps     int
	tuneIters     int
	tunePop       int
	tuneSeed      int64
	tuneOut       string
)

var tuneCmd = &cobra.Command{
	Use:   "tune",
	Short: "Search WAME hyperparameters with mayfly",
	Long: `Searches decay, eta factors and (for wame_adapted) the learning rate that
minimize the objective's loss after a fixed number of steps. Zeta bounds are
taken from the flags or config file.`,
	RunE: runTune,
}

func init() {
	tuneHP.register(tuneCmd.Flags())
	tuneCmd.Flags().StringVar(&tuneObjective, "objective", "rosenbrock", fmt.Sprintf("Objective %v", objective.Names()))
	tuneCmd.Flags().IntVar(&tuneDim, "dim", 2, "Problem dimension")
	tuneCmd.Flags().IntVar(&tuneSteps, "steps", 200, "Training steps per candidate")
	tuneCmd.Flags().IntVar(&tuneIters, "iters", 50, "Mayfly iterations")
	tuneCmd.Flags().IntVar(&tunePop, "pop", 20, "Mayfly population size (>= 20)")
	tuneCmd.Flags().Int64Var(&tuneSeed, "seed", 42, "Random seed")
	tuneCmd.Flags().StringVar(&tuneOut, "out", "", "Write the best config here (default: stdout)")

	rootCmd.AddCommand(tuneCmd)
}

func runTune(cmd *cobra.Command, args []string) error {
	obj, err := objective.Lookup(tuneObjective)
	if err != nil {
		return err
	}
	base, err := tuneHP.resolve(cmd.Flags(), optim.Hyperparameters{})
	if err != nil {
		return err
	}

	res, err := tune.Search(cmd.Context(), tune.Options{
		Base:       base,
		Objective:  obj,
		Dim:        tuneDim,
		Steps:      tuneSteps,
		Iterations: tuneIters,
		Population: tunePop,
		Seed:       tuneSeed,
	})
	if err != nil {
		return err
	}

	if tuneOut != "" {
		if err := serialization.SaveConfig(tuneOut, res.Best); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "loss=%.6g config=%s\n", res.Loss, tuneOut)
		return nil
	}
	return serialization.EncodeConfig(cmd.OutOrStdout(), res.Best)
}
