package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/wame/internal/optim"
	"github.com/born-ml/wame/internal/serialization"
)

var (
	configVariant string
	configCheck   string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print default optimizer config or validate a config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configCheck != "" {
			h, err := serialization.LoadConfig(configCheck)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s)\n", configCheck, h.Variant)
			return nil
		}

		v, err := optim.ParseVariant(configVariant)
		if err != nil {
			return err
		}
		h, err := optim.Defaults(v)
		if err != nil {
			return err
		}
		return serialization.EncodeConfig(cmd.OutOrStdout(), h)
	},
}

func init() {
	configCmd.Flags().StringVar(&configVariant, "variant", string(optim.VariantAdapted), "Optimizer variant: wame, wame_adapted")
	configCmd.Flags().StringVar(&configCheck, "check", "", "Validate this config file instead of printing defaults")

	rootCmd.AddCommand(configCmd)
}
