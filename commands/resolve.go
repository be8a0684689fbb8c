package commands

import (
	"github.com/spf13/cobra"

	"scanquote/config"
	"scanquote/services"
)

// NewResolveCommand builds `resolve`, which prints the overhead, allocation
// and COGS multiplier figures derived from a pricing config.
func NewResolveCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the resolved pricing figures for a pricing config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadPricingConfigOrDefault(configPath)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), services.ResolvePricing(cfg))
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "pricing config YAML (defaults to the built-in config)")
	return cmd
}
