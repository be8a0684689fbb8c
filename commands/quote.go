// Package commands holds the offline CLI subcommands registered on the
// PocketBase root command.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"scanquote/config"
	"scanquote/services"
)

// QuoteOutput is what the quote command prints.
type QuoteOutput struct {
	LineItems []services.LineItemShell `json:"lineItems"`
	Totals    services.QuoteTotals     `json:"totals"`
}

// NewQuoteCommand builds `quote`, which turns a project file into line-item
// shells, optionally estimated and priced, and prints them with their totals.
func NewQuoteCommand() *cobra.Command {
	var (
		inputPath   string
		configPath  string
		estimate    bool
		situational []string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Generate line items and totals for a project file",
		Long: `Reads a project description (JSON, or YAML by .yaml/.yml extension),
generates its line-item shells and prints them with totals as JSON.
With --estimate, costs and prices come from the pricing config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readProjectInput(inputPath)
			if err != nil {
				return err
			}

			shells, err := services.GenerateShells(in, services.NewIDSequence())
			if err != nil {
				return err
			}

			if estimate {
				cfg, err := config.LoadPricingConfigOrDefault(configPath)
				if err != nil {
					return err
				}
				shells = services.EstimateCosts(in, shells, cfg)
				if shells, err = services.PriceShells(shells, cfg, situational); err != nil {
					return err
				}
			}

			return writeJSON(cmd.OutOrStdout(), QuoteOutput{
				LineItems: shells,
				Totals:    services.CalcQuoteTotals(shells),
			})
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "project description file")
	cmd.Flags().StringVar(&configPath, "config", "", "pricing config YAML (defaults to the built-in config)")
	cmd.Flags().BoolVar(&estimate, "estimate", false, "attach costs and prices from the pricing config")
	cmd.Flags().StringSliceVar(&situational, "situational", nil, "situational multiplier to apply (repeatable)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func readProjectInput(path string) (services.ProjectInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return services.ProjectInput{}, fmt.Errorf("read project input: %w", err)
	}

	var in services.ProjectInput
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &in)
	default:
		err = json.Unmarshal(data, &in)
	}
	if err != nil {
		return services.ProjectInput{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return in, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
