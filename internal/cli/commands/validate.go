package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/elblog/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate an elblog configuration file without converting any logs.

Checks:
  - YAML syntax and unknown keys
  - Load balancer type
  - Worker, queue and line size limits
  - Summary format

Environment overrides (` + config.EnvType + `, ` + config.EnvSkipParseErrors + `,
` + config.EnvWorkers + `) are applied before validation.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	workers := "one per CPU"
	if cfg.Workers > 0 {
		workers = fmt.Sprint(cfg.Workers)
	}
	queue := "unbounded"
	if cfg.QueueCapacity > 0 {
		queue = fmt.Sprint(cfg.QueueCapacity)
	}
	stats := "off"
	if cfg.Stats != "" {
		stats = cfg.Stats
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Validating %s...\n", configPath)
	fmt.Fprintf(&b, "\nConfiguration valid!\n")
	fmt.Fprintf(&b, "  Type:              %s (files ending in %s)\n", cfg.Dialect().Name(), cfg.Dialect().Ext())
	fmt.Fprintf(&b, "  Skip parse errors: %t\n", cfg.SkipParseErrors)
	fmt.Fprintf(&b, "  Workers:           %s\n", workers)
	fmt.Fprintf(&b, "  Queue capacity:    %s\n", queue)
	fmt.Fprintf(&b, "  Max line size:     %s\n", cfg.MaxLineSize)
	fmt.Fprintf(&b, "  Stats:             %s\n", stats)

	_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
	return err
}
