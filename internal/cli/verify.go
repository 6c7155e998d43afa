package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/catalog-search/internal/config"
	"github.com/khanglvm/catalog-search/internal/search"
)

// NewVerifyCmd creates the 'verify' command for checking config and catalog.
func NewVerifyCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify configuration and catalog",
		Long: `Check that the config file parses and that every catalog record has a
title, a known category and a unique id.`,
		Example: `  catalog-search verify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, opts)
		},
	}

	return cmd
}

func runVerify(cmd *cobra.Command, opts *Options) error {
	out := cmd.OutOrStdout()

	configPath, err := opts.configPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if opts.CatalogPath != "" {
		cfg.Catalog.Path = opts.CatalogPath
	}
	fmt.Fprintf(out, "✓ Config file: %s\n", configPath)

	store, err := opts.openStore(cfg)
	if err != nil {
		fmt.Fprintf(out, "✗ Catalog: %s\n", cfg.Catalog.Path)
		return err
	}
	fmt.Fprintf(out, "✓ Catalog: %s\n", cfg.Catalog.Path)
	fmt.Fprintf(out, "✓ Records: %d\n", store.Count())

	counts := make(map[search.Category]int)
	for _, r := range store.Records() {
		counts[r.Category]++
	}
	for _, c := range search.Categories() {
		if counts[c] > 0 {
			fmt.Fprintf(out, "    %-10s %d\n", c, counts[c])
		}
	}

	return nil
}
