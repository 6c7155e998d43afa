package cli

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/config"
)

//go:embed sample_catalog.yaml
var sampleCatalog []byte

// NewInitCmd creates the 'init' command that writes a config file and a
// sample catalog.
func NewInitCmd(opts *Options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file and a sample catalog",
		Long: `Write ~/.catalog-search.json pointing at a catalog file, and create
a small sample catalog there if none exists.

Existing files are left alone unless --force is given.`,
		Example: `  catalog-search init
  catalog-search init --catalog ./catalog.yaml
  catalog-search init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config and catalog")

	return cmd
}

func runInit(cmd *cobra.Command, opts *Options, force bool) error {
	out := cmd.OutOrStdout()

	configPath, err := opts.configPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	cfg := config.NewConfig()
	if opts.CatalogPath != "" {
		cfg.Catalog.Path = opts.CatalogPath
	}

	if _, err := os.Stat(configPath); err == nil && !force {
		fmt.Fprintf(out, "• Config already exists: %s (use --force to overwrite)\n", configPath)
		existing, err := config.LoadFrom(configPath)
		if err != nil {
			return err
		}
		cfg = existing
		if opts.CatalogPath != "" {
			cfg.Catalog.Path = opts.CatalogPath
		}
	} else {
		if err := config.Save(cfg, configPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote config: %s\n", configPath)
	}

	catalogPath := cfg.Catalog.Path
	if _, err := os.Stat(catalogPath); err == nil && !force {
		fmt.Fprintf(out, "• Catalog already exists: %s\n", catalogPath)
		return nil
	}

	if err := writeSampleCatalog(catalogPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Wrote sample catalog: %s\n", catalogPath)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  catalog-search search 碳中和")
	fmt.Fprintln(out, "  catalog-search serve   # run as MCP server")

	return nil
}

// writeSampleCatalog writes the embedded sample in the format implied by
// the file extension.
func writeSampleCatalog(path string) error {
	store, err := catalog.Parse(sampleCatalog)
	if err != nil {
		return fmt.Errorf("invalid sample catalog: %w", err)
	}
	if err := store.Save(path); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
