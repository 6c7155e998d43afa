package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanglvm/catalog-search/internal/catalog"
)

// NewExportCmd creates the 'export' command that writes the catalog as JSON
// or YAML.
func NewExportCmd(opts *Options) *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as JSON or YAML",
		Example: `  catalog-search export --format json > catalog.json
  catalog-search export --format yaml --output ./backup.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, format, output)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, opts *Options, format, output string) error {
	f, err := catalog.ParseFormat(format)
	if err != nil {
		return err
	}

	a, err := opts.newApp(historyOff)
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := a.store.Marshal(f)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d records to %s\n", a.store.Count(), output)
	return nil
}
