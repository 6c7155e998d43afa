package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewListCmd creates the 'list' command for listing catalog records.
func NewListCmd(opts *Options) *cobra.Command {
	var jsonOutput bool
	var category string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List catalog records",
		Long:    `Display all records in the catalog, in catalog order.`,
		Example: `  catalog-search list
  catalog-search ls --category dataset
  catalog-search list --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts, category, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only list this category")

	return cmd
}

func runList(cmd *cobra.Command, opts *Options, category string, jsonOutput bool) error {
	a, err := opts.newApp(historyOff)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.svc.List(category)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No records.")
		fmt.Fprintln(out, "Run 'catalog-search add' to create one.")
		return nil
	}

	fmt.Fprintf(out, "Catalog records (%d):\n\n", len(records))
	for _, r := range records {
		fmt.Fprintf(out, "  [%d] %s\n", r.ID, r.Title)
		fmt.Fprintf(out, "    Category: %s\n", r.Category)
		if r.TargetURL != "" {
			fmt.Fprintf(out, "    URL:      %s\n", r.TargetURL)
		}
		if len(r.Tags) > 0 {
			fmt.Fprintf(out, "    Tags:     %v\n", r.Tags)
		}
		fmt.Fprintln(out)
	}
	return nil
}
