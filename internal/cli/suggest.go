package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/catalog-search/internal/search"
)

// NewSuggestCmd creates the 'suggest' command for autocomplete.
func NewSuggestCmd(opts *Options) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "suggest <partial>",
		Short: "Autocomplete a partial query",
		Long: fmt.Sprintf(`Print up to %d distinct titles, tags or keywords containing the
partial query, in catalog order.`, search.MaxSuggestions),
		Example: `  catalog-search suggest 碳
  catalog-search suggest carb`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd, opts, queryFromArgs(args), jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runSuggest(cmd *cobra.Command, opts *Options, partial string, jsonOutput bool) error {
	a, err := opts.newApp(historyOff)
	if err != nil {
		return err
	}
	defer a.Close()

	suggestions, err := a.svc.Suggest(parentContext(cmd), partial)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, suggestions)
	}
	for _, s := range suggestions {
		fmt.Fprintln(out, s)
	}
	return nil
}
