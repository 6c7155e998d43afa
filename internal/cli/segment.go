package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/catalog-search/internal/search"
)

// NewSegmentCmd creates the 'segment' command that shows how text is
// tokenized. It needs no config or catalog.
func NewSegmentCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "segment <text...>",
		Short: "Show how text is split into search tokens",
		Example: `  catalog-search segment "AI碳排放Model"
  catalog-search segment 2025 carbon data --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens := search.Segment(queryFromArgs(args))
			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, tokens)
			}
			for _, tok := range tokens {
				fmt.Fprintln(out, tok)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}
