package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/search"
)

// NewSearchCmd creates the 'search' command.
func NewSearchCmd(opts *Options) *cobra.Command {
	var (
		category   string
		limit      int
		explain    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search the catalog",
		Long: `Rank catalog records against a free-text query.

Chinese runs and English words are matched against titles, descriptions,
tags and keywords. When nothing scores, records containing the query as a
plain substring are returned instead. An empty query lists the catalog.`,
		Example: `  catalog-search search 碳中和
  catalog-search search carbon market --limit 3
  catalog-search search carbon --category course --json
  catalog-search search "1990-2024"
  catalog-search search carbon --explain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, queryFromArgs(args), category, limit, explain, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only return records of this category")
	cmd.Flags().IntVarP(&limit, "limit", "l", -1, "Maximum results (default from config, 0 = unlimited)")
	cmd.Flags().BoolVarP(&explain, "explain", "e", false, "Show relevance scores")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *Options, query, category string, limit int, explain, jsonOutput bool) error {
	a, err := opts.newApp(historySync)
	if err != nil {
		return err
	}
	defer a.Close()

	if limit < 0 {
		limit = a.cfg.Settings.DefaultLimit
	}

	out := cmd.OutOrStdout()
	ctx := parentContext(cmd)

	if explain {
		ranked, err := a.svc.Explain(ctx, query)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, ranked)
		}
		printExplain(out, query, ranked)
		return nil
	}

	resp, err := a.svc.Search(ctx, catalog.Query{Text: query, Category: category, Limit: limit})
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(out, resp)
	}

	if len(resp.Results) == 0 {
		fmt.Fprintf(out, "No records match '%s'.\n", query)
		return nil
	}

	fmt.Fprintf(out, "Found %d records (strategy: %s)", resp.Total, resp.Strategy)
	if len(resp.Results) < resp.Total {
		fmt.Fprintf(out, ", showing %d", len(resp.Results))
	}
	fmt.Fprint(out, ":\n\n")
	printRecords(out, resp.Results)
	return nil
}

func printExplain(out io.Writer, query string, ranked []search.ScoredRecord) {
	if len(ranked) == 0 {
		fmt.Fprintf(out, "No record scores for '%s'. The substring fallback would run.\n", query)
		return
	}
	fmt.Fprintf(out, "Scores for '%s' (title +%d, token +%d, tag +%d, keyword +%d):\n\n",
		query, search.TitleWeight, search.TokenWeight, search.TagWeight, search.KeywordWeight)
	for _, sr := range ranked {
		fmt.Fprintf(out, "  %4d  [%d] %s\n", sr.Score, sr.ID, sr.Title)
	}
}

func printRecords(out io.Writer, records []search.Record) {
	for _, r := range records {
		fmt.Fprintf(out, "  [%d] %s (%s)\n", r.ID, r.Title, r.Category)
		if r.TargetURL != "" {
			fmt.Fprintf(out, "      %s\n", r.TargetURL)
		}
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
