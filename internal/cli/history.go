package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanglvm/catalog-search/internal/storage"
)

// NewHistoryCmd creates the 'history' command that summarizes the search log.
func NewHistoryCmd(opts *Options) *cobra.Command {
	var (
		days       int
		recent     int
		cleanup    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show search history statistics",
		Long: `Summarize searches recorded by the CLI, HTTP API and MCP server.

Queries are stored as SHA256 hashes only. Use --cleanup to delete entries
older than settings.historyRetentionDays.`,
		Example: `  catalog-search history
  catalog-search history --days 1 --recent 10
  catalog-search history --cleanup`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts, days, recent, cleanup, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 7, "Window in days")
	cmd.Flags().IntVarP(&recent, "recent", "r", 0, "Also list the N most recent searches")
	cmd.Flags().BoolVar(&cleanup, "cleanup", false, "Delete entries past the retention period")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *Options, days, recent int, cleanup, jsonOutput bool) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	log, err := opts.newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	out := cmd.OutOrStdout()

	history := opts.openHistory(cfg, log)
	if history == nil {
		fmt.Fprintln(out, "Search history is disabled (settings.historyEnabled = false).")
		return nil
	}
	defer history.Close()

	if !history.Enabled() {
		return fmt.Errorf("search history database unavailable: %s", history.Path())
	}

	if cleanup {
		if err := history.Cleanup(retentionDuration(cfg.Settings.HistoryRetentionDays)); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Removed entries older than %d days\n", cfg.Settings.HistoryRetentionDays)
	}

	stats, err := history.GetSearchStats(time.Now().AddDate(0, 0, -days))
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	var searches []storage.SearchRecord
	if recent > 0 {
		if searches, err = history.RecentSearches(recent); err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
	}

	if jsonOutput {
		return writeJSON(out, map[string]any{
			"days":   days,
			"stats":  stats,
			"recent": searches,
		})
	}

	fmt.Fprintf(out, "Searches in the last %d days: %d\n", days, stats.Total)
	if stats.Total == 0 {
		return nil
	}
	fmt.Fprintf(out, "  Zero-result searches: %d\n", stats.ZeroResults)
	fmt.Fprintf(out, "  Average results:      %.1f\n", stats.AvgResults)
	fmt.Fprintf(out, "  Average latency:      %.0fµs\n", stats.AvgMicros)

	strategies := make([]string, 0, len(stats.ByStrategy))
	for s := range stats.ByStrategy {
		strategies = append(strategies, s)
	}
	sort.Strings(strategies)
	fmt.Fprintln(out, "  By strategy:")
	for _, s := range strategies {
		fmt.Fprintf(out, "    %-8s %d\n", s, stats.ByStrategy[s])
	}

	if len(searches) > 0 {
		fmt.Fprintln(out, "\nRecent searches:")
		for _, s := range searches {
			fmt.Fprintf(out, "  %s  %-7s %3d results  %s\n",
				s.Timestamp.Local().Format(time.DateTime), s.Strategy, s.ResultsCount, s.QueryHash[:12])
		}
	}
	return nil
}

func retentionDuration(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}
