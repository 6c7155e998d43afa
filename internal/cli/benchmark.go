package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/khanglvm/catalog-search/internal/benchmark"
)

// NewBenchmarkCmd creates the 'benchmark' command for relevance testing.
func NewBenchmarkCmd(opts *Options) *cobra.Command {
	var casesPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Measure search relevance against labelled queries",
		Long: `Run labelled queries against the catalog and report hit@1, mean
reciprocal rank, recall and how often the substring fallback answered.

Cases are read from a YAML file:

  cases:
    - query: 碳中和
      expect: [1]

Without --cases, every record's title is used as a query that should
return that record first.`,
		Example: `  # Title self-retrieval
  catalog-search benchmark

  # Labelled cases
  catalog-search benchmark --cases ./bench.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, opts, casesPath, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&casesPath, "cases", "", "YAML file with benchmark cases")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runBenchmark(cmd *cobra.Command, opts *Options, casesPath string, jsonOutput bool) error {
	a, err := opts.newApp(historyOff)
	if err != nil {
		return err
	}
	defer a.Close()

	corpus := a.store.Records()
	cases := benchmark.SelfCases(corpus)
	if casesPath != "" {
		if cases, err = benchmark.LoadCases(casesPath); err != nil {
			return err
		}
	}

	result := benchmark.RunRelevance(corpus, cases)

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, result)
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, benchmark.FormatResult(result))
	return nil
}

// NewSpeedBenchmarkCmd creates the 'benchmark speed' command for latency testing.
func NewSpeedBenchmarkCmd(opts *Options) *cobra.Command {
	var (
		iterations int
		workers    int
		queries    []string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "speed",
		Short: "Measure search latency",
		Long: `Run queries repeatedly on a worker pool and report mean, p50, p95 and
max latency of a full search, plus throughput.

Without --query, the titles and tags of the catalog are used.`,
		Example: `  catalog-search benchmark speed
  catalog-search benchmark speed -n 1000 -w 8 -q carbon -q 碳中和`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpeedBenchmark(cmd, opts, queries, benchmark.SpeedOptions{
				Iterations: iterations,
				Workers:    workers,
			}, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&iterations, "iterations", "n", 100, "Iterations per query")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Worker pool size (default GOMAXPROCS)")
	cmd.Flags().StringArrayVarP(&queries, "query", "q", nil, "Query to run (repeatable)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runSpeedBenchmark(cmd *cobra.Command, opts *Options, queries []string, speedOpts benchmark.SpeedOptions, jsonOutput bool) error {
	a, err := opts.newApp(historyOff)
	if err != nil {
		return err
	}
	defer a.Close()

	corpus := a.store.Records()
	if len(queries) == 0 {
		seen := map[string]bool{}
		for _, r := range corpus {
			for _, q := range append([]string{r.Title}, r.Tags...) {
				if q = strings.TrimSpace(q); q != "" && !seen[q] {
					seen[q] = true
					queries = append(queries, q)
				}
			}
		}
	}

	if !jsonOutput {
		iterations := speedOpts.Iterations
		if iterations <= 0 {
			iterations = 100
		}
		bar := progressbar.NewOptions64(int64(len(queries)*iterations),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("searching"),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		speedOpts.Progress = func() { _ = bar.Add(1) }
		defer func() { _ = bar.Finish() }()
	}

	result, err := benchmark.RunSpeed(parentContext(cmd), corpus, queries, speedOpts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, result)
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, benchmark.FormatSpeed(result))
	return nil
}
