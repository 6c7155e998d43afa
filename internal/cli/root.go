/*
Package cli implements the command-line interface for catalog-search.

Each command is implemented as a separate function that returns a
*cobra.Command. Commands share an *Options value bound to the root's
persistent flags, so tests can drive the full command tree with SetArgs.
*/
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/config"
	"github.com/khanglvm/catalog-search/internal/history"
	"github.com/khanglvm/catalog-search/internal/logger"
	"github.com/khanglvm/catalog-search/internal/storage"
	"github.com/khanglvm/catalog-search/internal/version"
)

// Options holds the global flags.
type Options struct {
	ConfigPath  string
	CatalogPath string
	LogLevel    string
	LogFormat   string
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   version.Name,
		Short: "Relevance search over a mixed Chinese/English catalog",
		Long: `catalog-search ranks a small curated catalog of courses, experiments,
articles, news and datasets against a free-text query.

Queries are split into CJK runs and lower-cased Latin words, scored against
titles, descriptions, tags and keywords, and fall back to a plain substring
match when nothing scores. The same engine is available from the command
line, over HTTP and as an MCP server.`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "Config file (default ~/.catalog-search.json)")
	flags.StringVar(&opts.CatalogPath, "catalog", "", "Catalog file, overrides catalog.path from config")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.LogFormat, "log-format", "", "Log format: console or json")

	rootCmd.AddCommand(NewInitCmd(opts))
	rootCmd.AddCommand(NewSearchCmd(opts))
	rootCmd.AddCommand(NewSuggestCmd(opts))
	rootCmd.AddCommand(NewSegmentCmd())
	rootCmd.AddCommand(NewListCmd(opts))
	rootCmd.AddCommand(NewAddCmd(opts))
	rootCmd.AddCommand(NewRemoveCmd(opts))
	rootCmd.AddCommand(NewVerifyCmd(opts))
	rootCmd.AddCommand(NewExportCmd(opts))
	rootCmd.AddCommand(NewServeCmd(opts))
	rootCmd.AddCommand(NewHTTPCmd(opts))
	rootCmd.AddCommand(NewHistoryCmd(opts))
	rootCmd.AddCommand(NewVersionCmd())

	// Benchmark command with speed subcommand
	benchmarkCmd := NewBenchmarkCmd(opts)
	benchmarkCmd.AddCommand(NewSpeedBenchmarkCmd(opts))
	rootCmd.AddCommand(benchmarkCmd)

	return rootCmd
}

// configPath resolves --config, then CATALOG_SEARCH_CONFIG, then the default.
func (o *Options) configPath() (string, error) {
	if o.ConfigPath != "" {
		return o.ConfigPath, nil
	}
	return config.GetDefaultConfigPath()
}

// loadConfig reads the config, falling back to defaults when the file does
// not exist, and applies the --catalog override.
func (o *Options) loadConfig() (*config.Config, error) {
	path, err := o.configPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, err
	}
	if o.CatalogPath != "" {
		cfg.Catalog.Path = o.CatalogPath
	}
	return cfg, nil
}

// openStore loads the catalog named by cfg.
func (o *Options) openStore(cfg *config.Config) (*catalog.Store, error) {
	store, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("catalog not found: %s\n\n💡 Run 'catalog-search init' to create a sample catalog", cfg.Catalog.Path)
		}
		return nil, err
	}
	return store, nil
}

func (o *Options) newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, format := cfg.Settings.LogLevel, cfg.Settings.LogFormat
	if o.LogLevel != "" {
		level = o.LogLevel
	}
	if o.LogFormat != "" {
		format = o.LogFormat
	}
	return logger.NewLogger(level, format)
}

// openHistory returns the search-history log, or nil when disabled. An
// unusable database degrades to a no-op storage.
func (o *Options) openHistory(cfg *config.Config, log *zap.Logger) *storage.SQLiteStorage {
	if !cfg.Settings.HistoryEnabled {
		return nil
	}

	var h *storage.SQLiteStorage
	if cfg.Settings.HistoryPath != "" {
		h = storage.NewStorageAt(cfg.Settings.HistoryPath, log)
	} else {
		h = storage.NewStorage(log)
	}
	_ = h.Init()
	return h
}

// app bundles what most commands need.
type app struct {
	cfg     *config.Config
	store   *catalog.Store
	svc     *catalog.Service
	logger  *zap.Logger
	history storage.Storage
}

func (a *app) Close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Warn("failed to close history", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// historyMode selects how an app records searches.
type historyMode int

const (
	historyOff historyMode = iota
	// historySync writes each search before the command returns.
	historySync
	// historyAsync queues writes for long-running servers.
	historyAsync
)

// newApp loads config, logger, catalog and history, and wires the service.
func (o *Options) newApp(mode historyMode) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := o.newLogger(cfg)
	if err != nil {
		return nil, err
	}

	store, err := o.openStore(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, store: store, logger: log}

	svcOpts := []catalog.Option{catalog.WithLogger(log)}
	if mode != historyOff {
		if h := o.openHistory(cfg, log); h != nil {
			a.history = h
			if mode == historyAsync {
				a.history = history.NewRecorder(h, log)
			}
			svcOpts = append(svcOpts, catalog.WithHistory(a.history))
		}
	}
	a.svc = catalog.NewService(store, svcOpts...)
	return a, nil
}

func queryFromArgs(args []string) string {
	return strings.Join(args, " ")
}
