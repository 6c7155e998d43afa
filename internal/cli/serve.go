package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanglvm/catalog-search/internal/catalog"
	"github.com/khanglvm/catalog-search/internal/mcp"
)

// NewServeCmd creates the 'serve' command for running the MCP server.
func NewServeCmd(opts *Options) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio transport)",
		Long: `Start the catalog-search MCP server using stdio transport.

This server exposes 4 tools to AI clients:
  • catalog_search  - Rank the catalog against a query
  • catalog_suggest - Autocomplete a partial query
  • catalog_get     - Fetch one record by id
  • catalog_list    - List records by category

Logs go to stderr so they never corrupt the protocol stream.`,
		Example: `  # Run directly
  catalog-search serve

  # Register with an MCP client
  claude mcp add catalog -- catalog-search serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, watch)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", true, "Reload the catalog when its file changes")

	return cmd
}

// runServe serves MCP on stdio until stdin closes or a signal arrives.
func runServe(cmd *cobra.Command, opts *Options, watch bool) error {
	a, err := opts.newApp(historyAsync)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(parentContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.history != nil {
		cleanupHistory(ctx, a)
	}
	if watch {
		watchCatalog(ctx, a)
	}

	server := mcp.NewServer(a.svc, a.logger)
	a.logger.Info("MCP server ready",
		zap.String("catalog", a.cfg.Catalog.Path),
		zap.Int("records", a.store.Count()),
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("received signal, shutting down")
		return nil
	case err := <-errChan:
		if err != nil && err != context.Canceled {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// cleanupHistory applies the retention policy once at startup.
func cleanupHistory(ctx context.Context, a *app) {
	if ctx.Err() != nil {
		return
	}
	retention := retentionDuration(a.cfg.Settings.HistoryRetentionDays)
	if err := a.history.Cleanup(retention); err != nil {
		a.logger.Warn("history cleanup failed", zap.Error(err))
	}
}

// watchCatalog reloads the store in the background until ctx is done.
func watchCatalog(ctx context.Context, a *app) {
	w, err := catalog.NewWatcher(a.cfg.Catalog.Path, a.store, a.logger)
	if err != nil {
		a.logger.Warn("catalog hot reload disabled", zap.Error(err))
		return
	}
	go func() { _ = w.Run(ctx) }()
}

func parentContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
