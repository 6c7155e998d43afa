package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanglvm/catalog-search/internal/httpapi"
)

// NewHTTPCmd creates the 'http' command that serves the HTTP API.
func NewHTTPCmd(opts *Options) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the HTTP API",
		Long: `Serve search, suggestions and records as JSON over HTTP.

Endpoints:
  GET /api/search?q=&category=&limit=
  GET /api/suggest?q=
  GET /api/segment?text=
  GET /api/records, /api/records/{id}
  GET /healthz, /metrics`,
		Example: `  catalog-search http
  catalog-search http --addr 127.0.0.1:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHTTP(cmd, opts, addr, watch)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default settings.httpAddr)")
	cmd.Flags().BoolVar(&watch, "watch", true, "Reload the catalog when its file changes")

	return cmd
}

func runHTTP(cmd *cobra.Command, opts *Options, addr string, watch bool) error {
	a, err := opts.newApp(historyAsync)
	if err != nil {
		return err
	}
	defer a.Close()

	if addr == "" {
		addr = a.cfg.Settings.HTTPAddr
	}

	ctx, stop := signal.NotifyContext(parentContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.history != nil {
		cleanupHistory(ctx, a)
	}
	if watch {
		watchCatalog(ctx, a)
	}

	a.logger.Info("catalog loaded",
		zap.String("catalog", a.cfg.Catalog.Path),
		zap.Int("records", a.store.Count()),
	)
	return httpapi.NewServer(a.svc, a.logger).ListenAndServe(ctx, addr)
}
