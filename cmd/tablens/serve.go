package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablens/tablens/internal/logging"
	"github.com/tablens/tablens/pkg/cache"
	"github.com/tablens/tablens/pkg/config"
	"github.com/tablens/tablens/pkg/report"
	"github.com/tablens/tablens/pkg/server"
	"github.com/tablens/tablens/pkg/telemetry"
	"github.com/tablens/tablens/pkg/tui"
	"github.com/tablens/tablens/pkg/watch"
)

var (
	serveHost      string
	servePort      int
	serveTheme     string
	serveCache     string
	serveRedisAddr string
	serveWatch     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve [input]",
	Short: "Serve a live report dashboard over HTTP",
	Long: `Start an HTTP server that renders the report for one file on demand.

Routes:
  GET  /              the rendered report
  GET  /api/metadata  detection results and build info
  POST /api/reload    re-ingest and re-render
  GET  /events        server-sent events (reload notifications)
  GET  /healthz       liveness probe

With --watch, file changes trigger a rebuild and an SSE reload event.

Examples:
  tablens serve sales.csv
  tablens serve data.parquet --port 3000 --watch
  tablens serve events.csv --cache redis --redis-addr localhost:6379`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	cfg := config.Global().Get()

	serveCmd.Flags().StringVar(&serveHost, "host", cfg.Server.Host, "Host to bind to")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", cfg.Server.Port, "Port to listen on")
	serveCmd.Flags().StringVar(&serveTheme, "theme", cfg.Report.Theme, "Report theme (light, dark)")
	serveCmd.Flags().StringVar(&serveCache, "cache", cfg.Cache.Backend, "Cache backend (memory, redis)")
	serveCmd.Flags().StringVar(&serveRedisAddr, "redis-addr", cfg.Cache.Redis.Address, "Redis address for the redis cache backend")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "Rebuild when the input file changes")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	input := args[0]
	cfg := config.Global().Get()

	ctx, cancel := signalContext()
	defer cancel()

	local, cleanup, err := resolveInput(ctx, input)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Telemetry.Enabled {
		tcfg := telemetry.DefaultConfig("tablens")
		tcfg.Endpoint = cfg.Telemetry.Endpoint
		shutdown, err := telemetry.Init(ctx, tcfg)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		defer shutdown(ctx)
	}

	backend, err := buildCacheBackend(cmd)
	if err != nil {
		return err
	}

	srv := server.New(local, report.Options{
		Theme:                serveTheme,
		CorrelationThreshold: cfg.Report.CorrelationThreshold,
		PreviewRows:          cfg.Report.PreviewRows,
	}, backend)
	defer srv.Close()

	if serveWatch {
		watcher, err := watch.New(local, watch.DefaultDebounce)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", local, err)
		}
		defer watcher.Close()

		watcher.OnChange = func(path string) error {
			_, err := srv.Rebuild(ctx)
			return err
		}
		watcher.OnError = func(err error) {
			logging.FromContext(ctx).Error("watch error", "error", err)
		}
		go watcher.Run(ctx)
	}

	addr := fmt.Sprintf("%s:%d", serveHost, servePort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // streaming SSE responses
		IdleTimeout:  120 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	url := fmt.Sprintf("http://%s:%d", serveHost, servePort)
	if serveHost == "0.0.0.0" || serveHost == "" {
		url = fmt.Sprintf("http://localhost:%d", servePort)
	}
	tui.Header(version)
	tui.Info("Serving", input)
	tui.Info("Local", url)
	if serveWatch {
		tui.Info("Watching", local)
	}
	tui.Muted("Press Ctrl+C to stop")

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		httpServer.Shutdown(shutdownCtx)
	}()

	if err := httpServer.Serve(listener); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func buildCacheBackend(cmd *cobra.Command) (cache.Backend, error) {
	cfg := config.Global().Get()

	switch serveCache {
	case "", "memory":
		return cache.NewMemory(16, cfg.Cache.TTL), nil
	case "redis":
		rcfg := cache.DefaultRedisConfig(serveRedisAddr)
		rcfg.Password = cfg.Cache.Redis.Password
		rcfg.Database = cfg.Cache.Redis.Database
		if cfg.Cache.TTL > 0 {
			rcfg.TTL = cfg.Cache.TTL
		}
		return cache.NewRedis(cmd.Context(), rcfg)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (memory, redis)", serveCache)
	}
}
