package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"bestlyrics/internal/pipeline"
	"bestlyrics/internal/web"

	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the lyrics HTTP and WebSocket service",
		Long: `Serve GET /api/best-lyrics?title=...&artist=..., plus /api/sources,
/health, /metrics and the /ws WebSocket endpoint.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			defer a.close()
			if listen != "" {
				a.cfg.Listen = listen
			}
			return runServe(cmd.Context(), a)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (overrides config)")

	return cmd
}

func runServe(ctx context.Context, a *app) error {
	agg := pipeline.NewAggregator(a.cfg, a.log, a.metrics)
	server := web.NewServer(ctx, agg, a.cfg, a.log, a.metrics)

	httpServer := &http.Server{
		Addr:              a.cfg.Listen,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		// Requests inherit the shutdown context so in-flight lookups are
		// cancelled on SIGINT/SIGTERM.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Starting lyrics server on %s (sources: %v)", a.cfg.Listen, agg.Sources())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.log.Error("Server shutdown error: %v", err)
		return err
	}

	a.log.Info("Server stopped")
	return nil
}
