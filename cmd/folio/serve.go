package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/internal/presentation/tui"
	httpAdapter "github.com/aretw0/folio/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio page and the contact form API",
	Long: `Starts the HTTP server: the page at /, the form API under /api, server sent
events at /events and operational endpoints (/health, /info, /metrics).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			cfg.Server.Addr = v
		}
		if cmd.Flags().Changed("watch") {
			cfg.Content.Watch, _ = cmd.Flags().GetBool("watch")
		}
		assets, _ := cmd.Flags().GetString("assets")
		secure, _ := cmd.Flags().GetBool("secure-cookies")

		logger := newLogger(cfg)
		app, err := folio.New(cfg, folio.WithLogger(logger))
		if err != nil {
			return err
		}
		defer app.Close()

		opts := []httpAdapter.Option{
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(app.Metrics()),
			httpAdapter.WithVersion(folio.Version),
			httpAdapter.WithInfo("store", cfg.Store.Driver),
			httpAdapter.WithInfo("backend", cfg.Submit.Backend),
			httpAdapter.WithCORSOrigins(cfg.Server.CORSOrigins...),
			httpAdapter.WithSecureCookies(secure),
			httpAdapter.WithSessionTTL(cfg.Store.TTL),
			httpAdapter.WithAssetsDir(assets),
		}
		for name, check := range app.HealthChecks() {
			opts = append(opts, httpAdapter.WithHealthCheck(name, check))
		}
		server := httpAdapter.NewServer(app.Dispatcher(), app.Content(), opts...)

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Content.Watch && app.Content().Path() != "" {
			go func() {
				if err := server.WatchContent(ctx); err != nil {
					logger.Warn("Content watch disabled", "err", err)
				}
			}()
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting folio server", "addr", srv.Addr, "store", cfg.Store.Driver, "backend", cfg.Submit.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		if noBanner, _ := cmd.Flags().GetBool("no-banner"); !noBanner {
			tui.PrintBannerIfTerminal(folio.Version)
		}

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("Shutdown signal received, draining connections")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", cfg.Server.ShutdownTimeout, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("killing server: %w", err)
				}
			}
			logger.Info("folio server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (overrides server.addr)")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload pages when the content file changes")
	serveCmd.Flags().String("assets", "", "Directory served under /assets (WebAssembly client build)")
	serveCmd.Flags().Bool("secure-cookies", false, "Mark the session cookie Secure (behind HTTPS)")
	serveCmd.Flags().Bool("no-banner", false, "Do not print the startup banner")
}
