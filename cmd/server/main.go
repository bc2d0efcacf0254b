// Package main is the entry point for the internship portal API server.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Falco0906/internship-portal/internal/config"
	"github.com/Falco0906/internship-portal/internal/database"
	"github.com/Falco0906/internship-portal/internal/limiter"
	"github.com/Falco0906/internship-portal/internal/logger"
	"github.com/Falco0906/internship-portal/internal/metrics"
	"github.com/Falco0906/internship-portal/internal/middleware"
	"github.com/Falco0906/internship-portal/internal/router"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/acme/autocert"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "internship-portal",
		Short: "Internship portal REST API",
		Long: `Serves the internship portal API backed by MongoDB.

Configuration comes from the environment (and a .env file if present):
PORT, MONGODB_URI, NODE_ENV and friends.`,
		SilenceUsage: true,
		RunE:         runServer,
	}
	rootCmd.Flags().StringP("port", "p", "", "Port to listen on (overrides PORT)")

	rootCmd.AddCommand(newURICmd())
	return rootCmd
}

// newURICmd prints the connection string the server would use, with
// credentials masked.
func newURICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uri",
		Short: "Print the normalized MongoDB connection string with credentials masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			uri := database.NormalizeURI(cfg.Database.URI, cfg.Database.Name)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), database.RedactURI(uri))
			return err
		},
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Server.Port = port
	}

	log := logger.New(cfg.Server.Environment, cfg.LogLevel)
	slog.SetDefault(log.Logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, log)
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	log.Info("starting server",
		slog.String("env", cfg.Server.Environment),
		slog.Bool("static_assets", cfg.Server.ServesStaticAssets),
	)

	m := metrics.New()
	db := database.NewManager(cfg.Database, log, database.WithStateObserver(m.ObserveState))
	// A bad connection string leaves the database unavailable; the server
	// still starts and the readiness gate answers 503.
	if err := db.Connect(ctx); err != nil {
		log.Error("mongodb client not created", slog.String("error", err.Error()))
	}

	var lim middleware.Limiter
	if cfg.RateLimit.Requests > 0 {
		lim = limiter.New(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	e := router.New(router.Deps{
		Config:  cfg,
		Log:     log,
		DB:      db,
		Metrics: m,
		Limiter: lim,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	var challenge *http.Server
	if len(cfg.Server.TLSHosts) > 0 {
		certManager := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(cfg.Server.TLSHosts...),
			Cache:      autocert.DirCache(cfg.Server.CertCacheDir),
		}
		srv.Addr = ":443"
		srv.TLSConfig = certManager.TLSConfig()
		srv.TLSConfig.MinVersion = tls.VersionTLS12
		srv.TLSConfig.Renegotiation = tls.RenegotiateNever

		challenge = &http.Server{
			Addr:        ":80",
			Handler:     certManager.HTTPHandler(nil),
			ReadTimeout: cfg.Server.ReadTimeout,
		}
	}

	errCh := make(chan error, 2)
	if challenge != nil {
		go func() {
			log.Info("acme challenge listener running", slog.String("addr", challenge.Addr))
			if err := challenge.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("challenge server: %w", err)
			}
		}()
	}
	go func() {
		log.Info("server listening", slog.String("addr", srv.Addr), slog.Bool("tls", srv.TLSConfig != nil))
		var err error
		if srv.TLSConfig != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case serveErr = <-errCh:
		log.Error("server failed", slog.String("error", serveErr.Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http server shutdown", slog.String("error", err.Error()))
	}
	if challenge != nil {
		_ = challenge.Shutdown(shutdownCtx)
	}
	if err := db.Disconnect(shutdownCtx); err != nil {
		log.Error("mongodb disconnect", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
	return serveErr
}
