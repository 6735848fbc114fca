package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/erazemk/pixelpet/internal/api"
	"github.com/erazemk/pixelpet/internal/auth"
	"github.com/erazemk/pixelpet/internal/backend"
	"github.com/erazemk/pixelpet/internal/config"
	"github.com/erazemk/pixelpet/internal/db"
	"github.com/erazemk/pixelpet/internal/service"
	"github.com/erazemk/pixelpet/internal/store"
	"github.com/erazemk/pixelpet/internal/web"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringP("addr", "a", ":8080", "listen address")
	f.String("backend-url", "http://localhost:3000", "game backend base URL")
	f.String("redis-addr", "", "redis address for the snapshot cache (default: no cache)")
	f.StringP("user", "u", "admin", "admin username when the database is created")
	f.Bool("secure-cookies", false, "mark session cookies Secure (serve behind TLS)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath(cmd), cmd.Flags())
	if err != nil {
		return err
	}

	closeLog, err := setupLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()

	// Auto-init when the database does not exist yet.
	if _, err := os.Stat(cfg.DB); os.IsNotExist(err) {
		adminUser, _ := cmd.Flags().GetString("user")
		password, err := initDatabase(ctx, cfg.DB, adminUser)
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		printInitResult(cmd, cfg.DB, adminUser, password)
		fmt.Fprintln(cmd.OutOrStdout())
	}

	database, err := db.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	slog.Info("database ready", "path", cfg.DB)

	secret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("loading session secret: %w", err)
	}
	issuer, err := auth.NewIssuer(secret, cfg.Session.TTL)
	if err != nil {
		return err
	}

	bcfg := backend.Config{
		BaseURL:           cfg.Backend.URL,
		APIKey:            cfg.Backend.APIKey,
		Timeout:           cfg.Backend.Timeout,
		GenerationTimeout: cfg.Backend.GenerationTimeout,
		ImageHosts:        cfg.Backend.ImageHosts,
		CacheTTL:          cfg.Cache.TTL,
	}
	if cfg.Cache.RedisAddr != "" {
		cache, err := openCache(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			slog.Warn("snapshot cache disabled", "addr", cfg.Cache.RedisAddr, "error", err)
		} else {
			defer cache.Close()
			bcfg.Cache = cache
			slog.Info("snapshot cache ready", "addr", cfg.Cache.RedisAddr, "ttl", cfg.Cache.TTL)
		}
	}
	client, err := backend.New(bcfg)
	if err != nil {
		return err
	}

	svc := service.New(database, client, cfg.Images.ThumbnailSize)
	defer svc.Close()

	secure, _ := cmd.Flags().GetBool("secure-cookies")
	webRouter, err := web.NewRouter(&web.Server{
		DB:            database,
		Issuer:        issuer,
		Service:       svc,
		SecureCookies: secure,
	})
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}
	apiRouter := api.NewRouter(database, issuer, svc)

	// API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           chimw.RequestID(chimw.RealIP(chimw.Recoverer(api.LoggingMiddleware(mux)))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", cfg.Addr, "backend", cfg.Backend.URL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-sigCtx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server stopped, waiting for generations")
	return nil
}

func openCache(ctx context.Context, addr string) (*backend.RedisCache, error) {
	cache, err := backend.NewRedisCache(addr)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		cache.Close()
		return nil, err
	}
	return cache, nil
}
