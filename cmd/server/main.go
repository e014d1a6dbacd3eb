package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/metrixmedia/backend/internal/config"
	"github.com/metrixmedia/backend/internal/handler"
	"github.com/metrixmedia/backend/internal/logging"
	"github.com/metrixmedia/backend/internal/metrics"
	"github.com/metrixmedia/backend/internal/notify"
	"github.com/metrixmedia/backend/internal/ratelimit"
	"github.com/metrixmedia/backend/internal/repository"
	"github.com/metrixmedia/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.SetDefault(logging.New(os.Stdout, "INFO"))
		logging.Fatal("failed to load config", "error", err)
	}
	slog.SetDefault(logging.New(os.Stdout, cfg.LogLevel))

	ctx := context.Background()

	store, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to open submission store", "error", err)
	}
	defer store.Close()
	if store.Kind == repository.KindMemory {
		slog.Warn("DATABASE_URL not set, submissions are kept in memory and lost on restart")
	}
	slog.Info("submission store ready", "kind", store.Kind)

	var limiter ratelimit.Limiter
	if cfg.RedisURL != "" {
		client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logging.Fatal("failed to connect to redis", "error", err)
		}
		defer client.Close()
		limiter = ratelimit.NewRedis(client, cfg.RateLimitMax, cfg.RateLimitWindow)
		slog.Info("rate limiter ready", "backend", "redis")
	} else {
		limiter = ratelimit.NewFixedWindow(cfg.RateLimitMax, cfg.RateLimitWindow)
		slog.Info("rate limiter ready", "backend", "memory")
	}

	notifier := notify.New(cfg)
	slog.Info("notifier ready", "provider", cfg.NotifierKind())

	m := metrics.New()

	contactService := service.NewContactService(store, notifier, service.ContactConfig{
		ToEmail:       cfg.ContactToEmail,
		FromEmail:     cfg.ContactFromEmail,
		NotifyTimeout: cfg.NotifyTimeout,
	}, m)

	h := handler.New(store, cfg.FrontendURL)
	contactHandler := handler.NewContactHandler(contactService, limiter, handler.ContactConfig{
		MaxBodyBytes:      cfg.MaxBodyBytes(),
		TrustedProxyCount: cfg.TrustedProxyCount,
	}, m)
	seoHandler := handler.NewSEOHandler(cfg.SiteURL)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	// Method is checked by the handler so non-POST gets a JSON 405.
	mux.HandleFunc("/api/contact", contactHandler.Submit)
	mux.HandleFunc("GET /sitemap.xml", seoHandler.Sitemap)
	mux.HandleFunc("GET /robots.txt", seoHandler.Robots)
	mux.Handle("GET /metrics", m.Handler())

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.RequestLogger(m)(handler.Recover(handler.SecurityHeaders(h.CORS(mux)))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
