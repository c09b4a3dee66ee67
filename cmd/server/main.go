package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qr-feedback-backend/internal/auth"
	"qr-feedback-backend/internal/cache"
	"qr-feedback-backend/internal/config"
	"qr-feedback-backend/internal/database"
	"qr-feedback-backend/internal/handlers"
	"qr-feedback-backend/internal/logging"
	customMiddleware "qr-feedback-backend/internal/middleware"
	"qr-feedback-backend/internal/notify"
	"qr-feedback-backend/internal/qrcode"
	"qr-feedback-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewProduction(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Connect to MongoDB
	client, err := database.Connect(cfg.MongoURI, cfg.DBName)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error(ctx, "failed to disconnect from MongoDB", zap.Error(err))
		}
	}()
	logger.Info(ctx, "connected to MongoDB", zap.String("db", cfg.DBName))

	advisorRepo := repository.NewAdvisorRepo()

	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := advisorRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Warn(ctx, "failed to create advisor indexes", zap.Error(err))
	}
	cancel()

	qrGenerator, err := qrcode.NewFileGenerator(cfg.QRCodeDir, cfg.BaseURL)
	if err != nil {
		logger.Fatal(ctx, "cannot prepare qr code directory", zap.Error(err))
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	dashboard := cache.NewDashboard(newCacheStore(ctx, cfg, logger), cfg.PerformanceCacheTTL)

	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.ResendAPIKey != "" {
		notifier = notify.NewResendNotifier(cfg.ResendAPIKey, cfg.FromEmail)
	} else {
		logger.Warn(ctx, "RESEND_API_KEY not set, feedback notifications are only logged")
	}

	advisorHandler := handlers.NewAdvisorHandler(advisorRepo, qrGenerator, tokens, dashboard, logger)
	feedbackHandler := handlers.NewFeedbackHandler(advisorRepo, notifier, dashboard, logger)
	authMiddleware := customMiddleware.JWTAuth(tokens, advisorRepo)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, 1<<20) // 1 MB
	})
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders: []string{"Link", "X-Trace-Id"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("API is running successfully."))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"qr-feedback-backend"}`))
	})

	r.Handle(qrcode.PublicPrefix+"/*", handlers.QRCodeFiles(qrGenerator.Dir(), qrcode.PublicPrefix))

	r.Route("/api/advisors", func(r chi.Router) {
		r.Handle("/qrcodes/*", handlers.QRCodeFiles(qrGenerator.Dir(), "/api/advisors/qrcodes"))
		advisorHandler.RegisterRoutes(r, authMiddleware)
	})
	r.Route("/api/feedback", feedbackHandler.RegisterRoutes)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "qr feedback backend starting", zap.String("port", cfg.Port), zap.String("base_url", cfg.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server forced to shutdown", zap.Error(err))
	}
	logger.Info(ctx, "server stopped")
}

// newCacheStore uses Redis when REDIS_URL is set and reachable, otherwise caching is disabled.
func newCacheStore(ctx context.Context, cfg *config.Config, logger *logging.Logger) cache.Store {
	if cfg.RedisURL == "" {
		return cache.NopCache{}
	}
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rdb, err := cache.Dial(dialCtx, cfg.RedisURL)
	if err != nil {
		logger.Warn(ctx, "redis unavailable, dashboard cache disabled", zap.Error(err))
		return cache.NopCache{}
	}
	logger.Info(ctx, "dashboard cache enabled", zap.Duration("ttl", cfg.PerformanceCacheTTL))
	return cache.NewRedisCache(rdb)
}
