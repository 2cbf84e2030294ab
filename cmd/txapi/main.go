package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/banking-transactions-api/internal/config"
	"github.com/boddenberg/banking-transactions-api/internal/handler"
	"github.com/boddenberg/banking-transactions-api/internal/infra/cache"
	"github.com/boddenberg/banking-transactions-api/internal/infra/cardcsv"
	"github.com/boddenberg/banking-transactions-api/internal/infra/observability"
	"github.com/boddenberg/banking-transactions-api/internal/service"
	"github.com/boddenberg/banking-transactions-api/internal/store"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("app_env", cfg.AppEnv),
		zap.String("csv_path", cfg.CSVPath),
		zap.Duration("score_cache_ttl", cfg.ScoreCacheTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "banking-transactions-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Dataset ---
	// The derived transaction set is the only data this service has; refusing
	// to start without it beats serving empty responses.
	source := cardcsv.New(cfg.CSVPath, logger)
	st, err := store.Load(context.Background(), source, logger)
	if err != nil {
		logger.Fatal("failed to load card dataset", zap.Error(err))
	}
	metrics.SetDatasetSize("cards", st.CardCount())
	metrics.SetDatasetSize("transactions", st.Size())

	// --- Cache ---
	scoreCache := cache.New[*service.ScoreContext](cfg.ScoreCacheTTL)

	// --- Services ---
	txSvc := service.NewTransactionService(st, metrics, logger)
	customerSvc := service.NewCustomerService(st, metrics, logger)
	statsSvc := service.NewStatsService(st, metrics, logger)
	fraudSvc := service.NewFraudService(st, scoreCache, metrics, logger)
	systemSvc := service.NewSystemService(st, metrics, cfg.APIVersion, cfg.AppEnv, logger)

	// --- Router ---
	router := handler.NewRouter(txSvc, customerSvc, statsSvc, fraudSvc, systemSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
