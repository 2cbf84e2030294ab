package handler

import (
	"net/http"

	"github.com/boddenberg/banking-transactions-api/internal/domain"
	"github.com/boddenberg/banking-transactions-api/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// System Handlers
// ============================================================

func rootHandler(svc *service.SystemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Info())
	}
}

func systemHealthHandler(svc *service.SystemService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/system/health")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.Health(ctx))
	}
}

func systemMetadataHandler(svc *service.SystemService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/system/metadata")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.Metadata(ctx))
	}
}

func systemUsageHandler(svc *service.SystemService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/system/usage")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.Usage(ctx))
	}
}

// ============================================================
// Probes
// ============================================================

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.HealthStatus{Status: "healthy"})
	}
}

func readyzHandler(svc *service.SystemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := svc.Health(r.Context())
		status := http.StatusOK
		if !health.DataLoaded {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, domain.ReadyStatus{
			Ready:        health.DataLoaded,
			Transactions: health.TransactionsCount,
		})
	}
}
