package handler

import (
	"encoding/json"
	"net/http"

	"github.com/boddenberg/banking-transactions-api/internal/domain"
	"github.com/boddenberg/banking-transactions-api/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Fraud Detection Handlers
// ============================================================

func fraudSummaryHandler(svc *service.FraudService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/fraud/summary")
		defer span.End()

		summary, err := svc.Summary(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func fraudByTypeHandler(svc *service.FraudService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/fraud/by-type")
		defer span.End()

		stats, err := svc.ByType(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func fraudPredictHandler(svc *service.FraudService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/fraud/predict")
		defer span.End()

		var req domain.FraudPredictionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		span.SetAttributes(
			attribute.Int("client.id", req.ClientID),
			attribute.String("transaction.type", req.TransactionType),
		)

		prediction, err := svc.Predict(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, prediction)
	}
}
