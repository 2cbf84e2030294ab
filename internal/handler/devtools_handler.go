package handler

import (
	"net/http"

	"github.com/boddenberg/banking-transactions-api/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Dev Tools Handlers
// ============================================================

// devResetDeletionsHandler unhides every soft-deleted transaction. Intended
// for test environments where the derived set must be restored between runs.
func devResetDeletionsHandler(svc *service.TransactionService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/dev/reset-deletions")
		defer span.End()

		svc.ResetDeletions(ctx)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Deletions reset successfully"})
	}
}
