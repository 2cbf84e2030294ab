package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/boddenberg/banking-transactions-api/internal/domain"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// idParam reads a numeric path parameter such as {transactionId}.
func idParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return id, nil
}

// queryInt reads an optional integer query parameter; absent means nil.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &v, nil
}

// queryFloat reads an optional numeric query parameter; absent means nil.
func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &v, nil
}

// parsePagination reads page/page_size with their documented defaults.
// Range checks live in the service layer so that query strings and search
// bodies are validated the same way.
func parsePagination(r *http.Request) (*domain.PaginationParams, error) {
	p := &domain.PaginationParams{Page: 1, PageSize: 10}
	if raw := r.URL.Query().Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("page must be an integer")
		}
		p.Page = v
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("page_size must be an integer")
		}
		p.PageSize = v
	}
	return p, nil
}

// parseFilters builds the transaction filter set from the query string.
// Absent parameters stay unset and do not constrain the result.
func parseFilters(r *http.Request) (*domain.TransactionFilters, error) {
	f := &domain.TransactionFilters{
		Type:      r.URL.Query().Get("type"),
		Status:    r.URL.Query().Get("status"),
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	var err error
	if f.ClientID, err = queryInt(r, "client_id"); err != nil {
		return nil, err
	}
	if f.RecipientID, err = queryInt(r, "recipient_id"); err != nil {
		return nil, err
	}
	if f.MinAmount, err = queryFloat(r, "min_amount"); err != nil {
		return nil, err
	}
	if f.MaxAmount, err = queryFloat(r, "max_amount"); err != nil {
		return nil, err
	}
	return f, nil
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var validation *domain.ErrValidation

	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
