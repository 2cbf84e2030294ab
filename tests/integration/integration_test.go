package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boddenberg/banking-transactions-api/internal/domain"
	"github.com/boddenberg/banking-transactions-api/internal/handler"
	"github.com/boddenberg/banking-transactions-api/internal/infra/cache"
	"github.com/boddenberg/banking-transactions-api/internal/infra/cardcsv"
	"github.com/boddenberg/banking-transactions-api/internal/infra/observability"
	"github.com/boddenberg/banking-transactions-api/internal/service"
	"github.com/boddenberg/banking-transactions-api/internal/store"

	"go.uber.org/zap"
)

const cardsCSV = `id,client_id,credit_limit,card_type,card_brand
10,5,"$2,000.00",Credit,Visa
11,6,"$1,500.00",Debit,Mastercard
12,5,$800.00,Credit,Amex
`

// TestIntegration_FullFlow loads a CSV dataset and walks the whole API:
// derivation, listing, deletion, fraud prediction, aggregation, usage.
//
// The fixture derives 12 transactions: card 10 gives 4 PAYMENTs of 22.00,
// card 11 gives 5 PURCHASEs of 18.00, card 12 gives 3 PAYMENTs of 10.40.
func TestIntegration_FullFlow(t *testing.T) {
	// --- Write dataset ---
	csvPath := filepath.Join(t.TempDir(), "cards.csv")
	if err := os.WriteFile(csvPath, []byte(cardsCSV), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	// --- Build service ---
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	source := cardcsv.New(csvPath, logger)
	st, err := store.Load(context.Background(), source, logger)
	if err != nil {
		t.Fatalf("failed to load dataset: %v", err)
	}

	txSvc := service.NewTransactionService(st, metrics, logger)
	customerSvc := service.NewCustomerService(st, metrics, logger)
	statsSvc := service.NewStatsService(st, metrics, logger)
	fraudSvc := service.NewFraudService(st, cache.New[*service.ScoreContext](time.Minute), metrics, logger)
	systemSvc := service.NewSystemService(st, metrics, "integration", "test", logger)

	router := handler.NewRouter(txSvc, customerSvc, statsSvc, fraudSvc, systemSvc, metrics, logger)

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}
	decode := func(rec *httptest.ResponseRecorder, v any) {
		t.Helper()
		if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}

	// --- Health reflects the derived set ---
	rec := get("/api/system/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	var health domain.SystemHealth
	decode(rec, &health)
	if !health.DataLoaded || health.TransactionsCount != 12 {
		t.Fatalf("unexpected health: %+v", health)
	}

	// --- List with default pagination ---
	rec = get("/api/transactions")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var page domain.Page[domain.Transaction]
	decode(rec, &page)
	if page.Total != 12 || page.TotalPages != 2 || len(page.Items) != 10 {
		t.Fatalf("unexpected envelope: total=%d total_pages=%d items=%d",
			page.Total, page.TotalPages, len(page.Items))
	}

	// --- Single transaction carries the derived fields ---
	rec = get("/api/transactions/1000")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	var tx domain.Transaction
	decode(rec, &tx)
	if tx.Amount != 22.0 || tx.CardBrand != "Visa" || tx.Description != "Transaction 1 for card 10" {
		t.Errorf("unexpected transaction: %+v", tx)
	}

	// --- Overview sums the visible set ---
	rec = get("/api/stats/overview")
	var overview domain.StatsOverview
	decode(rec, &overview)
	if overview.TotalTransactions != 12 || overview.UniqueCustomers != 2 {
		t.Errorf("unexpected overview: %+v", overview)
	}
	if math.Abs(overview.TotalAmount-209.2) > 1e-6 {
		t.Errorf("expected total amount 209.20, got %v", overview.TotalAmount)
	}

	// --- Delete hides a transaction without shrinking the derived set ---
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/transactions/1200", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	if rec := get("/api/transactions/1200"); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", rec.Code)
	}
	rec = get("/api/transactions")
	decode(rec, &page)
	if page.Total != 11 {
		t.Errorf("expected total 11 after delete, got %d", page.Total)
	}
	rec = get("/api/system/health")
	decode(rec, &health)
	if health.TransactionsCount != 12 {
		t.Errorf("health should report the derived count, got %d", health.TransactionsCount)
	}

	// --- Fraud prediction over the current set ---
	body, _ := json.Marshal(domain.FraudPredictionRequest{
		Amount:          12.0,
		ClientID:        5,
		TransactionType: domain.TypePayment,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/fraud/predict", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("predict: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	var prediction domain.FraudPrediction
	decode(rec, &prediction)
	if prediction.IsSuspicious {
		t.Errorf("expected clean prediction, got %+v", prediction)
	}

	// --- Customers aggregate per client ---
	rec = get("/api/customers")
	var customers []domain.Customer
	decode(rec, &customers)
	if len(customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(customers))
	}
	if customers[0].ID != 5 || customers[0].CardsCount != 2 {
		t.Errorf("unexpected customer: %+v", customers[0])
	}

	// --- Reset restores the hidden transaction ---
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dev/reset-deletions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", rec.Code)
	}
	rec = get("/api/transactions")
	decode(rec, &page)
	if page.Total != 12 {
		t.Errorf("expected total 12 after reset, got %d", page.Total)
	}

	// --- Usage snapshot counts the traffic above ---
	rec = get("/api/system/usage")
	var usage domain.ServiceUsage
	decode(rec, &usage)
	if usage.TotalRequests == 0 {
		t.Error("expected request counter to advance")
	}
	if usage.DeletionsTotal != 1 {
		t.Errorf("expected 1 deletion, got %d", usage.DeletionsTotal)
	}
	if usage.PredictionsTotal != 1 {
		t.Errorf("expected 1 prediction, got %d", usage.PredictionsTotal)
	}
	if usage.ErrorRate == 0 {
		t.Error("expected error rate > 0 after the 404 lookups")
	}
}

// TestIntegration_MissingDataset ensures startup fails loudly when the CSV
// is absent instead of serving an empty API.
func TestIntegration_MissingDataset(t *testing.T) {
	logger := zap.NewNop()
	source := cardcsv.New(filepath.Join(t.TempDir(), "missing.csv"), logger)

	_, err := store.Load(context.Background(), source, logger)
	if err == nil {
		t.Fatal("expected error for missing dataset")
	}
	var unavailable *domain.ErrSourceUnavailable
	if !errors.As(err, &unavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}
