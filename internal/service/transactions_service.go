// Package service provides the business logic layer (use cases).
// Services query the derived transaction set, aggregate statistics,
// score fraud heuristics and expose system introspection.
package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/banking-transactions-api/internal/domain"
	"github.com/boddenberg/banking-transactions-api/internal/infra/observability"
	"github.com/boddenberg/banking-transactions-api/internal/port"
)

var txTracer = otel.Tracer("service/transactions")

// TransactionService answers transaction queries over the visible set.
type TransactionService struct {
	store   port.TransactionStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(store port.TransactionStore, metrics *observability.Metrics, logger *zap.Logger) *TransactionService {
	return &TransactionService{store: store, metrics: metrics, logger: logger}
}

// ============================================================
// Queries
// ============================================================

// List returns one page of the visible set, filtered and sorted by date
// descending.
func (s *TransactionService) List(ctx context.Context, filters *domain.TransactionFilters, page *domain.PaginationParams) (*domain.Page[domain.Transaction], error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.List")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("transactions_list", time.Since(start)) }()

	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	if err := validatePagination(page); err != nil {
		return nil, err
	}

	matched := applyFilters(s.store.Visible(), filters)
	sortByDateDesc(matched)

	result := paginate(matched, page)
	span.SetAttributes(attribute.Int("transactions.matched", result.Total))
	return result, nil
}

// Search behaves like List but additionally requires the free-text query to
// match the description or type, case-insensitively. Without pagination the
// whole result comes back as a single page.
func (s *TransactionService) Search(ctx context.Context, query string, filters *domain.TransactionFilters, page *domain.PaginationParams) (*domain.Page[domain.Transaction], error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.Search")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("transactions_search", time.Since(start)) }()

	if strings.TrimSpace(query) == "" {
		return nil, &domain.ErrValidation{Field: "query", Message: "must not be empty"}
	}
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	if err := validatePagination(page); err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matched := make([]domain.Transaction, 0)
	for _, tx := range applyFilters(s.store.Visible(), filters) {
		if strings.Contains(strings.ToLower(tx.Description), needle) ||
			strings.Contains(strings.ToLower(tx.Type), needle) {
			matched = append(matched, tx)
		}
	}
	sortByDateDesc(matched)

	result := paginate(matched, page)
	span.SetAttributes(attribute.Int("transactions.matched", result.Total))
	return result, nil
}

// GetByID returns a single visible transaction.
func (s *TransactionService) GetByID(ctx context.Context, id int) (*domain.Transaction, error) {
	_, span := txTracer.Start(ctx, "TransactionService.GetByID")
	defer span.End()
	span.SetAttributes(attribute.Int("transaction.id", id))

	tx, ok := s.store.Get(id)
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: id}
	}
	return &tx, nil
}

// Types returns the distinct transaction types of the visible set,
// sorted ascending.
func (s *TransactionService) Types(ctx context.Context) ([]string, error) {
	_, span := txTracer.Start(ctx, "TransactionService.Types")
	defer span.End()

	seen := make(map[string]struct{})
	for _, tx := range s.store.Visible() {
		seen[tx.Type] = struct{}{}
	}

	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types, nil
}

// Recent returns the limit most recent visible transactions.
func (s *TransactionService) Recent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	_, span := txTracer.Start(ctx, "TransactionService.Recent")
	defer span.End()

	if limit < 1 || limit > 100 {
		return nil, &domain.ErrValidation{Field: "limit", Message: "must be between 1 and 100"}
	}

	txs := s.store.Visible()
	sortByDateDesc(txs)
	if len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

// ByCustomer returns the visible transactions a customer sent,
// most recent first.
func (s *TransactionService) ByCustomer(ctx context.Context, customerID int) ([]domain.Transaction, error) {
	_, span := txTracer.Start(ctx, "TransactionService.ByCustomer")
	defer span.End()
	span.SetAttributes(attribute.Int("customer.id", customerID))

	matched := make([]domain.Transaction, 0)
	for _, tx := range s.store.Visible() {
		if tx.ClientID == customerID {
			matched = append(matched, tx)
		}
	}
	sortByDateDesc(matched)
	return matched, nil
}

// ToCustomer returns the visible transactions a customer received,
// most recent first.
func (s *TransactionService) ToCustomer(ctx context.Context, customerID int) ([]domain.Transaction, error) {
	_, span := txTracer.Start(ctx, "TransactionService.ToCustomer")
	defer span.End()
	span.SetAttributes(attribute.Int("customer.id", customerID))

	matched := make([]domain.Transaction, 0)
	for _, tx := range s.store.Visible() {
		if tx.RecipientID != nil && *tx.RecipientID == customerID {
			matched = append(matched, tx)
		}
	}
	sortByDateDesc(matched)
	return matched, nil
}

// ============================================================
// Soft delete
// ============================================================

// Remove hides a transaction from every subsequent query. The id must
// resolve to a currently visible transaction.
func (s *TransactionService) Remove(ctx context.Context, id int) error {
	_, span := txTracer.Start(ctx, "TransactionService.Remove")
	defer span.End()
	span.SetAttributes(attribute.Int("transaction.id", id))

	if _, ok := s.store.Get(id); !ok {
		return &domain.ErrNotFound{Resource: "transaction", ID: id}
	}
	if !s.store.MarkDeleted(id) {
		// Lost a race with a concurrent delete of the same id.
		return &domain.ErrNotFound{Resource: "transaction", ID: id}
	}

	s.metrics.IncrDeletion()
	s.logger.Info("transaction hidden",
		zap.Int("transaction_id", id),
		zap.Int("deleted_total", s.store.DeletedCount()),
	)
	return nil
}

// ResetDeletions restores every hidden transaction. Dev/test support.
func (s *TransactionService) ResetDeletions(ctx context.Context) {
	_, span := txTracer.Start(ctx, "TransactionService.ResetDeletions")
	defer span.End()

	restored := s.store.DeletedCount()
	s.store.ResetDeletions()

	s.logger.Warn("deletion set cleared", zap.Int("restored", restored))
}

// ============================================================
// Filtering, ordering, pagination
// ============================================================

func validateFilters(f *domain.TransactionFilters) error {
	if f == nil {
		return nil
	}
	if f.MinAmount != nil && *f.MinAmount < 0 {
		return &domain.ErrValidation{Field: "min_amount", Message: "must not be negative"}
	}
	if f.MaxAmount != nil && *f.MaxAmount < 0 {
		return &domain.ErrValidation{Field: "max_amount", Message: "must not be negative"}
	}
	return nil
}

func validatePagination(p *domain.PaginationParams) error {
	if p == nil {
		return nil
	}
	if p.Page < 1 {
		return &domain.ErrValidation{Field: "page", Message: "must be at least 1"}
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		return &domain.ErrValidation{Field: "page_size", Message: "must be between 1 and 100"}
	}
	return nil
}

// applyFilters keeps the transactions matching every present filter field.
// Date bounds compare lexically, which is correct for YYYY-MM-DD.
func applyFilters(txs []domain.Transaction, f *domain.TransactionFilters) []domain.Transaction {
	matched := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f != nil {
			if f.Type != "" && tx.Type != f.Type {
				continue
			}
			if f.ClientID != nil && tx.ClientID != *f.ClientID {
				continue
			}
			if f.RecipientID != nil && (tx.RecipientID == nil || *tx.RecipientID != *f.RecipientID) {
				continue
			}
			if f.MinAmount != nil && tx.Amount < *f.MinAmount {
				continue
			}
			if f.MaxAmount != nil && tx.Amount > *f.MaxAmount {
				continue
			}
			if f.StartDate != "" && tx.Date < f.StartDate {
				continue
			}
			if f.EndDate != "" && tx.Date > f.EndDate {
				continue
			}
			if f.Status != "" && tx.Status != f.Status {
				continue
			}
		}
		matched = append(matched, tx)
	}
	return matched
}

// sortByDateDesc orders most recent first. The sort is stable, so
// transactions sharing a date keep their derivation order.
func sortByDateDesc(txs []domain.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date > txs[j].Date
	})
}

// paginate slices one page out of the ordered result. A nil page returns
// everything as a single page sized to the result.
func paginate(items []domain.Transaction, p *domain.PaginationParams) *domain.Page[domain.Transaction] {
	total := len(items)

	if p == nil {
		totalPages := 0
		if total > 0 {
			totalPages = 1
		}
		return &domain.Page[domain.Transaction]{
			Items:      items,
			Total:      total,
			Page:       1,
			PageSize:   total,
			TotalPages: totalPages,
		}
	}

	totalPages := (total + p.PageSize - 1) / p.PageSize
	start := (p.Page - 1) * p.PageSize
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}

	return &domain.Page[domain.Transaction]{
		Items:      items[start:end],
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
	}
}
