package service

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/banking-transactions-api/internal/domain"
	"github.com/boddenberg/banking-transactions-api/internal/infra/observability"
	"github.com/boddenberg/banking-transactions-api/internal/port"
)

var customerTracer = otel.Tracer("service/customers")

// CustomerService derives customer aggregates from the visible
// transaction set. Customers are not stored; they exist only as
// groupings of transactions by client.
type CustomerService struct {
	store   port.TransactionStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(store port.TransactionStore, metrics *observability.Metrics, logger *zap.Logger) *CustomerService {
	return &CustomerService{store: store, metrics: metrics, logger: logger}
}

// List returns every customer with at least one visible transaction,
// sorted by id ascending.
func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	_, span := customerTracer.Start(ctx, "CustomerService.List")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("customers_list", time.Since(start)) }()

	customers := s.aggregate()
	span.SetAttributes(attribute.Int("customers.count", len(customers)))
	return customers, nil
}

// GetByID returns a single customer aggregate. Customers disappear when
// their last visible transaction is deleted.
func (s *CustomerService) GetByID(ctx context.Context, id int) (*domain.Customer, error) {
	_, span := customerTracer.Start(ctx, "CustomerService.GetByID")
	defer span.End()
	span.SetAttributes(attribute.Int("customer.id", id))

	for _, c := range s.aggregate() {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "customer", ID: id}
}

// Top ranks customers by total_amount or total_transactions, highest
// first. Ties keep ascending id order.
func (s *CustomerService) Top(ctx context.Context, limit int, sortBy string) ([]domain.CustomerSummary, error) {
	_, span := customerTracer.Start(ctx, "CustomerService.Top")
	defer span.End()

	if limit < 1 || limit > 100 {
		return nil, &domain.ErrValidation{Field: "limit", Message: "must be between 1 and 100"}
	}
	if sortBy != "total_amount" && sortBy != "total_transactions" {
		return nil, &domain.ErrValidation{Field: "sort_by", Message: "must be 'total_amount' or 'total_transactions'"}
	}

	customers := s.aggregate()
	sort.SliceStable(customers, func(i, j int) bool {
		if sortBy == "total_transactions" {
			return customers[i].TotalTransactions > customers[j].TotalTransactions
		}
		return customers[i].TotalAmount > customers[j].TotalAmount
	})
	if len(customers) > limit {
		customers = customers[:limit]
	}

	top := make([]domain.CustomerSummary, 0, len(customers))
	for _, c := range customers {
		top = append(top, domain.CustomerSummary{
			ID:                c.ID,
			TotalTransactions: c.TotalTransactions,
			TotalAmount:       c.TotalAmount,
			AverageAmount:     c.AverageAmount,
		})
	}
	return top, nil
}

// aggregate groups the visible set by client. Card counts come from the
// raw dataset, so a customer can hold cards that derived no visible
// transactions anymore.
func (s *CustomerService) aggregate() []domain.Customer {
	type group struct {
		count int
		sum   float64
	}
	groups := make(map[int]*group)
	for _, tx := range s.store.Visible() {
		g, ok := groups[tx.ClientID]
		if !ok {
			g = &group{}
			groups[tx.ClientID] = g
		}
		g.count++
		g.sum += tx.Amount
	}

	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	customers := make([]domain.Customer, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		customers = append(customers, domain.Customer{
			ID:                id,
			TotalTransactions: g.count,
			TotalAmount:       g.sum,
			AverageAmount:     g.sum / float64(g.count),
			CardsCount:        s.store.CardCountByClient(id),
		})
	}
	return customers
}
