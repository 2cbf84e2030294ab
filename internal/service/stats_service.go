package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/banking-transactions-api/internal/domain"
	"github.com/boddenberg/banking-transactions-api/internal/infra/observability"
	"github.com/boddenberg/banking-transactions-api/internal/port"
)

var statsTracer = otel.Tracer("service/stats")

// amountBuckets are the histogram buckets for the amount distribution.
// Each bucket covers [min, max); the last one is open-ended.
var amountBuckets = []struct {
	label    string
	min, max float64
}{
	{"0-100", 0, 100},
	{"100-500", 100, 500},
	{"500-1000", 500, 1000},
	{"1000-5000", 1000, 5000},
	{"5000-10000", 5000, 10000},
	{"10000+", 10000, math.Inf(1)},
}

// StatsService aggregates statistics over the visible transaction set.
// Every aggregation is total over an empty set: zero values, never errors.
type StatsService struct {
	store   port.TransactionStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewStatsService creates a new statistics service.
func NewStatsService(store port.TransactionStore, metrics *observability.Metrics, logger *zap.Logger) *StatsService {
	return &StatsService{store: store, metrics: metrics, logger: logger}
}

// Overview summarizes the visible set: totals, amount extremes, distinct
// customers and a status breakdown.
func (s *StatsService) Overview(ctx context.Context) (*domain.StatsOverview, error) {
	_, span := statsTracer.Start(ctx, "StatsService.Overview")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("stats_overview", time.Since(start)) }()

	txs := s.store.Visible()
	span.SetAttributes(attribute.Int("transactions.visible", len(txs)))

	overview := &domain.StatsOverview{
		TransactionsByStatus: make(map[string]int),
	}
	if len(txs) == 0 {
		return overview, nil
	}

	sum := 0.0
	min := txs[0].Amount
	max := txs[0].Amount
	clients := make(map[int]struct{})

	for _, tx := range txs {
		sum += tx.Amount
		if tx.Amount < min {
			min = tx.Amount
		}
		if tx.Amount > max {
			max = tx.Amount
		}
		clients[tx.ClientID] = struct{}{}
		overview.TransactionsByStatus[tx.Status]++
	}

	overview.TotalTransactions = len(txs)
	overview.TotalAmount = sum
	overview.AverageAmount = sum / float64(len(txs))
	overview.MinAmount = min
	overview.MaxAmount = max
	overview.UniqueCustomers = len(clients)
	return overview, nil
}

// AmountDistribution buckets visible transactions into fixed amount ranges.
func (s *StatsService) AmountDistribution(ctx context.Context) ([]domain.AmountDistribution, error) {
	_, span := statsTracer.Start(ctx, "StatsService.AmountDistribution")
	defer span.End()

	txs := s.store.Visible()
	dist := make([]domain.AmountDistribution, 0, len(amountBuckets))
	if len(txs) == 0 {
		return dist, nil
	}

	total := float64(len(txs))
	for _, bucket := range amountBuckets {
		count := 0
		for _, tx := range txs {
			if tx.Amount >= bucket.min && tx.Amount < bucket.max {
				count++
			}
		}
		dist = append(dist, domain.AmountDistribution{
			Range:      bucket.label,
			Count:      count,
			Percentage: round2(float64(count) / total * 100),
		})
	}
	return dist, nil
}

// ByType aggregates the visible set per transaction type, largest group
// first. Types with equal counts keep alphabetical order.
func (s *StatsService) ByType(ctx context.Context) ([]domain.StatsByType, error) {
	_, span := statsTracer.Start(ctx, "StatsService.ByType")
	defer span.End()

	txs := s.store.Visible()
	if len(txs) == 0 {
		return []domain.StatsByType{}, nil
	}

	type group struct {
		count int
		sum   float64
	}
	groups := make(map[string]*group)
	for _, tx := range txs {
		g, ok := groups[tx.Type]
		if !ok {
			g = &group{}
			groups[tx.Type] = g
		}
		g.count++
		g.sum += tx.Amount
	}

	types := make([]string, 0, len(groups))
	for t := range groups {
		types = append(types, t)
	}
	sort.Strings(types)

	total := float64(len(txs))
	stats := make([]domain.StatsByType, 0, len(types))
	for _, t := range types {
		g := groups[t]
		stats = append(stats, domain.StatsByType{
			Type:          t,
			Count:         g.count,
			TotalAmount:   g.sum,
			AverageAmount: g.sum / float64(g.count),
			Percentage:    round2(float64(g.count) / total * 100),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return stats, nil
}

// Daily aggregates the visible set per calendar day, most recent day first.
func (s *StatsService) Daily(ctx context.Context) ([]domain.DailyStats, error) {
	_, span := statsTracer.Start(ctx, "StatsService.Daily")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("stats_daily", time.Since(start)) }()

	txs := s.store.Visible()
	if len(txs) == 0 {
		return []domain.DailyStats{}, nil
	}

	type group struct {
		count int
		sum   float64
	}
	groups := make(map[string]*group)
	for _, tx := range txs {
		g, ok := groups[tx.Date]
		if !ok {
			g = &group{}
			groups[tx.Date] = g
		}
		g.count++
		g.sum += tx.Amount
	}

	dates := make([]string, 0, len(groups))
	for d := range groups {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	daily := make([]domain.DailyStats, 0, len(dates))
	for _, d := range dates {
		g := groups[d]
		daily = append(daily, domain.DailyStats{
			Date:          d,
			Count:         g.count,
			TotalAmount:   g.sum,
			AverageAmount: g.sum / float64(g.count),
		})
	}
	return daily, nil
}

// round2 rounds to two decimals with banker's rounding, matching how the
// derived amounts themselves are rounded.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).RoundBank(2).Float64()
	return f
}
