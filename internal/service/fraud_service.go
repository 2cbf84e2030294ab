package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/boddenberg/banking-transactions-api/internal/domain"
	"github.com/boddenberg/banking-transactions-api/internal/infra/observability"
	"github.com/boddenberg/banking-transactions-api/internal/port"
)

var fraudTracer = otel.Tracer("service/fraud")

// Heuristic thresholds.
const (
	highFrequencyCount  = 50    // transactions per client
	largeTransferAmount = 10000 // TRANSFER amount
	repeatedPairCount   = 20    // transfers to the same recipient
)

type pairKey struct {
	client    int
	recipient int
}

// ScoreContext carries the aggregates the fraud heuristics compare
// against: amount percentiles, per-client counts and per-pair counts over
// one snapshot of the visible set.
type ScoreContext struct {
	total       int
	p95         float64
	p99         float64
	clientCount map[int]int
	pairCount   map[pairKey]int
}

// reasons lists every heuristic that fires for the given transaction
// attributes, in fixed order. Percentile comparisons are skipped over an
// empty snapshot, where no threshold exists.
func (sc *ScoreContext) reasons(clientID int, recipientID *int, amount float64, txType string) []string {
	var out []string
	if sc.total > 0 && amount > sc.p95 {
		out = append(out, fmt.Sprintf("Amount %.2f exceeds threshold %.2f", amount, sc.p95))
	}
	if sc.clientCount[clientID] > highFrequencyCount {
		out = append(out, "High transaction frequency for this client")
	}
	if txType == domain.TypeTransfer && amount > largeTransferAmount {
		out = append(out, "Large transfer transaction")
	}
	if recipientID != nil && sc.pairCount[pairKey{clientID, *recipientID}] > repeatedPairCount {
		out = append(out, "Repeated transactions to same recipient")
	}
	return out
}

// FraudService scores transactions against simple statistical heuristics.
// Score contexts are cached per deletion-set version; rebuilds after a
// delete are deduplicated through singleflight.
type FraudService struct {
	store   port.TransactionStore
	scores  port.Cache[*ScoreContext]
	group   singleflight.Group
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewFraudService creates a new fraud detection service.
func NewFraudService(store port.TransactionStore, scores port.Cache[*ScoreContext], metrics *observability.Metrics, logger *zap.Logger) *FraudService {
	return &FraudService{store: store, scores: scores, metrics: metrics, logger: logger}
}

// Summary reports suspicious and flagged counts over the visible set.
// Suspicious means at least one heuristic fired; flagged means two or more.
func (s *FraudService) Summary(ctx context.Context) (*domain.FraudSummary, error) {
	_, span := fraudTracer.Start(ctx, "FraudService.Summary")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("fraud_summary", time.Since(start)) }()

	txs, version := s.store.Snapshot()
	summary := &domain.FraudSummary{}
	if len(txs) == 0 {
		return summary, nil
	}

	sc := s.scoreContextFor(version, txs)
	atRisk := 0.0
	for _, tx := range txs {
		fired := sc.reasons(tx.ClientID, tx.RecipientID, tx.Amount, tx.Type)
		if len(fired) == 0 {
			continue
		}
		summary.TotalSuspicious++
		if len(fired) >= 2 {
			summary.TotalFlagged++
			atRisk += tx.Amount
		}
	}

	summary.FraudRate = round2(float64(summary.TotalSuspicious) / float64(len(txs)) * 100)
	summary.TotalAmountAtRisk = round2(atRisk)
	span.SetAttributes(
		attribute.Int("fraud.suspicious", summary.TotalSuspicious),
		attribute.Int("fraud.flagged", summary.TotalFlagged),
	)
	return summary, nil
}

// ByType breaks suspicious activity down per transaction type, most
// flagged first. Types with equal flagged counts keep alphabetical order.
func (s *FraudService) ByType(ctx context.Context) ([]domain.FraudByType, error) {
	_, span := fraudTracer.Start(ctx, "FraudService.ByType")
	defer span.End()

	txs, version := s.store.Snapshot()
	if len(txs) == 0 {
		return []domain.FraudByType{}, nil
	}

	sc := s.scoreContextFor(version, txs)
	type group struct {
		suspicious int
		flagged    int
		amount     float64
	}
	groups := make(map[string]*group)
	for _, tx := range txs {
		g, ok := groups[tx.Type]
		if !ok {
			g = &group{}
			groups[tx.Type] = g
		}
		g.amount += tx.Amount

		fired := sc.reasons(tx.ClientID, tx.RecipientID, tx.Amount, tx.Type)
		if len(fired) > 0 {
			g.suspicious++
			if len(fired) >= 2 {
				g.flagged++
			}
		}
	}

	types := make([]string, 0, len(groups))
	for t := range groups {
		types = append(types, t)
	}
	sort.Strings(types)

	result := make([]domain.FraudByType, 0, len(types))
	for _, t := range types {
		g := groups[t]
		result = append(result, domain.FraudByType{
			Type:            t,
			SuspiciousCount: g.suspicious,
			FlaggedCount:    g.flagged,
			TotalAmount:     round2(g.amount),
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].FlaggedCount > result[j].FlaggedCount
	})
	return result, nil
}

// Predict scores a hypothetical transaction against the current visible
// set. The transaction itself is not stored and does not shift the
// percentiles it is compared against.
func (s *FraudService) Predict(ctx context.Context, req *domain.FraudPredictionRequest) (*domain.FraudPrediction, error) {
	_, span := fraudTracer.Start(ctx, "FraudService.Predict")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("fraud_predict", time.Since(start)) }()

	if req.Amount < 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must not be negative"}
	}
	if req.TransactionType == "" {
		return nil, &domain.ErrValidation{Field: "transaction_type", Message: "is required"}
	}

	txs, version := s.store.Snapshot()
	sc := s.scoreContextFor(version, txs)

	fired := sc.reasons(req.ClientID, req.RecipientID, req.Amount, req.TransactionType)
	risk := float64(len(fired)) * 25
	if sc.total > 0 {
		if req.Amount > sc.p95 {
			risk += 20
		}
		if req.Amount > sc.p99 {
			risk += 30
		}
	}
	if risk > 100 {
		risk = 100
	}

	confidence := 10.0
	if len(fired) > 0 {
		confidence = math.Min(float64(len(fired))*30, 100)
	}

	reasons := fired
	if len(reasons) == 0 {
		reasons = []string{"No suspicious patterns detected"}
	}

	txID := 999999
	if req.TransactionID != nil {
		txID = *req.TransactionID
	}
	s.metrics.IncrPrediction()
	s.logger.Info("fraud prediction scored",
		zap.Int("transaction_id", txID),
		zap.Int("client_id", req.ClientID),
		zap.Float64("risk_score", risk),
		zap.Int("reasons", len(fired)),
	)

	return &domain.FraudPrediction{
		IsSuspicious: len(fired) > 0,
		RiskScore:    round2(risk),
		Reasons:      reasons,
		Confidence:   round2(confidence),
	}, nil
}

// scoreContextFor returns the score context for one snapshot, building and
// caching it on first use. The version key ties the context to the
// deletion-set state the snapshot was taken at.
func (s *FraudService) scoreContextFor(version uint64, txs []domain.Transaction) *ScoreContext {
	key := fmt.Sprintf("v%d", version)
	if sc, ok := s.scores.Get(key); ok {
		s.metrics.IncrCacheHit("score")
		return sc
	}
	s.metrics.IncrCacheMiss("score")

	v, _, _ := s.group.Do(key, func() (any, error) {
		sc := buildScoreContext(txs)
		s.scores.Set(key, sc)
		s.logger.Debug("score context built",
			zap.Uint64("version", version),
			zap.Int("transactions", sc.total),
			zap.Float64("p95", sc.p95),
			zap.Float64("p99", sc.p99),
		)
		return sc, nil
	})
	return v.(*ScoreContext)
}

func buildScoreContext(txs []domain.Transaction) *ScoreContext {
	sc := &ScoreContext{
		total:       len(txs),
		clientCount: make(map[int]int),
		pairCount:   make(map[pairKey]int),
	}

	amounts := make([]float64, 0, len(txs))
	for _, tx := range txs {
		amounts = append(amounts, tx.Amount)
		sc.clientCount[tx.ClientID]++
		if tx.RecipientID != nil {
			sc.pairCount[pairKey{tx.ClientID, *tx.RecipientID}]++
		}
	}

	sort.Float64s(amounts)
	sc.p95 = percentile(amounts, 0.95)
	sc.p99 = percentile(amounts, 0.99)
	return sc
}

// percentile computes the q-th percentile of sorted values with linear
// interpolation between the two nearest ranks.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	h := q * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
