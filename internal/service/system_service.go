package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/boddenberg/banking-transactions-api/internal/domain"
	"github.com/boddenberg/banking-transactions-api/internal/infra/observability"
	"github.com/boddenberg/banking-transactions-api/internal/port"
)

var systemTracer = otel.Tracer("service/system")

// SystemService reports service health, dataset metadata and usage
// counters. Counts here cover the full derived set, deletions included;
// hidden transactions still exist in memory.
type SystemService struct {
	store       port.TransactionStore
	metrics     *observability.Metrics
	version     string
	environment string
	instanceID  string
	logger      *zap.Logger
}

// NewSystemService creates a new system service. Each instance gets a
// fresh id so replicas can be told apart in responses.
func NewSystemService(store port.TransactionStore, metrics *observability.Metrics, version, environment string, logger *zap.Logger) *SystemService {
	return &SystemService{
		store:       store,
		metrics:     metrics,
		version:     version,
		environment: environment,
		instanceID:  uuid.NewString(),
		logger:      logger,
	}
}

// Health reports liveness and whether the dataset is loaded.
func (s *SystemService) Health(ctx context.Context) *domain.SystemHealth {
	_, span := systemTracer.Start(ctx, "SystemService.Health")
	defer span.End()

	return &domain.SystemHealth{
		Status:            "OK",
		Timestamp:         time.Now().Format(time.RFC3339),
		DataLoaded:        s.store.Size() > 0,
		TransactionsCount: s.store.Size(),
	}
}

// Metadata describes the running instance and its dataset.
func (s *SystemService) Metadata(ctx context.Context) *domain.SystemMetadata {
	_, span := systemTracer.Start(ctx, "SystemService.Metadata")
	defer span.End()

	return &domain.SystemMetadata{
		Version:           s.version,
		Environment:       s.environment,
		InstanceID:        s.instanceID,
		TotalTransactions: s.store.Size(),
		TotalCustomers:    s.store.ClientCount(),
		DataSource:        s.store.SourcePath(),
		LastUpdated:       s.store.LoadedAt().Format(time.RFC3339),
	}
}

// Usage snapshots the request and cache counters.
func (s *SystemService) Usage(ctx context.Context) *domain.ServiceUsage {
	_, span := systemTracer.Start(ctx, "SystemService.Usage")
	defer span.End()

	return s.metrics.GetUsageSnapshot()
}

// Info is the root endpoint payload.
func (s *SystemService) Info() *domain.ServiceInfo {
	return &domain.ServiceInfo{
		Message: "Banking Transactions API",
		Version: s.version,
		Health:  "/api/system/health",
		Metrics: "/metrics",
	}
}
