// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/boddenberg/banking-transactions-api/internal/domain"
)

// CardSource produces the raw card records the transaction set derives from.
type CardSource interface {
	Cards(ctx context.Context) ([]domain.RawCard, error)
	Path() string
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// TransactionStore holds the derived transaction set and its soft-delete
// state. Implemented by the in-memory store.
type TransactionStore interface {
	// Reads
	All() []domain.Transaction
	Visible() []domain.Transaction
	Snapshot() ([]domain.Transaction, uint64)
	Get(id int) (domain.Transaction, bool)
	IsVisible(id int) bool

	// Soft deletes
	MarkDeleted(id int) bool
	ResetDeletions()
	Version() uint64
	DeletedCount() int

	// Dataset metadata
	Size() int
	ClientCount() int
	CardCount() int
	CardCountByClient(clientID int) int
	SourcePath() string
	LoadedAt() time.Time
}
