package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/boddenberg/banking-transactions-api/internal/domain"
	"github.com/boddenberg/banking-transactions-api/internal/port"
)

// Store holds the derived transaction set. The set itself is immutable
// after construction; only the deletion set mutates, guarded by mu.
type Store struct {
	mu      sync.RWMutex
	deleted map[int]struct{}
	version uint64

	txs           []domain.Transaction
	index         map[int]int // transaction id → position in txs
	cardsByClient map[int]int
	clientCount   int
	cardCount     int
	sourcePath    string
	loadedAt      time.Time
}

// New derives the transaction set from cards and builds a ready store.
// Transactions keep derivation order: card order, then index within card.
func New(cards []domain.RawCard, sourcePath string) *Store {
	txs := Derive(cards, time.Now())

	index := make(map[int]int, len(txs))
	clients := make(map[int]struct{})
	for i, tx := range txs {
		index[tx.ID] = i
		clients[tx.ClientID] = struct{}{}
	}

	cardsByClient := make(map[int]int)
	for _, card := range cards {
		cardsByClient[card.ClientID]++
	}

	return &Store{
		deleted:       make(map[int]struct{}),
		txs:           txs,
		index:         index,
		cardsByClient: cardsByClient,
		clientCount:   len(clients),
		cardCount:     len(cards),
		sourcePath:    sourcePath,
		loadedAt:      time.Now(),
	}
}

// Load reads cards from src and builds the store. Startup fails here when
// the source is unreadable or holds no records.
func Load(ctx context.Context, src port.CardSource, logger *zap.Logger) (*Store, error) {
	cards, err := src.Cards(ctx)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, &domain.ErrSourceEmpty{Path: src.Path()}
	}

	st := New(cards, src.Path())
	logger.Info("transaction set derived",
		zap.Int("cards", st.CardCount()),
		zap.Int("transactions", st.Size()),
		zap.Int("customers", st.ClientCount()),
	)
	return st, nil
}

// All returns the full derived set in derivation order, deletions included.
func (s *Store) All() []domain.Transaction {
	out := make([]domain.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// Visible returns the derived set minus soft-deleted transactions,
// in derivation order.
func (s *Store) Visible() []domain.Transaction {
	txs, _ := s.Snapshot()
	return txs
}

// Snapshot returns the visible set together with the deletion-set version
// it was taken at. Callers that key caches by version use this to avoid
// pairing a stale version with a fresher set.
func (s *Store) Snapshot() ([]domain.Transaction, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Transaction, 0, len(s.txs)-len(s.deleted))
	for _, tx := range s.txs {
		if _, gone := s.deleted[tx.ID]; !gone {
			out = append(out, tx)
		}
	}
	return out, s.version
}

// Get returns the transaction with the given id, if it exists and is visible.
func (s *Store) Get(id int) (domain.Transaction, bool) {
	i, ok := s.index[id]
	if !ok {
		return domain.Transaction{}, false
	}

	s.mu.RLock()
	_, gone := s.deleted[id]
	s.mu.RUnlock()
	if gone {
		return domain.Transaction{}, false
	}
	return s.txs[i], true
}

// IsVisible reports whether id currently exists and is not soft-deleted.
func (s *Store) IsVisible(id int) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, gone := s.deleted[id]
	return !gone
}

// MarkDeleted hides id from every query. Returns false when id never
// existed or is already hidden.
func (s *Store) MarkDeleted(id int) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, gone := s.deleted[id]; gone {
		return false
	}
	s.deleted[id] = struct{}{}
	s.version++
	return true
}

// ResetDeletions clears the deletion set, restoring the full derived set.
func (s *Store) ResetDeletions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleted = make(map[int]struct{})
	s.version++
}

// Version returns the deletion-set version. It bumps on every successful
// MarkDeleted and on ResetDeletions.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// DeletedCount returns how many transactions are currently hidden.
func (s *Store) DeletedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.deleted)
}

// Size returns the total number of derived transactions, deletions included.
func (s *Store) Size() int {
	return len(s.txs)
}

// ClientCount returns the number of distinct clients in the derived set.
func (s *Store) ClientCount() int {
	return s.clientCount
}

// CardCount returns the number of card records the set derives from.
func (s *Store) CardCount() int {
	return s.cardCount
}

// CardCountByClient returns how many cards a client holds in the dataset.
func (s *Store) CardCountByClient(clientID int) int {
	return s.cardsByClient[clientID]
}

// SourcePath returns the path of the dataset the store was loaded from.
func (s *Store) SourcePath() string {
	return s.sourcePath
}

// LoadedAt returns when the dataset was loaded.
func (s *Store) LoadedAt() time.Time {
	return s.loadedAt
}
