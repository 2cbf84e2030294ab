package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/boddenberg/banking-transactions-api/internal/domain"
	"github.com/boddenberg/banking-transactions-api/internal/store"
)

func testCards() []domain.RawCard {
	return []domain.RawCard{
		{ID: 10, ClientID: 5, CreditLimit: 2000.0, CardType: "Credit", CardBrand: "Visa"},
		{ID: 11, ClientID: 6, CreditLimit: 1500.0, CardType: "Debit", CardBrand: "Mastercard"},
		{ID: 12, ClientID: 5, CreditLimit: 800.0, CardType: "Prepaid", CardBrand: "Elo"},
	}
}

func TestStore_VisibleExcludesDeleted(t *testing.T) {
	st := store.New(testCards(), "test.csv")
	total := st.Size()

	if !st.MarkDeleted(1000) {
		t.Fatal("expected delete of 1000 to succeed")
	}

	visible := st.Visible()
	if len(visible) != total-1 {
		t.Fatalf("expected %d visible transactions, got %d", total-1, len(visible))
	}
	for _, tx := range visible {
		if tx.ID == 1000 {
			t.Fatal("deleted transaction still visible")
		}
	}
	if len(st.All()) != total {
		t.Errorf("expected All to keep deleted transactions, got %d of %d", len(st.All()), total)
	}
}

func TestStore_MarkDeleted(t *testing.T) {
	st := store.New(testCards(), "test.csv")

	if !st.MarkDeleted(1000) {
		t.Fatal("expected first delete to succeed")
	}
	if st.MarkDeleted(1000) {
		t.Fatal("expected repeated delete to fail")
	}
	if st.MarkDeleted(424242) {
		t.Fatal("expected delete of unknown id to fail")
	}
	if st.DeletedCount() != 1 {
		t.Errorf("expected 1 deleted, got %d", st.DeletedCount())
	}
}

func TestStore_GetAfterDelete(t *testing.T) {
	st := store.New(testCards(), "test.csv")

	if _, ok := st.Get(1001); !ok {
		t.Fatal("expected 1001 to exist")
	}
	st.MarkDeleted(1001)
	if _, ok := st.Get(1001); ok {
		t.Fatal("expected 1001 to be hidden after delete")
	}
	if st.IsVisible(1001) {
		t.Fatal("expected 1001 to be invisible")
	}
}

func TestStore_ResetDeletions(t *testing.T) {
	st := store.New(testCards(), "test.csv")
	total := st.Size()

	st.MarkDeleted(1000)
	st.MarkDeleted(1001)
	st.ResetDeletions()

	if len(st.Visible()) != total {
		t.Fatalf("expected all %d transactions visible after reset, got %d", total, len(st.Visible()))
	}
	if st.DeletedCount() != 0 {
		t.Errorf("expected 0 deleted after reset, got %d", st.DeletedCount())
	}
}

func TestStore_VersionBumps(t *testing.T) {
	st := store.New(testCards(), "test.csv")

	v0 := st.Version()
	st.MarkDeleted(1000)
	v1 := st.Version()
	if v1 != v0+1 {
		t.Fatalf("expected version bump on delete, got %d → %d", v0, v1)
	}

	// Failed deletes leave the version alone.
	st.MarkDeleted(1000)
	st.MarkDeleted(424242)
	if st.Version() != v1 {
		t.Fatalf("expected version %d after no-op deletes, got %d", v1, st.Version())
	}

	st.ResetDeletions()
	if st.Version() != v1+1 {
		t.Fatalf("expected version bump on reset, got %d", st.Version())
	}
}

func TestStore_SnapshotVersionMatchesSet(t *testing.T) {
	st := store.New(testCards(), "test.csv")

	txs, version := st.Snapshot()
	if version != st.Version() {
		t.Fatalf("expected snapshot version %d, got %d", st.Version(), version)
	}
	if len(txs) != st.Size() {
		t.Fatalf("expected %d transactions, got %d", st.Size(), len(txs))
	}

	st.MarkDeleted(txs[0].ID)
	txs2, version2 := st.Snapshot()
	if version2 != version+1 {
		t.Errorf("expected version %d, got %d", version+1, version2)
	}
	if len(txs2) != len(txs)-1 {
		t.Errorf("expected %d transactions, got %d", len(txs)-1, len(txs2))
	}
}

func TestStore_ConcurrentDeletes(t *testing.T) {
	st := store.New(testCards(), "test.csv")
	ids := make([]int, 0, st.Size())
	for _, tx := range st.All() {
		ids = append(ids, tx.ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			st.MarkDeleted(id)
		}(id)
	}
	wg.Wait()

	if st.DeletedCount() != len(ids) {
		t.Fatalf("expected %d deleted, got %d", len(ids), st.DeletedCount())
	}
	if len(st.Visible()) != 0 {
		t.Fatalf("expected empty visible set, got %d", len(st.Visible()))
	}
}

func TestStore_DatasetCounts(t *testing.T) {
	st := store.New(testCards(), "cards.csv")

	if st.CardCount() != 3 {
		t.Errorf("expected 3 cards, got %d", st.CardCount())
	}
	if st.ClientCount() != 2 {
		t.Errorf("expected 2 clients, got %d", st.ClientCount())
	}
	if st.CardCountByClient(5) != 2 {
		t.Errorf("expected client 5 to hold 2 cards, got %d", st.CardCountByClient(5))
	}
	if st.CardCountByClient(999) != 0 {
		t.Errorf("expected unknown client to hold 0 cards, got %d", st.CardCountByClient(999))
	}
	if st.SourcePath() != "cards.csv" {
		t.Errorf("unexpected source path %q", st.SourcePath())
	}
}

type stubSource struct {
	cards []domain.RawCard
	err   error
}

func (s *stubSource) Cards(ctx context.Context) ([]domain.RawCard, error) {
	return s.cards, s.err
}

func (s *stubSource) Path() string {
	return "stub.csv"
}

func TestLoad_PropagatesSourceError(t *testing.T) {
	srcErr := &domain.ErrSourceUnavailable{Path: "stub.csv", Err: errors.New("boom")}
	_, err := store.Load(context.Background(), &stubSource{err: srcErr}, zap.NewNop())
	if !errors.Is(err, srcErr) {
		t.Fatalf("expected source error, got %v", err)
	}
}

func TestLoad_RejectsEmptySource(t *testing.T) {
	_, err := store.Load(context.Background(), &stubSource{}, zap.NewNop())
	var empty *domain.ErrSourceEmpty
	if !errors.As(err, &empty) {
		t.Fatalf("expected ErrSourceEmpty, got %v", err)
	}
}

func TestLoad_BuildsStore(t *testing.T) {
	st, err := store.Load(context.Background(), &stubSource{cards: testCards()}, zap.NewNop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if st.Size() == 0 {
		t.Fatal("expected a non-empty store")
	}
	if st.SourcePath() != "stub.csv" {
		t.Errorf("unexpected source path %q", st.SourcePath())
	}
}
