package store_test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/boddenberg/banking-transactions-api/internal/domain"
	"github.com/boddenberg/banking-transactions-api/internal/store"
)

func TestDerive_SingleCreditCard(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	cards := []domain.RawCard{
		{ID: 10, ClientID: 5, CreditLimit: 2000.0, CardType: "Credit", CardBrand: "Visa"},
	}

	txs := store.Derive(cards, now)
	if len(txs) != 4 {
		t.Fatalf("expected 4 transactions for card 10, got %d", len(txs))
	}

	for i, tx := range txs {
		if tx.ID != 1000+i {
			t.Errorf("tx %d: expected id %d, got %d", i, 1000+i, tx.ID)
		}
		if tx.ClientID != 5 {
			t.Errorf("tx %d: expected client 5, got %d", i, tx.ClientID)
		}
		if tx.Type != domain.TypePayment {
			t.Errorf("tx %d: expected PAYMENT for a credit card, got %s", i, tx.Type)
		}
		if tx.Amount != 22.0 {
			t.Errorf("tx %d: expected amount 22.0, got %v", i, tx.Amount)
		}
		if tx.RecipientID == nil || *tx.RecipientID != 105+i {
			t.Errorf("tx %d: expected recipient %d, got %v", i, 105+i, tx.RecipientID)
		}
		if tx.CardID != 10 || tx.CardBrand != "Visa" {
			t.Errorf("tx %d: unexpected card fields: %+v", i, tx)
		}

		wantDesc := fmt.Sprintf("Transaction %d for card 10", i+1)
		if tx.Description != wantDesc {
			t.Errorf("tx %d: expected description %q, got %q", i, wantDesc, tx.Description)
		}

		wantDate := now.AddDate(0, 0, -(70 + 3*i)).Format("2006-01-02")
		if tx.Date != wantDate {
			t.Errorf("tx %d: expected date %s, got %s", i, wantDate, tx.Date)
		}
		if !strings.HasPrefix(tx.Timestamp, tx.Date) {
			t.Errorf("tx %d: timestamp %s does not match date %s", i, tx.Timestamp, tx.Date)
		}
	}

	if txs[0].Status != domain.StatusPending {
		t.Errorf("expected first transaction PENDING, got %s", txs[0].Status)
	}
	for _, tx := range txs[1:] {
		if tx.Status != domain.StatusCompleted {
			t.Errorf("tx %d: expected COMPLETED, got %s", tx.ID, tx.Status)
		}
	}
}

func TestDerive_Deterministic(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	cards := []domain.RawCard{
		{ID: 37, ClientID: 12, CreditLimit: 1000.0, CardType: "Debit", CardBrand: "Elo"},
		{ID: 38, ClientID: 13, CreditLimit: 5000.0, CardType: "Prepaid", CardBrand: "Visa"},
	}

	first := store.Derive(cards, now)
	second := store.Derive(cards, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical output for identical input")
	}
}

func TestDerive_CountPerCard(t *testing.T) {
	now := time.Now()
	cases := []struct {
		cardID int
		want   int
	}{
		{9, 3},
		{10, 4},
		{11, 5},
		{12, 3},
	}

	for _, tc := range cases {
		txs := store.Derive([]domain.RawCard{{ID: tc.cardID, ClientID: 1, CreditLimit: 100}}, now)
		if len(txs) != tc.want {
			t.Errorf("card %d: expected %d transactions, got %d", tc.cardID, tc.want, len(txs))
		}
	}
}

func TestDerive_TypeMapping(t *testing.T) {
	now := time.Now()
	cases := []struct {
		cardType string
		want     string
	}{
		{"Debit", domain.TypePurchase},
		{"DEBIT CARD", domain.TypePurchase},
		{"Credit", domain.TypePayment},
		{"Business Credit", domain.TypePayment},
		{"Prepaid", domain.TypeTransfer},
		{"", domain.TypeTransfer},
	}

	for _, tc := range cases {
		txs := store.Derive([]domain.RawCard{{ID: 1, ClientID: 1, CreditLimit: 100, CardType: tc.cardType}}, now)
		for _, tx := range txs {
			if tx.Type != tc.want {
				t.Errorf("card type %q: expected %s, got %s", tc.cardType, tc.want, tx.Type)
			}
		}
	}
}

func TestDerive_AmountFromCreditLimit(t *testing.T) {
	now := time.Now()

	// id 37 → multiplier 0.001 + 37/1000 = 0.038
	txs := store.Derive([]domain.RawCard{{ID: 37, ClientID: 1, CreditLimit: 1000.0}}, now)
	for _, tx := range txs {
		if tx.Amount != 38.0 {
			t.Errorf("expected amount 38.0, got %v", tx.Amount)
		}
	}

	// id 50 → 50 % 50 = 0 → multiplier 0.001
	txs = store.Derive([]domain.RawCard{{ID: 50, ClientID: 1, CreditLimit: 1000.0}}, now)
	for _, tx := range txs {
		if tx.Amount != 1.0 {
			t.Errorf("expected amount 1.0, got %v", tx.Amount)
		}
	}
}

func TestDerive_RecipientNeverEqualsClient(t *testing.T) {
	now := time.Now()
	cards := []domain.RawCard{
		{ID: 1, ClientID: 0, CreditLimit: 100},
		{ID: 2, ClientID: 100, CreditLimit: 100},
		{ID: 3, ClientID: 9899, CreditLimit: 100},
		{ID: 4, ClientID: 9999, CreditLimit: 100},
	}

	for _, tx := range store.Derive(cards, now) {
		if tx.RecipientID == nil {
			t.Fatalf("tx %d: missing recipient", tx.ID)
		}
		if *tx.RecipientID == tx.ClientID {
			t.Errorf("tx %d: recipient equals client %d", tx.ID, tx.ClientID)
		}
	}
}

func TestDerive_DatesWithinWindow(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	oldest := now.AddDate(0, 0, -730).Format("2006-01-02")
	newest := now.Format("2006-01-02")

	cards := []domain.RawCard{
		{ID: 104, ClientID: 7, CreditLimit: 250},
		{ID: 105, ClientID: 8, CreditLimit: 250},
	}
	for _, tx := range store.Derive(cards, now) {
		if tx.Date < oldest || tx.Date > newest {
			t.Errorf("tx %d: date %s outside the two-year window", tx.ID, tx.Date)
		}
	}
}
