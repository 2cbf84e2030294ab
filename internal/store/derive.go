// Package store derives the synthetic transaction set from the card
// dataset and keeps it in memory together with its soft-delete state.
package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/boddenberg/banking-transactions-api/internal/domain"
)

// Derive expands each card into its synthetic transactions. The result is
// deterministic for a fixed card set and reference time: every field is a
// pure function of the card record, the index within the card and now.
func Derive(cards []domain.RawCard, now time.Time) []domain.Transaction {
	txs := make([]domain.Transaction, 0, len(cards)*4)

	for _, card := range cards {
		count := 3 + card.ID%3
		amount := round2(card.CreditLimit * (0.001 + float64(card.ID%50)/1000.0))
		txType := typeForCard(card.CardType)

		for i := 0; i < count; i++ {
			daysAgo := (card.ID*7 + i*3) % 730
			ts := now.AddDate(0, 0, -daysAgo)

			recipient := (card.ClientID + 100 + i) % 10000
			if recipient == card.ClientID {
				recipient = (recipient + 1) % 10000
			}

			status := domain.StatusCompleted
			if i%10 == 0 {
				status = domain.StatusPending
			}

			txs = append(txs, domain.Transaction{
				ID:          card.ID*100 + i,
				ClientID:    card.ClientID,
				RecipientID: &recipient,
				Amount:      amount,
				Type:        txType,
				Date:        ts.Format("2006-01-02"),
				Timestamp:   ts.Format(time.RFC3339),
				CardID:      card.ID,
				CardBrand:   card.CardBrand,
				Status:      status,
				Description: fmt.Sprintf("Transaction %d for card %d", i+1, card.ID),
			})
		}
	}

	return txs
}

// typeForCard maps a card type to a transaction type. Matching is
// case-insensitive; debit wins when a card type mentions both.
func typeForCard(cardType string) string {
	ct := strings.ToLower(cardType)
	switch {
	case strings.Contains(ct, "debit"):
		return domain.TypePurchase
	case strings.Contains(ct, "credit"):
		return domain.TypePayment
	default:
		return domain.TypeTransfer
	}
}

// round2 rounds to two decimals with banker's rounding, so derived amounts
// match across platforms regardless of float formatting quirks.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).RoundBank(2).Float64()
	return f
}
