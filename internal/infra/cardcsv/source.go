// Package cardcsv reads the raw card dataset from a local CSV file.
// It is the only adapter behind port.CardSource; swapping in a database
// or object-store source would not touch the service layer.
package cardcsv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/boddenberg/banking-transactions-api/internal/domain"
)

// Columns the dataset must provide. Extra columns are ignored.
var requiredColumns = []string{"id", "client_id", "credit_limit", "card_type", "card_brand"}

// Source reads card records from a CSV file on disk.
type Source struct {
	path   string
	logger *zap.Logger
}

// New creates a CSV-backed card source for the given file path.
func New(path string, logger *zap.Logger) *Source {
	return &Source{path: path, logger: logger}
}

// Path returns the configured CSV file path.
func (s *Source) Path() string {
	return s.path
}

// Cards reads and parses every card record in the file.
// Header names are matched case-insensitively; column order does not matter.
func (s *Source) Cards(ctx context.Context) ([]domain.RawCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, &domain.ErrSourceUnavailable{Path: s.path, Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, &domain.ErrSourceEmpty{Path: s.path}
	}
	if err != nil {
		return nil, &domain.ErrSourceUnavailable{Path: s.path, Err: err}
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, &domain.ErrSourceUnavailable{Path: s.path, Err: fmt.Errorf("missing column %q", name)}
		}
	}

	var cards []domain.RawCard
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &domain.ErrSourceUnavailable{Path: s.path, Err: err}
		}
		line++

		id, err := strconv.Atoi(strings.TrimSpace(record[col["id"]]))
		if err != nil {
			return nil, &domain.ErrSourceUnavailable{Path: s.path, Err: fmt.Errorf("line %d: invalid id: %w", line, err)}
		}
		clientID, err := strconv.Atoi(strings.TrimSpace(record[col["client_id"]]))
		if err != nil {
			return nil, &domain.ErrSourceUnavailable{Path: s.path, Err: fmt.Errorf("line %d: invalid client_id: %w", line, err)}
		}

		cards = append(cards, domain.RawCard{
			ID:          id,
			ClientID:    clientID,
			CreditLimit: ParseCreditLimit(record[col["credit_limit"]]),
			CardType:    strings.TrimSpace(record[col["card_type"]]),
			CardBrand:   strings.TrimSpace(record[col["card_brand"]]),
		})
	}

	if len(cards) == 0 {
		return nil, &domain.ErrSourceEmpty{Path: s.path}
	}

	s.logger.Info("card dataset read",
		zap.String("path", s.path),
		zap.Int("cards", len(cards)),
	)
	return cards, nil
}

// ParseCreditLimit parses a currency-formatted credit limit such as
// "$2,000.00". Values that do not parse fall back to 1000.0.
func ParseCreditLimit(raw string) float64 {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(raw))
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 1000.0
	}
	return d.InexactFloat64()
}
