package domain

// ============================================================
// Transactions
// ============================================================

// Transaction types, assigned from the card type of the originating card.
const (
	TypePurchase = "PURCHASE" // debit cards
	TypePayment  = "PAYMENT"  // credit cards
	TypeTransfer = "TRANSFER" // everything else
)

// Transaction statuses.
const (
	StatusCompleted = "COMPLETED"
	StatusPending   = "PENDING"
)

// RawCard is one record of the card dataset the transaction set derives from.
type RawCard struct {
	ID          int
	ClientID    int
	CreditLimit float64
	CardType    string
	CardBrand   string
}

// Transaction is a synthetic transaction derived from a card record.
type Transaction struct {
	ID          int     `json:"id"`
	ClientID    int     `json:"client_id"`
	RecipientID *int    `json:"recipient_id"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Timestamp   string  `json:"timestamp"`
	CardID      int     `json:"card_id"`
	CardBrand   string  `json:"card_brand"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
}

// TransactionFilters narrows a transaction query. Nil or zero-valued
// fields place no constraint.
type TransactionFilters struct {
	Type        string   `json:"type,omitempty"`
	ClientID    *int     `json:"client_id,omitempty"`
	RecipientID *int     `json:"recipient_id,omitempty"`
	MinAmount   *float64 `json:"min_amount,omitempty"`
	MaxAmount   *float64 `json:"max_amount,omitempty"`
	StartDate   string   `json:"start_date,omitempty"` // YYYY-MM-DD, inclusive
	EndDate     string   `json:"end_date,omitempty"`   // YYYY-MM-DD, inclusive
	Status      string   `json:"status,omitempty"`
}

// PaginationParams selects one page of a result set.
type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// TransactionSearch is the body for POST /api/transactions/search.
type TransactionSearch struct {
	Query      string              `json:"query"`
	Filters    *TransactionFilters `json:"filters,omitempty"`
	Pagination *PaginationParams   `json:"pagination,omitempty"`
}

// Page is one page of a query result.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// DeleteResponse confirms a transaction was hidden.
type DeleteResponse struct {
	Message string `json:"message"`
	ID      int    `json:"id"`
}
