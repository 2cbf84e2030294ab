package domain

// ============================================================
// Customers
// ============================================================

// Customer aggregates the visible transactions of one client.
type Customer struct {
	ID                int     `json:"id"`
	TotalTransactions int     `json:"total_transactions"`
	TotalAmount       float64 `json:"total_amount"`
	AverageAmount     float64 `json:"average_amount"`
	CardsCount        int     `json:"cards_count"`
}

// CustomerSummary is a ranking entry returned by the top-customers query.
type CustomerSummary struct {
	ID                int     `json:"id"`
	TotalTransactions int     `json:"total_transactions"`
	TotalAmount       float64 `json:"total_amount"`
	AverageAmount     float64 `json:"average_amount"`
}
