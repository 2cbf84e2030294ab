package domain

// ============================================================
// Statistics
// ============================================================

// StatsOverview summarizes the whole visible transaction set.
type StatsOverview struct {
	TotalTransactions    int            `json:"total_transactions"`
	TotalAmount          float64        `json:"total_amount"`
	AverageAmount        float64        `json:"average_amount"`
	MinAmount            float64        `json:"min_amount"`
	MaxAmount            float64        `json:"max_amount"`
	UniqueCustomers      int            `json:"unique_customers"`
	TransactionsByStatus map[string]int `json:"transactions_by_status"`
}

// AmountDistribution is one histogram bucket of transaction amounts.
type AmountDistribution struct {
	Range      string  `json:"range"` // e.g. "100-500"
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// StatsByType aggregates transactions of a single type.
type StatsByType struct {
	Type          string  `json:"type"`
	Count         int     `json:"count"`
	TotalAmount   float64 `json:"total_amount"`
	AverageAmount float64 `json:"average_amount"`
	Percentage    float64 `json:"percentage"`
}

// DailyStats aggregates transactions of a single calendar day.
type DailyStats struct {
	Date          string  `json:"date"`
	Count         int     `json:"count"`
	TotalAmount   float64 `json:"total_amount"`
	AverageAmount float64 `json:"average_amount"`
}
