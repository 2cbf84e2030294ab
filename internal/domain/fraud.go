package domain

// ============================================================
// Fraud Detection
// ============================================================

// FraudSummary reports how much of the visible set looks suspicious.
// A transaction is suspicious when at least one heuristic fires and
// flagged when two or more fire.
type FraudSummary struct {
	TotalSuspicious   int     `json:"total_suspicious"`
	TotalFlagged      int     `json:"total_flagged"`
	FraudRate         float64 `json:"fraud_rate"` // percent of visible transactions
	TotalAmountAtRisk float64 `json:"total_amount_at_risk"`
}

// FraudByType breaks suspicious activity down per transaction type.
type FraudByType struct {
	Type            string  `json:"type"`
	SuspiciousCount int     `json:"suspicious_count"`
	FlaggedCount    int     `json:"flagged_count"`
	TotalAmount     float64 `json:"total_amount"`
}

// FraudPredictionRequest describes a hypothetical transaction to score.
type FraudPredictionRequest struct {
	TransactionID   *int    `json:"transaction_id,omitempty"`
	Amount          float64 `json:"amount"`
	ClientID        int     `json:"client_id"`
	TransactionType string  `json:"transaction_type"`
	RecipientID     *int    `json:"recipient_id,omitempty"`
}

// FraudPrediction is the scoring result for a hypothetical transaction.
type FraudPrediction struct {
	IsSuspicious bool     `json:"is_suspicious"`
	RiskScore    float64  `json:"risk_score"`  // 0-100
	Reasons      []string `json:"reasons"`
	Confidence   float64  `json:"confidence"` // 0-100
}
