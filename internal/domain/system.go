package domain

// ============================================================
// System
// ============================================================

// SystemHealth reports whether the service is up and its dataset loaded.
type SystemHealth struct {
	Status            string `json:"status"`
	Timestamp         string `json:"timestamp"`
	DataLoaded        bool   `json:"data_loaded"`
	TransactionsCount int    `json:"transactions_count"`
}

// SystemMetadata describes the running instance and its dataset.
type SystemMetadata struct {
	Version           string `json:"version"`
	Environment       string `json:"environment"`
	InstanceID        string `json:"instance_id"`
	TotalTransactions int    `json:"total_transactions"`
	TotalCustomers    int    `json:"total_customers"`
	DataSource        string `json:"data_source"`
	LastUpdated       string `json:"last_updated"`
}

// ServiceUsage is a point-in-time snapshot of request and cache counters.
type ServiceUsage struct {
	TotalRequests     int64   `json:"total_requests"`
	ErrorRate         float64 `json:"error_rate"`
	DeletionsTotal    int64   `json:"deletions_total"`
	PredictionsTotal  int64   `json:"predictions_total"`
	ScoreCacheHitRate float64 `json:"score_cache_hit_rate"`
	Period            string  `json:"period"`
}

// ServiceInfo is the root endpoint payload.
type ServiceInfo struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Health  string `json:"health"`
	Metrics string `json:"metrics"`
}
