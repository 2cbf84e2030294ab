package domain

// ============================================================
// Probe Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status string `json:"status"` // healthy, unhealthy
}

// ReadyStatus is returned by GET /readyz.
type ReadyStatus struct {
	Ready        bool `json:"ready"`
	Transactions int  `json:"transactions"`
}
