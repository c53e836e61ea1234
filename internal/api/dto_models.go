package api

import "github.com/travis-tran03/leetcode-jar/internal/core"

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// OKResponse acknowledges a successful write.
type OKResponse struct {
	OK bool `json:"ok"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}

// TotalsResponse is returned by GET /api/totals.
type TotalsResponse struct {
	Totals []core.TotalLine `json:"totals"`
	Jar    int              `json:"jar"`
	Text   string           `json:"text"`
}

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Date    string         `json:"date"`
	Users   []core.DayLine `json:"users"`
	Missing []string       `json:"missing"`
	Text    string         `json:"text"`
}

// HistoryResponse is returned by GET /api/history.
type HistoryResponse struct {
	Rows []core.HistoryRow `json:"rows"`
	Text string            `json:"text"`
}
