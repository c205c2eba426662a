package server

import "cirrus/internal/supervisor"

// HealthResponse reports the supervisor's overall condition
type HealthResponse struct {
	Status        string `json:"status"`
	Draining      bool   `json:"draining"`
	Workers       int    `json:"workers"`
	Launched      int    `json:"launched"`
	StartFailures int    `json:"start_failures"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ServiceSummary is the declarative view of one registered service
type ServiceSummary struct {
	Name    string `json:"name"`
	Workers int    `json:"workers"`
	Topic   string `json:"topic,omitempty"`
	Manager string `json:"manager,omitempty"`
}

// WorkersResponse wraps the tracked worker list
type WorkersResponse struct {
	Workers []supervisor.WorkerInfo `json:"workers"`
	Total   int                     `json:"total"`
}
