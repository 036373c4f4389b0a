package model

// WebSocket message types
const (
	WSMessageTypeProgress = "progress"
	WSMessageTypeLog      = "log"
	WSMessageTypeComplete = "complete"
	WSMessageTypeError    = "error"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage represents a generic WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}

// WSProgressMessage represents a progress update
type WSProgressMessage struct {
	Type     string    `json:"type"`
	JobID    string    `json:"jobId"`
	Progress int       `json:"progress"`
	Status   JobStatus `json:"status"`
}

// WSLogMessage represents one appended log line
type WSLogMessage struct {
	Type  string   `json:"type"`
	JobID string   `json:"jobId"`
	Entry LogEntry `json:"entry"`
}

// WSCompleteMessage represents job completion
type WSCompleteMessage struct {
	Type   string          `json:"type"`
	JobID  string          `json:"jobId"`
	Result *DeliveryResult `json:"result,omitempty"`
}

// WSErrorMessage represents a failed job
type WSErrorMessage struct {
	Type  string  `json:"type"`
	JobID string  `json:"jobId"`
	Error WSError `json:"error"`
}

// WSError represents error details
type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
