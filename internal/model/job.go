package model

import "time"

// Job represents a conversion job in the system
type Job struct {
	ID             string          `json:"id"`
	Status         JobStatus       `json:"status"`
	Progress       int             `json:"progress"`
	TotalURLs      int             `json:"totalUrls"`
	SuccessCount   int             `json:"successCount"`
	FailedCount    int             `json:"failedCount"`
	Logs           []LogEntry      `json:"logs"`
	DeliveryResult *DeliveryResult `json:"deliveryResult,omitempty"`
	Error          *string         `json:"error,omitempty"`
	RecipientEmail string          `json:"recipientEmail"`
	CreatedAt      time.Time       `json:"createdAt"`
	StartedAt      *time.Time      `json:"startedAt,omitempty"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
}

// LogEntry is one line of a job's progress log
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// DeliveryResult describes the outcome of the delivery stage.
// Email deliveries fill the archive fields, share deliveries the
// folder fields; Success and Error are common to both.
type DeliveryResult struct {
	Success        bool     `json:"success"`
	Strategy       string   `json:"strategy"`
	Recipient      string   `json:"recipient,omitempty"`
	FileCount      int      `json:"fileCount,omitempty"`
	ArchiveSize    int64    `json:"archiveSize,omitempty"`
	FolderName     string   `json:"folderName,omitempty"`
	FolderURL      string   `json:"folderUrl,omitempty"`
	UploadedCount  int      `json:"uploadedCount,omitempty"`
	UploadFailures []string `json:"uploadFailures,omitempty"`
	Error          string   `json:"error,omitempty"`
}
