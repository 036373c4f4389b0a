package model

// Job status
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusUploading  JobStatus = "uploading"
	JobStatusSending    JobStatus = "sending"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether a job in this status can still change
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Delivery strategies
type Strategy string

const (
	StrategyEmail Strategy = "email"
	StrategyShare Strategy = "share"
)

var ValidStrategies = []Strategy{StrategyEmail, StrategyShare}
