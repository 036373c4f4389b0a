package registry

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdfcourier/api/internal/model"
)

// statusRank orders the legal lifecycle. uploading and sending share a
// rank because a job passes through exactly one of them.
var statusRank = map[model.JobStatus]int{
	model.JobStatusQueued:     0,
	model.JobStatusProcessing: 1,
	model.JobStatusUploading:  2,
	model.JobStatusSending:    2,
	model.JobStatusCompleted:  3,
	model.JobStatusFailed:     3,
}

// Registry is the in-memory job store. Records live for the process
// lifetime until the janitor evicts terminal ones past retention.
// All methods are safe for concurrent use; readers get copies, so a
// returned job never changes under the caller.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*model.Job
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		jobs: make(map[string]*model.Job),
	}
}

// Create registers a new queued job and returns a copy of it
func (r *Registry) Create(recipient string, total int) *model.Job {
	job := &model.Job{
		ID:             uuid.New().String(),
		Status:         model.JobStatusQueued,
		Progress:       0,
		TotalURLs:      total,
		Logs:           []model.LogEntry{},
		RecipientEmail: recipient,
		CreatedAt:      time.Now().UTC(),
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	return copyJob(job)
}

// Get returns an independent copy of a job
func (r *Registry) Get(id string) (*model.Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, false
	}
	return copyJob(job), true
}

// Count returns the number of stored jobs
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// AppendLog adds one entry to a job's log stream
func (r *Registry) AppendLog(id, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Logs = append(job.Logs, model.LogEntry{
		Time:    time.Now().UTC(),
		Message: message,
	})
}

// SetProgress raises a job's progress. Values below the current one
// or outside 0-100 are clamped away, so progress never moves back.
func (r *Registry) SetProgress(id string, progress int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	if progress > 100 {
		progress = 100
	}
	if progress > job.Progress {
		job.Progress = progress
	}
}

// SetCounts records the running success/failure tallies
func (r *Registry) SetCounts(id string, success, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.SuccessCount = success
	job.FailedCount = failed
}

// SetStatus advances a job's lifecycle. Backward and sideways moves
// are ignored; reaching processing stamps StartedAt, reaching a
// terminal status stamps CompletedAt.
func (r *Registry) SetStatus(id string, status model.JobStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	if statusRank[status] <= statusRank[job.Status] {
		return
	}

	job.Status = status
	now := time.Now().UTC()
	if status == model.JobStatusProcessing && job.StartedAt == nil {
		job.StartedAt = &now
	}
	if status.Terminal() {
		job.CompletedAt = &now
	}
}

// SetError records the failure reason. The status change itself goes
// through SetStatus.
func (r *Registry) SetError(id, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Error = &message
}

// SetDeliveryResult attaches the delivery outcome. At most one result
// is ever kept.
func (r *Registry) SetDeliveryResult(id string, result *model.DeliveryResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() || job.DeliveryResult != nil {
		return
	}
	job.DeliveryResult = result
}

// Sweep evicts terminal jobs that completed more than retention ago
// and returns how many were removed
func (r *Registry) Sweep(retention time.Duration) int {
	cutoff := time.Now().UTC().Add(-retention)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, job := range r.jobs {
		if job.Status.Terminal() && job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(r.jobs, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps on an interval for the life of the process
func (r *Registry) RunJanitor(interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if removed := r.Sweep(retention); removed > 0 {
			log.Printf("[Registry] evicted %d expired jobs", removed)
		}
	}
}

func copyJob(job *model.Job) *model.Job {
	c := *job

	c.Logs = make([]model.LogEntry, len(job.Logs))
	copy(c.Logs, job.Logs)

	if job.Error != nil {
		e := *job.Error
		c.Error = &e
	}
	if job.StartedAt != nil {
		t := *job.StartedAt
		c.StartedAt = &t
	}
	if job.CompletedAt != nil {
		t := *job.CompletedAt
		c.CompletedAt = &t
	}
	if job.DeliveryResult != nil {
		res := *job.DeliveryResult
		res.UploadFailures = append([]string(nil), job.DeliveryResult.UploadFailures...)
		c.DeliveryResult = &res
	}
	return &c
}
