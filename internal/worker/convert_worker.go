package worker

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pdfcourier/api/internal/batch"
	"github.com/pdfcourier/api/internal/delivery"
	"github.com/pdfcourier/api/internal/model"
	"github.com/pdfcourier/api/internal/registry"
	"github.com/pdfcourier/api/internal/telemetry"
	"github.com/pdfcourier/api/internal/websocket"
)

// JobSpec is everything a submission resolved to
type JobSpec struct {
	Items      []model.WorkItem
	Strategy   string
	Recipient  string
	FolderName string
}

// ConvertWorker drives one conversion job end to end: batch
// conversion, delivery, terminal bookkeeping. One Process call runs
// per job, on its own goroutine.
type ConvertWorker struct {
	registry   *registry.Registry
	scheduler  *batch.Scheduler
	dispatcher *delivery.Dispatcher
	hub        *websocket.Hub
	stagingDir string
}

// NewConvertWorker creates a new conversion worker
func NewConvertWorker(reg *registry.Registry, scheduler *batch.Scheduler, dispatcher *delivery.Dispatcher, hub *websocket.Hub, stagingDir string) *ConvertWorker {
	return &ConvertWorker{
		registry:   reg,
		scheduler:  scheduler,
		dispatcher: dispatcher,
		hub:        hub,
		stagingDir: stagingDir,
	}
}

// Process runs one job to its terminal state. Jobs are never
// cancelled from outside; whatever happens is recorded on the job
// record rather than returned.
func (w *ConvertWorker) Process(jobID string, spec *JobSpec) {
	ctx := context.Background()

	telemetry.ActiveJobs.Inc()
	defer telemetry.ActiveJobs.Dec()

	log.Printf("Starting convert job %s (%d URLs, %s delivery)", jobID, len(spec.Items), spec.Strategy)

	// Step 1: Stage a working directory for this job
	jobDir := filepath.Join(w.stagingDir, jobID)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		w.failJob(jobID, fmt.Sprintf("failed to create staging directory: %v", err))
		return
	}
	defer w.cleanup(jobID, jobDir)

	// Step 2: Convert everything in batches
	w.registry.SetStatus(jobID, model.JobStatusProcessing)
	w.hub.BroadcastProgress(jobID, 0, model.JobStatusProcessing)
	w.logEvent(jobID, fmt.Sprintf("Starting conversion of %d URLs", len(spec.Items)))

	total := len(spec.Items)
	result := w.scheduler.Run(ctx, spec.Items, jobDir, func(ev batch.Event) {
		switch ev.Type {
		case batch.EventBatchStart:
			w.logEvent(jobID, fmt.Sprintf("Batch %d of %d started", ev.Batch, ev.Batches))

		case batch.EventSuccess:
			telemetry.ItemsConverted.Inc()
			w.recordItem(jobID, ev, total, fmt.Sprintf("Converted %s (%s)", ev.Item.URL, ev.Item.FileName))

		case batch.EventFailed:
			telemetry.ItemsFailed.Inc()
			w.recordItem(jobID, ev, total, fmt.Sprintf("Failed %s: %s", ev.Item.URL, ev.Err))
		}
	})

	// Step 3: A delivery needs at least one artifact
	if len(result.Success) == 0 {
		w.failJob(jobID, "no URLs could be converted")
		return
	}

	// Step 4: Hand the batch to the delivery strategy
	status := model.JobStatusSending
	if spec.Strategy == string(model.StrategyShare) {
		status = model.JobStatusUploading
	}
	w.registry.SetStatus(jobID, status)
	w.registry.SetProgress(jobID, 95)
	w.hub.BroadcastProgress(jobID, 95, status)
	w.logEvent(jobID, fmt.Sprintf("Delivering %d files via %s", len(result.Success), spec.Strategy))

	res := w.dispatcher.Dispatch(ctx, spec.Strategy, &delivery.Request{
		JobID:      jobID,
		Recipient:  spec.Recipient,
		FolderName: spec.FolderName,
		StagingDir: jobDir,
		Result:     result,
	})

	outcome := "success"
	if !res.Success {
		outcome = "failure"
	}
	telemetry.DeliveriesByOutcome.WithLabelValues(spec.Strategy, outcome).Inc()

	if !res.Success {
		w.failJob(jobID, res.Error)
		return
	}

	// Step 5: Terminal bookkeeping
	w.logEvent(jobID, "Delivery completed")
	w.registry.SetDeliveryResult(jobID, res)
	w.registry.SetProgress(jobID, 100)
	w.registry.SetStatus(jobID, model.JobStatusCompleted)
	telemetry.JobsCompleted.Inc()

	w.hub.BroadcastProgress(jobID, 100, model.JobStatusCompleted)
	w.hub.BroadcastComplete(jobID, res)
	log.Printf("Convert job %s completed: %d converted, %d failed", jobID, len(result.Success), len(result.Failed))
}

// recordItem folds one scheduler event into the job record. Progress
// covers conversion up to 90; delivery takes it the rest of the way.
func (w *ConvertWorker) recordItem(jobID string, ev batch.Event, total int, message string) {
	w.logEvent(jobID, message)
	w.registry.SetCounts(jobID, ev.SuccessCount, ev.FailedCount)

	processed := ev.SuccessCount + ev.FailedCount
	progress := processed * 90 / total
	w.registry.SetProgress(jobID, progress)
	w.hub.BroadcastProgress(jobID, progress, model.JobStatusProcessing)
}

func (w *ConvertWorker) logEvent(jobID, message string) {
	w.registry.AppendLog(jobID, message)
	w.hub.BroadcastLog(jobID, model.LogEntry{
		Time:    time.Now().UTC(),
		Message: message,
	})
}

func (w *ConvertWorker) failJob(jobID, errMsg string) {
	w.registry.AppendLog(jobID, errMsg)
	w.registry.SetError(jobID, errMsg)
	w.registry.SetStatus(jobID, model.JobStatusFailed)
	telemetry.JobsFailed.Inc()

	w.hub.BroadcastError(jobID, "JOB_FAILED", errMsg)
	log.Printf("Convert job %s failed: %s", jobID, errMsg)
}

// cleanup drops the job's staging directory; the delivery already
// holds the artifacts that matter
func (w *ConvertWorker) cleanup(jobID, jobDir string) {
	if err := os.RemoveAll(jobDir); err != nil {
		log.Printf("Failed to clean staging for job %s: %v", jobID, err)
	}
}
