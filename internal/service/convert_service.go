package service

import (
	"context"
	"fmt"

	"github.com/pdfcourier/api/internal/delivery"
	"github.com/pdfcourier/api/internal/model"
	"github.com/pdfcourier/api/internal/parse"
	"github.com/pdfcourier/api/internal/registry"
	"github.com/pdfcourier/api/internal/telemetry"
	"github.com/pdfcourier/api/internal/worker"
)

// ConvertService handles conversion job submission and status lookup
type ConvertService struct {
	registry   *registry.Registry
	worker     *worker.ConvertWorker
	dispatcher *delivery.Dispatcher
}

func NewConvertService(reg *registry.Registry, w *worker.ConvertWorker, d *delivery.Dispatcher) *ConvertService {
	return &ConvertService{
		registry:   reg,
		worker:     w,
		dispatcher: d,
	}
}

// Submit parses the URL list, registers a job and hands it to a worker
// goroutine. Every error it returns is a rejection of the request;
// once a job exists, later failures land on the job record instead.
func (s *ConvertService) Submit(ctx context.Context, req *model.ConvertRequest) (*model.ConvertAcceptedResponse, error) {
	format := parse.FormatText
	if req.Format == string(parse.FormatJSON) {
		format = parse.FormatJSON
	}

	items, err := parse.Items(req.URLs, format)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no valid URLs found")
	}

	if !s.dispatcher.Has(model.Strategy(req.Strategy)) {
		return nil, fmt.Errorf("%s delivery is not configured", req.Strategy)
	}

	job := s.registry.Create(req.Recipient, len(items))
	telemetry.JobsCreated.Inc()

	go s.worker.Process(job.ID, &worker.JobSpec{
		Items:      items,
		Strategy:   req.Strategy,
		Recipient:  req.Recipient,
		FolderName: req.Name,
	})

	return &model.ConvertAcceptedResponse{
		JobID:     job.ID,
		Message:   fmt.Sprintf("Queued %d URLs for conversion", len(items)),
		StatusURL: "/api/convert/status/" + job.ID,
	}, nil
}

// Status returns the full record of a job, including its log stream
// and delivery result once present.
func (s *ConvertService) Status(ctx context.Context, jobID string) (*model.Job, error) {
	job, ok := s.registry.Get(jobID)
	if !ok {
		return nil, fmt.Errorf("job not found")
	}
	return job, nil
}
