package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/pdfcourier/api/internal/client"
	"github.com/pdfcourier/api/internal/config"
	"github.com/pdfcourier/api/internal/model"
)

// Event types pushed into the sink
const (
	EventBatchStart = "batch-start"
	EventSuccess    = "success"
	EventFailed     = "failed"
)

// Event is one scheduler observation. Item events carry the running
// tallies as they stood when the item resolved; batch-start events
// carry the tallies and the number of items resolved so far.
type Event struct {
	Type         string
	Batch        int
	Batches      int
	Processed    int
	Item         model.WorkItem
	Err          string
	SuccessCount int
	FailedCount  int
}

// Sink receives scheduler events as they happen
type Sink func(Event)

// Scheduler converts work items in fixed-size batches. Batches run
// strictly one after another with a pacing delay between them; the
// items inside a batch run concurrently. Item failures are recorded,
// never fatal: a run always resolves every input item.
type Scheduler struct {
	renderer client.PDFRenderer
	fetcher  client.ArtifactFetcher
	size     int
	pause    time.Duration
}

// NewScheduler creates a scheduler with the configured batch shape
func NewScheduler(renderer client.PDFRenderer, fetcher client.ArtifactFetcher, cfg *config.BatchConfig) *Scheduler {
	size := cfg.Size
	if size <= 0 {
		size = 5
	}
	pause := time.Duration(cfg.PauseSeconds) * time.Second
	if cfg.PauseSeconds < 0 {
		pause = 0
	}
	return &Scheduler{
		renderer: renderer,
		fetcher:  fetcher,
		size:     size,
		pause:    pause,
	}
}

// Run processes all items and returns the partitioned outcome. The
// pacing delay separates consecutive batches only; the last batch is
// not followed by one.
func (s *Scheduler) Run(ctx context.Context, items []model.WorkItem, outputDir string, sink Sink) *model.BatchResult {
	result := &model.BatchResult{
		Success: []model.ArtifactRecord{},
		Failed:  []model.FailedItem{},
		Total:   len(items),
	}
	if len(items) == 0 {
		return result
	}

	batches := (len(items) + s.size - 1) / s.size
	var mu sync.Mutex

	for b := 0; b < batches; b++ {
		start := b * s.size
		end := start + s.size
		if end > len(items) {
			end = len(items)
		}

		emit(sink, Event{
			Type:      EventBatchStart,
			Batch:     b + 1,
			Batches:   batches,
			Processed: start,
		})

		var wg sync.WaitGroup
		for _, item := range items[start:end] {
			wg.Add(1)
			go func(item model.WorkItem) {
				defer wg.Done()

				record, err := s.processItem(ctx, item, outputDir)

				mu.Lock()
				ev := Event{
					Type:    EventSuccess,
					Batch:   b + 1,
					Batches: batches,
					Item:    item,
				}
				if err != nil {
					result.Failed = append(result.Failed, model.FailedItem{
						Index:    item.Index,
						URL:      item.URL,
						Label:    item.Label,
						FileName: item.FileName,
						Error:    err.Error(),
					})
					ev.Type = EventFailed
					ev.Err = err.Error()
				} else {
					result.Success = append(result.Success, *record)
				}
				ev.SuccessCount = len(result.Success)
				ev.FailedCount = len(result.Failed)
				mu.Unlock()

				emit(sink, ev)
			}(item)
		}
		wg.Wait()

		if b < batches-1 && s.pause > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(s.pause):
			}
		}
	}

	return result
}

// processItem converts one URL and downloads the artifact. The local
// path is prefixed with the item index so same-named items in one
// batch cannot race on a shared file.
func (s *Scheduler) processItem(ctx context.Context, item model.WorkItem, outputDir string) (*model.ArtifactRecord, error) {
	fileURL, err := s.renderer.Convert(ctx, &client.ConvertRequest{
		URL:      item.URL,
		FileName: item.FileName,
	})
	if err != nil {
		return nil, fmt.Errorf("conversion failed: %w", err)
	}

	localPath := filepath.Join(outputDir, fmt.Sprintf("%03d_%s", item.Index, item.FileName))
	if err := s.fetcher.Fetch(ctx, fileURL, localPath); err != nil {
		// A lost artifact outweighs the successful conversion
		return nil, fmt.Errorf("download failed: %w", err)
	}

	return &model.ArtifactRecord{
		Index:     item.Index,
		URL:       item.URL,
		Label:     item.Label,
		FileName:  item.FileName,
		LocalPath: localPath,
	}, nil
}

func emit(sink Sink, ev Event) {
	if sink != nil {
		sink(ev)
	}
}
