package delivery

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/pdfcourier/api/internal/model"
)

// Request carries everything a strategy needs to hand over a
// finished batch
type Request struct {
	JobID      string
	Recipient  string
	FolderName string
	StagingDir string
	Result     *model.BatchResult
}

// Strategy delivers converted artifacts to the recipient. Strategies
// never return Go errors; every outcome, good or bad, is a
// DeliveryResult the job layer records as data.
type Strategy interface {
	Deliver(ctx context.Context, req *Request) *model.DeliveryResult
}

// Dispatcher routes a job to its chosen delivery strategy
type Dispatcher struct {
	strategies map[model.Strategy]Strategy
}

// NewDispatcher creates a dispatcher with no strategies registered
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		strategies: make(map[model.Strategy]Strategy),
	}
}

// Register makes a strategy available under its tag
func (d *Dispatcher) Register(tag model.Strategy, s Strategy) {
	d.strategies[tag] = s
}

// Has reports whether a strategy is registered for the tag
func (d *Dispatcher) Has(tag model.Strategy) bool {
	_, ok := d.strategies[tag]
	return ok
}

// Dispatch runs the strategy registered for the tag. An unregistered
// tag yields a failed result, not a panic: strategies are optional
// per deployment.
func (d *Dispatcher) Dispatch(ctx context.Context, tag string, req *Request) *model.DeliveryResult {
	s, ok := d.strategies[model.Strategy(tag)]
	if !ok {
		log.Printf("[Delivery] job=%s no strategy registered for %q", req.JobID, tag)
		return &model.DeliveryResult{
			Success:   false,
			Strategy:  tag,
			Recipient: req.Recipient,
			Error:     fmt.Sprintf("delivery strategy %q is not configured", tag),
		}
	}
	return s.Deliver(ctx, req)
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9-]+`)

// slugName flattens a user-provided bundle name into something safe
// for file names and storage keys
func slugName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	s = slugUnsafe.ReplaceAllString(s, "")
	s = strings.Trim(s, "-")
	if s == "" {
		return "pdfs"
	}
	return s
}

// shortID keeps delivery names readable while still unique per job
func shortID(jobID string) string {
	if len(jobID) > 8 {
		return jobID[:8]
	}
	return jobID
}
