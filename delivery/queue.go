package delivery

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrQueueFull is returned when the intake handler tries to enqueue faster
// than the workers drain. Callers resubmit; jobs are never dropped silently.
var ErrQueueFull = errors.New("delivery: queue full")

// Queue decouples form acceptance from fulfillment. The submission handler
// enqueues and acknowledges immediately; workers consume jobs and their
// outcomes are observable through logs rather than the submitter's response.
// Nothing dedupes concurrent jobs for the same transaction: duplicate
// submissions produce duplicate documents, an accepted gap at this volume.
type Queue struct {
	jobs chan Job
	orch *Orchestrator
	log  *zap.Logger
}

func NewQueue(size int, orch *Orchestrator, log *zap.Logger) *Queue {
	if size <= 0 {
		size = 32
	}
	return &Queue{
		jobs: make(chan Job, size),
		orch: orch,
		log:  log,
	}
}

// Enqueue hands a job to the workers without blocking the caller.
func (q *Queue) Enqueue(job Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run consumes jobs until ctx is cancelled. Delivery outcomes, including
// partial failures, are summarized here: logs are the only observer of the
// background phase.
func (q *Queue) Run(ctx context.Context, workers int) error {
	if workers <= 0 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case job := <-q.jobs:
					q.process(ctx, job)
				}
			}
		})
	}
	return g.Wait()
}

func (q *Queue) process(ctx context.Context, job Job) {
	res, err := q.orch.Deliver(ctx, job)
	switch {
	case err != nil:
		q.log.Error("delivery failed",
			zap.String("job_id", job.ID),
			zap.String("record_id", job.RecordID),
			zap.Error(err))
	case len(res.ValidationErrors) > 0:
		// Pre-validated jobs should never land here; if one does, the
		// findings are worth a log line but not an alert.
		q.log.Warn("job rejected by validation gate",
			zap.String("job_id", job.ID),
			zap.Int("fields", len(res.ValidationErrors)))
	default:
		q.log.Info("delivery finished",
			zap.String("job_id", job.ID),
			zap.String("record_id", job.RecordID),
			zap.String("bucket", res.BucketUsed),
			zap.Bool("record_attached", res.RecordAttached),
			zap.Bool("email_sent", res.EmailSent),
			zap.Int("validation_warnings", len(res.ValidationWarnings)),
			zap.Strings("stage_errors", res.Errors))
	}
}
