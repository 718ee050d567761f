package art

import (
	"context"
	"encoding/json"
	"time"

	"bnfm/logger"
	"bnfm/queue"
)

// Worker consumes cache-population jobs off the queue. Job failures are
// logged and the worker moves on; nothing retries.
type Worker struct {
	jobs queue.Queue
	pop  *Populator
}

// NewWorker wires a worker to its queue and populator.
func NewWorker(jobs queue.Queue, pop *Populator) *Worker {
	return &Worker{jobs: jobs, pop: pop}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	logger.Info("album art worker started")
	for {
		if ctx.Err() != nil {
			return
		}

		job, err := w.jobs.Dequeue(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("dequeueing job", logger.ErrorField(err))
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		w.handle(ctx, job)
	}
}

func (w *Worker) handle(ctx context.Context, job *queue.Job) {
	switch job.Name {
	case CacheJobName:
		var cj CacheJob
		if err := json.Unmarshal(job.Payload, &cj); err != nil {
			logger.Error("unmarshalling cache job", logger.ErrorField(err), logger.String("jobId", job.ID))
			return
		}
		if err := w.pop.CacheAlbumArt(ctx, cj); err != nil {
			logger.Error("caching album art", logger.ErrorField(err), logger.String("jobId", job.ID))
		}
	default:
		logger.Warn("unknown job", logger.String("name", job.Name), logger.String("jobId", job.ID))
	}
}
