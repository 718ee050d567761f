package service

import (
	"context"
	"time"

	"bnfm/logger"
)

// Poller triggers poll cycles on a fixed interval. Cycles run strictly
// sequentially on one goroutine; ticks that arrive while a cycle is still
// running are dropped, so at most one cycle is in flight per process.
type Poller struct {
	svc      *TrackService
	interval time.Duration
}

// NewPoller creates a poller around the service.
func NewPoller(svc *TrackService, interval time.Duration) *Poller {
	return &Poller{svc: svc, interval: interval}
}

// Run blocks until ctx is cancelled. A failed cycle is logged and the
// poller simply waits for the next tick; there are no retries.
func (p *Poller) Run(ctx context.Context) {
	logger.Info("poller started", logger.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.svc.Poll(ctx); err != nil {
				logger.Error("poll cycle failed", logger.ErrorField(err))
			}
		}
	}
}
