package client

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
)

// StatusCompleted is the terminal status value a watch settles on
const StatusCompleted = "completed"

// SettleOutcome is the single terminal result a watch reports
type SettleOutcome string

const (
	// SettleCompleted means the status source reported completed
	SettleCompleted SettleOutcome = "completed"
	// SettleTimeout means the attempt cap or absolute deadline elapsed
	// before completion was observed
	SettleTimeout SettleOutcome = "timeout"
)

// StatusSource reads the current generation status for an enrollment. Read
// errors are treated as "not yet" and polling continues.
type StatusSource interface {
	Status(ctx context.Context, courseID, employeeID string) (string, error)
}

// CancelHandle stops a watch. Cancel is safe to call any number of times
// and after the watch has settled; a cancelled watch never settles.
type CancelHandle interface {
	Cancel()
}

type cancelHandle struct {
	cancel context.CancelFunc
}

func (h *cancelHandle) Cancel() { h.cancel() }

// Poller watches enrollment status until completion or timeout. One watch
// is one goroutine on a single ticker; the absolute deadline rides the
// goroutine's context so the attempt cap and the wall clock both funnel
// into the same settle-once path. The timeout settle is deliberate
// liveness-over-correctness: the caller must not wait forever on a status
// row that never flips.
type Poller struct {
	source      StatusSource
	interval    time.Duration
	maxAttempts int
	deadline    time.Duration
	logger      arbor.ILogger
}

func NewPoller(source StatusSource, interval time.Duration, maxAttempts int, deadline time.Duration, logger arbor.ILogger) *Poller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 60
	}
	if deadline <= 0 {
		deadline = 3 * time.Minute
	}
	return &Poller{
		source:      source,
		interval:    interval,
		maxAttempts: maxAttempts,
		deadline:    deadline,
		logger:      logger,
	}
}

// Watch polls the status source for a course/employee pair until it reports
// completed, the attempt cap is reached, or the absolute deadline elapses.
// onSettled fires exactly once; cancelling the returned handle stops the
// watch without settling. Cancelling the watch does not cancel any in-flight
// generation run on the server.
func (p *Poller) Watch(ctx context.Context, courseID, employeeID string, onSettled func(SettleOutcome)) CancelHandle {
	watchCtx, cancel := context.WithTimeout(ctx, p.deadline)

	var once sync.Once
	settle := func(outcome SettleOutcome) {
		once.Do(func() {
			p.logger.Debug().
				Str("course_id", courseID).
				Str("employee_id", employeeID).
				Str("outcome", string(outcome)).
				Msg("Status watch settled")
			onSettled(outcome)
		})
	}

	go func() {
		defer cancel()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for attempt := 1; attempt <= p.maxAttempts; attempt++ {
			select {
			case <-watchCtx.Done():
				// Deadline expiry settles timeout; caller cancellation does
				// not settle at all.
				if watchCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
					settle(SettleTimeout)
				}
				return
			case <-ticker.C:
			}

			status, err := p.source.Status(watchCtx, courseID, employeeID)
			if err != nil {
				p.logger.Debug().
					Err(err).
					Str("course_id", courseID).
					Str("employee_id", employeeID).
					Int("attempt", attempt).
					Msg("Status read failed, continuing")
				continue
			}

			if status == StatusCompleted {
				settle(SettleCompleted)
				return
			}
		}

		settle(SettleTimeout)
	}()

	return &cancelHandle{cancel: cancel}
}
