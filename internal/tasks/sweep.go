// Package tasks runs background hygiene jobs over asynq.  The only job
// today is the hold sweep, which prunes terminal and long-expired hold
// rows.  Correctness never depends on it: every overlap predicate
// already filters on state and expiry, the sweep just keeps the holds
// table from growing without bound.
package tasks

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/partyloft/booking/internal/repository"
)

// TypeHoldSweep identifies the periodic hold sweep task.
const TypeHoldSweep = "holds:sweep"

// SweepHandler deletes stale hold rows.
type SweepHandler struct {
	Holds     *repository.HoldRepo
	Retention time.Duration // how long stale rows are kept for audit
}

// ProcessTask implements asynq.Handler.
func (h *SweepHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	n, err := h.Holds.DeleteStale(ctx, h.Retention)
	if err != nil {
		log.Printf("hold-sweep: delete stale holds failed: %v", err)
		return err
	}
	if n > 0 {
		log.Printf("hold-sweep: deleted %d stale holds", n)
	}
	return nil
}

// Run starts an asynq worker plus a scheduler that enqueues the sweep
// hourly.  It blocks until either component stops, so callers run it
// in a goroutine alongside the HTTP server.
func Run(redisAddr, redisPass string, holds *repository.HoldRepo, retention time.Duration) error {
	opt := asynq.RedisClientOpt{Addr: redisAddr, Password: redisPass}

	mux := asynq.NewServeMux()
	mux.Handle(TypeHoldSweep, &SweepHandler{Holds: holds, Retention: retention})

	srv := asynq.NewServer(opt, asynq.Config{Concurrency: 1})

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register("@every 1h", asynq.NewTask(TypeHoldSweep, nil)); err != nil {
		return err
	}

	errc := make(chan error, 2)
	go func() { errc <- srv.Run(mux) }()
	go func() { errc <- scheduler.Run() }()
	return <-errc
}
