package snapshot

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler coalesces bursts of flush requests into a single durable
// write. A background goroutine owns the debounce timer: each Request
// resets it, and only once the quiet window elapses does the flush run.
// Writes are fire-and-forget relative to the mutation path; a failed
// write is logged and the next request retries.
type Scheduler struct {
	flush  func(ctx context.Context) error
	window time.Duration
	logger *slog.Logger

	requests chan struct{}
	syncReq  chan chan error
	done     chan struct{}
	wg       sync.WaitGroup
	closeOne sync.Once
}

// NewScheduler wraps flush with a debounce window and starts the
// background writer.
func NewScheduler(flush func(ctx context.Context) error, window time.Duration, logger *slog.Logger) *Scheduler {
	if window <= 0 {
		window = 200 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		flush:    flush,
		window:   window,
		logger:   logger.With("component", "persist"),
		requests: make(chan struct{}, 1),
		syncReq:  make(chan chan error),
		done:     make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Request schedules a flush after the debounce window, resetting the
// window if one is already pending. Never blocks.
func (s *Scheduler) Request() {
	select {
	case s.requests <- struct{}{}:
	case <-s.done:
	default:
	}
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	stopTimer := func() {
		if timer == nil {
			return
		}
		if !timer.Stop() {
			select {
			case <-timerC:
			default:
			}
		}
		timer = nil
		timerC = nil
	}

	for {
		select {
		case <-s.requests:
			if timer == nil {
				timer = time.NewTimer(s.window)
				timerC = timer.C
			} else {
				stopTimer()
				timer = time.NewTimer(s.window)
				timerC = timer.C
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if err := s.flush(context.Background()); err != nil {
				s.logger.Error("debounced snapshot write failed", "error", err)
			}

		case resp := <-s.syncReq:
			stopTimer()
			resp <- s.flush(context.Background())

		case <-s.done:
			// Honor any request still pending so shutdown never drops
			// the last batch.
			pending := timer != nil
			stopTimer()
			select {
			case <-s.requests:
				pending = true
			default:
			}
			if pending {
				if err := s.flush(context.Background()); err != nil {
					s.logger.Error("final snapshot write failed", "error", err)
				}
			}
			return
		}
	}
}

// Flush cancels any pending timer and writes synchronously. Used by
// graceful shutdown and tests that need a deterministic write.
func (s *Scheduler) Flush(ctx context.Context) error {
	resp := make(chan error, 1)
	select {
	case s.syncReq <- resp:
		select {
		case err := <-resp:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	case <-s.done:
		// The writer may still be draining its final pending request;
		// wait for it so two snapshot writes never interleave.
		s.wg.Wait()
		return s.flush(ctx)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the background writer, flushing any still-pending
// request first.
func (s *Scheduler) Close() {
	s.closeOne.Do(func() { close(s.done) })
	s.wg.Wait()
}
