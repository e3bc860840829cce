package snapshot

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerCoalescesBursts(t *testing.T) {
	var writes atomic.Int64
	sched := NewScheduler(func(ctx context.Context) error {
		writes.Add(1)
		return nil
	}, 50*time.Millisecond, nil)
	defer sched.Close()

	for i := 0; i < 10; i++ {
		sched.Request()
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for writes.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	// Give a second write a chance to (incorrectly) fire.
	time.Sleep(100 * time.Millisecond)

	if got := writes.Load(); got != 1 {
		t.Fatalf("expected 10 requests to coalesce into 1 write, got %d", got)
	}
}

func TestSchedulerFlushIsDeterministic(t *testing.T) {
	var writes atomic.Int64
	sched := NewScheduler(func(ctx context.Context) error {
		writes.Add(1)
		return nil
	}, time.Hour, nil)
	defer sched.Close()

	sched.Request()
	if err := sched.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if got := writes.Load(); got != 1 {
		t.Fatalf("expected exactly 1 write after Flush, got %d", got)
	}

	// The pending timer must have been cancelled by Flush.
	time.Sleep(50 * time.Millisecond)
	if got := writes.Load(); got != 1 {
		t.Fatalf("pending timer fired after Flush, writes %d", got)
	}
}

func TestSchedulerFlushDuringCloseNeverOverlapsWrites(t *testing.T) {
	var inFlight atomic.Int64
	var writes atomic.Int64
	sched := NewScheduler(func(ctx context.Context) error {
		if inFlight.Add(1) != 1 {
			t.Error("concurrent snapshot writes")
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		writes.Add(1)
		return nil
	}, time.Hour, nil)

	sched.Request()
	go sched.Close()
	// Let Close signal shutdown so Flush takes the post-close path,
	// which must wait out the writer's final pending flush.
	time.Sleep(5 * time.Millisecond)
	if err := sched.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	sched.Close()

	if writes.Load() == 0 {
		t.Fatal("expected at least one write")
	}
}

func TestSchedulerCloseFlushesPendingRequest(t *testing.T) {
	var writes atomic.Int64
	sched := NewScheduler(func(ctx context.Context) error {
		writes.Add(1)
		return nil
	}, time.Hour, nil)

	sched.Request()
	sched.Close()

	if got := writes.Load(); got != 1 {
		t.Fatalf("expected Close to flush the pending request, got %d writes", got)
	}
}
