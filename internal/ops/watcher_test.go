package ops

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherTicks(t *testing.T) {
	var ticks atomic.Int32

	w := NewWatcher("test", 10*time.Millisecond, nil, func(ctx context.Context) {
		ticks.Add(1)
	})

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop(context.Background())

	deadline := time.After(time.Second)
	for ticks.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("watcher never ticked twice")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestWatcherRestartReplacesPreviousRun(t *testing.T) {
	var ticks atomic.Int32

	w := NewWatcher("test", 10*time.Millisecond, nil, func(ctx context.Context) {
		ticks.Add(1)
	})

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	defer w.Stop(context.Background())

	if !w.Running() {
		t.Fatal("watcher should be running after restart")
	}

	// Only one run survives; the tick rate must stay near one per
	// interval, not double.
	ticks.Store(0)
	time.Sleep(105 * time.Millisecond)
	if got := ticks.Load(); got > 15 {
		t.Errorf("ticks = %d, suggests both runs alive", got)
	}
}

func TestWatcherStopIdempotent(t *testing.T) {
	w := NewWatcher("test", 10*time.Millisecond, nil, func(ctx context.Context) {})

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := w.Stop(context.Background()); err != nil {
			t.Fatalf("Stop #%d: %v", i+1, err)
		}
	}

	if w.Running() {
		t.Error("watcher still running after Stop")
	}
}

func TestWatcherStopWithoutStart(t *testing.T) {
	w := NewWatcher("test", time.Second, nil, func(ctx context.Context) {})

	if err := w.Stop(context.Background()); err != nil {
		t.Fatalf("Stop before Start: %v", err)
	}
}

func TestNoticeBoardExpiry(t *testing.T) {
	board := NewNoticeBoard()

	now := time.Now()
	board.now = func() time.Time { return now }

	board.Post("kitchen", "new orders")

	if got := len(board.Active("kitchen")); got != 1 {
		t.Fatalf("active = %d, want 1", got)
	}

	// Advance past the 5s TTL.
	board.now = func() time.Time { return now.Add(6 * time.Second) }

	if got := len(board.Active("kitchen")); got != 0 {
		t.Errorf("active = %d, want 0 after expiry", got)
	}
}

func TestNoticeBoardScopesAreIndependent(t *testing.T) {
	board := NewNoticeBoard()
	board.Post("waiter:1", "ready")

	if got := len(board.Active("waiter:2")); got != 0 {
		t.Errorf("other scope active = %d, want 0", got)
	}
	if got := len(board.Active("waiter:1")); got != 1 {
		t.Errorf("own scope active = %d, want 1", got)
	}
}
