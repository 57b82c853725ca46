package ops

import (
	"context"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
)

// Watcher runs one function on a fixed interval until cancelled. Each view
// owns at most one watcher; arming it again always cancels the previous
// run first, and Stop is safe to call any number of times.
type Watcher struct {
	name     string
	interval time.Duration
	tick     func(ctx context.Context)
	logger   aqm.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewWatcher(name string, interval time.Duration, logger aqm.Logger, tick func(ctx context.Context)) *Watcher {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Watcher{
		name:     name,
		interval: interval,
		tick:     tick,
		logger:   logger,
	}
}

// Start arms the watcher, replacing any previous run.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	w.cancel = cancel
	w.done = done

	go w.run(runCtx, done)

	w.logger.Debug("watcher started", "name", w.name, "interval", w.interval.String())
	return nil
}

func (w *Watcher) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// Stop cancels the current run and waits for it to exit. Idempotent.
func (w *Watcher) Stop(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()
	return nil
}

func (w *Watcher) stopLocked() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.cancel = nil
	w.done = nil
}

// Running reports whether the watcher currently has an armed run.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancel != nil
}
