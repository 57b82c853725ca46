package ops

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
)

const (
	defaultKitchenPoll = 10 * time.Second
	defaultWaiterPoll  = 3 * time.Second
)

// WatchHub owns the background pollers: one kitchen watcher for newly
// pending orders and one watcher per signed-in waiter for newly ready
// orders. It plugs into the service lifecycle so everything stops with the
// process.
type WatchHub struct {
	handler *Handler
	logger  aqm.Logger

	kitchenPoll time.Duration
	waiterPoll  time.Duration

	kitchen *Watcher

	mu           sync.Mutex
	waiters      map[int64]*Watcher
	waiterCounts map[int64]int
	pendingCount int
	rootCtx      context.Context
	started      bool
}

func NewWatchHub(handler *Handler, config *aqm.Config, logger aqm.Logger) *WatchHub {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	hub := &WatchHub{
		handler:      handler,
		logger:       logger,
		kitchenPoll:  pollInterval(config, "poll.kitchen", defaultKitchenPoll),
		waiterPoll:   pollInterval(config, "poll.waiter", defaultWaiterPoll),
		waiters:      make(map[int64]*Watcher),
		waiterCounts: make(map[int64]int),
	}
	hub.kitchen = NewWatcher("kitchen-pending", hub.kitchenPoll, logger, hub.kitchenTick)

	if handler != nil {
		handler.SetWatchHub(hub)
	}

	return hub
}

func pollInterval(config *aqm.Config, key string, fallback time.Duration) time.Duration {
	if config == nil {
		return fallback
	}
	raw, ok := config.GetString(key)
	if !ok || raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Start arms the kitchen watcher. Waiter watchers are armed on demand when
// a waiter opens their view.
func (h *WatchHub) Start(ctx context.Context) error {
	h.mu.Lock()
	h.rootCtx = ctx
	h.started = true
	h.mu.Unlock()

	return h.kitchen.Start(ctx)
}

// Stop tears down the kitchen watcher and every waiter watcher.
func (h *WatchHub) Stop(ctx context.Context) error {
	if err := h.kitchen.Stop(ctx); err != nil {
		return err
	}

	h.mu.Lock()
	watchers := make([]*Watcher, 0, len(h.waiters))
	for _, w := range h.waiters {
		watchers = append(watchers, w)
	}
	h.waiters = make(map[int64]*Watcher)
	h.started = false
	h.mu.Unlock()

	for _, w := range watchers {
		if err := w.Stop(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ArmWaiterWatch starts (or restarts) the ready-order poller for one
// waiter. Re-arming always replaces the previous run.
func (h *WatchHub) ArmWaiterWatch(waiterID int64) error {
	h.mu.Lock()
	if !h.started {
		h.mu.Unlock()
		return fmt.Errorf("watch hub not started")
	}
	ctx := h.rootCtx
	w, ok := h.waiters[waiterID]
	if !ok {
		name := fmt.Sprintf("waiter-ready-%d", waiterID)
		w = NewWatcher(name, h.waiterPoll, h.logger, func(ctx context.Context) {
			h.waiterTick(ctx, waiterID)
		})
		h.waiters[waiterID] = w
	}
	h.mu.Unlock()

	return w.Start(ctx)
}

// DisarmWaiterWatch stops the poller for a waiter, typically on sign-out.
func (h *WatchHub) DisarmWaiterWatch(waiterID int64) {
	h.mu.Lock()
	w, ok := h.waiters[waiterID]
	if ok {
		delete(h.waiters, waiterID)
		delete(h.waiterCounts, waiterID)
	}
	h.mu.Unlock()

	if ok {
		_ = w.Stop(context.Background())
	}
}

// kitchenTick checks the backend's pending-order count. On an increase it
// posts a transient kitchen notice and refreshes the order board. Poll
// failures are logged and never surfaced.
func (h *WatchHub) kitchenTick(ctx context.Context) {
	page, err := h.handler.orders.ListOrders(ctx, OrderStatusPending, 1)
	if err != nil {
		h.logger.Debug("kitchen poll failed", "error", err)
		return
	}

	h.mu.Lock()
	previous := h.pendingCount
	h.pendingCount = page.TotalItems
	h.mu.Unlock()

	if page.TotalItems > previous {
		h.handler.notices.Post(noticeScopeKitchen, "New orders are waiting in the kitchen")
		if err := h.handler.board.Reload(ctx, h.handler.orders); err != nil {
			h.logger.Debug("kitchen board refresh failed", "error", err)
		}
	}
}

// waiterTick checks one waiter's ready-order count and posts a notice when
// it grows.
func (h *WatchHub) waiterTick(ctx context.Context, waiterID int64) {
	orders, err := h.handler.orders.ListWaiterOrders(ctx, waiterID, OrderStatusReady)
	if err != nil {
		h.logger.Debug("waiter poll failed", "waiter_id", waiterID, "error", err)
		return
	}

	h.mu.Lock()
	previous := h.waiterCounts[waiterID]
	h.waiterCounts[waiterID] = len(orders)
	h.mu.Unlock()

	if len(orders) > previous {
		h.handler.notices.Post(waiterNoticeScope(waiterID), "An order is ready for pickup")
	}
}

const noticeScopeKitchen = "kitchen"

func waiterNoticeScope(waiterID int64) string {
	return fmt.Sprintf("waiter:%d", waiterID)
}
