package ops

import (
	"context"
	"sort"
	"sync"

	"github.com/aquamarinepk/aqm"
)

// OrderBoard is the kitchen's in-memory view of active orders. It is warmed
// from the backend, refreshed when the pending watcher detects new orders,
// and patched locally after a successful status transition so only the
// targeted order changes between refreshes. Served orders never enter the
// board.
type OrderBoard struct {
	mu     sync.RWMutex
	orders map[int64]orderResource
	loaded bool
	logger aqm.Logger
}

func NewOrderBoard(logger aqm.Logger) *OrderBoard {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &OrderBoard{
		orders: make(map[int64]orderResource),
		logger: logger,
	}
}

// Reload replaces the board contents with the backend's current orders,
// dropping served ones.
func (b *OrderBoard) Reload(ctx context.Context, da *OrderDataAccess) error {
	page := 1
	fresh := make(map[int64]orderResource)
	for {
		result, err := da.ListOrders(ctx, "", page)
		if err != nil {
			return err
		}
		for _, order := range result.Orders {
			if order.Status == OrderStatusServed {
				continue
			}
			fresh[order.ID] = order
		}
		if page >= result.TotalPages || len(result.Orders) == 0 {
			break
		}
		page++
	}

	b.mu.Lock()
	b.orders = fresh
	b.loaded = true
	b.mu.Unlock()

	b.logger.Debug("order board reloaded", "orders", len(fresh))
	return nil
}

// Loaded reports whether the board has been warmed at least once.
func (b *OrderBoard) Loaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loaded
}

// ApplyStatus patches a single order's status in place. A transition to
// served removes the order from the board.
func (b *OrderBoard) ApplyStatus(id int64, status string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, ok := b.orders[id]
	if !ok {
		return
	}
	if status == OrderStatusServed {
		delete(b.orders, id)
		return
	}
	order.Status = status
	b.orders[id] = order
}

// Snapshot returns the board's orders, optionally restricted to one status,
// sorted oldest first.
func (b *OrderBoard) Snapshot(status string) []orderResource {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]orderResource, 0, len(b.orders))
	for _, order := range b.orders {
		if status != "" && order.Status != status {
			continue
		}
		out = append(out, order)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// PendingCount counts pending orders currently on the board.
func (b *OrderBoard) PendingCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, order := range b.orders {
		if order.Status == OrderStatusPending {
			count++
		}
	}
	return count
}
