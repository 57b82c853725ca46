package ops

import (
	"context"
	"net/http"
	"testing"
)

func newLoadedBoard(t *testing.T, payload string) *OrderBoard {
	t.Helper()

	backend, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))

	board := NewOrderBoard(nil)
	if err := board.Reload(context.Background(), NewOrderDataAccess(backend)); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	return board
}

func TestOrderBoardExcludesServed(t *testing.T) {
	board := newLoadedBoard(t, `{"orders":[
		{"id":1,"status":"pending"},
		{"id":2,"status":"served"},
		{"id":3,"status":"ready"}
	],"total_items":3,"total_pages":1}`)

	orders := board.Snapshot("")
	if len(orders) != 2 {
		t.Fatalf("orders = %d, want 2 (served excluded)", len(orders))
	}
	for _, order := range orders {
		if order.Status == OrderStatusServed {
			t.Error("served order on the board")
		}
	}
}

func TestOrderBoardApplyStatusPatchesOnlyTarget(t *testing.T) {
	board := newLoadedBoard(t, `{"orders":[
		{"id":1,"status":"pending"},
		{"id":2,"status":"pending"}
	],"total_items":2,"total_pages":1}`)

	board.ApplyStatus(1, OrderStatusPreparing)

	byID := map[int64]string{}
	for _, order := range board.Snapshot("") {
		byID[order.ID] = order.Status
	}

	if byID[1] != OrderStatusPreparing {
		t.Errorf("order 1 = %q, want preparing", byID[1])
	}
	if byID[2] != OrderStatusPending {
		t.Errorf("order 2 = %q, want pending (untouched)", byID[2])
	}
}

func TestOrderBoardApplyServedRemoves(t *testing.T) {
	board := newLoadedBoard(t, `{"orders":[{"id":1,"status":"ready"}],"total_items":1,"total_pages":1}`)

	board.ApplyStatus(1, OrderStatusServed)

	if got := len(board.Snapshot("")); got != 0 {
		t.Errorf("orders = %d, want 0 after serving", got)
	}
}

func TestOrderBoardApplyStatusUnknownOrderIsNoop(t *testing.T) {
	board := newLoadedBoard(t, `{"orders":[{"id":1,"status":"pending"}],"total_items":1,"total_pages":1}`)

	board.ApplyStatus(99, OrderStatusReady)

	orders := board.Snapshot("")
	if len(orders) != 1 || orders[0].Status != OrderStatusPending {
		t.Errorf("board changed by unknown id: %+v", orders)
	}
}

func TestOrderBoardSnapshotFilter(t *testing.T) {
	board := newLoadedBoard(t, `{"orders":[
		{"id":1,"status":"pending"},
		{"id":2,"status":"ready"},
		{"id":3,"status":"pending"}
	],"total_items":3,"total_pages":1}`)

	pending := board.Snapshot(OrderStatusPending)
	if len(pending) != 2 {
		t.Errorf("pending = %d, want 2", len(pending))
	}
	if board.PendingCount() != 2 {
		t.Errorf("PendingCount = %d, want 2", board.PendingCount())
	}
}
