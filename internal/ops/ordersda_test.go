package ops

import (
	"context"
	"net/http"
	"testing"
)

func TestOrderDataAccessNilClient(t *testing.T) {
	var da *OrderDataAccess

	if _, err := da.ListOrders(context.Background(), "", 1); err == nil {
		t.Error("nil receiver ListOrders should error")
	}

	da = NewOrderDataAccess(nil)
	if _, err := da.CreateOrder(context.Background(), CreateOrderRequest{}); err == nil {
		t.Error("nil client CreateOrder should error")
	}
	if _, err := da.UpdateOrderStatus(context.Background(), 1, OrderStatusReady); err == nil {
		t.Error("nil client UpdateOrderStatus should error")
	}
}

func TestListOrdersQueryParams(t *testing.T) {
	var gotPath, gotQuery string

	backend, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"orders":[{"id":7,"table_id":2,"waiter_id":3,"status":"pending"}],"total_items":11,"total_pages":2}`))
	}))

	da := NewOrderDataAccess(backend)
	page, err := da.ListOrders(context.Background(), "pending", 2)
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}

	if gotPath != "/orders" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "page=2&per_page=10&status=pending" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(page.Orders) != 1 || page.Orders[0].ID != 7 {
		t.Errorf("orders = %+v", page.Orders)
	}
	if page.TotalItems != 11 || page.TotalPages != 2 {
		t.Errorf("totals = %d/%d, want 11/2", page.TotalItems, page.TotalPages)
	}
}

func TestListUnpaidOrdersOmitsPagingWhenUnpaged(t *testing.T) {
	var gotQuery string

	backend, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"orders":[],"total_items":0,"total_pages":0}`))
	}))

	da := NewOrderDataAccess(backend)
	if _, err := da.ListUnpaidOrders(context.Background(), 0); err != nil {
		t.Fatalf("ListUnpaidOrders: %v", err)
	}

	if gotQuery != "" {
		t.Errorf("query = %q, want empty", gotQuery)
	}
}

func TestUpdateOrderStatusSendsPut(t *testing.T) {
	var gotMethod, gotPath string

	backend, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"message":"order updated"}`))
	}))

	da := NewOrderDataAccess(backend)
	msg, err := da.UpdateOrderStatus(context.Background(), 42, OrderStatusPreparing)
	if err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}

	if gotMethod != http.MethodPut || gotPath != "/orders/42" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if msg != "order updated" {
		t.Errorf("message = %q", msg)
	}
}
