package ops

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestWaiterSubmitOrderEmptyCart(t *testing.T) {
	var backendHits int

	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendHits++
		w.Write([]byte(`{"message":"ok"}`))
	}))

	form := url.Values{"table_id": {"3"}}
	req := httptest.NewRequest(http.MethodPost, "/waiter/orders", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = requestWithSession(req, &Session{ID: "s1", Role: RoleWaiter, WaiterID: 4})

	rec := httptest.NewRecorder()
	h.WaiterSubmitOrder(rec, req)

	if backendHits != 0 {
		t.Errorf("backend received %d requests, want none", backendHits)
	}
	if loc := rec.Header().Get("Location"); loc != "/waiter?empty=1" {
		t.Errorf("redirect = %q, want /waiter?empty=1", loc)
	}
}

func TestWaiterSubmitOrderSendsCartAndClears(t *testing.T) {
	var gotPath, gotBody string

	h := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Write([]byte(`{"message":"order created"}`))
	}))

	if err := h.carts.Add("s1", CartLine{MenuItemID: 9, Name: "Espresso", Price: 3.5, Quantity: 2}); err != nil {
		t.Fatalf("cart add: %v", err)
	}

	form := url.Values{"table_id": {"3"}}
	req := httptest.NewRequest(http.MethodPost, "/waiter/orders", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = requestWithSession(req, &Session{ID: "s1", Role: RoleWaiter, WaiterID: 4})

	rec := httptest.NewRecorder()
	h.WaiterSubmitOrder(rec, req)

	if gotPath != "/orders" {
		t.Errorf("path = %q, want /orders", gotPath)
	}
	want := `{"table_id":3,"waiter_id":4,"order_items":[{"menu_item_id":9,"quantity":2}]}`
	if gotBody != want {
		t.Errorf("body = %s, want %s", gotBody, want)
	}
	if loc := rec.Header().Get("Location"); loc != "/waiter?submitted=1" {
		t.Errorf("redirect = %q, want /waiter?submitted=1", loc)
	}
	if lines := h.carts.Lines("s1"); len(lines) != 0 {
		t.Errorf("cart still has %d lines after submit", len(lines))
	}
}
