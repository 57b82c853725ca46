package ops

import (
	"context"
	"net/http"
	"testing"
)

func TestOrderTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []orderItemResource
		want  float64
	}{
		{"empty", nil, 0},
		{
			"sums price times quantity",
			[]orderItemResource{
				{MenuItemPrice: 4.50, Quantity: 2},
				{MenuItemPrice: 1.50, Quantity: 3},
			},
			13.50,
		},
		{
			"rounds to cents",
			[]orderItemResource{
				{MenuItemPrice: 0.1, Quantity: 3},
			},
			0.30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := orderTotal(tt.items); got != tt.want {
				t.Errorf("orderTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListByOrderDecodesEnvelope(t *testing.T) {
	var gotPath string

	backend, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"order_items":[{"id":1,"order_id":5,"menu_item_id":9,"menu_item_name":"Soup","menu_item_price":6.25,"quantity":2,"note":"no salt"}]}`))
	}))

	da := NewOrderItemDataAccess(backend)
	items, err := da.ListByOrder(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListByOrder: %v", err)
	}

	if gotPath != "/order_items/order/5" {
		t.Errorf("path = %q", gotPath)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].MenuItemName != "Soup" || items[0].Note != "no salt" {
		t.Errorf("item = %+v", items[0])
	}
	if got := orderTotal(items); got != 12.50 {
		t.Errorf("total = %v, want 12.50", got)
	}
}

func TestOrderItemDataAccessNilClient(t *testing.T) {
	da := NewOrderItemDataAccess(nil)

	if _, err := da.ListByOrder(context.Background(), 1); err == nil {
		t.Error("nil client ListByOrder should error")
	}
	if _, err := da.Create(context.Background(), 1, 2, 1, ""); err == nil {
		t.Error("nil client Create should error")
	}
}
