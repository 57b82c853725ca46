package ops

import "testing"

func TestCartAddQuantityBounds(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		wantErr  bool
	}{
		{"minimum", 1, false},
		{"maximum", 99, false},
		{"zero rejected", 0, true},
		{"negative rejected", -1, true},
		{"above max rejected", 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carts := NewCartStore()
			err := carts.Add("s1", CartLine{MenuItemID: 1, Price: 2, Quantity: tt.quantity})
			if (err != nil) != tt.wantErr {
				t.Errorf("Add(qty=%d) error = %v, wantErr %v", tt.quantity, err, tt.wantErr)
			}
		})
	}
}

func TestCartTotal(t *testing.T) {
	carts := NewCartStore()
	carts.Add("s1", CartLine{MenuItemID: 1, Price: 4.50, Quantity: 2})
	carts.Add("s1", CartLine{MenuItemID: 2, Price: 1.50, Quantity: 3})

	if got := carts.Total("s1"); got != 13.50 {
		t.Errorf("Total = %v, want 13.50", got)
	}
	if got := carts.Total("other"); got != 0 {
		t.Errorf("other session Total = %v, want 0", got)
	}
}

func TestCartRemove(t *testing.T) {
	carts := NewCartStore()
	carts.Add("s1", CartLine{MenuItemID: 1, Price: 1, Quantity: 1})
	carts.Add("s1", CartLine{MenuItemID: 2, Price: 2, Quantity: 1})

	carts.Remove("s1", 0)

	lines := carts.Lines("s1")
	if len(lines) != 1 || lines[0].MenuItemID != 2 {
		t.Errorf("lines = %+v", lines)
	}

	// Out-of-range indexes are ignored.
	carts.Remove("s1", 5)
	carts.Remove("s1", -1)
	if len(carts.Lines("s1")) != 1 {
		t.Error("out-of-range remove changed the cart")
	}
}

func TestCartItemsPayload(t *testing.T) {
	carts := NewCartStore()
	carts.Add("s1", CartLine{MenuItemID: 9, Price: 3, Quantity: 2, Note: "rare"})

	items := carts.Items("s1")
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].MenuItemID != 9 || items[0].Quantity != 2 || items[0].Note != "rare" {
		t.Errorf("item = %+v", items[0])
	}

	if items := carts.Items("empty"); len(items) != 0 {
		t.Errorf("empty session items = %d, want 0", len(items))
	}
}

func TestCartClear(t *testing.T) {
	carts := NewCartStore()
	carts.Add("s1", CartLine{MenuItemID: 1, Price: 1, Quantity: 1})

	carts.Clear("s1")

	if len(carts.Lines("s1")) != 0 {
		t.Error("cart not cleared")
	}
}
