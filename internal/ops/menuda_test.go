package ops

import (
	"context"
	"io"
	"net/http"
	"testing"
)

func TestMenuMatch(t *testing.T) {
	tests := []struct {
		name  string
		item  string
		query string
		want  bool
	}{
		{"empty query matches all", "Margherita", "", true},
		{"case-insensitive substring", "Margherita", "marg", true},
		{"substring in the middle", "Spicy Tuna Roll", "tuna", true},
		{"no match", "Margherita", "pepperoni", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := menuMatch(tt.item, tt.query); got != tt.want {
				t.Errorf("menuMatch(%q, %q) = %v, want %v", tt.item, tt.query, got, tt.want)
			}
		})
	}
}

func TestSetAvailabilitySendsFlag(t *testing.T) {
	var gotMethod, gotPath, gotBody string

	backend, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Write([]byte(`{"message":"updated"}`))
	}))

	da := NewMenuDataAccess(backend)
	if _, err := da.SetAvailability(context.Background(), 12, false); err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}

	if gotMethod != http.MethodPut || gotPath != "/menu_items/12/availability" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if gotBody != `{"available":0}` {
		t.Errorf("body = %s", gotBody)
	}
}

func TestMenuItemFormFields(t *testing.T) {
	form := MenuItemForm{
		Name:        "Espresso",
		CategoryID:  3,
		Price:       3.5,
		Description: "Short black",
		Available:   true,
	}

	fields := form.fields()
	if fields["available"] != "1" {
		t.Errorf("available = %q, want 1", fields["available"])
	}
	if fields["price"] != "3.50" {
		t.Errorf("price = %q, want 3.50", fields["price"])
	}
	if _, ok := fields["image_url"]; ok {
		t.Error("empty image_url should be omitted")
	}

	form.Available = false
	form.ImageURL = "http://img/espresso.jpg"
	fields = form.fields()
	if fields["available"] != "0" {
		t.Errorf("available = %q, want 0", fields["available"])
	}
	if fields["image_url"] != "http://img/espresso.jpg" {
		t.Errorf("image_url = %q", fields["image_url"])
	}
}
