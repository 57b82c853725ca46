package ops

import (
	"context"
	"net/http"
	"testing"
)

func TestSeatFreeIsIdempotent(t *testing.T) {
	var calls int

	backend, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost || r.URL.Path != "/seats/3/free" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		// The backend reports success whether or not the seat was
		// occupied.
		w.Write([]byte(`{"message":"seat freed"}`))
	}))

	da := NewSeatDataAccess(backend)

	for i := 0; i < 2; i++ {
		if _, err := da.Free(context.Background(), 3); err != nil {
			t.Fatalf("Free #%d: %v", i+1, err)
		}
	}

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestAssignOrderSendsOrderID(t *testing.T) {
	var gotBody string

	backend, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Write([]byte(`{"message":"assigned"}`))
	}))

	da := NewSeatDataAccess(backend)
	if _, err := da.AssignOrder(context.Background(), 4, 17); err != nil {
		t.Fatalf("AssignOrder: %v", err)
	}

	if gotBody != `{"order_id":17}` {
		t.Errorf("body = %s", gotBody)
	}
}

func TestSeatDataAccessNilClient(t *testing.T) {
	da := NewSeatDataAccess(nil)

	if _, err := da.Free(context.Background(), 1); err == nil {
		t.Error("nil client Free should error")
	}
	if _, err := da.AssignOrder(context.Background(), 1, 2); err == nil {
		t.Error("nil client AssignOrder should error")
	}
}
