package ops

import (
	"context"
	"io"
	"net/http"
	"testing"
)

func TestRolePasswordsForRole(t *testing.T) {
	passwords := RolePasswords{Admin: "a1", Waiter: "w1"}

	tests := []struct {
		role    string
		want    string
		wantSet bool
	}{
		{RoleAdmin, "a1", true},
		{RoleWaiter, "w1", true},
		{RoleChef, "", false},
		{"manager", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			got, set := passwords.ForRole(tt.role)
			if got != tt.want || set != tt.wantSet {
				t.Errorf("ForRole(%q) = %q, %v; want %q, %v", tt.role, got, set, tt.want, tt.wantSet)
			}
		})
	}
}

func TestDeletePasswordSendsRoleBody(t *testing.T) {
	var gotMethod, gotBody string

	backend, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Write([]byte(`{"message":"password removed"}`))
	}))

	da := NewSettingsDataAccess(backend)
	if _, err := da.DeletePassword(context.Background(), RoleChef); err != nil {
		t.Fatalf("DeletePassword: %v", err)
	}

	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", gotMethod)
	}
	if gotBody != `{"role":"chef"}` {
		t.Errorf("body = %s", gotBody)
	}
}

func TestPasswordsDecodes(t *testing.T) {
	backend, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"admin":"secret","chef":"","cashier":"till","waiter":""}`))
	}))

	da := NewSettingsDataAccess(backend)
	passwords, err := da.Passwords(context.Background())
	if err != nil {
		t.Fatalf("Passwords: %v", err)
	}

	if _, set := passwords.ForRole(RoleAdmin); !set {
		t.Error("admin password should be set")
	}
	if _, set := passwords.ForRole(RoleChef); set {
		t.Error("empty chef password should read as unset")
	}
}
