package ops

import (
	"net/url"
	"testing"
)

func TestParseListState(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantMode   FilterMode
		wantStatus string
		wantPage   int
	}{
		{"empty query is all mode", "", FilterAll, "", 1},
		{"status filter", "status=pending", FilterStatus, "pending", 1},
		{"empty status resets to all", "status=", FilterAll, "", 1},
		{"unpaid filter", "filter=unpaid", FilterUnpaid, "", 1},
		{"unpaid wins over status", "filter=unpaid&status=ready", FilterUnpaid, "", 1},
		{"page carries", "status=ready&page=3", FilterStatus, "ready", 3},
		{"bad page defaults", "page=zero", FilterAll, "", 1},
		{"negative page defaults", "page=-2", FilterAll, "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			state := parseListState(q)
			if state.Mode != tt.wantMode {
				t.Errorf("mode = %q, want %q", state.Mode, tt.wantMode)
			}
			if state.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", state.Status, tt.wantStatus)
			}
			if state.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", state.Page, tt.wantPage)
			}
		})
	}
}

func TestListStatePagingStaysInMode(t *testing.T) {
	tests := []struct {
		name  string
		state ListState
	}{
		{"all mode", ListState{Mode: FilterAll, Page: 2, TotalPages: 5}},
		{"status mode", ListState{Mode: FilterStatus, Status: "pending", Page: 2, TotalPages: 5}},
		{"unpaid mode", ListState{Mode: FilterUnpaid, Page: 2, TotalPages: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := tt.state.WithPage(tt.state.Page + 1)
			prev := tt.state.WithPage(tt.state.Page - 1)

			if next.Mode != tt.state.Mode || prev.Mode != tt.state.Mode {
				t.Errorf("paging changed mode: next=%q prev=%q", next.Mode, prev.Mode)
			}
			if next.Status != tt.state.Status || prev.Status != tt.state.Status {
				t.Errorf("paging changed status")
			}

			// The encoded query must round-trip back into the same mode.
			for _, s := range []ListState{next, prev} {
				again := parseListState(s.Query())
				if again.Mode != tt.state.Mode {
					t.Errorf("round-trip mode = %q, want %q", again.Mode, tt.state.Mode)
				}
			}
		})
	}
}

func TestListStateWithPageClamps(t *testing.T) {
	state := ListState{Mode: FilterAll, Page: 1, TotalPages: 3}

	if got := state.WithPage(0).Page; got != 1 {
		t.Errorf("below range: page = %d, want 1", got)
	}
	if got := state.WithPage(7).Page; got != 3 {
		t.Errorf("above range: page = %d, want 3", got)
	}
}

func TestListStateHasPrevNext(t *testing.T) {
	state := ListState{Mode: FilterAll, Page: 1, TotalPages: 2}
	if state.HasPrev() {
		t.Error("first page should have no prev")
	}
	if !state.HasNext() {
		t.Error("first of two pages should have next")
	}

	state.Page = 2
	if !state.HasPrev() {
		t.Error("second page should have prev")
	}
	if state.HasNext() {
		t.Error("last page should have no next")
	}
}

func TestListStateURL(t *testing.T) {
	tests := []struct {
		name  string
		state ListState
		want  string
	}{
		{"all mode first page is bare", ListState{Mode: FilterAll, Page: 1}, "/orders"},
		{"status mode", ListState{Mode: FilterStatus, Status: "ready", Page: 1}, "/orders?status=ready"},
		{"unpaid with page", ListState{Mode: FilterUnpaid, Page: 2, TotalPages: 4}, "/orders?filter=unpaid&page=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.URL("/orders"); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}
