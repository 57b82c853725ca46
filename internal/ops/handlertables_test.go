package ops

import (
	"errors"
	"testing"
)

func TestTableUpdatePayload(t *testing.T) {
	tests := []struct {
		name        string
		tableNumber int
		capacity    int
		status      string
		wantNumber  bool
	}{
		{"number included when set", 7, 4, TableStatusAvailable, true},
		{"zero number omitted", 0, 4, TableStatusOccupied, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := tableUpdatePayload(tt.tableNumber, tt.capacity, tt.status)

			if _, ok := payload["table_number"]; ok != tt.wantNumber {
				t.Errorf("table_number present = %v, want %v", ok, tt.wantNumber)
			}
			if payload["capacity"] != tt.capacity {
				t.Errorf("capacity = %v, want %v", payload["capacity"], tt.capacity)
			}
			if payload["status"] != tt.status {
				t.Errorf("status = %v, want %v", payload["status"], tt.status)
			}
		})
	}
}

func TestRefineTableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"404 means gone",
			&APIError{Status: 404, Message: "table not found"},
			"Table not found. It may have been deleted.",
		},
		{
			"400 with table_number substring",
			&APIError{Status: 400, Message: "table_number already in use"},
			"Table number is invalid or already in use.",
		},
		{
			"400 with capacity substring",
			&APIError{Status: 400, Message: "invalid capacity value"},
			"Capacity is invalid.",
		},
		{
			"400 with status substring",
			&APIError{Status: 400, Message: "unknown status"},
			"Table status is invalid.",
		},
		{
			"400 with unrecognized message passes through",
			&APIError{Status: 400, Message: "something else"},
			"something else",
		},
		{
			"transport error falls back",
			errors.New("connection refused"),
			"fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := refineTableError(tt.err, "fallback"); got != tt.want {
				t.Errorf("refineTableError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRefineTableDeleteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"400 means active orders",
			&APIError{Status: 400, Message: "table has active orders"},
			"Cannot delete this table while it has active orders.",
		},
		{
			"404 means gone",
			&APIError{Status: 404},
			"Table not found. It may have been deleted.",
		},
		{
			"other errors use fallback",
			&APIError{Status: 500},
			"Could not delete the table right now.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := refineTableDeleteError(tt.err); got != tt.want {
				t.Errorf("refineTableDeleteError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	if _, err := parseID("abc"); err == nil {
		t.Error("non-numeric id should error")
	}
	if _, err := parseID("0"); err == nil {
		t.Error("zero id should error")
	}
	if id, err := parseID("42"); err != nil || id != 42 {
		t.Errorf("parseID(42) = %d, %v", id, err)
	}
}
