package ops

import "testing"

func TestValidSeatStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{SeatStatusAvailable, true},
		{SeatStatusOccupied, true},
		{"reserved", false},
		{"", false},
		{"AVAILABLE", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := validSeatStatus(tt.status); got != tt.want {
				t.Errorf("validSeatStatus(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestValidTableStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{TableStatusAvailable, true},
		{TableStatusOccupied, true},
		{TableStatusReserved, true},
		{"closed", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := validTableStatus(tt.status); got != tt.want {
				t.Errorf("validTableStatus(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestActiveOrder(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{OrderStatusPending, true},
		{OrderStatusPreparing, true},
		{OrderStatusReady, true},
		{OrderStatusServed, false},
		{OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := activeOrder(tt.status); got != tt.want {
				t.Errorf("activeOrder(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
