package ops

import (
	"context"
	"net/http"
	"testing"
)

func TestAggregateStatistics(t *testing.T) {
	rows := []paymentStatRow{
		{PaymentDate: "2026-08-01", PaymentCount: 2, TotalAmount: 10, TotalDiscount: 1},
		{PaymentDate: "2026-08-03", PaymentCount: 1, TotalAmount: 7.5, TotalDiscount: 0},
		{PaymentDate: "2026-08-01", PaymentCount: 3, TotalAmount: 15, TotalDiscount: 0.5},
	}

	out := aggregateStatistics(rows)

	if len(out) != 2 {
		t.Fatalf("rows = %d, want 2", len(out))
	}

	// Sorted by date descending.
	if out[0].PaymentDate != "2026-08-03" || out[1].PaymentDate != "2026-08-01" {
		t.Errorf("order = %q, %q", out[0].PaymentDate, out[1].PaymentDate)
	}

	merged := out[1]
	if merged.PaymentCount != 5 {
		t.Errorf("payment_count = %d, want 5", merged.PaymentCount)
	}
	if merged.TotalAmount != 25 {
		t.Errorf("total_amount = %v, want 25", merged.TotalAmount)
	}
	if merged.TotalDiscount != 1.5 {
		t.Errorf("total_discount = %v, want 1.5", merged.TotalDiscount)
	}
}

func TestAggregateStatisticsEmpty(t *testing.T) {
	if out := aggregateStatistics(nil); len(out) != 0 {
		t.Errorf("expected empty result, got %d rows", len(out))
	}
}

func TestClampDiscount(t *testing.T) {
	tests := []struct {
		name         string
		total        float64
		requested    float64
		wantDiscount float64
		wantAmount   float64
		wantClamped  bool
	}{
		{"no discount", 20, 0, 0, 20, false},
		{"partial discount", 20, 5, 5, 15, false},
		{"exact total", 20, 20, 20, 0, false},
		{"excess clamps to total with zero amount", 20, 25, 20, 0, true},
		{"negative treated as zero", 20, -3, 0, 20, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discount, amount, clamped := clampDiscount(tt.total, tt.requested)
			if discount != tt.wantDiscount {
				t.Errorf("discount = %v, want %v", discount, tt.wantDiscount)
			}
			if amount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", amount, tt.wantAmount)
			}
			if clamped != tt.wantClamped {
				t.Errorf("clamped = %v, want %v", clamped, tt.wantClamped)
			}
		})
	}
}

func TestPaymentReportQueryParams(t *testing.T) {
	var gotQuery string

	backend, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"payments":[{"id":1,"order_id":4,"amount":18,"discount":2,"paid_at":"2026-08-20"}],"total":1}`))
	}))

	da := NewPaymentDataAccess(backend)
	payments, total, err := da.Report(context.Background(), "2026-08-01", "2026-08-31")
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	if gotQuery != "end_date=2026-08-31&start_date=2026-08-01" {
		t.Errorf("query = %q", gotQuery)
	}
	if total != 1 || len(payments) != 1 || payments[0].OrderID != 4 {
		t.Errorf("payments = %+v, total = %d", payments, total)
	}
}
