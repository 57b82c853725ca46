package ops

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
)

// paymentResource mirrors one payment transaction in the report.
type paymentResource struct {
	ID       int64   `json:"id"`
	OrderID  int64   `json:"order_id"`
	Amount   float64 `json:"amount"`
	Discount float64 `json:"discount"`
	PaidAt   string  `json:"paid_at"`
}

// paymentStatRow is one row of the daily statistics series. The backend may
// return several rows for the same date; aggregateStatistics folds them.
type paymentStatRow struct {
	PaymentDate   string  `json:"payment_date"`
	PaymentCount  int     `json:"payment_count"`
	TotalAmount   float64 `json:"total_amount"`
	TotalDiscount float64 `json:"total_discount"`
}

// PaymentDataAccess centralizes decoding of payment endpoints.
type PaymentDataAccess struct {
	api *Backend
}

func NewPaymentDataAccess(api *Backend) *PaymentDataAccess {
	return &PaymentDataAccess{api: api}
}

// Report lists payments within the date range (inclusive, YYYY-MM-DD).
func (da *PaymentDataAccess) Report(ctx context.Context, start, end string) ([]paymentResource, int, error) {
	if da == nil || da.api == nil {
		return nil, 0, fmt.Errorf("payment client not configured")
	}

	query := url.Values{}
	query.Set("start_date", start)
	query.Set("end_date", end)

	var result struct {
		Payments []paymentResource `json:"payments"`
		Total    int               `json:"total"`
	}
	if err := da.api.getJSON(ctx, "/payments/report", query, &result); err != nil {
		return nil, 0, err
	}

	return result.Payments, result.Total, nil
}

// Statistics returns the per-day series for the date range.
func (da *PaymentDataAccess) Statistics(ctx context.Context, start, end string) ([]paymentStatRow, error) {
	if da == nil || da.api == nil {
		return nil, fmt.Errorf("payment client not configured")
	}

	query := url.Values{}
	query.Set("start_date", start)
	query.Set("end_date", end)

	var result struct {
		Statistics []paymentStatRow `json:"statistics"`
		Total      int              `json:"total"`
	}
	if err := da.api.getJSON(ctx, "/payments/statistics", query, &result); err != nil {
		return nil, err
	}

	return result.Statistics, nil
}

// ByOrder lists payments recorded against a single order.
func (da *PaymentDataAccess) ByOrder(ctx context.Context, orderID int64) ([]paymentResource, error) {
	if da == nil || da.api == nil {
		return nil, fmt.Errorf("payment client not configured")
	}

	var result struct {
		Payments []paymentResource `json:"payments"`
		Total    float64           `json:"total"`
	}
	path := fmt.Sprintf("/payments/order/%d", orderID)
	if err := da.api.getJSON(ctx, path, nil, &result); err != nil {
		return nil, err
	}

	return result.Payments, nil
}

func (da *PaymentDataAccess) Create(ctx context.Context, orderID int64, amount, discount float64) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("payment client not configured")
	}

	payload := map[string]interface{}{
		"order_id": orderID,
		"amount":   amount,
		"discount": discount,
	}
	var result messageEnvelope
	if err := da.api.sendJSON(ctx, http.MethodPost, "/payments", payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

// aggregateStatistics folds duplicate dates by summing count, amount and
// discount, then sorts the series by date descending. Dates are ISO
// YYYY-MM-DD so lexical order is chronological order.
func aggregateStatistics(rows []paymentStatRow) []paymentStatRow {
	byDate := make(map[string]*paymentStatRow)
	for _, row := range rows {
		agg, ok := byDate[row.PaymentDate]
		if !ok {
			agg = &paymentStatRow{PaymentDate: row.PaymentDate}
			byDate[row.PaymentDate] = agg
		}
		agg.PaymentCount += row.PaymentCount
		agg.TotalAmount += row.TotalAmount
		agg.TotalDiscount += row.TotalDiscount
	}

	out := make([]paymentStatRow, 0, len(byDate))
	for _, agg := range byDate {
		agg.TotalAmount = roundCents(agg.TotalAmount)
		agg.TotalDiscount = roundCents(agg.TotalDiscount)
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PaymentDate > out[j].PaymentDate
	})

	return out
}

// clampDiscount derives the charged amount from an order total and a
// requested discount. A discount above the total is reset to the total with
// a zero amount; the clamped flag tells callers to warn.
func clampDiscount(total, discount float64) (float64, float64, bool) {
	if discount < 0 {
		discount = 0
	}
	if discount > total {
		return total, 0, true
	}
	return discount, roundCents(total - discount), false
}
