package ops

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
)

const (
	paymentDateLayout  = "2006-01-02"
	defaultReportRange = 30 * 24 * time.Hour
)

type paymentsPageState struct {
	Error   string
	Success string
	Warning string
}

// paymentSummary aggregates the report totals shown above the table.
type paymentSummary struct {
	Transactions  int
	TotalAmount   string
	TotalDiscount string
}

// Payments renders the payment report for a date range, defaulting to the
// last 30 days. Report and statistics are fetched independently; one
// failing does not blank the other.
func (h *Handler) Payments(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Payments")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin, RoleCashier); !ok {
		return
	}

	state := paymentsPageState{}
	query := r.URL.Query()
	if query.Get("created") == "1" {
		state.Success = "Payment recorded successfully."
	}
	if query.Get("clamped") == "1" {
		state.Warning = "Discount exceeded the order total. It was reduced to the total and nothing was charged."
	}

	start, end := reportRange(query.Get("start_date"), query.Get("end_date"), time.Now())

	ctx := r.Context()

	payments, _, err := h.payments.Report(ctx, start, end)
	if err != nil {
		h.log().Error("cannot load payment report", "error", err)
		state.Error = "Could not load the payment report right now."
	}

	stats, err := h.payments.Statistics(ctx, start, end)
	if err != nil {
		h.log().Error("cannot load payment statistics", "error", err)
		if state.Error == "" {
			state.Error = "Could not load payment statistics right now."
		}
	}
	series := aggregateStatistics(stats)

	var amount, discount float64
	for _, p := range payments {
		amount += p.Amount
		discount += p.Discount
	}
	summary := paymentSummary{
		Transactions:  len(payments),
		TotalAmount:   formatMoney(roundCents(amount)),
		TotalDiscount: formatMoney(roundCents(discount)),
	}

	data := map[string]interface{}{
		"Title":      "Payments",
		"Template":   "payments",
		"Payments":   payments,
		"Statistics": series,
		"Summary":    summary,
		"StartDate":  start,
		"EndDate":    end,
		"Error":      state.Error,
		"Success":    state.Success,
		"Warning":    state.Warning,
	}

	h.renderTemplate(w, "payments.html", "base.html", data)
}

// reportRange resolves the report window, falling back to the last 30 days
// when either bound is missing or malformed.
func reportRange(start, end string, now time.Time) (string, string) {
	validDate := func(s string) bool {
		_, err := time.Parse(paymentDateLayout, s)
		return err == nil
	}

	if !validDate(end) {
		end = now.Format(paymentDateLayout)
	}
	if !validDate(start) {
		start = now.Add(-defaultReportRange).Format(paymentDateLayout)
	}
	return start, end
}

// NewPaymentForm serves the record-payment form: the cashier picks an
// unpaid order and the order's current total is precomputed.
func (h *Handler) NewPaymentForm(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.NewPaymentForm")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin, RoleCashier); !ok {
		return
	}

	ctx := r.Context()

	unpaid, err := h.orders.ListUnpaidOrders(ctx, 0)
	if err != nil {
		h.log().Error("cannot load unpaid orders", "error", err)
		unpaid = &orderPage{}
	}

	data := map[string]interface{}{
		"Title":    "Record payment",
		"Template": "payment_form",
		"Orders":   unpaid.Orders,
	}

	if rawID := r.URL.Query().Get("order_id"); rawID != "" {
		if orderID, err := parseID(rawID); err == nil {
			items, err := h.orderItems.ListByOrder(ctx, orderID)
			if err != nil {
				h.log().Debug("cannot load items for payment total", "error", err, "order_id", orderID)
			} else {
				data["SelectedOrderID"] = orderID
				data["OrderTotal"] = formatMoney(orderTotal(items))
			}
		}
	}

	h.renderTemplate(w, "payment_form.html", "base.html", data)
}

// CreatePayment records a payment. The charged amount is always derived
// from the order total and discount, never taken from the form; a discount
// above the total is clamped to the total with a zero amount and a warning.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CreatePayment")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin, RoleCashier)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/add-payment", http.StatusSeeOther)
		return
	}

	orderID, err := parseID(r.FormValue("order_id"))
	if err != nil {
		http.Redirect(w, r, "/add-payment", http.StatusSeeOther)
		return
	}

	items, err := h.orderItems.ListByOrder(r.Context(), orderID)
	if err != nil {
		h.log().Error("cannot load items for payment", "error", err, "order_id", orderID)
		http.Redirect(w, r, "/add-payment", http.StatusSeeOther)
		return
	}
	total := orderTotal(items)

	var requested float64
	if raw := strings.TrimSpace(r.FormValue("discount")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			http.Redirect(w, r, fmt.Sprintf("/add-payment?order_id=%d", orderID), http.StatusSeeOther)
			return
		}
		requested = parsed
	}

	discount, amount, clamped := clampDiscount(total, requested)
	if clamped {
		h.log().Info("discount exceeded order total, clamped",
			"order_id", orderID, "requested", requested, "total", total)
	}

	_, err = h.payments.Create(r.Context(), orderID, amount, discount)
	h.auditLogger.LogAction(r.Context(), session.Role, "create-payment", strconv.FormatInt(orderID, 10), err)
	if err != nil {
		h.log().Error("payment create failed", "error", err, "order_id", orderID)
		http.Redirect(w, r, fmt.Sprintf("/add-payment?order_id=%d", orderID), http.StatusSeeOther)
		return
	}

	returnURL := "/payments?created=1"
	if clamped {
		returnURL += "&clamped=1"
	}
	aqm.RedirectOrHeader(w, r, returnURL)
}

// PaymentsByOrder renders the payment detail for one order.
func (h *Handler) PaymentsByOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.PaymentsByOrder")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin, RoleCashier); !ok {
		return
	}

	orderID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/payments", http.StatusSeeOther)
		return
	}

	payments, err := h.payments.ByOrder(r.Context(), orderID)
	if err != nil {
		h.log().Error("cannot load payments for order", "error", err, "order_id", orderID)
	}

	var total float64
	for _, p := range payments {
		total += p.Amount
	}

	data := map[string]interface{}{
		"Title":    fmt.Sprintf("Payments for order #%d", orderID),
		"Template": "payments_by_order",
		"OrderID":  orderID,
		"Payments": payments,
		"Total":    formatMoney(roundCents(total)),
	}

	layout := "base.html"
	if aqm.IsHTMX(r) {
		layout = "payments_by_order.html"
	}
	h.renderTemplate(w, "payments_by_order.html", layout, data)
}
