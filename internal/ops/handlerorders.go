package ops

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
)

type ordersPageState struct {
	Error   string
	Success string
}

// orderRowView is one enriched row of the order list: the raw order joined
// with its table number, waiter name and computed total.
type orderRowView struct {
	ID            int64
	TableNumber   string
	WaiterName    string
	Status        string
	OrderType     string
	PaymentStatus string
	TotalCost     string
	CreatedAt     string
}

// Orders renders the paginated order list under the current filter mode.
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Orders")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin, RoleCashier); !ok {
		return
	}

	state := ordersPageState{}
	query := r.URL.Query()
	if query.Get("created") == "1" {
		state.Success = "Order created successfully."
	} else if query.Get("updated") == "1" {
		state.Success = "Order updated successfully."
	} else if query.Get("deleted") == "1" {
		state.Success = "Order deleted successfully."
	}

	h.renderOrdersPage(w, r, parseListState(query), state)
}

func (h *Handler) renderOrdersPage(w http.ResponseWriter, r *http.Request, list ListState, state ordersPageState) {
	ctx := r.Context()

	page, err := h.loadOrderPage(ctx, list)
	if err != nil {
		h.log().Error("cannot load orders", "error", err, "mode", string(list.Mode))
		if state.Error == "" {
			state.Error = "Could not load orders right now."
		}
		page = &orderPage{TotalPages: 1}
	}

	list.TotalPages = page.TotalPages
	if list.TotalPages < 1 {
		list.TotalPages = 1
	}

	rows := h.enrichOrders(ctx, page.Orders)

	data := map[string]interface{}{
		"Title":      "Orders",
		"Template":   "orders",
		"Orders":     rows,
		"Statuses":   orderStatuses,
		"Mode":       string(list.Mode),
		"Status":     list.Status,
		"Page":       list.Page,
		"TotalPages": list.TotalPages,
		"TotalItems": page.TotalItems,
		"HasPrev":    list.HasPrev(),
		"HasNext":    list.HasNext(),
		"PrevURL":    list.WithPage(list.Page - 1).URL("/orders"),
		"NextURL":    list.WithPage(list.Page + 1).URL("/orders"),
		"ListQuery":  list.Query().Encode(),
		"Error":      state.Error,
		"Success":    state.Success,
	}

	h.renderTemplate(w, "orders.html", "base.html", data)
}

// loadOrderPage dispatches on the filter mode alone; paging never crosses
// modes.
func (h *Handler) loadOrderPage(ctx context.Context, list ListState) (*orderPage, error) {
	switch list.Mode {
	case FilterUnpaid:
		return h.orders.ListUnpaidOrders(ctx, list.Page)
	case FilterStatus:
		return h.orders.ListOrders(ctx, list.Status, list.Page)
	default:
		return h.orders.ListOrders(ctx, "", list.Page)
	}
}

// enrichOrders joins each order with its items total, table number and
// waiter name. A failed item fetch leaves that row's total blank rather
// than failing the page.
func (h *Handler) enrichOrders(ctx context.Context, orders []orderResource) []orderRowView {
	tableNumbers := h.tableNumberIndex(ctx)
	waiterNames := h.waiterNameIndex(ctx)

	rows := make([]orderRowView, 0, len(orders))
	for _, order := range orders {
		row := orderRowView{
			ID:            order.ID,
			Status:        order.Status,
			OrderType:     order.OrderType,
			PaymentStatus: order.PaymentStatus,
			CreatedAt:     order.CreatedAt,
			TableNumber:   tableNumbers[order.TableID],
			WaiterName:    waiterNames[order.WaiterID],
		}
		if row.TableNumber == "" {
			row.TableNumber = "-"
		}
		if row.WaiterName == "" {
			row.WaiterName = "-"
		}

		items, err := h.orderItems.ListByOrder(ctx, order.ID)
		if err != nil {
			h.log().Debug("cannot load items for order total", "error", err, "order_id", order.ID)
		} else {
			row.TotalCost = formatMoney(orderTotal(items))
		}

		rows = append(rows, row)
	}

	return rows
}

func (h *Handler) tableNumberIndex(ctx context.Context) map[int64]string {
	index := make(map[int64]string)
	tables, err := h.tables.ListTables(ctx)
	if err != nil {
		h.log().Debug("cannot load tables for order rows", "error", err)
		return index
	}
	for _, table := range tables {
		index[table.ID] = strconv.Itoa(table.TableNumber)
	}
	return index
}

func (h *Handler) waiterNameIndex(ctx context.Context) map[int64]string {
	index := make(map[int64]string)
	waiters, err := h.waiters.ListWaiters(ctx)
	if err != nil {
		h.log().Debug("cannot load waiters for order rows", "error", err)
		return index
	}
	for _, waiter := range waiters {
		index[waiter.ID] = waiter.Name
	}
	return index
}

// NewOrderForm serves the admin create-order form.
func (h *Handler) NewOrderForm(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.NewOrderForm")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin); !ok {
		return
	}

	tables, err := h.tables.ListTables(r.Context())
	if err != nil {
		h.log().Debug("cannot load tables for order form", "error", err)
	}
	waiters, err := h.waiters.ListWaiters(r.Context())
	if err != nil {
		h.log().Debug("cannot load waiters for order form", "error", err)
	}

	data := map[string]interface{}{
		"Title":    "New order",
		"Template": "order_form",
		"Tables":   tables,
		"Waiters":  waiters,
		"Statuses": orderStatuses,
	}

	h.renderTemplate(w, "order_form.html", "base.html", data)
}

// CreateOrder handles the admin create-order submission.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CreateOrder")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderOrdersPage(w, r, parseListState(r.URL.Query()), ordersPageState{Error: "Could not read the submitted form."})
		return
	}

	tableID, err := parseID(r.FormValue("table_id"))
	if err != nil {
		h.renderOrdersPage(w, r, parseListState(r.Form), ordersPageState{Error: "Please choose a table."})
		return
	}

	waiterID, err := parseID(r.FormValue("waiter_id"))
	if err != nil {
		h.renderOrdersPage(w, r, parseListState(r.Form), ordersPageState{Error: "Please choose a waiter."})
		return
	}

	payload := CreateOrderRequest{
		TableID:   tableID,
		WaiterID:  waiterID,
		OrderType: strings.TrimSpace(r.FormValue("order_type")),
	}
	if status := strings.TrimSpace(r.FormValue("status")); status != "" {
		if !validOrderStatus(status) {
			h.renderOrdersPage(w, r, parseListState(r.Form), ordersPageState{Error: "Please choose a valid order status."})
			return
		}
		payload.Status = status
	}

	_, err = h.orders.CreateOrder(r.Context(), payload)
	h.auditLogger.LogAction(r.Context(), session.Role, "create-order", strconv.FormatInt(tableID, 10), err)
	if err != nil {
		h.log().Error("order create failed", "error", err)
		h.renderOrdersPage(w, r, parseListState(r.Form), ordersPageState{Error: BackendMessage(err, "Could not create the order right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, "/orders?created=1")
}

// UpdateOrderStatus applies one status transition and returns to the list
// under the same filter mode and page.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.UpdateOrderStatus")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin, RoleCashier)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	list := parseListState(r.Form)

	status := strings.TrimSpace(r.FormValue("new_status"))
	if !validOrderStatus(status) {
		h.renderOrdersPage(w, r, list, ordersPageState{Error: "Please choose a valid order status."})
		return
	}

	_, err = h.orders.UpdateOrderStatus(r.Context(), id, status)
	h.auditLogger.LogAction(r.Context(), session.Role, "update-order-status", strconv.FormatInt(id, 10), err)
	if err != nil {
		h.log().Error("order status update failed", "error", err, "order_id", id)
		h.renderOrdersPage(w, r, list, ordersPageState{Error: refineOrderError(err, "Could not update the order right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, ordersReturnURL(list, "updated"))
}

// DeleteOrder removes an order after the list view's confirmation step.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.DeleteOrder")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	list := parseListState(r.Form)

	_, err = h.orders.DeleteOrder(r.Context(), id)
	h.auditLogger.LogAction(r.Context(), session.Role, "delete-order", strconv.FormatInt(id, 10), err)
	if err != nil {
		h.log().Error("order delete failed", "error", err, "order_id", id)
		h.renderOrdersPage(w, r, list, ordersPageState{Error: refineOrderError(err, "Could not delete the order right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, ordersReturnURL(list, "deleted"))
}

// ordersReturnURL rebuilds the list URL from the filter state plus a flash
// flag.
func ordersReturnURL(list ListState, flag string) string {
	q := list.Query()
	q.Set(flag, "1")
	return "/orders?" + q.Encode()
}

func refineOrderError(err error, fallback string) string {
	switch StatusOf(err) {
	case http.StatusNotFound:
		return "Order not found. It may have been deleted."
	case http.StatusBadRequest:
		if msg := BackendMessage(err, ""); msg != "" {
			return msg
		}
	}
	return BackendMessage(err, fallback)
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
