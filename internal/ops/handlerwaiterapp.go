package ops

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
)

type waiterPageState struct {
	Error   string
	Success string
	Warning string
}

// waiterTableView is one table card on the waiter's floor view.
type waiterTableView struct {
	ID          int64
	TableNumber int
	Capacity    int
	Status      string
	OrderCount  int
}

// WaiterHome renders the waiter's floor: tables under the chosen filter,
// ready orders, cart and transient notices. Visiting the view (re)arms the
// ready-order watcher for this waiter, replacing any previous one.
func (h *Handler) WaiterHome(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.WaiterHome")
	defer finish()

	session, ok := h.requireRole(w, r, RoleWaiter)
	if !ok {
		return
	}

	if h.watchHub != nil {
		if err := h.watchHub.ArmWaiterWatch(session.WaiterID); err != nil {
			h.log().Debug("cannot arm waiter watch", "error", err, "waiter_id", session.WaiterID)
		}
	}

	state := waiterPageState{}
	query := r.URL.Query()
	if query.Get("submitted") == "1" {
		state.Success = "Order sent to the kitchen."
	} else if query.Get("delivered") == "1" {
		state.Success = "Order delivered."
	} else if query.Get("empty") == "1" {
		state.Warning = "The cart is empty. Add at least one item before submitting."
	}

	filter := query.Get("filter")
	tables := h.waiterTables(r, filter)

	ready, err := h.orders.ListWaiterOrders(r.Context(), session.WaiterID, OrderStatusReady)
	if err != nil {
		h.log().Debug("cannot load ready orders", "error", err, "waiter_id", session.WaiterID)
	}

	data := map[string]interface{}{
		"Title":       "Waiter",
		"Template":    "waiter",
		"WaiterName":  session.WaiterName,
		"Tables":      tables,
		"Filter":      filter,
		"ReadyOrders": ready,
		"Cart":        h.carts.Lines(session.ID),
		"CartTotal":   formatMoney(h.carts.Total(session.ID)),
		"Notices":     h.notices.Active(waiterNoticeScope(session.WaiterID)),
		"Error":       state.Error,
		"Success":     state.Success,
		"Warning":     state.Warning,
	}

	h.renderTemplate(w, "waiter.html", "base.html", data)
}

// waiterTables loads tables and applies the floor filter. The occupied
// filter includes reserved tables; reserved counts as in use.
func (h *Handler) waiterTables(r *http.Request, filter string) []waiterTableView {
	tables, err := h.tables.ListTables(r.Context())
	if err != nil {
		h.log().Debug("cannot load tables for waiter view", "error", err)
		return nil
	}

	counts := h.activeOrderCounts(r)

	var out []waiterTableView
	for _, table := range tables {
		switch filter {
		case TableStatusAvailable:
			if table.Status != TableStatusAvailable {
				continue
			}
		case TableStatusOccupied:
			if table.Status != TableStatusOccupied && table.Status != TableStatusReserved {
				continue
			}
		}
		out = append(out, waiterTableView{
			ID:          table.ID,
			TableNumber: table.TableNumber,
			Capacity:    table.Capacity,
			Status:      table.Status,
			OrderCount:  counts[table.ID],
		})
	}
	return out
}

func (h *Handler) activeOrderCounts(r *http.Request) map[int64]int {
	counts := make(map[int64]int)
	page, err := h.orders.ListOrders(r.Context(), "", 1)
	if err != nil {
		h.log().Debug("cannot load orders for table counts", "error", err)
		return counts
	}
	for _, order := range page.Orders {
		if activeOrder(order.Status) {
			counts[order.TableID]++
		}
	}
	return counts
}

// WaiterTableOrders renders the active orders of one table, items included.
func (h *Handler) WaiterTableOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.WaiterTableOrders")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleWaiter); !ok {
		return
	}

	tableID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/waiter", http.StatusSeeOther)
		return
	}

	orders, err := h.orders.ListTableOrders(r.Context(), tableID)
	if err != nil {
		h.log().Error("cannot load table orders", "error", err, "table_id", tableID)
	}

	type tableOrderView struct {
		Order orderResource
		Items []orderItemResource
		Total string
	}

	var views []tableOrderView
	for _, order := range orders {
		if !activeOrder(order.Status) {
			continue
		}
		items, err := h.orderItems.ListByOrder(r.Context(), order.ID)
		if err != nil {
			h.log().Debug("cannot load items for table order", "error", err, "order_id", order.ID)
		}
		views = append(views, tableOrderView{
			Order: order,
			Items: items,
			Total: formatMoney(orderTotal(items)),
		})
	}

	data := map[string]interface{}{
		"Title":    fmt.Sprintf("Table %d orders", tableID),
		"Template": "waiter_table_orders",
		"TableID":  tableID,
		"Orders":   views,
	}

	layout := "base.html"
	if aqm.IsHTMX(r) {
		layout = "waiter_table_orders.html"
	}
	h.renderTemplate(w, "waiter_table_orders.html", layout, data)
}

// WaiterNewOrder renders the menu browser for building an order, available
// items only, optionally narrowed by category.
func (h *Handler) WaiterNewOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.WaiterNewOrder")
	defer finish()

	session, ok := h.requireRole(w, r, RoleWaiter)
	if !ok {
		return
	}

	tableID, err := parseID(r.URL.Query().Get("table_id"))
	if err != nil {
		http.Redirect(w, r, "/waiter", http.StatusSeeOther)
		return
	}

	var categoryID int64
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		if parsed, err := parseID(raw); err == nil {
			categoryID = parsed
		}
	}

	categories, err := h.menu.ListCategories(r.Context())
	if err != nil {
		h.log().Debug("cannot load categories for waiter menu", "error", err)
	}

	all, err := h.menu.ListMenuItems(r.Context(), categoryID)
	if err != nil {
		h.log().Debug("cannot load menu items for waiter menu", "error", err)
	}
	var items []menuItemResource
	for _, item := range all {
		if item.Available == 1 {
			items = append(items, item)
		}
	}

	data := map[string]interface{}{
		"Title":      "New order",
		"Template":   "waiter_new_order",
		"TableID":    tableID,
		"Categories": categories,
		"CategoryID": categoryID,
		"MenuItems":  items,
		"Cart":       h.carts.Lines(session.ID),
		"CartTotal":  formatMoney(h.carts.Total(session.ID)),
	}

	h.renderTemplate(w, "waiter_new_order.html", "base.html", data)
}

// WaiterCartAdd puts one menu item line into the session cart.
func (h *Handler) WaiterCartAdd(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.WaiterCartAdd")
	defer finish()

	session, ok := h.requireRole(w, r, RoleWaiter)
	if !ok {
		return
	}

	tableID, err := parseID(r.FormValue("table_id"))
	if err != nil {
		http.Redirect(w, r, "/waiter", http.StatusSeeOther)
		return
	}

	menuItemID, err := parseID(r.FormValue("menu_item_id"))
	if err != nil {
		http.Redirect(w, r, waiterNewOrderURL(tableID, 0), http.StatusSeeOther)
		return
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil {
		quantity = 0
	}

	line := CartLine{
		MenuItemID: menuItemID,
		Name:       strings.TrimSpace(r.FormValue("name")),
		Quantity:   quantity,
		Note:       strings.TrimSpace(r.FormValue("note")),
	}
	if price, err := strconv.ParseFloat(r.FormValue("price"), 64); err == nil {
		line.Price = price
	}

	if err := h.carts.Add(session.ID, line); err != nil {
		h.log().Debug("cart add rejected", "error", err)
	}

	aqm.RedirectOrHeader(w, r, waiterNewOrderURL(tableID, 0))
}

// WaiterCartRemove drops one line from the session cart.
func (h *Handler) WaiterCartRemove(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.WaiterCartRemove")
	defer finish()

	session, ok := h.requireRole(w, r, RoleWaiter)
	if !ok {
		return
	}

	tableID, err := parseID(r.FormValue("table_id"))
	if err != nil {
		http.Redirect(w, r, "/waiter", http.StatusSeeOther)
		return
	}

	index, err := strconv.Atoi(r.FormValue("index"))
	if err == nil {
		h.carts.Remove(session.ID, index)
	}

	aqm.RedirectOrHeader(w, r, waiterNewOrderURL(tableID, 0))
}

// WaiterSubmitOrder sends the cart as one order. An empty cart produces a
// warning and no backend request; success clears the cart and returns to
// the refreshed floor view.
func (h *Handler) WaiterSubmitOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.WaiterSubmitOrder")
	defer finish()

	session, ok := h.requireRole(w, r, RoleWaiter)
	if !ok {
		return
	}

	tableID, err := parseID(r.FormValue("table_id"))
	if err != nil {
		http.Redirect(w, r, "/waiter", http.StatusSeeOther)
		return
	}

	items := h.carts.Items(session.ID)
	if len(items) == 0 {
		aqm.RedirectOrHeader(w, r, "/waiter?empty=1")
		return
	}

	payload := CreateOrderRequest{
		TableID:  tableID,
		WaiterID: session.WaiterID,
		Items:    items,
	}

	_, err = h.orders.CreateOrder(r.Context(), payload)
	h.auditLogger.LogAction(r.Context(), session.Role, "submit-order", strconv.FormatInt(tableID, 10), err)
	if err != nil {
		h.log().Error("order submit failed", "error", err, "table_id", tableID)
		aqm.RedirectOrHeader(w, r, waiterNewOrderURL(tableID, 0))
		return
	}

	h.carts.Clear(session.ID)

	aqm.RedirectOrHeader(w, r, "/waiter?submitted=1")
}

// WaiterDeliverOrder marks a ready order as served and returns to the
// refreshed floor view; the order drops out of the ready list with the
// re-render.
func (h *Handler) WaiterDeliverOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.WaiterDeliverOrder")
	defer finish()

	session, ok := h.requireRole(w, r, RoleWaiter)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/waiter", http.StatusSeeOther)
		return
	}

	_, err = h.orders.UpdateOrderStatus(r.Context(), id, OrderStatusServed)
	h.auditLogger.LogAction(r.Context(), session.Role, "deliver-order", strconv.FormatInt(id, 10), err)
	if err != nil {
		h.log().Error("order delivery failed", "error", err, "order_id", id)
		aqm.RedirectOrHeader(w, r, "/waiter")
		return
	}

	aqm.RedirectOrHeader(w, r, "/waiter?delivered=1")
}

func waiterNewOrderURL(tableID, categoryID int64) string {
	if categoryID > 0 {
		return fmt.Sprintf("/waiter/new-order?table_id=%d&category_id=%d", tableID, categoryID)
	}
	return fmt.Sprintf("/waiter/new-order?table_id=%d", tableID)
}
