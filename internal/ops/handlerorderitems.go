package ops

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
)

type orderItemsPageState struct {
	Error   string
	Success string
}

// OrderItems renders the item list for one order with its running total.
func (h *Handler) OrderItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.OrderItems")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin, RoleCashier); !ok {
		return
	}

	orderID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	state := orderItemsPageState{}
	query := r.URL.Query()
	if query.Get("created") == "1" {
		state.Success = "Item added successfully."
	} else if query.Get("updated") == "1" {
		state.Success = "Item updated successfully."
	} else if query.Get("deleted") == "1" {
		state.Success = "Item removed successfully."
	}

	h.renderOrderItemsPage(w, r, orderID, state)
}

func (h *Handler) renderOrderItemsPage(w http.ResponseWriter, r *http.Request, orderID int64, state orderItemsPageState) {
	items, err := h.orderItems.ListByOrder(r.Context(), orderID)
	if err != nil {
		h.log().Error("cannot load order items", "error", err, "order_id", orderID)
		if state.Error == "" {
			state.Error = "Could not load the order items right now."
		}
	}

	data := map[string]interface{}{
		"Title":    fmt.Sprintf("Order #%d items", orderID),
		"Template": "order_items",
		"OrderID":  orderID,
		"Items":    items,
		"Total":    formatMoney(orderTotal(items)),
		"Error":    state.Error,
		"Success":  state.Success,
	}

	h.renderTemplate(w, "order_items.html", "base.html", data)
}

func orderItemsURL(orderID int64, flag string) string {
	if flag == "" {
		return fmt.Sprintf("/orders/%d/items", orderID)
	}
	return fmt.Sprintf("/orders/%d/items?%s=1", orderID, flag)
}

// NewOrderItemForm serves the add-item picker. Only available menu items
// are offered; the q parameter narrows them by case-insensitive substring.
func (h *Handler) NewOrderItemForm(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.NewOrderItemForm")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin); !ok {
		return
	}

	orderID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	search := strings.TrimSpace(r.URL.Query().Get("q"))
	items := h.availableMenuItems(r, search)

	data := map[string]interface{}{
		"Title":     fmt.Sprintf("Add item to order #%d", orderID),
		"Template":  "order_item_form",
		"OrderID":   orderID,
		"MenuItems": items,
		"Search":    search,
		"Action":    fmt.Sprintf("/orders/%d/items", orderID),
	}

	layout := "base.html"
	if aqm.IsHTMX(r) {
		layout = "order_item_form.html"
	}
	h.renderTemplate(w, "order_item_form.html", layout, data)
}

func (h *Handler) availableMenuItems(r *http.Request, search string) []menuItemResource {
	all, err := h.menu.ListMenuItems(r.Context(), 0)
	if err != nil {
		h.log().Debug("cannot load menu items for picker", "error", err)
		return nil
	}

	var items []menuItemResource
	for _, item := range all {
		if item.Available != 1 {
			continue
		}
		if !menuMatch(item.Name, search) {
			continue
		}
		items = append(items, item)
	}
	return items
}

// CreateOrderItem adds a menu item to an order and re-fetches the list.
func (h *Handler) CreateOrderItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CreateOrderItem")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	orderID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	menuItemID, err := parseID(r.FormValue("menu_item_id"))
	if err != nil {
		h.renderOrderItemsPage(w, r, orderID, orderItemsPageState{Error: "Please choose a menu item."})
		return
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil || quantity < cartMinQuantity || quantity > cartMaxQuantity {
		h.renderOrderItemsPage(w, r, orderID, orderItemsPageState{Error: "Quantity must be between 1 and 99."})
		return
	}

	note := strings.TrimSpace(r.FormValue("note"))

	_, err = h.orderItems.Create(r.Context(), orderID, menuItemID, quantity, note)
	h.auditLogger.LogAction(r.Context(), session.Role, "create-order-item", strconv.FormatInt(orderID, 10), err)
	if err != nil {
		h.log().Error("order item create failed", "error", err, "order_id", orderID)
		h.renderOrderItemsPage(w, r, orderID, orderItemsPageState{Error: BackendMessage(err, "Could not add the item right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, orderItemsURL(orderID, "created"))
}

// EditOrderItemForm serves the edit form for one item.
func (h *Handler) EditOrderItemForm(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.EditOrderItemForm")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin); !ok {
		return
	}

	itemID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	orderID, err := parseID(r.URL.Query().Get("order_id"))
	if err != nil {
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	items, err := h.orderItems.ListByOrder(r.Context(), orderID)
	if err != nil {
		h.renderOrderItemsPage(w, r, orderID, orderItemsPageState{Error: "Could not load the item right now."})
		return
	}

	var current *orderItemResource
	for i := range items {
		if items[i].ID == itemID {
			current = &items[i]
			break
		}
	}
	if current == nil {
		h.renderOrderItemsPage(w, r, orderID, orderItemsPageState{Error: "Item not found. It may have been removed."})
		return
	}

	search := strings.TrimSpace(r.URL.Query().Get("q"))
	data := map[string]interface{}{
		"Title":     fmt.Sprintf("Edit item on order #%d", orderID),
		"Template":  "order_item_form",
		"OrderID":   orderID,
		"Item":      current,
		"MenuItems": h.availableMenuItems(r, search),
		"Search":    search,
		"Action":    fmt.Sprintf("/order-items/%d/update", itemID),
	}

	layout := "base.html"
	if aqm.IsHTMX(r) {
		layout = "order_item_form.html"
	}
	h.renderTemplate(w, "order_item_form.html", layout, data)
}

// UpdateOrderItem edits one item and re-fetches the list.
func (h *Handler) UpdateOrderItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.UpdateOrderItem")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	itemID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	orderID, err := parseID(r.FormValue("order_id"))
	if err != nil {
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	menuItemID, err := parseID(r.FormValue("menu_item_id"))
	if err != nil {
		h.renderOrderItemsPage(w, r, orderID, orderItemsPageState{Error: "Please choose a menu item."})
		return
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil || quantity < cartMinQuantity || quantity > cartMaxQuantity {
		h.renderOrderItemsPage(w, r, orderID, orderItemsPageState{Error: "Quantity must be between 1 and 99."})
		return
	}

	note := strings.TrimSpace(r.FormValue("note"))

	_, err = h.orderItems.Update(r.Context(), itemID, menuItemID, quantity, note)
	h.auditLogger.LogAction(r.Context(), session.Role, "update-order-item", strconv.FormatInt(itemID, 10), err)
	if err != nil {
		h.log().Error("order item update failed", "error", err, "item_id", itemID)
		h.renderOrderItemsPage(w, r, orderID, orderItemsPageState{Error: BackendMessage(err, "Could not update the item right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, orderItemsURL(orderID, "updated"))
}

// DeleteOrderItem removes one item and re-fetches the list.
func (h *Handler) DeleteOrderItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.DeleteOrderItem")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	itemID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	orderID, err := parseID(r.FormValue("order_id"))
	if err != nil {
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}

	_, err = h.orderItems.Delete(r.Context(), itemID)
	h.auditLogger.LogAction(r.Context(), session.Role, "delete-order-item", strconv.FormatInt(itemID, 10), err)
	if err != nil {
		h.log().Error("order item delete failed", "error", err, "item_id", itemID)
		h.renderOrderItemsPage(w, r, orderID, orderItemsPageState{Error: BackendMessage(err, "Could not remove the item right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, orderItemsURL(orderID, "deleted"))
}
