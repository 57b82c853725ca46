package ops

import (
	"net/http"
	"strconv"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
)

// KitchenBoard renders the chef's order board. The board is served from the
// in-memory cache; it is warmed on first use and refreshed either
// explicitly or when the pending watcher detects new orders. Served orders
// never appear.
func (h *Handler) KitchenBoard(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.KitchenBoard")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleChef, RoleAdmin); !ok {
		return
	}

	if !h.board.Loaded() {
		if err := h.board.Reload(r.Context(), h.orders); err != nil {
			h.log().Error("cannot warm kitchen board", "error", err)
		}
	}

	filter := r.URL.Query().Get("status")
	if filter != "" && !validOrderStatus(filter) {
		filter = ""
	}

	data := map[string]interface{}{
		"Title":    "Kitchen",
		"Template": "kitchen",
		"Orders":   h.board.Snapshot(filter),
		"Filter":   filter,
		"Pending":  h.board.PendingCount(),
		"Notices":  h.notices.Active(noticeScopeKitchen),
		"Statuses": []string{OrderStatusPending, OrderStatusPreparing, OrderStatusReady},
	}

	h.renderTemplate(w, "kitchen.html", "base.html", data)
}

// RefreshKitchenBoard forces a full re-fetch of the board.
func (h *Handler) RefreshKitchenBoard(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.RefreshKitchenBoard")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleChef, RoleAdmin); !ok {
		return
	}

	if err := h.board.Reload(r.Context(), h.orders); err != nil {
		h.log().Error("kitchen board refresh failed", "error", err)
	}

	aqm.RedirectOrHeader(w, r, kitchenReturnURL(r))
}

// MarkOrderPreparing transitions one order to preparing. On success only
// that order is patched on the board; nothing else is re-fetched.
func (h *Handler) MarkOrderPreparing(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.MarkOrderPreparing")
	defer finish()

	h.kitchenTransition(w, r, OrderStatusPreparing)
}

// MarkOrderReady transitions one order to ready, with the same local-only
// board update.
func (h *Handler) MarkOrderReady(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.MarkOrderReady")
	defer finish()

	h.kitchenTransition(w, r, OrderStatusReady)
}

func (h *Handler) kitchenTransition(w http.ResponseWriter, r *http.Request, status string) {
	session, ok := h.requireRole(w, r, RoleChef, RoleAdmin)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/kitchen", http.StatusSeeOther)
		return
	}

	_, err = h.orders.UpdateOrderStatus(r.Context(), id, status)
	h.auditLogger.LogAction(r.Context(), session.Role, "kitchen-"+status, strconv.FormatInt(id, 10), err)
	if err != nil {
		h.log().Error("kitchen transition failed", "error", err, "order_id", id, "status", status)
		aqm.RedirectOrHeader(w, r, kitchenReturnURL(r))
		return
	}

	h.board.ApplyStatus(id, status)

	aqm.RedirectOrHeader(w, r, kitchenReturnURL(r))
}

func kitchenReturnURL(r *http.Request) string {
	if filter := r.FormValue("filter"); filter != "" && validOrderStatus(filter) {
		return "/kitchen?status=" + filter
	}
	return "/kitchen"
}
