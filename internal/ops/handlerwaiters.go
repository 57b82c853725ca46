package ops

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
)

type waitersPageState struct {
	Error   string
	Success string
}

// Waiters renders waiter account management.
func (h *Handler) Waiters(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Waiters")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin); !ok {
		return
	}

	state := waitersPageState{}
	query := r.URL.Query()
	if query.Get("created") == "1" {
		state.Success = "Waiter created successfully."
	} else if query.Get("updated") == "1" {
		state.Success = "Waiter updated successfully."
	} else if query.Get("deleted") == "1" {
		state.Success = "Waiter deleted successfully."
	}

	h.renderWaitersPage(w, r, state)
}

func (h *Handler) renderWaitersPage(w http.ResponseWriter, r *http.Request, state waitersPageState) {
	waiters, err := h.waiters.ListWaiters(r.Context())
	if err != nil {
		h.log().Error("cannot load waiters", "error", err)
		if state.Error == "" {
			state.Error = "Could not load waiters right now."
		}
	}

	data := map[string]interface{}{
		"Title":    "Waiters",
		"Template": "waiters",
		"Waiters":  waiters,
		"Error":    state.Error,
		"Success":  state.Success,
	}

	h.renderTemplate(w, "waiters.html", "base.html", data)
}

// CreateWaiter adds a waiter account.
func (h *Handler) CreateWaiter(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CreateWaiter")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.renderWaitersPage(w, r, waitersPageState{Error: "Waiter name is required."})
		return
	}
	deviceToken := strings.TrimSpace(r.FormValue("device_token"))

	_, err := h.waiters.CreateWaiter(r.Context(), name, deviceToken)
	h.auditLogger.LogAction(r.Context(), session.Role, "create-waiter", name, err)
	if err != nil {
		h.log().Error("waiter create failed", "error", err)
		h.renderWaitersPage(w, r, waitersPageState{Error: BackendMessage(err, "Could not create the waiter right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, "/waiters?created=1")
}

// UpdateWaiter edits a waiter account.
func (h *Handler) UpdateWaiter(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.UpdateWaiter")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/waiters", http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.renderWaitersPage(w, r, waitersPageState{Error: "Waiter name is required."})
		return
	}
	deviceToken := strings.TrimSpace(r.FormValue("device_token"))

	_, err = h.waiters.UpdateWaiter(r.Context(), id, name, deviceToken)
	h.auditLogger.LogAction(r.Context(), session.Role, "update-waiter", strconv.FormatInt(id, 10), err)
	if err != nil {
		h.log().Error("waiter update failed", "error", err, "waiter_id", id)
		h.renderWaitersPage(w, r, waitersPageState{Error: BackendMessage(err, "Could not update the waiter right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, "/waiters?updated=1")
}

// DeleteWaiter removes a waiter account and disarms any watcher keyed to
// it.
func (h *Handler) DeleteWaiter(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.DeleteWaiter")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/waiters", http.StatusSeeOther)
		return
	}

	_, err = h.waiters.DeleteWaiter(r.Context(), id)
	h.auditLogger.LogAction(r.Context(), session.Role, "delete-waiter", strconv.FormatInt(id, 10), err)
	if err != nil {
		h.log().Error("waiter delete failed", "error", err, "waiter_id", id)
		h.renderWaitersPage(w, r, waitersPageState{Error: BackendMessage(err, "Could not delete the waiter right now.")})
		return
	}

	if h.watchHub != nil {
		h.watchHub.DisarmWaiterWatch(id)
	}

	aqm.RedirectOrHeader(w, r, "/waiters?deleted=1")
}
