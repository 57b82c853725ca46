package ops

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
)

type tablesPageState struct {
	Error   string
	Success string
}

// Tables renders the table management view with live data from the backend.
func (h *Handler) Tables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Tables")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin); !ok {
		return
	}

	state := tablesPageState{}
	query := r.URL.Query()
	if query.Get("created") == "1" {
		state.Success = "Table created successfully."
	} else if query.Get("updated") == "1" {
		state.Success = "Table updated successfully."
	} else if query.Get("deleted") == "1" {
		state.Success = "Table deleted successfully."
	}

	h.renderTablesPage(w, r, state)
}

func (h *Handler) renderTablesPage(w http.ResponseWriter, r *http.Request, state tablesPageState) {
	tables, err := h.tables.ListTables(r.Context())
	if err != nil {
		h.log().Error("cannot load tables", "error", err)
		if state.Error == "" {
			state.Error = "Could not load tables right now."
		}
	}

	data := map[string]interface{}{
		"Title":    "Tables",
		"Template": "tables",
		"Tables":   tables,
		"Statuses": tableStatuses,
		"Error":    state.Error,
		"Success":  state.Success,
	}

	h.renderTemplate(w, "tables.html", "base.html", data)
}

// CreateTable proxies table creation to the backend after local validation.
func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CreateTable")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderTablesPage(w, r, tablesPageState{Error: "Could not read the submitted form."})
		return
	}

	tableNumber, err := strconv.Atoi(strings.TrimSpace(r.FormValue("table_number")))
	if err != nil || tableNumber <= 0 {
		h.renderTablesPage(w, r, tablesPageState{Error: "Table number must be a positive number."})
		return
	}

	capacity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("capacity")))
	if err != nil || capacity <= 0 {
		h.renderTablesPage(w, r, tablesPageState{Error: "Capacity must be a positive number."})
		return
	}

	status := strings.TrimSpace(r.FormValue("status"))
	if !validTableStatus(status) {
		h.renderTablesPage(w, r, tablesPageState{Error: "Please choose a valid table status."})
		return
	}

	_, err = h.tables.CreateTable(r.Context(), tableNumber, capacity, status)
	h.auditLogger.LogAction(r.Context(), session.Role, "create-table", strconv.Itoa(tableNumber), err)
	if err != nil {
		h.log().Error("table create failed", "error", err)
		h.renderTablesPage(w, r, tablesPageState{Error: refineTableError(err, "Could not create the table right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, "/list-tables?created=1")
}

// EditTableForm serves the edit form via HTMX.
func (h *Handler) EditTableForm(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.EditTableForm")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin); !ok {
		return
	}

	if !aqm.IsHTMX(r) {
		http.Redirect(w, r, "/list-tables", http.StatusSeeOther)
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid table identifier", http.StatusBadRequest)
		return
	}

	tables, err := h.tables.ListTables(r.Context())
	if err != nil {
		http.Error(w, "Could not load table", http.StatusBadGateway)
		return
	}

	var table *tableResource
	for i := range tables {
		if tables[i].ID == id {
			table = &tables[i]
			break
		}
	}
	if table == nil {
		http.Error(w, "Table not found", http.StatusNotFound)
		return
	}

	data := map[string]interface{}{
		"Table":    table,
		"Statuses": tableStatuses,
		"Action":   fmt.Sprintf("/update-table/%d", table.ID),
	}

	h.renderTemplate(w, "table_form.html", "table_form.html", data)
}

// UpdateTable applies changes to a table. The payload is partial: a blank
// or zero table number stays out of it entirely so the backend keeps the
// current one, while capacity and status always travel.
func (h *Handler) UpdateTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.UpdateTable")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.renderTablesPage(w, r, tablesPageState{Error: "Invalid table identifier."})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderTablesPage(w, r, tablesPageState{Error: "Could not read the submitted form."})
		return
	}

	capacity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("capacity")))
	if err != nil || capacity <= 0 {
		h.renderTablesPage(w, r, tablesPageState{Error: "Capacity must be a positive number."})
		return
	}

	status := strings.TrimSpace(r.FormValue("status"))
	if !validTableStatus(status) {
		h.renderTablesPage(w, r, tablesPageState{Error: "Please choose a valid table status."})
		return
	}

	tableNumber := 0
	if raw := strings.TrimSpace(r.FormValue("table_number")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.renderTablesPage(w, r, tablesPageState{Error: "Table number must be a positive number."})
			return
		}
		tableNumber = parsed
	}

	payload := tableUpdatePayload(tableNumber, capacity, status)

	_, err = h.tables.UpdateTable(r.Context(), id, payload)
	h.auditLogger.LogAction(r.Context(), session.Role, "update-table", strconv.FormatInt(id, 10), err)
	if err != nil {
		h.log().Error("table update failed", "error", err, "table_id", id)
		h.renderTablesPage(w, r, tablesPageState{Error: refineTableError(err, "Could not update the table right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, "/list-tables?updated=1")
}

// UpdateTableStatus handles the inline status transition on the table list.
func (h *Handler) UpdateTableStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.UpdateTableStatus")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.renderTablesPage(w, r, tablesPageState{Error: "Invalid table identifier."})
		return
	}

	status := strings.TrimSpace(r.FormValue("status"))
	if !validTableStatus(status) {
		h.renderTablesPage(w, r, tablesPageState{Error: "Please choose a valid table status."})
		return
	}

	_, err = h.tables.UpdateTable(r.Context(), id, map[string]interface{}{"status": status})
	h.auditLogger.LogAction(r.Context(), session.Role, "update-table-status", strconv.FormatInt(id, 10), err)
	if err != nil {
		h.log().Error("table status update failed", "error", err, "table_id", id)
		h.renderTablesPage(w, r, tablesPageState{Error: refineTableError(err, "Could not update the table status.")})
		return
	}

	aqm.RedirectOrHeader(w, r, "/list-tables?updated=1")
}

// DeleteTable removes a table. The backend refuses while active orders
// reference it.
func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.DeleteTable")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.renderTablesPage(w, r, tablesPageState{Error: "Invalid table identifier."})
		return
	}

	_, err = h.tables.DeleteTable(r.Context(), id)
	h.auditLogger.LogAction(r.Context(), session.Role, "delete-table", strconv.FormatInt(id, 10), err)
	if err != nil {
		h.log().Error("table delete failed", "error", err, "table_id", id)
		h.renderTablesPage(w, r, tablesPageState{Error: refineTableDeleteError(err)})
		return
	}

	aqm.RedirectOrHeader(w, r, "/list-tables?deleted=1")
}

// tableUpdatePayload builds the partial update body. A zero table number is
// omitted; capacity and status are always present.
func tableUpdatePayload(tableNumber, capacity int, status string) map[string]interface{} {
	payload := map[string]interface{}{
		"capacity": capacity,
		"status":   status,
	}
	if tableNumber > 0 {
		payload["table_number"] = tableNumber
	}
	return payload
}

// refineTableError maps backend failures onto user-facing messages. For
// 400s the backend's error string is matched by substring; the contract is
// fragile but it is the one the backend exposes.
func refineTableError(err error, fallback string) string {
	switch StatusOf(err) {
	case http.StatusNotFound:
		return "Table not found. It may have been deleted."
	case http.StatusBadRequest:
		msg := BackendMessage(err, "")
		switch {
		case strings.Contains(msg, "table_number"):
			return "Table number is invalid or already in use."
		case strings.Contains(msg, "capacity"):
			return "Capacity is invalid."
		case strings.Contains(msg, "status"):
			return "Table status is invalid."
		}
		if msg != "" {
			return msg
		}
	}
	return BackendMessage(err, fallback)
}

// refineTableDeleteError distinguishes the active-orders refusal from the
// rest.
func refineTableDeleteError(err error) string {
	switch StatusOf(err) {
	case http.StatusBadRequest:
		return "Cannot delete this table while it has active orders."
	case http.StatusNotFound:
		return "Table not found. It may have been deleted."
	}
	return BackendMessage(err, "Could not delete the table right now.")
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid identifier %q", raw)
	}
	return id, nil
}
