package ops

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
)

type seatsPageState struct {
	Error   string
	Success string
}

// Seats renders the seat management view for one table.
func (h *Handler) Seats(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Seats")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin); !ok {
		return
	}

	tableID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/list-tables", http.StatusSeeOther)
		return
	}

	state := seatsPageState{}
	query := r.URL.Query()
	if query.Get("created") == "1" {
		state.Success = "Seat added successfully."
	} else if query.Get("updated") == "1" {
		state.Success = "Seat updated successfully."
	} else if query.Get("deleted") == "1" {
		state.Success = "Seat deleted successfully."
	} else if query.Get("freed") == "1" {
		state.Success = "Seat freed successfully."
	} else if query.Get("assigned") == "1" {
		state.Success = "Seats assigned successfully."
	}

	h.renderSeatsPage(w, r, tableID, state)
}

func (h *Handler) renderSeatsPage(w http.ResponseWriter, r *http.Request, tableID int64, state seatsPageState) {
	seats, err := h.tables.ListSeats(r.Context(), tableID)
	if err != nil {
		h.log().Error("cannot load seats", "error", err, "table_id", tableID)
		if state.Error == "" {
			state.Error = "Could not load seats right now."
		}
	}

	orders, err := h.orders.ListTableOrders(r.Context(), tableID)
	if err != nil {
		h.log().Debug("cannot load table orders for seat assignment", "error", err, "table_id", tableID)
	}
	var active []orderResource
	for _, order := range orders {
		if activeOrder(order.Status) {
			active = append(active, order)
		}
	}

	data := map[string]interface{}{
		"Title":        fmt.Sprintf("Seats for table %d", tableID),
		"Template":     "seats",
		"TableID":      tableID,
		"Seats":        seats,
		"ActiveOrders": active,
		"Statuses":     []string{SeatStatusAvailable, SeatStatusOccupied},
		"Error":        state.Error,
		"Success":      state.Success,
	}

	h.renderTemplate(w, "seats.html", "base.html", data)
}

func seatsURL(tableID int64, flag string) string {
	if flag == "" {
		return fmt.Sprintf("/tables/%d/seats", tableID)
	}
	return fmt.Sprintf("/tables/%d/seats?%s=1", tableID, flag)
}

// CreateSeat adds one seat to a table.
func (h *Handler) CreateSeat(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.CreateSeat")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	tableID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/list-tables", http.StatusSeeOther)
		return
	}

	seatNumber, err := strconv.Atoi(strings.TrimSpace(r.FormValue("seat_number")))
	if err != nil || seatNumber <= 0 {
		h.renderSeatsPage(w, r, tableID, seatsPageState{Error: "Seat number must be a positive number."})
		return
	}

	status := strings.TrimSpace(r.FormValue("status"))
	if status == "" {
		status = SeatStatusAvailable
	}
	if !validSeatStatus(status) {
		h.renderSeatsPage(w, r, tableID, seatsPageState{Error: "Please choose a valid seat status."})
		return
	}

	_, err = h.seats.Create(r.Context(), tableID, seatNumber, status)
	h.auditLogger.LogAction(r.Context(), session.Role, "create-seat", strconv.Itoa(seatNumber), err)
	if err != nil {
		h.log().Error("seat create failed", "error", err, "table_id", tableID)
		h.renderSeatsPage(w, r, tableID, seatsPageState{Error: refineSeatError(err, "Could not add the seat right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, seatsURL(tableID, "created"))
}

// UpdateSeatStatus transitions one seat between available and occupied.
func (h *Handler) UpdateSeatStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.UpdateSeatStatus")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	seatID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/list-tables", http.StatusSeeOther)
		return
	}

	tableID, err := parseID(r.FormValue("table_id"))
	if err != nil {
		http.Redirect(w, r, "/list-tables", http.StatusSeeOther)
		return
	}

	status := strings.TrimSpace(r.FormValue("status"))
	if !validSeatStatus(status) {
		h.renderSeatsPage(w, r, tableID, seatsPageState{Error: "Please choose a valid seat status."})
		return
	}

	_, err = h.seats.UpdateStatus(r.Context(), seatID, status)
	h.auditLogger.LogAction(r.Context(), session.Role, "update-seat-status", strconv.FormatInt(seatID, 10), err)
	if err != nil {
		h.log().Error("seat status update failed", "error", err, "seat_id", seatID)
		h.renderSeatsPage(w, r, tableID, seatsPageState{Error: refineSeatError(err, "Could not update the seat right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, seatsURL(tableID, "updated"))
}

// DeleteSeat removes one seat.
func (h *Handler) DeleteSeat(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.DeleteSeat")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	seatID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/list-tables", http.StatusSeeOther)
		return
	}

	tableID, err := parseID(r.FormValue("table_id"))
	if err != nil {
		http.Redirect(w, r, "/list-tables", http.StatusSeeOther)
		return
	}

	_, err = h.seats.Delete(r.Context(), seatID)
	h.auditLogger.LogAction(r.Context(), session.Role, "delete-seat", strconv.FormatInt(seatID, 10), err)
	if err != nil {
		h.log().Error("seat delete failed", "error", err, "seat_id", seatID)
		h.renderSeatsPage(w, r, tableID, seatsPageState{Error: refineSeatError(err, "Could not delete the seat right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, seatsURL(tableID, "deleted"))
}

// FreeSeat releases a single seat. Freeing an already-free seat is a no-op
// on the backend, so no special handling is needed.
func (h *Handler) FreeSeat(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.FreeSeat")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	seatID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/list-tables", http.StatusSeeOther)
		return
	}

	tableID, err := parseID(r.FormValue("table_id"))
	if err != nil {
		http.Redirect(w, r, "/list-tables", http.StatusSeeOther)
		return
	}

	_, err = h.seats.Free(r.Context(), seatID)
	h.auditLogger.LogAction(r.Context(), session.Role, "free-seat", strconv.FormatInt(seatID, 10), err)
	if err != nil {
		h.log().Error("seat free failed", "error", err, "seat_id", seatID)
		h.renderSeatsPage(w, r, tableID, seatsPageState{Error: refineSeatError(err, "Could not free the seat right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, seatsURL(tableID, "freed"))
}

// FreeSeats releases every seat of a table.
func (h *Handler) FreeSeats(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.FreeSeats")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	tableID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/list-tables", http.StatusSeeOther)
		return
	}

	_, err = h.tables.FreeSeats(r.Context(), tableID)
	h.auditLogger.LogAction(r.Context(), session.Role, "free-table-seats", strconv.FormatInt(tableID, 10), err)
	if err != nil {
		h.log().Error("free seats failed", "error", err, "table_id", tableID)
		h.renderSeatsPage(w, r, tableID, seatsPageState{Error: refineSeatError(err, "Could not free the seats right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, seatsURL(tableID, "freed"))
}

// AssignSeats occupies seats for a party; only the head count is sent and
// the backend picks the seats.
func (h *Handler) AssignSeats(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.AssignSeats")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	tableID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/list-tables", http.StatusSeeOther)
		return
	}

	required, err := strconv.Atoi(strings.TrimSpace(r.FormValue("required_seats")))
	if err != nil || required <= 0 {
		h.renderSeatsPage(w, r, tableID, seatsPageState{Error: "Party size must be a positive number."})
		return
	}

	_, err = h.tables.AssignSeats(r.Context(), tableID, required)
	h.auditLogger.LogAction(r.Context(), session.Role, "assign-seats", strconv.FormatInt(tableID, 10), err)
	if err != nil {
		h.log().Error("assign seats failed", "error", err, "table_id", tableID)
		h.renderSeatsPage(w, r, tableID, seatsPageState{Error: refineSeatError(err, "Could not assign seats right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, seatsURL(tableID, "assigned"))
}

// AssignOrderToSeat links an occupied seat to one of the table's active
// orders.
func (h *Handler) AssignOrderToSeat(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.AssignOrderToSeat")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	seatID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/list-tables", http.StatusSeeOther)
		return
	}

	tableID, err := parseID(r.FormValue("table_id"))
	if err != nil {
		http.Redirect(w, r, "/list-tables", http.StatusSeeOther)
		return
	}

	orderID, err := parseID(r.FormValue("order_id"))
	if err != nil {
		h.renderSeatsPage(w, r, tableID, seatsPageState{Error: "Please choose an order to assign."})
		return
	}

	_, err = h.seats.AssignOrder(r.Context(), seatID, orderID)
	h.auditLogger.LogAction(r.Context(), session.Role, "assign-order-to-seat", strconv.FormatInt(seatID, 10), err)
	if err != nil {
		h.log().Error("assign order to seat failed", "error", err, "seat_id", seatID, "order_id", orderID)
		h.renderSeatsPage(w, r, tableID, seatsPageState{Error: refineSeatError(err, "Could not assign the order right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, seatsURL(tableID, "assigned"))
}

// refineSeatError maps seat failures onto user-facing messages, matching
// the backend's 400 error strings by substring.
func refineSeatError(err error, fallback string) string {
	switch StatusOf(err) {
	case http.StatusNotFound:
		return "Seat not found. It may have been removed."
	case http.StatusBadRequest:
		msg := BackendMessage(err, "")
		switch {
		case strings.Contains(msg, "seat_number"):
			return "Seat number is invalid or already in use."
		case strings.Contains(msg, "status"):
			return "Seat status is invalid."
		case strings.Contains(msg, "not enough"):
			return "Not enough free seats for that party size."
		}
		if msg != "" {
			return msg
		}
	}
	return BackendMessage(err, fallback)
}
