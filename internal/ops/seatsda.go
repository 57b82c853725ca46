package ops

import (
	"context"
	"fmt"
	"net/http"
)

// seatResource mirrors a seat as returned by the backend. OrderID is set
// while an occupied seat is linked to an active order.
type seatResource struct {
	ID         int64  `json:"id"`
	TableID    int64  `json:"table_id"`
	SeatNumber int    `json:"seat_number"`
	Status     string `json:"status"`
	OrderID    *int64 `json:"order_id"`
}

// SeatDataAccess centralizes decoding of the seat endpoints that operate on
// a single seat rather than a table.
type SeatDataAccess struct {
	api *Backend
}

func NewSeatDataAccess(api *Backend) *SeatDataAccess {
	return &SeatDataAccess{api: api}
}

func (da *SeatDataAccess) Create(ctx context.Context, tableID int64, seatNumber int, status string) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("seat client not configured")
	}

	payload := map[string]interface{}{
		"table_id":    tableID,
		"seat_number": seatNumber,
		"status":      status,
	}
	var result messageEnvelope
	if err := da.api.sendJSON(ctx, http.MethodPost, "/seats", payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *SeatDataAccess) UpdateStatus(ctx context.Context, id int64, status string) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("seat client not configured")
	}

	payload := map[string]interface{}{"status": status}
	var result messageEnvelope
	path := fmt.Sprintf("/seats/%d", id)
	if err := da.api.sendJSON(ctx, http.MethodPut, path, payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *SeatDataAccess) Delete(ctx context.Context, id int64) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("seat client not configured")
	}

	var result messageEnvelope
	path := fmt.Sprintf("/seats/%d", id)
	if err := da.api.sendJSON(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

// Free releases a seat. Freeing an already-available seat succeeds on the
// backend, so callers never need to special-case a double free.
func (da *SeatDataAccess) Free(ctx context.Context, id int64) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("seat client not configured")
	}

	var result messageEnvelope
	path := fmt.Sprintf("/seats/%d/free", id)
	if err := da.api.sendJSON(ctx, http.MethodPost, path, nil, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *SeatDataAccess) AssignOrder(ctx context.Context, id, orderID int64) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("seat client not configured")
	}

	payload := map[string]interface{}{"order_id": orderID}
	var result messageEnvelope
	path := fmt.Sprintf("/seats/%d/assign_order", id)
	if err := da.api.sendJSON(ctx, http.MethodPost, path, payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}
