package ops

import (
	"context"
	"fmt"
	"net/http"
)

// tableResource mirrors a dining table as returned by the backend.
type tableResource struct {
	ID          int64  `json:"id"`
	TableNumber int    `json:"table_number"`
	Capacity    int    `json:"capacity"`
	Status      string `json:"status"`
}

// TableDataAccess centralizes decoding of table endpoints, including the
// seat operations scoped under a table.
type TableDataAccess struct {
	api *Backend
}

func NewTableDataAccess(api *Backend) *TableDataAccess {
	return &TableDataAccess{api: api}
}

func (da *TableDataAccess) ListTables(ctx context.Context) ([]tableResource, error) {
	if da == nil || da.api == nil {
		return nil, fmt.Errorf("table client not configured")
	}

	var result struct {
		Tables []tableResource `json:"tables"`
		Total  int             `json:"total"`
	}
	if err := da.api.getJSON(ctx, "/tables", nil, &result); err != nil {
		return nil, err
	}

	return result.Tables, nil
}

func (da *TableDataAccess) CreateTable(ctx context.Context, tableNumber, capacity int, status string) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("table client not configured")
	}

	payload := map[string]interface{}{
		"table_number": tableNumber,
		"capacity":     capacity,
		"status":       status,
	}
	var result messageEnvelope
	if err := da.api.sendJSON(ctx, http.MethodPost, "/tables", payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

// UpdateTable sends a partial update. Callers build the payload so that a
// zero table_number is omitted entirely; capacity and status always travel.
func (da *TableDataAccess) UpdateTable(ctx context.Context, id int64, payload map[string]interface{}) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("table client not configured")
	}

	var result messageEnvelope
	path := fmt.Sprintf("/tables/%d", id)
	if err := da.api.sendJSON(ctx, http.MethodPut, path, payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *TableDataAccess) DeleteTable(ctx context.Context, id int64) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("table client not configured")
	}

	var result messageEnvelope
	path := fmt.Sprintf("/tables/%d", id)
	if err := da.api.sendJSON(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *TableDataAccess) ListSeats(ctx context.Context, tableID int64) ([]seatResource, error) {
	if da == nil || da.api == nil {
		return nil, fmt.Errorf("table client not configured")
	}

	var result struct {
		Seats []seatResource `json:"seats"`
		Total int            `json:"total"`
	}
	path := fmt.Sprintf("/tables/%d/seats", tableID)
	if err := da.api.getJSON(ctx, path, nil, &result); err != nil {
		return nil, err
	}

	return result.Seats, nil
}

// AssignSeats asks the backend to occupy seats for a party; seat selection
// is the backend's job, only the head count travels.
func (da *TableDataAccess) AssignSeats(ctx context.Context, tableID int64, requiredSeats int) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("table client not configured")
	}

	payload := map[string]interface{}{"required_seats": requiredSeats}
	var result messageEnvelope
	path := fmt.Sprintf("/tables/%d/assign_seats", tableID)
	if err := da.api.sendJSON(ctx, http.MethodPost, path, payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *TableDataAccess) FreeSeats(ctx context.Context, tableID int64) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("table client not configured")
	}

	var result messageEnvelope
	path := fmt.Sprintf("/tables/%d/free_seats", tableID)
	if err := da.api.sendJSON(ctx, http.MethodPost, path, nil, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}
