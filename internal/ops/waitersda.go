package ops

import (
	"context"
	"fmt"
	"net/http"
)

// waiterResource mirrors a waiter account.
type waiterResource struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DeviceToken string `json:"device_token"`
}

// WaiterDataAccess centralizes decoding of waiter endpoints.
type WaiterDataAccess struct {
	api *Backend
}

func NewWaiterDataAccess(api *Backend) *WaiterDataAccess {
	return &WaiterDataAccess{api: api}
}

func (da *WaiterDataAccess) ListWaiters(ctx context.Context) ([]waiterResource, error) {
	if da == nil || da.api == nil {
		return nil, fmt.Errorf("waiter client not configured")
	}

	var result struct {
		Waiters []waiterResource `json:"waiters"`
		Total   int              `json:"total"`
	}
	if err := da.api.getJSON(ctx, "/waiters", nil, &result); err != nil {
		return nil, err
	}

	return result.Waiters, nil
}

func (da *WaiterDataAccess) CreateWaiter(ctx context.Context, name, deviceToken string) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("waiter client not configured")
	}

	payload := map[string]interface{}{"name": name}
	if deviceToken != "" {
		payload["device_token"] = deviceToken
	}
	var result messageEnvelope
	if err := da.api.sendJSON(ctx, http.MethodPost, "/waiters", payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *WaiterDataAccess) UpdateWaiter(ctx context.Context, id int64, name, deviceToken string) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("waiter client not configured")
	}

	payload := map[string]interface{}{"name": name}
	if deviceToken != "" {
		payload["device_token"] = deviceToken
	}
	var result messageEnvelope
	path := fmt.Sprintf("/waiters/%d", id)
	if err := da.api.sendJSON(ctx, http.MethodPut, path, payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *WaiterDataAccess) DeleteWaiter(ctx context.Context, id int64) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("waiter client not configured")
	}

	var result messageEnvelope
	path := fmt.Sprintf("/waiters/%d", id)
	if err := da.api.sendJSON(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}
