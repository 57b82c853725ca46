package ops

import (
	"context"
	"fmt"
	"math"
	"net/http"
)

// orderItemResource represents a single line of an order, joined with the
// menu item's name and current price.
type orderItemResource struct {
	ID            int64   `json:"id"`
	OrderID       int64   `json:"order_id"`
	MenuItemID    int64   `json:"menu_item_id"`
	MenuItemName  string  `json:"menu_item_name"`
	MenuItemPrice float64 `json:"menu_item_price"`
	Quantity      int     `json:"quantity"`
	Note          string  `json:"note"`
}

// OrderItemDataAccess centralizes decoding of order item endpoints.
type OrderItemDataAccess struct {
	api *Backend
}

func NewOrderItemDataAccess(api *Backend) *OrderItemDataAccess {
	return &OrderItemDataAccess{api: api}
}

func (da *OrderItemDataAccess) ListByOrder(ctx context.Context, orderID int64) ([]orderItemResource, error) {
	if da == nil || da.api == nil {
		return nil, fmt.Errorf("order item client not configured")
	}

	var result struct {
		OrderItems []orderItemResource `json:"order_items"`
	}
	path := fmt.Sprintf("/order_items/order/%d", orderID)
	if err := da.api.getJSON(ctx, path, nil, &result); err != nil {
		return nil, err
	}

	return result.OrderItems, nil
}

func (da *OrderItemDataAccess) Create(ctx context.Context, orderID, menuItemID int64, quantity int, note string) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("order item client not configured")
	}

	payload := map[string]interface{}{
		"order_id":     orderID,
		"menu_item_id": menuItemID,
		"quantity":     quantity,
		"note":         note,
	}
	var result messageEnvelope
	if err := da.api.sendJSON(ctx, http.MethodPost, "/order_items", payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *OrderItemDataAccess) Update(ctx context.Context, id, menuItemID int64, quantity int, note string) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("order item client not configured")
	}

	payload := map[string]interface{}{
		"menu_item_id": menuItemID,
		"quantity":     quantity,
		"note":         note,
	}
	var result messageEnvelope
	path := fmt.Sprintf("/order_items/%d", id)
	if err := da.api.sendJSON(ctx, http.MethodPut, path, payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *OrderItemDataAccess) Delete(ctx context.Context, id int64) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("order item client not configured")
	}

	var result messageEnvelope
	path := fmt.Sprintf("/order_items/%d", id)
	if err := da.api.sendJSON(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

// orderTotal sums price times quantity across items, rounded to cents.
func orderTotal(items []orderItemResource) float64 {
	var total float64
	for _, item := range items {
		total += item.MenuItemPrice * float64(item.Quantity)
	}
	return roundCents(total)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
