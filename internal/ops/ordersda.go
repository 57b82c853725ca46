package ops

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const ordersPerPage = 10

// orderResource mirrors the order aggregate returned by the backend.
type orderResource struct {
	ID            int64  `json:"id"`
	TableID       int64  `json:"table_id"`
	WaiterID      int64  `json:"waiter_id"`
	Status        string `json:"status"`
	OrderType     string `json:"order_type"`
	PaymentStatus string `json:"payment_status"`
	CreatedAt     string `json:"created_at"`
}

// orderPage is one page of the paginated order list.
type orderPage struct {
	Orders     []orderResource `json:"orders"`
	TotalItems int             `json:"total_items"`
	TotalPages int             `json:"total_pages"`
}

// OrderItemInput is one line of a new order submitted from the cart.
type OrderItemInput struct {
	MenuItemID int64  `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
	Note       string `json:"note,omitempty"`
}

// CreateOrderRequest defines the payload accepted by POST /orders.
type CreateOrderRequest struct {
	TableID   int64            `json:"table_id"`
	WaiterID  int64            `json:"waiter_id"`
	Status    string           `json:"status,omitempty"`
	OrderType string           `json:"order_type,omitempty"`
	Items     []OrderItemInput `json:"order_items,omitempty"`
}

// OrderDataAccess centralizes decoding of order endpoints.
type OrderDataAccess struct {
	api *Backend
}

func NewOrderDataAccess(api *Backend) *OrderDataAccess {
	return &OrderDataAccess{api: api}
}

// ListOrders fetches one page of orders, optionally restricted to a status.
func (da *OrderDataAccess) ListOrders(ctx context.Context, status string, page int) (*orderPage, error) {
	if da == nil || da.api == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(ordersPerPage))
	if status != "" {
		query.Set("status", status)
	}

	var result orderPage
	if err := da.api.getJSON(ctx, "/orders", query, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ListUnpaidOrders fetches one page of orders that have no completed payment.
func (da *OrderDataAccess) ListUnpaidOrders(ctx context.Context, page int) (*orderPage, error) {
	if da == nil || da.api == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(ordersPerPage))
	}

	var result orderPage
	if err := da.api.getJSON(ctx, "/orders/unpaid", query, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ListTableOrders returns all orders for a table, unpaginated.
func (da *OrderDataAccess) ListTableOrders(ctx context.Context, tableID int64) ([]orderResource, error) {
	if da == nil || da.api == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	var result struct {
		Orders []orderResource `json:"orders"`
	}
	path := fmt.Sprintf("/orders/table/%d", tableID)
	if err := da.api.getJSON(ctx, path, nil, &result); err != nil {
		return nil, err
	}

	return result.Orders, nil
}

// ListWaiterOrders returns orders assigned to a waiter, optionally filtered
// by status.
func (da *OrderDataAccess) ListWaiterOrders(ctx context.Context, waiterID int64, status string) ([]orderResource, error) {
	if da == nil || da.api == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}

	var result struct {
		Orders []orderResource `json:"orders"`
	}
	path := fmt.Sprintf("/orders/waiter/%d", waiterID)
	if err := da.api.getJSON(ctx, path, query, &result); err != nil {
		return nil, err
	}

	return result.Orders, nil
}

func (da *OrderDataAccess) CreateOrder(ctx context.Context, payload CreateOrderRequest) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("order client not configured")
	}

	var result messageEnvelope
	if err := da.api.sendJSON(ctx, http.MethodPost, "/orders", payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *OrderDataAccess) UpdateOrderStatus(ctx context.Context, id int64, status string) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("order client not configured")
	}

	payload := map[string]interface{}{"status": status}
	var result messageEnvelope
	path := fmt.Sprintf("/orders/%d", id)
	if err := da.api.sendJSON(ctx, http.MethodPut, path, payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *OrderDataAccess) DeleteOrder(ctx context.Context, id int64) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("order client not configured")
	}

	var result messageEnvelope
	path := fmt.Sprintf("/orders/%d", id)
	if err := da.api.sendJSON(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}
