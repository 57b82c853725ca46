package ops

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// categoryResource mirrors a menu category.
type categoryResource struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// menuItemResource mirrors a menu item. Available is 1 or 0.
type menuItemResource struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	CategoryID  int64   `json:"category_id"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Available   int     `json:"available"`
	ImageURL    string  `json:"image_url"`
}

// MenuItemForm carries the multipart fields for create and update. Image is
// optional; when nil the backend keeps the existing one.
type MenuItemForm struct {
	Name        string
	CategoryID  int64
	Price       float64
	Description string
	Available   bool
	ImageURL    string
	Image       *FormFile
}

func (f MenuItemForm) fields() map[string]string {
	available := "0"
	if f.Available {
		available = "1"
	}
	fields := map[string]string{
		"name":        f.Name,
		"category_id": strconv.FormatInt(f.CategoryID, 10),
		"price":       strconv.FormatFloat(f.Price, 'f', 2, 64),
		"description": f.Description,
		"available":   available,
	}
	if f.ImageURL != "" {
		fields["image_url"] = f.ImageURL
	}
	return fields
}

// MenuDataAccess centralizes decoding of category and menu item endpoints.
type MenuDataAccess struct {
	api *Backend
}

func NewMenuDataAccess(api *Backend) *MenuDataAccess {
	return &MenuDataAccess{api: api}
}

func (da *MenuDataAccess) ListCategories(ctx context.Context) ([]categoryResource, error) {
	if da == nil || da.api == nil {
		return nil, fmt.Errorf("menu client not configured")
	}

	var result struct {
		Categories []categoryResource `json:"categories"`
		Total      int                `json:"total"`
	}
	if err := da.api.getJSON(ctx, "/categories", nil, &result); err != nil {
		return nil, err
	}

	return result.Categories, nil
}

func (da *MenuDataAccess) CreateCategory(ctx context.Context, name string) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("menu client not configured")
	}

	payload := map[string]interface{}{"name": name}
	var result messageEnvelope
	if err := da.api.sendJSON(ctx, http.MethodPost, "/categories", payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *MenuDataAccess) UpdateCategory(ctx context.Context, id int64, name string) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("menu client not configured")
	}

	payload := map[string]interface{}{"name": name}
	var result messageEnvelope
	path := fmt.Sprintf("/categories/%d", id)
	if err := da.api.sendJSON(ctx, http.MethodPut, path, payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *MenuDataAccess) DeleteCategory(ctx context.Context, id int64) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("menu client not configured")
	}

	var result messageEnvelope
	path := fmt.Sprintf("/categories/%d", id)
	if err := da.api.sendJSON(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

// ListMenuItems returns menu items, optionally restricted to a category.
func (da *MenuDataAccess) ListMenuItems(ctx context.Context, categoryID int64) ([]menuItemResource, error) {
	if da == nil || da.api == nil {
		return nil, fmt.Errorf("menu client not configured")
	}

	query := url.Values{}
	if categoryID > 0 {
		query.Set("category_id", strconv.FormatInt(categoryID, 10))
	}

	var result struct {
		MenuItems []menuItemResource `json:"menu_items"`
	}
	if err := da.api.getJSON(ctx, "/menu_items", query, &result); err != nil {
		return nil, err
	}

	return result.MenuItems, nil
}

func (da *MenuDataAccess) CreateMenuItem(ctx context.Context, form MenuItemForm) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("menu client not configured")
	}

	var result messageEnvelope
	if err := da.api.sendMultipart(ctx, http.MethodPost, "/menu_items", form.fields(), form.Image, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *MenuDataAccess) UpdateMenuItem(ctx context.Context, id int64, form MenuItemForm) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("menu client not configured")
	}

	var result messageEnvelope
	path := fmt.Sprintf("/menu_items/%d", id)
	if err := da.api.sendMultipart(ctx, http.MethodPut, path, form.fields(), form.Image, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *MenuDataAccess) SetAvailability(ctx context.Context, id int64, available bool) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("menu client not configured")
	}

	value := 0
	if available {
		value = 1
	}
	payload := map[string]interface{}{"available": value}
	var result messageEnvelope
	path := fmt.Sprintf("/menu_items/%d/availability", id)
	if err := da.api.sendJSON(ctx, http.MethodPut, path, payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *MenuDataAccess) DeleteMenuItem(ctx context.Context, id int64) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("menu client not configured")
	}

	var result messageEnvelope
	path := fmt.Sprintf("/menu_items/%d", id)
	if err := da.api.sendJSON(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

// menuMatch reports whether a menu item name matches a picker search query,
// case-insensitive substring.
func menuMatch(name, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}
