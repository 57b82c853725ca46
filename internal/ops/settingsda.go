package ops

import (
	"context"
	"fmt"
	"net/http"
)

// RolePasswords holds the sign-in password for each console role. A missing
// password means the role cannot sign in until one is set.
type RolePasswords struct {
	Admin   string `json:"admin"`
	Chef    string `json:"chef"`
	Cashier string `json:"cashier"`
	Waiter  string `json:"waiter"`
}

// ForRole returns the stored password for a role name.
func (p RolePasswords) ForRole(role string) (string, bool) {
	switch role {
	case RoleAdmin:
		return p.Admin, p.Admin != ""
	case RoleChef:
		return p.Chef, p.Chef != ""
	case RoleCashier:
		return p.Cashier, p.Cashier != ""
	case RoleWaiter:
		return p.Waiter, p.Waiter != ""
	}
	return "", false
}

// SettingsDataAccess centralizes decoding of the settings endpoints.
type SettingsDataAccess struct {
	api *Backend
}

func NewSettingsDataAccess(api *Backend) *SettingsDataAccess {
	return &SettingsDataAccess{api: api}
}

func (da *SettingsDataAccess) Passwords(ctx context.Context) (*RolePasswords, error) {
	if da == nil || da.api == nil {
		return nil, fmt.Errorf("settings client not configured")
	}

	var result RolePasswords
	if err := da.api.getJSON(ctx, "/settings/passwords", nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (da *SettingsDataAccess) UpdatePassword(ctx context.Context, role, password string) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("settings client not configured")
	}

	payload := map[string]interface{}{
		"role":     role,
		"password": password,
	}
	var result messageEnvelope
	if err := da.api.sendJSON(ctx, http.MethodPut, "/settings/passwords", payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (da *SettingsDataAccess) DeletePassword(ctx context.Context, role string) (string, error) {
	if da == nil || da.api == nil {
		return "", fmt.Errorf("settings client not configured")
	}

	payload := map[string]interface{}{"role": role}
	var result messageEnvelope
	if err := da.api.sendJSON(ctx, http.MethodDelete, "/settings/passwords", payload, &result); err != nil {
		return "", err
	}

	return result.Message, nil
}
