package ops

import (
	"net/http"
	"strings"

	"github.com/aquamarinepk/aqm"
)

type settingsPageState struct {
	Error   string
	Success string
}

// Settings renders role password management. Stored passwords are shown as
// set/unset, never in clear.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.Settings")
	defer finish()

	if _, ok := h.requireRole(w, r, RoleAdmin); !ok {
		return
	}

	state := settingsPageState{}
	query := r.URL.Query()
	if query.Get("updated") == "1" {
		state.Success = "Password updated successfully."
	} else if query.Get("deleted") == "1" {
		state.Success = "Password removed successfully."
	}

	h.renderSettingsPage(w, r, state)
}

func (h *Handler) renderSettingsPage(w http.ResponseWriter, r *http.Request, state settingsPageState) {
	passwords, err := h.settings.Passwords(r.Context())
	if err != nil {
		h.log().Error("cannot load role passwords", "error", err)
		if state.Error == "" {
			state.Error = "Could not load settings right now."
		}
		passwords = &RolePasswords{}
	}

	roleStates := make(map[string]bool, len(consoleRoles))
	for _, role := range consoleRoles {
		_, set := passwords.ForRole(role)
		roleStates[role] = set
	}

	data := map[string]interface{}{
		"Title":    "Settings",
		"Template": "settings",
		"Roles":    consoleRoles,
		"RoleSet":  roleStates,
		"Error":    state.Error,
		"Success":  state.Success,
	}

	h.renderTemplate(w, "settings.html", "base.html", data)
}

// UpdateRolePassword sets a role's sign-in password after a confirmation
// match.
func (h *Handler) UpdateRolePassword(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.UpdateRolePassword")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	role := strings.TrimSpace(r.FormValue("role"))
	if !validRole(role) {
		h.renderSettingsPage(w, r, settingsPageState{Error: "Please choose a valid role."})
		return
	}

	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")
	if password == "" {
		h.renderSettingsPage(w, r, settingsPageState{Error: "Password is required."})
		return
	}
	if password != confirm {
		h.renderSettingsPage(w, r, settingsPageState{Error: "Passwords do not match."})
		return
	}

	_, err := h.settings.UpdatePassword(r.Context(), role, password)
	h.auditLogger.LogAction(r.Context(), session.Role, "update-role-password", role, err)
	if err != nil {
		h.log().Error("role password update failed", "error", err, "role", role)
		h.renderSettingsPage(w, r, settingsPageState{Error: BackendMessage(err, "Could not update the password right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, "/settings?updated=1")
}

// DeleteRolePassword removes a role's sign-in password, locking that role
// out until a new one is set.
func (h *Handler) DeleteRolePassword(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.DeleteRolePassword")
	defer finish()

	session, ok := h.requireRole(w, r, RoleAdmin)
	if !ok {
		return
	}

	role := strings.TrimSpace(r.FormValue("role"))
	if !validRole(role) {
		h.renderSettingsPage(w, r, settingsPageState{Error: "Please choose a valid role."})
		return
	}

	_, err := h.settings.DeletePassword(r.Context(), role)
	h.auditLogger.LogAction(r.Context(), session.Role, "delete-role-password", role, err)
	if err != nil {
		h.log().Error("role password delete failed", "error", err, "role", role)
		h.renderSettingsPage(w, r, settingsPageState{Error: BackendMessage(err, "Could not remove the password right now.")})
		return
	}

	aqm.RedirectOrHeader(w, r, "/settings?deleted=1")
}
