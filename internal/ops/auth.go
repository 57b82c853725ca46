package ops

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ShowSignIn displays the role sign-in page. The waiter role additionally
// needs a waiter identity, so the form carries the current waiter list.
func (h *Handler) ShowSignIn(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.ShowSignIn")
	defer finish()

	waiters, err := h.waiters.ListWaiters(r.Context())
	if err != nil {
		h.log().Debug("failed to load waiters for sign-in", "error", err)
	}

	data := map[string]interface{}{
		"Title":    "Sign In",
		"Template": "signin",
		"HideNav":  true,
		"Roles":    consoleRoles,
		"Waiters":  waiters,
	}

	h.renderTemplate(w, "signin.html", "base.html", data)
}

// HandleSignIn validates role + password against the backend's stored role
// passwords and opens a session.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.HandleSignIn")
	defer finish()

	renderError := func(message string) {
		waiters, _ := h.waiters.ListWaiters(r.Context())
		data := map[string]interface{}{
			"Title":    "Sign In",
			"Template": "signin",
			"HideNav":  true,
			"Roles":    consoleRoles,
			"Waiters":  waiters,
			"Error":    message,
		}
		h.renderTemplate(w, "signin.html", "base.html", data)
	}

	if err := r.ParseForm(); err != nil {
		h.log().Debug("failed to parse form", "error", err)
		renderError("Failed to parse form. Please try again.")
		return
	}

	role := r.FormValue("role")
	password := r.FormValue("password")

	if !validRole(role) {
		renderError("Please choose a valid role.")
		return
	}
	if password == "" {
		renderError("Password is required.")
		return
	}

	passwords, err := h.settings.Passwords(r.Context())
	if err != nil {
		h.log().Debug("failed to fetch role passwords", "error", err)
		renderError("Sign-in service unavailable. Please try again later.")
		return
	}

	expected, ok := passwords.ForRole(role)
	if !ok || expected != password {
		h.auditLogger.LogSignIn(r.Context(), role, false)
		renderError("Invalid password for this role.")
		return
	}

	session := &Session{
		ID:        uuid.New().String(),
		Role:      role,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(h.sessionStore.ttl),
	}

	if role == RoleWaiter {
		waiterID, err := strconv.ParseInt(r.FormValue("waiter_id"), 10, 64)
		if err != nil || waiterID <= 0 {
			renderError("Please choose your waiter profile.")
			return
		}
		session.WaiterID = waiterID
		session.WaiterName = h.waiterName(r.Context(), waiterID)
	}

	if err := h.sessionStore.Save(session); err != nil {
		h.log().Error("failed to save session", "error", err)
		renderError("Session error. Please try again.")
		return
	}

	h.auditLogger.LogSignIn(r.Context(), role, true)

	sessionName := h.sessionCookieName()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessionStore.ttl.Seconds()),
	})

	w.Header().Set("HX-Redirect", "/")
	w.WriteHeader(http.StatusOK)
}

// HandleSignOut closes the session and disarms any waiter watcher tied to
// it.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.http.Start(w, r, "Handler.HandleSignOut")
	defer finish()

	sessionName := h.sessionCookieName()
	cookie, err := r.Cookie(sessionName)
	if err == nil && cookie.Value != "" {
		if session, err := h.sessionStore.Get(cookie.Value); err == nil {
			if session.Role == RoleWaiter && h.watchHub != nil {
				h.watchHub.DisarmWaiterWatch(session.WaiterID)
			}
		}
		h.sessionStore.Delete(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	w.Header().Set("HX-Redirect", "/signin")
	w.WriteHeader(http.StatusOK)
}

// SessionMiddleware validates the session cookie for protected routes.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.sessionCookieName())
		if err != nil {
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}

		session, err := h.sessionStore.Get(cookie.Value)
		if err != nil {
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type contextKey string

const sessionContextKey contextKey = "session"

func (h *Handler) sessionCookieName() string {
	name, _ := h.config.GetString("auth.session.name")
	if name == "" {
		name = "restops_session"
	}
	return name
}

func (h *Handler) sessionFromRequest(r *http.Request) *Session {
	session, ok := r.Context().Value(sessionContextKey).(*Session)
	if !ok {
		return nil
	}
	return session
}

// requireRole enforces role access on a view. It writes the forbidden
// response itself and reports whether the caller may proceed.
func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, roles ...string) (*Session, bool) {
	session := h.sessionFromRequest(r)
	if session == nil {
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return nil, false
	}

	for _, role := range roles {
		if session.Role == role {
			return session, true
		}
	}

	http.Error(w, "Forbidden", http.StatusForbidden)
	return nil, false
}

func (h *Handler) waiterName(ctx context.Context, waiterID int64) string {
	waiters, err := h.waiters.ListWaiters(ctx)
	if err != nil {
		return ""
	}
	for _, waiter := range waiters {
		if waiter.ID == waiterID {
			return waiter.Name
		}
	}
	return ""
}
