package ops

import (
	"context"
	"time"

	"github.com/aquamarinepk/aqm"
)

// AuditEntry records a mutating console action for operational
// transparency.
type AuditEntry struct {
	Role      string    `json:"role"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// AuditLogger handles logging of user actions.
type AuditLogger struct {
	logger aqm.Logger
}

func NewAuditLogger(logger aqm.Logger) *AuditLogger {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &AuditLogger{logger: logger}
}

// Log records an audit entry.
func (a *AuditLogger) Log(ctx context.Context, entry AuditEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	a.logger.Info("audit",
		"role", entry.Role,
		"action", entry.Action,
		"target", entry.Target,
		"success", entry.Success,
		"timestamp", entry.Timestamp.Format(time.RFC3339),
		"error", entry.Error,
	)
}

// LogAction records the outcome of a mutating backend call.
func (a *AuditLogger) LogAction(ctx context.Context, role, action, target string, err error) {
	entry := AuditEntry{
		Role:    role,
		Action:  action,
		Target:  target,
		Success: err == nil,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	a.Log(ctx, entry)
}

// LogSignIn records a sign-in attempt.
func (a *AuditLogger) LogSignIn(ctx context.Context, role string, success bool) {
	a.Log(ctx, AuditEntry{
		Role:    role,
		Action:  "sign-in",
		Target:  "auth",
		Success: success,
	})
}
