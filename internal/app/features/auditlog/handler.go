// internal/app/features/auditlog/handler.go

// Package auditlog exposes the audit trail to admins. Events are
// written by system/auditlog across the coursework features; this
// package only reads them.
package auditlog

import (
	"go.uber.org/zap"

	"github.com/dalemusser/coursehub/internal/app/store/audit"
)

type Handler struct {
	Store *audit.Store
	Log   *zap.Logger
}

// NewHandler constructs an audit log feature handler bound to the
// given audit store and logger.
func NewHandler(store *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Store: store,
		Log:   logger,
	}
}
