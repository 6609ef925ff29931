// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/coursehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log routes under the base path (typically
// "/api/audit" from bootstrap). Admin only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/events", h.ServeList)
	})

	return r
}
