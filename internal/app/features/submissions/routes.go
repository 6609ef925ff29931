// internal/app/features/submissions/routes.go
package submissions

import (
	"github.com/dalemusser/coursehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the submission routes under the base path (typically
// "/api/submissions" from bootstrap). Whether the actor may grade this
// particular submission is decided in the lifecycle service.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("trainer", "admin"))

		pr.Post("/{submissionID}/grade", h.HandleGrade)
	})

	return r
}
