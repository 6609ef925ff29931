// internal/app/features/assignments/routes.go
package assignments

import (
	"net/http"

	"github.com/dalemusser/coursehub/internal/app/policy/assignmentpolicy"
	"github.com/dalemusser/coursehub/internal/app/system/auth"
	"github.com/dalemusser/coursehub/internal/app/system/authz"
	"github.com/dalemusser/coursehub/internal/app/system/respond"
	"github.com/go-chi/chi/v5"
)

// requireView gates the shared read routes on the view policy. Accounts
// provisioned with a role this engine does not recognize stop here.
func requireView(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _, id, ok := authz.UserCtx(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !assignmentpolicy.CanView(assignmentpolicy.Actor{ID: id, Role: role}) {
			respond.Error(w, http.StatusForbidden, "Your role does not permit viewing assignments")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Routes mounts all assignment routes under the base path (typically
// "/api/assignments" from bootstrap). Role middleware does the coarse
// gate; per-record checks (who instructs the course, who created the
// assignment) happen in the lifecycle service.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Management and grader views
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("trainer", "admin"))

		pr.Post("/", h.HandleCreate)
		pr.Put("/{assignmentID}", h.HandleUpdate)
		pr.Delete("/{assignmentID}", h.HandleDelete)

		pr.Get("/{assignmentID}/submissions", h.ServeSubmissions)
		pr.Get("/{assignmentID}/submissions/export.csv", h.ServeExportCSV)
		pr.Get("/{assignmentID}/stats", h.ServeStats)
	})

	// Learner surface
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("learner"))

		pr.Get("/student/my-assignments", h.ServeMyAssignments)
		pr.Get("/student/upcoming", h.ServeUpcoming)
		pr.Post("/{assignmentID}/submit", h.HandleSubmit)
	})

	// Any signed-in user with a recognized role
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(requireView)

		pr.Get("/{assignmentID}", h.ServeAssignment)
		pr.Get("/course/{courseID}", h.ServeCourseList)
	})

	return r
}
