// internal/app/features/assignments/handler.go

// Package assignments exposes the assignment lifecycle over HTTP: create,
// update, and delete for trainers and admins, course and student listings,
// submission intake with rate limiting, and the grader views (submission
// pages, CSV export, stats). Handlers translate between the JSON surface
// and the lifecycle service; authorization decisions live in the service,
// audit events are emitted here where the request context is in hand.
package assignments

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/coursehub/internal/app/lifecycle"
	"github.com/dalemusser/coursehub/internal/app/system/auditlog"
	"github.com/dalemusser/coursehub/internal/app/system/authz"
	"github.com/dalemusser/coursehub/internal/app/system/ratelimit"
	"github.com/dalemusser/coursehub/internal/app/system/respond"
)

// Handler owns all assignment endpoints.
type Handler struct {
	Svc     *lifecycle.Service
	Audit   *auditlog.Logger
	Submits *ratelimit.SubmitLimiter
	Log     *zap.Logger
}

// NewHandler constructs an assignments Handler. audit may be nil; all
// audit calls are no-ops then.
func NewHandler(svc *lifecycle.Service, audit *auditlog.Logger, submits *ratelimit.SubmitLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:     svc,
		Audit:   audit,
		Submits: submits,
		Log:     logger,
	}
}

// actor pulls the session user out of the request context. Routes mount
// behind RequireSignedIn, so a miss here means the handler was reached
// without the session middleware; fail closed.
func actor(w http.ResponseWriter, r *http.Request) (role string, id primitive.ObjectID, ok bool) {
	role, _, id, ok = authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
	}
	return role, id, ok
}
