// internal/app/features/assignments/submit.go
package assignments

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/coursehub/internal/app/lifecycle"
	"github.com/dalemusser/coursehub/internal/app/system/limits"
	"github.com/dalemusser/coursehub/internal/app/system/respond"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/app/system/webutil"
)

// HandleSubmit records the signed-in learner's submission for an
// assignment. Attempts are rate limited per client IP and per student
// before any parsing or store work.
//
// Route: POST /api/assignments/{assignmentID}/submit
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	role, studentID, ok := actor(w, r)
	if !ok {
		return
	}

	assignmentID, err := webutil.PathID(r, "assignmentID", "assignment id")
	if err != nil {
		respond.Err(w, h.Log, err)
		return
	}

	if allowed, limitType, reason := h.Submits.Check(r, studentID.Hex()); !allowed {
		h.Audit.RateLimited(r.Context(), r, studentID, limitType)
		respond.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	var in lifecycle.SubmitInput
	if err := webutil.DecodeJSON(w, r, &in, limits.MaxSubmissionBodySize); err != nil {
		respond.Err(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sub, err := h.Svc.SubmitAssignment(ctx, assignmentID, in, studentID)
	if err != nil {
		h.auditDenied(ctx, r, studentID, role, "assignment_submit", err)
		respond.Err(w, h.Log, err)
		return
	}

	// Past-due submissions are rejected before the write, so a recorded
	// submission is never late at intake.
	courseID := primitive.NilObjectID
	if sub.CourseID != nil {
		courseID = *sub.CourseID
	}
	h.Audit.SubmissionCreated(ctx, r, studentID, assignmentID, courseID, false)
	respond.Created(w, sub)
}
