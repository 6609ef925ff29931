// internal/app/features/submissions/handler.go

// Package submissions exposes grading over HTTP. Submissions are created
// through the assignments feature (a learner submits to an assignment);
// this package covers what happens to them afterwards.
package submissions

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/coursehub/internal/app/lifecycle"
	"github.com/dalemusser/coursehub/internal/app/system/auditlog"
	"github.com/dalemusser/coursehub/internal/app/system/authz"
	"github.com/dalemusser/coursehub/internal/app/system/limits"
	"github.com/dalemusser/coursehub/internal/app/system/respond"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/app/system/webutil"
	"github.com/dalemusser/coursehub/internal/domain/apperr"
)

// Handler owns the submission endpoints.
type Handler struct {
	Svc   *lifecycle.Service
	Audit *auditlog.Logger
	Log   *zap.Logger
}

// NewHandler constructs a submissions Handler. audit may be nil.
func NewHandler(svc *lifecycle.Service, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:   svc,
		Audit: audit,
		Log:   logger,
	}
}

// HandleGrade records a grade and optional feedback on a submission.
// Regrading overwrites; the last write wins.
//
// Route: POST /api/submissions/{submissionID}/grade
func (h *Handler) HandleGrade(w http.ResponseWriter, r *http.Request) {
	role, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := webutil.PathID(r, "submissionID", "submission id")
	if err != nil {
		respond.Err(w, h.Log, err)
		return
	}

	var in lifecycle.GradeInput
	if err := webutil.DecodeJSON(w, r, &in, limits.MaxGradeBodySize); err != nil {
		respond.Err(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sub, err := h.Svc.GradeSubmission(ctx, id, in, actorID)
	if err != nil {
		if apperr.IsAuthorization(err) {
			h.Audit.AuthzDenied(ctx, r, actorID.Hex(), role, "submission_grade", err.Error())
		}
		respond.Err(w, h.Log, err)
		return
	}

	courseID := primitive.NilObjectID
	if sub.CourseID != nil {
		courseID = *sub.CourseID
	}
	h.Audit.SubmissionGraded(ctx, r, actorID, sub.StudentID, sub.AssignmentID, courseID, role, in.Grade)
	respond.OK(w, sub)
}
