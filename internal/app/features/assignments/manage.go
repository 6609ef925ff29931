// internal/app/features/assignments/manage.go
package assignments

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/coursehub/internal/app/lifecycle"
	"github.com/dalemusser/coursehub/internal/app/system/limits"
	"github.com/dalemusser/coursehub/internal/app/system/respond"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/app/system/webutil"
	"github.com/dalemusser/coursehub/internal/domain/apperr"
)

// HandleCreate creates an assignment in a course.
//
// Route: POST /api/assignments
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	role, actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var in lifecycle.CreateAssignmentInput
	if err := webutil.DecodeJSON(w, r, &in, limits.MaxAssignmentBodySize); err != nil {
		respond.Err(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Svc.CreateAssignment(ctx, in, actorID)
	if err != nil {
		h.auditDenied(ctx, r, actorID, role, "assignment_create", err)
		respond.Err(w, h.Log, err)
		return
	}

	h.Audit.AssignmentCreated(ctx, r, actorID, a.ID, a.CourseID, role, a.Title)
	respond.Created(w, a)
}

// HandleUpdate applies a partial update to an assignment.
//
// Route: PUT /api/assignments/{assignmentID}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	role, actorID, ok := actor(w, r)
	if !ok {
		return
	}

	id, err := webutil.PathID(r, "assignmentID", "assignment id")
	if err != nil {
		respond.Err(w, h.Log, err)
		return
	}

	var patch lifecycle.UpdatePatch
	if err := webutil.DecodeJSON(w, r, &patch, limits.MaxAssignmentBodySize); err != nil {
		respond.Err(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Svc.UpdateAssignment(ctx, id, patch, actorID)
	if err != nil {
		h.auditDenied(ctx, r, actorID, role, "assignment_update", err)
		respond.Err(w, h.Log, err)
		return
	}

	h.Audit.AssignmentUpdated(ctx, r, actorID, a.ID, a.CourseID, role, changedFields(patch))
	respond.OK(w, a)
}

// HandleDelete soft-deletes an assignment. The record is fetched first so
// the audit event can carry its course and title.
//
// Route: DELETE /api/assignments/{assignmentID}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	role, actorID, ok := actor(w, r)
	if !ok {
		return
	}

	id, err := webutil.PathID(r, "assignmentID", "assignment id")
	if err != nil {
		respond.Err(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cur, err := h.Svc.GetAssignment(ctx, id)
	if err != nil {
		respond.Err(w, h.Log, err)
		return
	}

	if err := h.Svc.DeleteAssignment(ctx, id, actorID); err != nil {
		h.auditDenied(ctx, r, actorID, role, "assignment_delete", err)
		respond.Err(w, h.Log, err)
		return
	}

	h.Audit.AssignmentDeleted(ctx, r, actorID, id, cur.CourseID, role, cur.Title)
	respond.OK(w, nil)
}

// auditDenied records an authz_denied security event when err is an
// authorization failure; other errors are not security events.
func (h *Handler) auditDenied(ctx context.Context, r *http.Request, actorID primitive.ObjectID, role, action string, err error) {
	if apperr.IsAuthorization(err) {
		h.Audit.AuthzDenied(ctx, r, actorID.Hex(), role, action, err.Error())
	}
}

// changedFields lists the patch fields that were present, for the
// assignment_updated audit detail.
func changedFields(p lifecycle.UpdatePatch) string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.Instructions != nil {
		fields = append(fields, "instructions")
	}
	if p.DueDate != nil {
		fields = append(fields, "due_date")
	}
	if p.MaxPoints != nil {
		fields = append(fields, "max_points")
	}
	if p.AssignmentType != nil {
		fields = append(fields, "assignment_type")
	}
	return strings.Join(fields, ",")
}
