// internal/app/features/assignments/grading.go
package assignments

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/coursehub/internal/app/enrich"
	"github.com/dalemusser/coursehub/internal/app/system/csvutil"
	"github.com/dalemusser/coursehub/internal/app/system/paging"
	"github.com/dalemusser/coursehub/internal/app/system/respond"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/app/system/webutil"
	"github.com/dalemusser/coursehub/internal/domain/models"
)

var submissionSortable = map[string]string{
	"submitted_at": "submitted_at",
	"status":       "status",
	"grade":        "grade",
	"graded_at":    "graded_at",
}

// ServeSubmissions returns one page of an assignment's submissions for a
// grader.
//
// Route: GET /api/assignments/{assignmentID}/submissions?page&limit&sort&order
func (h *Handler) ServeSubmissions(w http.ResponseWriter, r *http.Request) {
	role, actorID, ok := actor(w, r)
	if !ok {
		return
	}

	id, err := webutil.PathID(r, "assignmentID", "assignment id")
	if err != nil {
		respond.Err(w, h.Log, err)
		return
	}

	opts := paging.Parse(r, submissionSortable, "submitted_at", -1)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page, err := h.Svc.ListSubmissions(ctx, id, opts, actorID)
	if err != nil {
		h.auditDenied(ctx, r, actorID, role, "submissions_list", err)
		respond.Err(w, h.Log, err)
		return
	}
	respond.OK(w, page)
}

// ServeExportCSV streams an assignment's submissions as a CSV download.
//
// Route: GET /api/assignments/{assignmentID}/submissions/export.csv
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	role, actorID, ok := actor(w, r)
	if !ok {
		return
	}

	id, err := webutil.PathID(r, "assignmentID", "assignment id")
	if err != nil {
		respond.Err(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	subs, parent, err := h.Svc.AllSubmissions(ctx, id, actorID)
	if err != nil {
		h.auditDenied(ctx, r, actorID, role, "submissions_export", err)
		respond.Err(w, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+csvutil.ExportFilename(parent.Title)+`"`)

	if err := csvutil.WriteSubmissionsCSV(w, exportRows(subs, parent)); err != nil {
		// Headers are gone; all that is left is to log.
		h.Log.Error("submission export write failed",
			zap.String("assignment_id", id.Hex()),
			zap.Error(err))
	}
}

// ServeStats returns submission and grade aggregates for an assignment.
//
// Route: GET /api/assignments/{assignmentID}/stats
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	role, actorID, ok := actor(w, r)
	if !ok {
		return
	}

	id, err := webutil.PathID(r, "assignmentID", "assignment id")
	if err != nil {
		respond.Err(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	st, err := h.Svc.AssignmentStats(ctx, id, actorID)
	if err != nil {
		h.auditDenied(ctx, r, actorID, role, "assignment_stats", err)
		respond.Err(w, h.Log, err)
		return
	}
	respond.OK(w, st)
}

// exportRows flattens enriched submissions into CSV rows. Late is judged
// against the assignment's current due date, so it flags rows that
// predate a due-date tightening or arrived through another tool.
func exportRows(subs []enrich.EnrichedSubmission, parent *models.Assignment) []csvutil.SubmissionRow {
	rows := make([]csvutil.SubmissionRow, 0, len(subs))
	for _, sub := range subs {
		row := csvutil.SubmissionRow{
			StudentID:    sub.StudentID.Hex(),
			StudentName:  sub.StudentName,
			StudentEmail: sub.StudentEmail,
			Status:       sub.Status,
			SubmittedAt:  sub.SubmittedAt,
			Late:         parent.HasDueDate() && sub.SubmittedAt.After(*parent.DueDate),
			Grade:        sub.Grade,
			Feedback:     sub.Feedback,
			GradedAt:     sub.GradedAt,
		}
		if sub.GradedBy != nil {
			row.GradedBy = sub.GradedBy.Hex()
		}
		rows = append(rows, row)
	}
	return rows
}
