// internal/app/features/assignments/list.go
package assignments

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"

	"github.com/dalemusser/coursehub/internal/app/system/paging"
	"github.com/dalemusser/coursehub/internal/app/system/respond"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/app/system/webutil"
)

// courseSortable maps query sort values to Mongo fields for the course
// listing. The map is the whitelist; anything else falls to the default.
var courseSortable = map[string]string{
	"created_at": "created_at",
	"due_date":   "due_date",
	"title":      "title",
	"max_points": "max_points",
}

// ServeAssignment returns one enriched assignment. Soft-deleted records
// are returned too, with is_active false; graders link to them from old
// submission pages.
//
// Route: GET /api/assignments/{assignmentID}
func (h *Handler) ServeAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := webutil.PathID(r, "assignmentID", "assignment id")
	if err != nil {
		respond.Err(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Svc.GetAssignment(ctx, id)
	if err != nil {
		respond.Err(w, h.Log, err)
		return
	}
	respond.OK(w, a)
}

// ServeCourseList returns a course's active assignments, paged and
// sortable.
//
// Route: GET /api/assignments/course/{courseID}?page&limit&sort&order
func (h *Handler) ServeCourseList(w http.ResponseWriter, r *http.Request) {
	courseID, err := webutil.PathID(r, "courseID", "course id")
	if err != nil {
		respond.Err(w, h.Log, err)
		return
	}

	opts := paging.Parse(r, courseSortable, "created_at", -1)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page, err := h.Svc.ListCourseAssignments(ctx, courseID, opts)
	if err != nil {
		respond.Err(w, h.Log, err)
		return
	}
	respond.OK(w, page)
}

// ServeMyAssignments returns the signed-in learner's assignments across
// approved courses, each with the learner's own submission state.
//
// Route: GET /api/assignments/student/my-assignments?page&limit
func (h *Handler) ServeMyAssignments(w http.ResponseWriter, r *http.Request) {
	_, studentID, ok := actor(w, r)
	if !ok {
		return
	}

	opts := paging.Parse(r, nil, "due_date", 1)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	page, err := h.Svc.ListStudentAssignments(ctx, studentID, opts)
	if err != nil {
		respond.Err(w, h.Log, err)
		return
	}
	respond.OK(w, page)
}

// ServeUpcoming returns the learner's unsubmitted assignments due within
// the requested window. Absent or invalid "days" falls to the default
// window; the service clamps out-of-range values.
//
// Route: GET /api/assignments/student/upcoming?days=N
func (h *Handler) ServeUpcoming(w http.ResponseWriter, r *http.Request) {
	_, studentID, ok := actor(w, r)
	if !ok {
		return
	}

	days, err := strconv.Atoi(query.Get(r, "days"))
	if err != nil {
		days = 0
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Svc.ListUpcoming(ctx, studentID, days)
	if err != nil {
		respond.Err(w, h.Log, err)
		return
	}
	respond.OK(w, map[string]any{"assignments": list})
}
