// internal/app/lifecycle/assignments.go
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/coursehub/internal/app/enrich"
	"github.com/dalemusser/coursehub/internal/app/policy/assignmentpolicy"
	assignmentstore "github.com/dalemusser/coursehub/internal/app/store/assignments"
	submissionstore "github.com/dalemusser/coursehub/internal/app/store/submissions"
	"github.com/dalemusser/coursehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/coursehub/internal/app/system/inputval"
	"github.com/dalemusser/coursehub/internal/app/system/normalize"
	"github.com/dalemusser/coursehub/internal/app/system/paging"
	"github.com/dalemusser/coursehub/internal/domain/apperr"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field limits for assignment text fields.
const (
	maxTitleLen = 200
	maxTextLen  = 10000
	maxTypeLen  = 50
)

// Upcoming-window bounds, in days. Requests outside the window are
// clamped, not rejected; zero means the default.
const (
	defaultUpcomingDays = 7
	minUpcomingDays     = 1
	maxUpcomingDays     = 60
)

// CreateAssignmentInput carries the fields a trainer or admin supplies
// when publishing an assignment.
type CreateAssignmentInput struct {
	CourseID       primitive.ObjectID `json:"course_id"`
	Title          string             `json:"title" validate:"required,max=200" label:"Title"`
	Description    string             `json:"description" validate:"required,max=10000" label:"Description"`
	Instructions   string             `json:"instructions" validate:"max=10000" label:"Instructions"`
	DueDate        *time.Time         `json:"due_date"`
	MaxPoints      int                `json:"max_points" validate:"gte=1,lte=1000" label:"Max points"`
	AssignmentType string             `json:"assignment_type" validate:"max=50" label:"Assignment type"`
}

func (in *CreateAssignmentInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Instructions = strings.TrimSpace(in.Instructions)
	in.AssignmentType = normalize.AssignmentType(in.AssignmentType)
}

// UpdatePatch names the assignment fields an update may change. Nil
// leaves a field alone. A due date cannot be cleared through a patch,
// only moved; clearing would be indistinguishable from omission here.
type UpdatePatch struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Instructions   *string    `json:"instructions"`
	DueDate        *time.Time `json:"due_date"`
	MaxPoints      *int       `json:"max_points"`
	AssignmentType *string    `json:"assignment_type"`
}

func (p UpdatePatch) isEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Instructions == nil &&
		p.DueDate == nil && p.MaxPoints == nil && p.AssignmentType == nil
}

// validate re-checks only the fields the patch carries, mirroring the
// create-time rules.
func (p UpdatePatch) validate(now time.Time) error {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return apperr.ValidationField("Title", "Title is required.")
		}
		if len(t) > maxTitleLen {
			return apperr.ValidationField("Title", fmt.Sprintf("Title must be at most %d characters.", maxTitleLen))
		}
	}
	if p.Description != nil {
		d := strings.TrimSpace(*p.Description)
		if d == "" {
			return apperr.ValidationField("Description", "Description is required.")
		}
		if len(d) > maxTextLen {
			return apperr.ValidationField("Description", fmt.Sprintf("Description must be at most %d characters.", maxTextLen))
		}
	}
	if p.Instructions != nil && len(*p.Instructions) > maxTextLen {
		return apperr.ValidationField("Instructions", fmt.Sprintf("Instructions must be at most %d characters.", maxTextLen))
	}
	if p.MaxPoints != nil && (*p.MaxPoints < models.MinAssignmentPoints || *p.MaxPoints > models.MaxAssignmentPoints) {
		return apperr.ValidationField("Max points",
			fmt.Sprintf("Max points must be between %d and %d.", models.MinAssignmentPoints, models.MaxAssignmentPoints))
	}
	if p.DueDate != nil && !p.DueDate.After(now) {
		return apperr.ValidationField("Due date", "Due date must be in the future.")
	}
	if p.AssignmentType != nil && len(normalize.AssignmentType(*p.AssignmentType)) > maxTypeLen {
		return apperr.ValidationField("Assignment type", fmt.Sprintf("Assignment type must be at most %d characters.", maxTypeLen))
	}
	return nil
}

// AssignmentPage is one window of a course's active assignments.
type AssignmentPage struct {
	Assignments []enrich.EnrichedAssignment `json:"assignments"`
	Paging      paging.Meta                 `json:"paging"`
}

// StudentAssignment is an assignment as a learner sees it: enriched,
// with the learner's own submission state attached when one exists.
type StudentAssignment struct {
	enrich.EnrichedAssignment
	Submission *SubmissionStatus `json:"submission,omitempty"`
}

// SubmissionStatus is the slice of the learner's own submission a
// listing carries: enough to show submitted/graded state and the
// grade, without hauling the submission text along.
type SubmissionStatus struct {
	Status      string     `json:"status"`
	Grade       *float64   `json:"grade,omitempty"`
	Feedback    string     `json:"feedback,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	GradedAt    *time.Time `json:"graded_at,omitempty"`
}

// StudentAssignmentPage is one window of a learner's assignments
// across all their approved courses.
type StudentAssignmentPage struct {
	Assignments []StudentAssignment `json:"assignments"`
	Paging      paging.Meta         `json:"paging"`
}

// CreateAssignment publishes a new assignment to a course. The course
// must exist and the actor must be an admin or the course's
// instructor; max points and the due date are checked before anything
// is written.
func (s *Service) CreateAssignment(ctx context.Context, in CreateAssignmentInput, actorID primitive.ObjectID) (*enrich.EnrichedAssignment, error) {
	in.normalize()
	if in.CourseID.IsZero() {
		return nil, apperr.ValidationField("Course", "Course is required.")
	}
	if res := inputval.Validate(in); res.HasErrors() {
		fe := res.Errors[0]
		return nil, apperr.ValidationField(fe.Field, fe.Msg)
	}
	if in.DueDate != nil && !in.DueDate.After(time.Now().UTC()) {
		return nil, apperr.ValidationField("Due date", "Due date must be in the future.")
	}

	course, err := s.courses.Exists(ctx, in.CourseID)
	if err != nil {
		return nil, apperr.Persistence("resolve course", err)
	}
	if course == nil {
		return nil, apperr.NotFound("course")
	}

	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !assignmentpolicy.CanManage(actor, nil, course.InstructorID) {
		return nil, apperr.Authorization("You are not authorized to manage assignments for this course")
	}

	a := &models.Assignment{
		CourseID:       in.CourseID,
		Title:          in.Title,
		Description:    htmlsanitize.Sanitize(in.Description),
		Instructions:   htmlsanitize.Sanitize(in.Instructions),
		MaxPoints:      in.MaxPoints,
		AssignmentType: in.AssignmentType,
		CreatedBy:      actorID,
	}
	if in.DueDate != nil {
		due := in.DueDate.UTC()
		a.DueDate = &due
	}
	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, apperr.Persistence("create assignment", err)
	}

	ea := s.enrich.Assignment(ctx, a)
	return &ea, nil
}

// UpdateAssignment applies a partial update. Authorization runs
// against the existing record's course and creator, never against the
// patch, and only fields present in the patch are re-validated.
func (s *Service) UpdateAssignment(ctx context.Context, id primitive.ObjectID, patch UpdatePatch, actorID primitive.ObjectID) (*enrich.EnrichedAssignment, error) {
	if patch.isEmpty() {
		return nil, apperr.Validation("No fields to update")
	}
	if err := patch.validate(time.Now().UTC()); err != nil {
		return nil, err
	}

	a, err := s.loadAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	instructorID, err := s.instructorOf(ctx, a.CourseID)
	if err != nil {
		return nil, err
	}
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !assignmentpolicy.CanManage(actor, a, instructorID) {
		return nil, apperr.Authorization("You are not authorized to manage this assignment")
	}

	sp := assignmentstore.Patch{
		DueDate:   patch.DueDate,
		MaxPoints: patch.MaxPoints,
	}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		sp.Title = &t
	}
	if patch.Description != nil {
		d := htmlsanitize.Sanitize(strings.TrimSpace(*patch.Description))
		sp.Description = &d
	}
	if patch.Instructions != nil {
		ins := htmlsanitize.Sanitize(strings.TrimSpace(*patch.Instructions))
		sp.Instructions = &ins
	}
	if patch.AssignmentType != nil {
		at := normalize.AssignmentType(*patch.AssignmentType)
		sp.AssignmentType = &at
	}

	if err := s.assignments.Update(ctx, id, sp); err != nil {
		if errors.Is(err, assignmentstore.ErrNotFound) {
			return nil, apperr.NotFound("assignment")
		}
		return nil, apperr.Persistence("update assignment", err)
	}

	updated, err := s.loadAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	ea := s.enrich.Assignment(ctx, updated)
	return &ea, nil
}

// DeleteAssignment soft-deletes: the record drops out of every listing
// but stays addressable by id for grading history.
func (s *Service) DeleteAssignment(ctx context.Context, id primitive.ObjectID, actorID primitive.ObjectID) error {
	a, err := s.loadAssignment(ctx, id)
	if err != nil {
		return err
	}
	instructorID, err := s.instructorOf(ctx, a.CourseID)
	if err != nil {
		return err
	}
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return err
	}
	if !assignmentpolicy.CanManage(actor, a, instructorID) {
		return apperr.Authorization("You are not authorized to manage this assignment")
	}

	if err := s.assignments.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, assignmentstore.ErrNotFound) {
			return apperr.NotFound("assignment")
		}
		return apperr.Persistence("delete assignment", err)
	}
	return nil
}

// GetAssignment fetches one assignment, enriched. Soft-deleted records
// are returned too; the route layer decides who may ask.
func (s *Service) GetAssignment(ctx context.Context, id primitive.ObjectID) (*enrich.EnrichedAssignment, error) {
	a, err := s.loadAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	ea := s.enrich.Assignment(ctx, a)
	return &ea, nil
}

// ListCourseAssignments pages through a course's active assignments,
// newest first by default.
func (s *Service) ListCourseAssignments(ctx context.Context, courseID primitive.ObjectID, opts paging.Params) (*AssignmentPage, error) {
	course, err := s.courses.Exists(ctx, courseID)
	if err != nil {
		return nil, apperr.Persistence("resolve course", err)
	}
	if course == nil {
		return nil, apperr.NotFound("course")
	}

	p := opts.Resolved("created_at", -1)
	rows, total, err := s.assignments.ListByCourse(ctx, courseID, p)
	if err != nil {
		return nil, apperr.Persistence("list course assignments", err)
	}
	return &AssignmentPage{
		Assignments: s.enrich.Assignments(ctx, rows),
		Paging:      p.MetaFor(total),
	}, nil
}

// ListStudentAssignments pages through every active assignment in the
// learner's approved courses, soonest due first, and attaches the
// learner's own submission state where one exists. The attachment is
// part of the listing's contract, not best-effort enrichment: a row
// without it means "not submitted", so a failed lookup fails the call
// rather than quietly showing submitted work as missing.
func (s *Service) ListStudentAssignments(ctx context.Context, studentID primitive.ObjectID, opts paging.Params) (*StudentAssignmentPage, error) {
	courseIDs, err := s.enrollments.ApprovedCourseIDs(ctx, studentID)
	if err != nil {
		return nil, apperr.Persistence("resolve approved courses", err)
	}

	p := opts.Resolved("due_date", 1)
	rows, total, err := s.assignments.ListByCourses(ctx, courseIDs, p)
	if err != nil {
		return nil, apperr.Persistence("list student assignments", err)
	}

	enriched := s.enrich.Assignments(ctx, rows)
	out := make([]StudentAssignment, len(enriched))
	for i := range enriched {
		out[i] = StudentAssignment{EnrichedAssignment: enriched[i]}

		sub, err := s.submissions.GetByStudent(ctx, rows[i].ID, studentID)
		if err != nil {
			if errors.Is(err, submissionstore.ErrNotFound) {
				continue
			}
			return nil, apperr.Persistence("load student submission", err)
		}
		out[i].Submission = &SubmissionStatus{
			Status:      sub.Status,
			Grade:       sub.Grade,
			Feedback:    sub.Feedback,
			SubmittedAt: sub.SubmittedAt,
			GradedAt:    sub.GradedAt,
		}
	}

	return &StudentAssignmentPage{Assignments: out, Paging: p.MetaFor(total)}, nil
}

// ListUpcoming returns the learner's not-yet-submitted assignments due
// within the given number of days, soonest first. Days is clamped to
// [1, 60]; zero selects the default of 7.
func (s *Service) ListUpcoming(ctx context.Context, studentID primitive.ObjectID, days int) ([]enrich.EnrichedAssignment, error) {
	switch {
	case days == 0:
		days = defaultUpcomingDays
	case days < minUpcomingDays:
		days = minUpcomingDays
	case days > maxUpcomingDays:
		days = maxUpcomingDays
	}

	courseIDs, err := s.enrollments.ApprovedCourseIDs(ctx, studentID)
	if err != nil {
		return nil, apperr.Persistence("resolve approved courses", err)
	}

	now := time.Now().UTC()
	window := time.Duration(days) * 24 * time.Hour
	rows, err := s.assignments.ListUpcoming(ctx, courseIDs, now, window)
	if err != nil {
		return nil, apperr.Persistence("list upcoming assignments", err)
	}

	open := make([]models.Assignment, 0, len(rows))
	for i := range rows {
		exists, err := s.submissions.ExistsForStudent(ctx, rows[i].ID, studentID)
		if err != nil {
			return nil, apperr.Persistence("check existing submission", err)
		}
		if !exists {
			open = append(open, rows[i])
		}
	}
	return s.enrich.Assignments(ctx, open), nil
}
