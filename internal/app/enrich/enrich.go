// internal/app/enrich/enrich.go

// Package enrich attaches cross-entity display fields to assignments
// and submissions at read time. There are no joins in the data layer;
// every attached field is an independent best-effort lookup. A failed
// or empty lookup drops that field and logs one warning; the primary
// entity always comes back, so a flaky course or user read never turns
// into a failed assignment fetch.
package enrich

import (
	"context"

	"github.com/dalemusser/coursehub/internal/app/directory"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SubmissionCounter counts an assignment's submissions.
type SubmissionCounter interface {
	CountForAssignment(ctx context.Context, assignmentID primitive.ObjectID) (int64, error)
}

// EnrichedAssignment is an assignment plus the fields attached on
// read. Enrichment fields may be absent; the assignment never is.
type EnrichedAssignment struct {
	models.Assignment
	CourseTitle      string `json:"course_title,omitempty"`
	CreatedByEmail   string `json:"created_by_email,omitempty"`
	SubmissionsCount *int64 `json:"submissions_count,omitempty"`
}

// EnrichedSubmission is a submission plus the fields attached on read.
type EnrichedSubmission struct {
	models.Submission
	StudentName     string              `json:"student_name,omitempty"`
	StudentEmail    string              `json:"student_email,omitempty"`
	AssignmentTitle string              `json:"assignment_title,omitempty"`
	CourseID        *primitive.ObjectID `json:"course_id,omitempty"`
	MaxPoints       *int                `json:"max_points,omitempty"`
}

// Resolver performs the lookups. All dependencies are required.
type Resolver struct {
	courses directory.CourseDirectory
	users   directory.IdentityDirectory
	counts  SubmissionCounter
	log     *zap.Logger
}

func New(courses directory.CourseDirectory, users directory.IdentityDirectory, counts SubmissionCounter, log *zap.Logger) *Resolver {
	return &Resolver{courses: courses, users: users, counts: counts, log: log}
}

// memo caches directory lookups for the duration of one resolver call,
// so a page of assignments from the same course fetches that course
// once. Misses are cached too.
type memo struct {
	courses map[primitive.ObjectID]*directory.CourseRef
	users   map[primitive.ObjectID]*directory.UserRef
}

func newMemo() *memo {
	return &memo{
		courses: make(map[primitive.ObjectID]*directory.CourseRef),
		users:   make(map[primitive.ObjectID]*directory.UserRef),
	}
}

// Assignment enriches one assignment.
func (r *Resolver) Assignment(ctx context.Context, a *models.Assignment) EnrichedAssignment {
	return r.assignment(ctx, newMemo(), a)
}

// Assignments enriches a page of assignments with shared lookups.
func (r *Resolver) Assignments(ctx context.Context, list []models.Assignment) []EnrichedAssignment {
	m := newMemo()
	out := make([]EnrichedAssignment, 0, len(list))
	for i := range list {
		out = append(out, r.assignment(ctx, m, &list[i]))
	}
	return out
}

// Submission enriches one submission. parent may be nil when the
// caller does not hold the assignment; the assignment-derived fields
// are then omitted.
func (r *Resolver) Submission(ctx context.Context, sub *models.Submission, parent *models.Assignment) EnrichedSubmission {
	return r.submission(ctx, newMemo(), sub, parent)
}

// Submissions enriches a page of one assignment's submissions.
func (r *Resolver) Submissions(ctx context.Context, list []models.Submission, parent *models.Assignment) []EnrichedSubmission {
	m := newMemo()
	out := make([]EnrichedSubmission, 0, len(list))
	for i := range list {
		out = append(out, r.submission(ctx, m, &list[i], parent))
	}
	return out
}

func (r *Resolver) assignment(ctx context.Context, m *memo, a *models.Assignment) EnrichedAssignment {
	e := EnrichedAssignment{Assignment: *a}

	if ref := r.courseRef(ctx, m, a.CourseID); ref != nil {
		e.CourseTitle = ref.Title
	}
	if ref := r.userRef(ctx, m, a.CreatedBy); ref != nil {
		e.CreatedByEmail = ref.Email
	}
	if n, err := r.counts.CountForAssignment(ctx, a.ID); err != nil {
		r.log.Warn("submission count unavailable",
			zap.String("assignment_id", a.ID.Hex()),
			zap.Error(err))
	} else {
		e.SubmissionsCount = &n
	}
	return e
}

func (r *Resolver) submission(ctx context.Context, m *memo, sub *models.Submission, parent *models.Assignment) EnrichedSubmission {
	e := EnrichedSubmission{Submission: *sub}

	if ref := r.userRef(ctx, m, sub.StudentID); ref != nil {
		e.StudentName = ref.Name
		e.StudentEmail = ref.Email
	}
	if parent != nil {
		e.AssignmentTitle = parent.Title
		courseID := parent.CourseID
		e.CourseID = &courseID
		points := parent.MaxPoints
		e.MaxPoints = &points
	}
	return e
}

func (r *Resolver) courseRef(ctx context.Context, m *memo, id primitive.ObjectID) *directory.CourseRef {
	if ref, ok := m.courses[id]; ok {
		return ref
	}
	ref, err := r.courses.Exists(ctx, id)
	if err != nil {
		r.log.Warn("course lookup failed",
			zap.String("course_id", id.Hex()),
			zap.Error(err))
		ref = nil
	} else if ref == nil {
		r.log.Warn("course missing during enrichment",
			zap.String("course_id", id.Hex()))
	}
	m.courses[id] = ref
	return ref
}

func (r *Resolver) userRef(ctx context.Context, m *memo, id primitive.ObjectID) *directory.UserRef {
	if ref, ok := m.users[id]; ok {
		return ref
	}
	ref, err := r.users.Get(ctx, id)
	if err != nil {
		r.log.Warn("user lookup failed",
			zap.String("user_id", id.Hex()),
			zap.Error(err))
		ref = nil
	} else if ref == nil {
		r.log.Warn("user missing during enrichment",
			zap.String("user_id", id.Hex()))
	}
	m.users[id] = ref
	return ref
}
