// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment limits enforced at create and update time.
const (
	MinAssignmentPoints = 1
	MaxAssignmentPoints = 1000
)

// Assignment is a piece of coursework published to one course.
//
// NOTE:
//   - Submissions are not embedded here; they live in the submissions
//     collection, keyed by assignment_id.
//   - Deleting an assignment is a soft delete (is_active=false). The
//     document stays addressable by id for grading history and audit.
type Assignment struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	CourseID primitive.ObjectID `bson:"course_id" json:"course_id"`

	Title        string `bson:"title" json:"title"`
	TitleCI      string `bson:"title_ci" json:"title_ci"`
	Description  string `bson:"description" json:"description"`
	Instructions string `bson:"instructions,omitempty" json:"instructions,omitempty"`

	DueDate        *time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`
	MaxPoints      int        `bson:"max_points" json:"max_points"`
	AssignmentType string     `bson:"assignment_type" json:"assignment_type"` // free-form tag, e.g. "individual" | "group"

	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasDueDate reports whether a due date is set.
func (a *Assignment) HasDueDate() bool {
	return a.DueDate != nil && !a.DueDate.IsZero()
}

// DueBefore reports whether the assignment is due strictly before t.
// Assignments without a due date are never due.
func (a *Assignment) DueBefore(t time.Time) bool {
	return a.HasDueDate() && a.DueDate.Before(t)
}
