// internal/app/directory/directory.go

// Package directory holds the engine's read-only views of entities
// other parts of the platform own. Courses, enrollments, and user
// identities are managed elsewhere; the lifecycle and enrichment
// layers look them up through these narrow interfaces instead of
// touching foreign collections directly.
package directory

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CourseRef is the slice of a course the engine needs.
type CourseRef struct {
	ID           primitive.ObjectID
	Title        string
	InstructorID primitive.ObjectID
}

// UserRef is the slice of a user identity the engine needs.
type UserRef struct {
	ID    primitive.ObjectID
	Email string
	Name  string
	Role  string
}

// CourseDirectory resolves course references. Exists returns (nil, nil)
// when the course does not exist; a non-nil error means the lookup
// itself failed.
type CourseDirectory interface {
	Exists(ctx context.Context, courseID primitive.ObjectID) (*CourseRef, error)
}

// EnrollmentDirectory resolves a student's approved course set.
type EnrollmentDirectory interface {
	ApprovedCourseIDs(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// IdentityDirectory resolves user references. Get returns (nil, nil)
// when the user does not exist.
type IdentityDirectory interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*UserRef, error)
}
