// internal/app/directory/mongo.go
package directory

import (
	"context"

	coursestore "github.com/dalemusser/coursehub/internal/app/store/courses"
	enrollmentstore "github.com/dalemusser/coursehub/internal/app/store/enrollments"
	userstore "github.com/dalemusser/coursehub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoCourses struct {
	store *coursestore.Store
}

// NewCourseDirectory builds a CourseDirectory over the course store.
func NewCourseDirectory(store *coursestore.Store) CourseDirectory {
	return &mongoCourses{store: store}
}

func (d *mongoCourses) Exists(ctx context.Context, courseID primitive.ObjectID) (*CourseRef, error) {
	course, err := d.store.GetByID(ctx, courseID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &CourseRef{
		ID:           course.ID,
		Title:        course.Title,
		InstructorID: course.InstructorID,
	}, nil
}

type mongoEnrollments struct {
	store *enrollmentstore.Store
}

// NewEnrollmentDirectory builds an EnrollmentDirectory over the
// enrollment store.
func NewEnrollmentDirectory(store *enrollmentstore.Store) EnrollmentDirectory {
	return &mongoEnrollments{store: store}
}

func (d *mongoEnrollments) ApprovedCourseIDs(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return d.store.ApprovedCourseIDs(ctx, studentID)
}

type mongoIdentities struct {
	store *userstore.Store
}

// NewIdentityDirectory builds an IdentityDirectory over the user store.
func NewIdentityDirectory(store *userstore.Store) IdentityDirectory {
	return &mongoIdentities{store: store}
}

func (d *mongoIdentities) Get(ctx context.Context, userID primitive.ObjectID) (*UserRef, error) {
	u, err := d.store.GetByID(ctx, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &UserRef{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.FullName,
		Role:  u.Role,
	}, nil
}
