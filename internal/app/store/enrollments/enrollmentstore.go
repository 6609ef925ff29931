// internal/app/store/enrollments/enrollmentstore.go
package enrollmentstore

// Enrollments are the authoritative learner/course join. The engine never
// manages them; it reads them to decide course access. Add exists for
// provisioning and tests and enforces the referential checks the collection
// itself cannot.

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/coursehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c       *mongo.Collection
	users   *mongo.Collection
	courses *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("enrollments"),
		users:   db.Collection("users"),
		courses: db.Collection("courses"),
	}
}

var (
	errBadStatus  = errors.New(`status must be "pending", "approved", or "rejected"`)
	errNotLearner = errors.New("only learners can be enrolled in a course")
)

var ErrDuplicateEnrollment = errors.New("student is already enrolled in this course")

// Add creates an enrollment after verifying the course exists and the student
// is a learner. Status must be one of the enrollment status constants.
func (s *Store) Add(ctx context.Context, courseID, studentID primitive.ObjectID, status string) error {
	switch status {
	case models.EnrollmentPending, models.EnrollmentApproved, models.EnrollmentRejected:
	default:
		return errBadStatus
	}

	if err := s.courses.FindOne(ctx, bson.M{"_id": courseID}).Err(); err != nil {
		return err
	}

	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": studentID}).Decode(&u); err != nil {
		return err
	}
	if u.Role != "learner" {
		return errNotLearner
	}

	now := time.Now().UTC()
	doc := bson.M{
		"course_id":  courseID,
		"student_id": studentID,
		"status":     status,
		"created_at": now,
		"updated_at": now,
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEnrollment
		}
		return err
	}
	return nil
}

// ApprovedCourseIDs returns the ids of every course the student holds an
// approved enrollment in. Pending and rejected enrollments do not count.
func (s *Store) ApprovedCourseIDs(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"course_id": 1})
	cur, err := s.c.Find(ctx, bson.M{
		"student_id": studentID,
		"status":     models.EnrollmentApproved,
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		CourseID primitive.ObjectID `bson:"course_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.CourseID)
	}
	return ids, nil
}
