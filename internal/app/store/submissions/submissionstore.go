// internal/app/store/submissions/submissionstore.go
package submissionstore

// Submissions are scoped to their assignment: every method takes the
// assignment id first and folds it into the filter, so a caller can
// never read or grade a submission through the wrong parent. The one
// exception, GetByIDAcrossAssignments, exists for callers holding a
// bare submission id.

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/paging"
	"github.com/dalemusser/coursehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound            = errors.New("submission not found")
	ErrDuplicateSubmission = errors.New("student has already submitted this assignment")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("submissions")}
}

// Create inserts a submission for the (assignment, student) pair. The
// id is derived from the pair, so a concurrent second submit collides
// on _id and maps to ErrDuplicateSubmission without a prior read.
func (s *Store) Create(ctx context.Context, assignmentID primitive.ObjectID, sub *models.Submission) error {
	now := time.Now().UTC()
	sub.ID = models.SubmissionID(assignmentID, sub.StudentID)
	sub.AssignmentID = assignmentID
	sub.Status = models.SubmissionSubmitted
	sub.SubmittedAt = now
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, sub); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateSubmission
		}
		return err
	}
	return nil
}

// GetByStudent returns the student's submission for the assignment.
func (s *Store) GetByStudent(ctx context.Context, assignmentID, studentID primitive.ObjectID) (*models.Submission, error) {
	return s.findOne(ctx, bson.M{"assignment_id": assignmentID, "student_id": studentID})
}

// GetByID returns a submission by id, scoped to the assignment.
func (s *Store) GetByID(ctx context.Context, assignmentID, submissionID primitive.ObjectID) (*models.Submission, error) {
	return s.findOne(ctx, bson.M{"_id": submissionID, "assignment_id": assignmentID})
}

// GetByIDAcrossAssignments returns a submission by id alone. The id is
// the collection's primary key, so this is a point query; prefer the
// assignment-scoped GetByID when the parent is known.
func (s *Store) GetByIDAcrossAssignments(ctx context.Context, submissionID primitive.ObjectID) (*models.Submission, error) {
	return s.findOne(ctx, bson.M{"_id": submissionID})
}

// ListForAssignment returns one page of an assignment's submissions
// plus the assignment's total, newest submission first by default.
func (s *Store) ListForAssignment(ctx context.Context, assignmentID primitive.ObjectID, opts paging.Params) ([]models.Submission, int64, error) {
	filter := bson.M{"assignment_id": assignmentID}
	p := opts.Resolved("submitted_at", -1)

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find()
	p.ApplyToFind(find)
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Submission
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListAllForAssignment returns the assignment's submissions unpaged,
// newest first, for aggregation and export. A positive limit caps the
// query; 0 means no cap.
func (s *Store) ListAllForAssignment(ctx context.Context, assignmentID primitive.ObjectID, limit int64) ([]models.Submission, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "submitted_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"assignment_id": assignmentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Submission
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetGrade records a grade on the submission and marks it graded.
// Regrading overwrites; the last write wins.
func (s *Store) SetGrade(ctx context.Context, assignmentID, submissionID primitive.ObjectID, grade float64, feedback string, gradedBy primitive.ObjectID, at time.Time) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": submissionID, "assignment_id": assignmentID},
		bson.M{"$set": bson.M{
			"status":     models.SubmissionGraded,
			"grade":      grade,
			"feedback":   feedback,
			"graded_by":  gradedBy,
			"graded_at":  at.UTC(),
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountForAssignment counts the assignment's submissions.
func (s *Store) CountForAssignment(ctx context.Context, assignmentID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"assignment_id": assignmentID})
}

// ExistsForStudent reports whether the student has submitted for the
// assignment. The derived id makes this a point query on _id.
func (s *Store) ExistsForStudent(ctx context.Context, assignmentID, studentID primitive.ObjectID) (bool, error) {
	id := models.SubmissionID(assignmentID, studentID)
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.Submission, error) {
	var sub models.Submission
	if err := s.c.FindOne(ctx, filter).Decode(&sub); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}
