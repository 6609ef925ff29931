// internal/app/store/assignments/assignmentstore.go
package assignmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/paging"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("assignment not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("assignments")}
}

// Create inserts a new assignment. The id, folded title, timestamps,
// and active flag are assigned here; whatever the caller set for them
// is overwritten.
func (s *Store) Create(ctx context.Context, a *models.Assignment) error {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.TitleCI = text.Fold(a.Title)
	a.IsActive = true
	a.CreatedAt = now
	a.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, a)
	return err
}

// GetByID retrieves an assignment by id, active or not.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Assignment, error) {
	var a models.Assignment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Patch lists the fields Update may change. Nil means leave the field
// as it is; a set pointer writes the value, zero or not.
type Patch struct {
	Title          *string
	Description    *string
	Instructions   *string
	DueDate        *time.Time
	MaxPoints      *int
	AssignmentType *string
}

// Update applies the patch and bumps updated_at. Changing the title
// refolds title_ci.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, patch Patch) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if patch.Title != nil {
		set["title"] = *patch.Title
		set["title_ci"] = text.Fold(*patch.Title)
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Instructions != nil {
		set["instructions"] = *patch.Instructions
	}
	if patch.DueDate != nil {
		set["due_date"] = patch.DueDate.UTC()
	}
	if patch.MaxPoints != nil {
		set["max_points"] = *patch.MaxPoints
	}
	if patch.AssignmentType != nil {
		set["assignment_type"] = *patch.AssignmentType
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete deactivates the assignment. The document stays readable
// by id; listings skip it.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_active":  false,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByCourse returns one page of a course's active assignments plus
// the course's active total, newest first unless the options choose
// another sort.
func (s *Store) ListByCourse(ctx context.Context, courseID primitive.ObjectID, opts paging.Params) ([]models.Assignment, int64, error) {
	filter := bson.M{"course_id": courseID, "is_active": true}
	return s.list(ctx, filter, opts.Resolved("created_at", -1))
}

// ListByCourses returns one page of active assignments across a set of
// courses, soonest due first by default. An empty id set is an empty
// page, not a full scan.
func (s *Store) ListByCourses(ctx context.Context, courseIDs []primitive.ObjectID, opts paging.Params) ([]models.Assignment, int64, error) {
	if len(courseIDs) == 0 {
		return nil, 0, nil
	}
	filter := bson.M{"course_id": bson.M{"$in": courseIDs}, "is_active": true}
	return s.list(ctx, filter, opts.Resolved("due_date", 1))
}

// ListUpcoming returns the active assignments across the courses whose
// due date falls within [now, now+window], soonest first. Assignments
// without a due date never appear here.
func (s *Store) ListUpcoming(ctx context.Context, courseIDs []primitive.ObjectID, now time.Time, window time.Duration) ([]models.Assignment, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	filter := bson.M{
		"course_id": bson.M{"$in": courseIDs},
		"is_active": true,
		"due_date":  bson.M{"$gte": now, "$lte": now.Add(window)},
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "due_date", Value: 1},
		{Key: "_id", Value: 1},
	})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Assignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) list(ctx context.Context, filter bson.M, p paging.Params) ([]models.Assignment, int64, error) {
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

	var out []models.Assignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
