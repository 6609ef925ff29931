// internal/app/store/courses/coursestore.go
package coursestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/coursehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Course management lives outside this service. The engine reads courses
// to check existence and resolve the instructor; Create exists for
// seeding and tests.

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateTitle = errors.New("a course with this title already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("courses")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Course, error) {
	var c models.Course
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Course{}, err
	}
	return c, nil
}

func (s *Store) Create(ctx context.Context, c models.Course) (models.Course, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.TitleCI = text.Fold(c.Title)
	c.IsActive = true
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, c)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Course{}, ErrDuplicateTitle
		}
		return models.Course{}, err
	}
	return c, nil
}
