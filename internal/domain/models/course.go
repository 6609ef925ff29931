// internal/domain/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is the catalog entry assignments attach to. Course management
// itself lives outside this service; the engine only reads these
// documents to check existence and resolve the instructor.
type Course struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Title        string             `bson:"title" json:"title"`
	TitleCI      string             `bson:"title_ci" json:"title_ci"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	InstructorID primitive.ObjectID `bson:"instructor_id" json:"instructor_id"`

	IsActive bool `bson:"is_active" json:"is_active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
