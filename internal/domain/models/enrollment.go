// internal/domain/models/enrollment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enrollment status values.
const (
	EnrollmentPending  = "pending"
	EnrollmentApproved = "approved"
	EnrollmentRejected = "rejected"
)

// Enrollment is the authoritative join between learners and courses.
// Exactly one document per (course_id, student_id); only "approved"
// enrollments grant access to a course's assignments.
type Enrollment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID  primitive.ObjectID `bson:"course_id" json:"course_id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`
	Status    string             `bson:"status" json:"status"` // "pending" | "approved" | "rejected"
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
