// internal/domain/models/submission.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/blake2b"
)

// Submission status values. A submission is created as "submitted" and
// moves to "graded" when a grade is recorded. Grading may repeat; there
// is no transition back to submitted and no withdrawal.
const (
	SubmissionSubmitted = "submitted"
	SubmissionGraded    = "graded"
)

// Submission is one student's answer to one assignment.
//
// The _id is derived from (assignment_id, student_id) with SubmissionID,
// so the pair key doubles as the primary key: a second insert for the
// same pair collides on _id regardless of timing.
type Submission struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	AssignmentID primitive.ObjectID `bson:"assignment_id" json:"assignment_id"`
	StudentID    primitive.ObjectID `bson:"student_id" json:"student_id"`

	SubmissionText string `bson:"submission_text,omitempty" json:"submission_text,omitempty"`
	FileURL        string `bson:"file_url,omitempty" json:"file_url,omitempty"`
	FileName       string `bson:"file_name,omitempty" json:"file_name,omitempty"`

	Status   string              `bson:"status" json:"status"` // "submitted" | "graded"
	Grade    *float64            `bson:"grade,omitempty" json:"grade,omitempty"`
	Feedback string              `bson:"feedback,omitempty" json:"feedback,omitempty"`
	GradedBy *primitive.ObjectID `bson:"graded_by,omitempty" json:"graded_by,omitempty"`
	GradedAt *time.Time          `bson:"graded_at,omitempty" json:"graded_at,omitempty"`

	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// SubmissionID derives the document id for the (assignment, student) pair.
// The id is the 12-byte BLAKE2b digest of both ObjectIDs, which fits
// Mongo's ObjectID width exactly. The same pair always maps to the same
// id, so concurrent duplicate submits race on the unique _id instead of
// on a read-then-insert check.
func SubmissionID(assignmentID, studentID primitive.ObjectID) primitive.ObjectID {
	h, _ := blake2b.New(12, nil)
	h.Write(assignmentID[:])
	h.Write(studentID[:])

	var id primitive.ObjectID
	copy(id[:], h.Sum(nil))
	return id
}

// HasContent reports whether the submission carries text or a file
// reference. A submission with neither is invalid.
func (s *Submission) HasContent() bool {
	return s.SubmissionText != "" || s.FileName != ""
}

// IsGraded reports whether a grade has been recorded.
func (s *Submission) IsGraded() bool {
	return s.Status == SubmissionGraded && s.Grade != nil
}
