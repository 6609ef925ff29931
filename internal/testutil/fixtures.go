package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
// Inserts go straight to the collections so store logic under test never
// runs inside its own fixtures.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateCourse creates an active test course taught by the given instructor.
func (f *Fixtures) CreateCourse(ctx context.Context, title string, instructorID primitive.ObjectID) models.Course {
	f.t.Helper()

	now := time.Now().UTC()
	course := models.Course{
		ID:           primitive.NewObjectID(),
		Title:        title,
		TitleCI:      text.Fold(title),
		Description:  "Test course description",
		InstructorID: instructorID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := f.db.Collection("courses").InsertOne(ctx, course)
	if err != nil {
		f.t.Fatalf("failed to create test course: %v", err)
	}

	return course
}

// CreateUser creates an active test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "admin")
}

// CreateTrainer creates a test trainer user.
func (f *Fixtures) CreateTrainer(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "trainer")
}

// CreateLearner creates a test learner user.
func (f *Fixtures) CreateLearner(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "learner")
}

// CreateDisabledUser creates a test learner with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       "learner",
		Status:     "disabled",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create disabled test user: %v", err)
	}

	return user
}

// CreateEnrollment creates an enrollment with the given status.
func (f *Fixtures) CreateEnrollment(ctx context.Context, courseID, studentID primitive.ObjectID, status string) models.Enrollment {
	f.t.Helper()

	now := time.Now().UTC()
	enrollment := models.Enrollment{
		ID:        primitive.NewObjectID(),
		CourseID:  courseID,
		StudentID: studentID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := f.db.Collection("enrollments").InsertOne(ctx, enrollment)
	if err != nil {
		f.t.Fatalf("failed to create test enrollment: %v", err)
	}

	return enrollment
}

// ApproveEnrollment creates an approved enrollment linking a learner to a course.
func (f *Fixtures) ApproveEnrollment(ctx context.Context, courseID, studentID primitive.ObjectID) models.Enrollment {
	f.t.Helper()
	return f.CreateEnrollment(ctx, courseID, studentID, models.EnrollmentApproved)
}

// CreateAssignment creates an active 100-point assignment with no due date.
func (f *Fixtures) CreateAssignment(ctx context.Context, courseID, createdBy primitive.ObjectID, title string) models.Assignment {
	f.t.Helper()
	return f.insertAssignment(ctx, courseID, createdBy, title, nil)
}

// CreateAssignmentDue creates an active 100-point assignment with a due date.
func (f *Fixtures) CreateAssignmentDue(ctx context.Context, courseID, createdBy primitive.ObjectID, title string, due time.Time) models.Assignment {
	f.t.Helper()
	return f.insertAssignment(ctx, courseID, createdBy, title, &due)
}

func (f *Fixtures) insertAssignment(ctx context.Context, courseID, createdBy primitive.ObjectID, title string, due *time.Time) models.Assignment {
	f.t.Helper()

	now := time.Now().UTC()
	assignment := models.Assignment{
		ID:             primitive.NewObjectID(),
		CourseID:       courseID,
		Title:          title,
		TitleCI:        text.Fold(title),
		Description:    "Test assignment description",
		DueDate:        due,
		MaxPoints:      100,
		AssignmentType: "individual",
		IsActive:       true,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := f.db.Collection("assignments").InsertOne(ctx, assignment)
	if err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}

	return assignment
}

// CreateSubmission creates a text submission for the (assignment, student)
// pair with the pair-derived document id.
func (f *Fixtures) CreateSubmission(ctx context.Context, assignmentID, studentID primitive.ObjectID, text string) models.Submission {
	return f.CreateSubmissionAt(ctx, assignmentID, studentID, text, time.Now().UTC())
}

// CreateSubmissionAt is CreateSubmission with an explicit submission
// time, for tests that assert ordering by submitted_at.
func (f *Fixtures) CreateSubmissionAt(ctx context.Context, assignmentID, studentID primitive.ObjectID, text string, at time.Time) models.Submission {
	f.t.Helper()

	at = at.UTC()
	submission := models.Submission{
		ID:             models.SubmissionID(assignmentID, studentID),
		AssignmentID:   assignmentID,
		StudentID:      studentID,
		SubmissionText: text,
		Status:         models.SubmissionSubmitted,
		SubmittedAt:    at,
		CreatedAt:      at,
		UpdatedAt:      at,
	}

	_, err := f.db.Collection("submissions").InsertOne(ctx, submission)
	if err != nil {
		f.t.Fatalf("failed to create test submission: %v", err)
	}

	return submission
}
