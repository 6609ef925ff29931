package assignments_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/coursehub/internal/app/directory"
	"github.com/dalemusser/coursehub/internal/app/enrich"
	"github.com/dalemusser/coursehub/internal/app/features/assignments"
	"github.com/dalemusser/coursehub/internal/app/lifecycle"
	assignmentstore "github.com/dalemusser/coursehub/internal/app/store/assignments"
	"github.com/dalemusser/coursehub/internal/app/store/audit"
	coursestore "github.com/dalemusser/coursehub/internal/app/store/courses"
	enrollmentstore "github.com/dalemusser/coursehub/internal/app/store/enrollments"
	submissionstore "github.com/dalemusser/coursehub/internal/app/store/submissions"
	userstore "github.com/dalemusser/coursehub/internal/app/store/users"
	"github.com/dalemusser/coursehub/internal/app/system/auditlog"
	"github.com/dalemusser/coursehub/internal/app/system/ratelimit"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/coursehub/internal/testutil"
)

// stack is everything a handler test needs: the wired feature handler,
// fixtures on the same database, and the audit store to assert events.
type stack struct {
	handler *assignments.Handler
	svc     *lifecycle.Service
	fx      *testutil.Fixtures
	audits  *audit.Store
}

// newStack wires the feature over a fresh test database. The audit
// logger writes to the database only, so tests can query what landed.
// The rate limiter is generous; the rate-limit test supplies a tight one.
func newStack(t *testing.T) *stack {
	t.Helper()
	return newStackWithLimiter(t, ratelimit.NewSubmitLimiterWithConfig(10000, time.Minute, 10000, time.Minute))
}

func newStackWithLimiter(t *testing.T, limiter *ratelimit.SubmitLimiter) *stack {
	t.Helper()

	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)

	courses := directory.NewCourseDirectory(coursestore.New(db))
	identities := directory.NewIdentityDirectory(userstore.New(db))
	subs := submissionstore.New(db)

	svc := lifecycle.New(lifecycle.Deps{
		Assignments: assignmentstore.New(db),
		Submissions: subs,
		Courses:     courses,
		Enrollments: directory.NewEnrollmentDirectory(enrollmentstore.New(db)),
		Identities:  identities,
		Enrich:      enrich.New(courses, identities, subs, zap.NewNop()),
		Client:      db.Client(),
		Log:         zap.NewNop(),
	})

	audits := audit.New(db)
	logger := auditlog.New(audits, zap.NewNop(), auditlog.Config{
		Coursework: "db",
		Security:   "db",
	})

	return &stack{
		handler: assignments.NewHandler(svc, logger, limiter, zap.NewNop()),
		svc:     svc,
		fx:      fx,
		audits:  audits,
	}
}

// classroom is the cast most tests need: a trainer instructing one
// course and a learner approved for it.
type classroom struct {
	trainer models.User
	learner models.User
	course  models.Course
}

func seedClassroom(ctx context.Context, fx *testutil.Fixtures) classroom {
	trainer := fx.CreateTrainer(ctx, "Tess Trainer", "tess@example.com")
	course := fx.CreateCourse(ctx, "Algebra", trainer.ID)
	learner := fx.CreateLearner(ctx, "Lee Learner", "lee@example.com")
	fx.ApproveEnrollment(ctx, course.ID, learner.ID)
	return classroom{trainer: trainer, learner: learner, course: course}
}

// jsonRequest builds an authenticated JSON request.
func jsonRequest(method, target string, body any, user testutil.TestUser) *http.Request {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	return testutil.WithUser(req, user)
}

// envelope is the wire shape of every API response with the data block
// left raw for the test to decode.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("parse envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}

// decodeData unmarshals the envelope's data block into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("expected success envelope, got message %q", env.Message)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("parse data: %v (data %s)", err, string(env.Data))
	}
}

// assignmentJSON is the wire shape asserted in tests; ids are hex.
type assignmentJSON struct {
	ID               string     `json:"id"`
	CourseID         string     `json:"course_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Instructions     string     `json:"instructions"`
	DueDate          *time.Time `json:"due_date"`
	MaxPoints        int        `json:"max_points"`
	AssignmentType   string     `json:"assignment_type"`
	IsActive         bool       `json:"is_active"`
	CreatedBy        string     `json:"created_by"`
	CourseTitle      string     `json:"course_title"`
	CreatedByEmail   string     `json:"created_by_email"`
	SubmissionsCount *int64     `json:"submissions_count"`
}

type submissionJSON struct {
	ID              string     `json:"id"`
	AssignmentID    string     `json:"assignment_id"`
	StudentID       string     `json:"student_id"`
	SubmissionText  string     `json:"submission_text"`
	FileName        string     `json:"file_name"`
	Status          string     `json:"status"`
	Grade           *float64   `json:"grade"`
	Feedback        string     `json:"feedback"`
	GradedAt        *time.Time `json:"graded_at"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	StudentName     string     `json:"student_name"`
	StudentEmail    string     `json:"student_email"`
	AssignmentTitle string     `json:"assignment_title"`
	CourseID        string     `json:"course_id"`
	MaxPoints       *int       `json:"max_points"`
}

type pagingJSON struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"has_next"`
}

// auditEventsOf queries the audit trail for one event type.
func auditEventsOf(t *testing.T, store *audit.Store, eventType string) []audit.Event {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	events, err := store.Query(ctx, audit.QueryFilter{EventType: eventType})
	if err != nil {
		t.Fatalf("query audit events: %v", err)
	}
	return events
}
