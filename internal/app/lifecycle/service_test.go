// internal/app/lifecycle/service_test.go
package lifecycle_test

import (
	"context"
	"testing"

	"github.com/dalemusser/coursehub/internal/app/directory"
	"github.com/dalemusser/coursehub/internal/app/enrich"
	"github.com/dalemusser/coursehub/internal/app/lifecycle"
	assignmentstore "github.com/dalemusser/coursehub/internal/app/store/assignments"
	coursestore "github.com/dalemusser/coursehub/internal/app/store/courses"
	enrollmentstore "github.com/dalemusser/coursehub/internal/app/store/enrollments"
	submissionstore "github.com/dalemusser/coursehub/internal/app/store/submissions"
	userstore "github.com/dalemusser/coursehub/internal/app/store/users"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/coursehub/internal/testutil"
	"go.uber.org/zap"
)

// newService wires a Service over a fresh test database with its real
// Mongo-backed directories.
func newService(t *testing.T) (*lifecycle.Service, *testutil.Fixtures) {
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
	return svc, fx
}

// classroom is the cast most lifecycle tests need: a trainer
// instructing one course and a learner approved for it.
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

func titlesOf(rows []enrich.EnrichedAssignment) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Title
	}
	return out
}
