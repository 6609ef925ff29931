// internal/app/lifecycle/service.go

// Package lifecycle is the engine's state machine. It owns the rules
// for publishing, updating, and soft-deleting assignments, for student
// submission, and for grading: authorization and validation run before
// any write, store failures surface as apperr.Persistence, and read
// results come back enriched.
//
// Operations that authorize take the acting user's id explicitly; there
// is no ambient session state in this package. The actor's role is
// resolved fresh from the identity directory on each call, so a role
// change takes effect on the next request rather than at the next
// sign-in.
package lifecycle

import (
	"context"
	"errors"

	"github.com/dalemusser/coursehub/internal/app/directory"
	"github.com/dalemusser/coursehub/internal/app/enrich"
	"github.com/dalemusser/coursehub/internal/app/policy/assignmentpolicy"
	assignmentstore "github.com/dalemusser/coursehub/internal/app/store/assignments"
	submissionstore "github.com/dalemusser/coursehub/internal/app/store/submissions"
	"github.com/dalemusser/coursehub/internal/domain/apperr"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Deps are the collaborators a Service runs on. The directories are
// interfaces so the course, enrollment, and identity sides of the
// platform stay swappable; the two stores this engine owns are
// concrete. Client is the Mongo client backing the stores, used for
// transactional grading where the server supports it.
type Deps struct {
	Assignments *assignmentstore.Store
	Submissions *submissionstore.Store
	Courses     directory.CourseDirectory
	Enrollments directory.EnrollmentDirectory
	Identities  directory.IdentityDirectory
	Enrich      *enrich.Resolver
	Client      *mongo.Client
	Log         *zap.Logger
}

// Service orchestrates the assignment and submission lifecycle.
type Service struct {
	assignments *assignmentstore.Store
	submissions *submissionstore.Store
	courses     directory.CourseDirectory
	enrollments directory.EnrollmentDirectory
	identities  directory.IdentityDirectory
	enrich      *enrich.Resolver
	client      *mongo.Client
	log         *zap.Logger
}

// New assembles a Service from its collaborators.
func New(d Deps) *Service {
	return &Service{
		assignments: d.Assignments,
		submissions: d.Submissions,
		courses:     d.Courses,
		enrollments: d.Enrollments,
		identities:  d.Identities,
		enrich:      d.Enrich,
		client:      d.Client,
		log:         d.Log,
	}
}

// resolveActor loads a fresh role snapshot for the acting user. An id
// the identity directory does not recognize is an authorization
// failure, not a lookup miss: the engine refuses to act for users it
// cannot vouch for.
func (s *Service) resolveActor(ctx context.Context, actorID primitive.ObjectID) (assignmentpolicy.Actor, error) {
	ref, err := s.identities.Get(ctx, actorID)
	if err != nil {
		return assignmentpolicy.Actor{}, apperr.Persistence("resolve actor", err)
	}
	if ref == nil {
		return assignmentpolicy.Actor{}, apperr.Authorization("Your account could not be verified")
	}
	return assignmentpolicy.Actor{ID: ref.ID, Role: ref.Role}, nil
}

// loadAssignment fetches an assignment by id, active or not.
func (s *Service) loadAssignment(ctx context.Context, id primitive.ObjectID) (*models.Assignment, error) {
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, assignmentstore.ErrNotFound) {
			return nil, apperr.NotFound("assignment")
		}
		return nil, apperr.Persistence("load assignment", err)
	}
	return a, nil
}

// instructorOf resolves the course's instructor for policy checks. A
// course the directory no longer knows yields the zero id; CanManage
// then falls through to the created-by rule, which keeps orphaned
// assignments manageable by their creator and by admins.
func (s *Service) instructorOf(ctx context.Context, courseID primitive.ObjectID) (primitive.ObjectID, error) {
	ref, err := s.courses.Exists(ctx, courseID)
	if err != nil {
		return primitive.NilObjectID, apperr.Persistence("resolve course", err)
	}
	if ref == nil {
		return primitive.NilObjectID, nil
	}
	return ref.InstructorID, nil
}

// approvedFor reports whether the student holds an approved enrollment
// in the course.
func (s *Service) approvedFor(ctx context.Context, studentID, courseID primitive.ObjectID) (bool, error) {
	ids, err := s.enrollments.ApprovedCourseIDs(ctx, studentID)
	if err != nil {
		return false, apperr.Persistence("resolve approved courses", err)
	}
	for _, id := range ids {
		if id == courseID {
			return true, nil
		}
	}
	return false, nil
}
