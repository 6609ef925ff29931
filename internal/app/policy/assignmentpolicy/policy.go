// internal/app/policy/assignmentpolicy/policy.go

// Package assignmentpolicy decides who may do what to an assignment.
// Decisions are pure functions over an actor snapshot; the caller
// resolves the actor and course data first, so these rules stay
// testable without a store.
package assignmentpolicy

import (
	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the resolved identity a decision runs against.
type Actor struct {
	ID   primitive.ObjectID
	Role string
}

// CanManage reports whether the actor may create, update, or delete an
// assignment in the course. Admins always may. A trainer may when they
// instruct the course, or when an existing record is theirs (a is nil
// during create, before any record exists).
func CanManage(actor Actor, a *models.Assignment, courseInstructorID primitive.ObjectID) bool {
	switch actor.Role {
	case "admin":
		return true
	case "trainer":
		if actor.ID == courseInstructorID {
			return true
		}
		return a != nil && a.CreatedBy == actor.ID
	default:
		return false
	}
}

// CanGrade reports whether the actor may grade submissions of the
// assignment: admins, or the trainer who created it.
func CanGrade(actor Actor, a *models.Assignment) bool {
	switch actor.Role {
	case "admin":
		return true
	case "trainer":
		return a != nil && a.CreatedBy == actor.ID
	default:
		return false
	}
}

// CanView reports whether the actor holds a recognized signed-in role.
// Assignment reads are open to every role.
func CanView(actor Actor) bool {
	switch actor.Role {
	case "admin", "trainer", "learner":
		return !actor.ID.IsZero()
	default:
		return false
	}
}
