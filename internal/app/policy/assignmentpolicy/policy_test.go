package assignmentpolicy

import (
	"testing"

	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanManage(t *testing.T) {
	instructorID := primitive.NewObjectID()
	creatorID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	existing := &models.Assignment{
		ID:        primitive.NewObjectID(),
		CreatedBy: creatorID,
	}

	tests := []struct {
		name  string
		actor Actor
		a     *models.Assignment
		want  bool
	}{
		{"admin without record", Actor{ID: otherID, Role: "admin"}, nil, true},
		{"admin with record", Actor{ID: otherID, Role: "admin"}, existing, true},
		{"instructor trainer creating", Actor{ID: instructorID, Role: "trainer"}, nil, true},
		{"non-instructor trainer creating", Actor{ID: otherID, Role: "trainer"}, nil, false},
		{"instructor trainer on record", Actor{ID: instructorID, Role: "trainer"}, existing, true},
		{"creating trainer on record", Actor{ID: creatorID, Role: "trainer"}, existing, true},
		{"unrelated trainer on record", Actor{ID: otherID, Role: "trainer"}, existing, false},
		{"learner", Actor{ID: instructorID, Role: "learner"}, existing, false},
		{"unknown role", Actor{ID: instructorID, Role: "superuser"}, existing, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanManage(tc.actor, tc.a, instructorID); got != tc.want {
				t.Errorf("CanManage = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanGrade(t *testing.T) {
	creatorID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	a := &models.Assignment{
		ID:        primitive.NewObjectID(),
		CreatedBy: creatorID,
	}

	tests := []struct {
		name  string
		actor Actor
		a     *models.Assignment
		want  bool
	}{
		{"admin", Actor{ID: otherID, Role: "admin"}, a, true},
		{"creating trainer", Actor{ID: creatorID, Role: "trainer"}, a, true},
		{"other trainer", Actor{ID: otherID, Role: "trainer"}, a, false},
		{"learner", Actor{ID: creatorID, Role: "learner"}, a, false},
		{"trainer without record", Actor{ID: creatorID, Role: "trainer"}, nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanGrade(tc.actor, tc.a); got != tc.want {
				t.Errorf("CanGrade = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanView(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"admin", Actor{ID: id, Role: "admin"}, true},
		{"trainer", Actor{ID: id, Role: "trainer"}, true},
		{"learner", Actor{ID: id, Role: "learner"}, true},
		{"unknown role", Actor{ID: id, Role: "guest"}, false},
		{"zero id", Actor{Role: "learner"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanView(tc.actor); got != tc.want {
				t.Errorf("CanView = %v, want %v", got, tc.want)
			}
		})
	}
}
