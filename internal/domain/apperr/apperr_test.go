package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Message(t *testing.T) {
	err := ValidationField("max_points", "must be between 1 and 1000")
	if got := err.Error(); got != "max_points: must be between 1 and 1000" {
		t.Errorf("unexpected message: %q", got)
	}

	bare := Validation("due date has passed")
	if got := bare.Error(); got != "due date has passed" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestTaxonomyPredicates(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"validation", Validation("bad input"), IsValidation},
		{"authorization", Authorization("not your course"), IsAuthorization},
		{"not found", NotFound("assignment"), IsNotFound},
		{"conflict", Conflict("already submitted"), IsConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.check(tc.err) {
				t.Errorf("predicate rejected its own error type")
			}
			// Wrapped errors must still match.
			wrapped := fmt.Errorf("handler: %w", tc.err)
			if !tc.check(wrapped) {
				t.Errorf("predicate rejected wrapped error")
			}
		})
	}

	if IsValidation(Authorization("nope")) {
		t.Error("IsValidation matched an AuthorizationError")
	}
}

func TestPersistence_WrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Persistence("assignments.Create", cause)

	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatal("expected PersistenceError")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable through errors.Is")
	}
	if pe.Op != "assignments.Create" {
		t.Errorf("Op = %q", pe.Op)
	}
}

func TestPersistence_NilErr(t *testing.T) {
	if err := Persistence("assignments.Create", nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
