package indexes_test

import (
	"context"
	"testing"

	"github.com/dalemusser/coursehub/internal/app/system/indexes"
	"github.com/dalemusser/coursehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// First call
	err := indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}

	// Second call should also succeed (idempotent)
	err = indexes.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

// indexNames lists the index names present on a collection.
func indexNames(t *testing.T, ctx context.Context, db *mongo.Database, coll string) map[string]bool {
	t.Helper()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes on %s failed: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_CreatesExpectedIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"users": {
			"uniq_users_email",
			"idx_users_role_status_fullnameci_id",
		},
		"courses": {
			"uniq_courses_titleci",
			"idx_courses_instructor",
			"idx_courses_active_titleci__id",
		},
		"enrollments": {
			"uniq_enroll_course_student",
			"idx_enroll_student_status_course",
			"idx_enroll_course_status_student",
		},
		"assignments": {
			"idx_assignments_course_active_created",
			"idx_assignments_course_active_due",
			"idx_assignments_createdby_created",
		},
		"submissions": {
			"uniq_subs_assignment_student",
			"idx_subs_assignment_submitted",
			"idx_subs_assignment_status",
			"idx_subs_student_submitted",
		},
	}

	for coll, names := range expected {
		got := indexNames(t, ctx, db, coll)
		for _, name := range names {
			if !got[name] {
				t.Errorf("expected index %q to exist on %s collection", name, coll)
			}
		}
	}
}

func TestEnsureAll_SubmissionUniqueEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	assignmentID := primitive.NewObjectID()
	studentID := primitive.NewObjectID()

	_, err := db.Collection("submissions").InsertOne(ctx, bson.M{
		"assignment_id": assignmentID,
		"student_id":    studentID,
		"status":        "submitted",
	})
	if err != nil {
		t.Fatalf("Insert submission failed: %v", err)
	}

	// Second submission for the same (assignment, student) must fail
	_, err = db.Collection("submissions").InsertOne(ctx, bson.M{
		"assignment_id": assignmentID,
		"student_id":    studentID,
		"status":        "submitted",
	})
	if err == nil {
		t.Error("expected duplicate key error for unique index on submissions(assignment_id, student_id)")
	}
}

func TestEnsureAll_EnrollmentUniqueEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	courseID := primitive.NewObjectID()
	studentID := primitive.NewObjectID()

	_, err := db.Collection("enrollments").InsertOne(ctx, bson.M{
		"course_id":  courseID,
		"student_id": studentID,
		"status":     "approved",
	})
	if err != nil {
		t.Fatalf("Insert enrollment failed: %v", err)
	}

	_, err = db.Collection("enrollments").InsertOne(ctx, bson.M{
		"course_id":  courseID,
		"student_id": studentID,
		"status":     "pending",
	})
	if err == nil {
		t.Error("expected duplicate key error for unique index on enrollments(course_id, student_id)")
	}
}
