package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/validators"
	"github.com/dalemusser/coursehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// First call
	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}

	// Second call should also succeed (idempotent)
	err = validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Verify collections exist
	expectedCollections := []string{
		"users",
		"courses",
		"enrollments",
		"assignments",
		"submissions",
		"audit_events",
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}

	collMap := make(map[string]bool)
	for _, name := range names {
		collMap[name] = true
	}

	for _, expected := range expectedCollections {
		if !collMap[expected] {
			t.Errorf("expected collection %q to exist", expected)
		}
	}
}

func TestUsersValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Try to insert user without required fields - should fail
	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"full_name": "Missing Everything Else",
	})
	if err == nil {
		t.Error("expected validation error when inserting user without required fields")
	}
}

func TestUsersValidator_ValidUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Insert valid user - should succeed
	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"full_name":    "Test User",
		"full_name_ci": "test user",
		"email":        "test@example.com",
		"role":         "learner",
		"status":       "active",
	})
	if err != nil {
		t.Errorf("expected valid user insert to succeed, got: %v", err)
	}
}

func TestUsersValidator_BadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"full_name":    "Test User",
		"full_name_ci": "test user",
		"email":        "badrole@example.com",
		"role":         "wizard",
		"status":       "active",
	})
	if err == nil {
		t.Error("expected validation error for unknown role")
	}
}

func TestAssignmentsValidator_MaxPointsRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	base := bson.M{
		"course_id":  primitive.NewObjectID(),
		"title":      "Essay",
		"title_ci":   "essay",
		"is_active":  true,
		"created_by": primitive.NewObjectID(),
		"created_at": time.Now().UTC(),
		"updated_at": time.Now().UTC(),
	}

	// Valid points
	doc := bson.M{"max_points": 100}
	for k, v := range base {
		doc[k] = v
	}
	if _, err := db.Collection("assignments").InsertOne(ctx, doc); err != nil {
		t.Errorf("expected insert with max_points=100 to succeed, got: %v", err)
	}

	// Over the ceiling
	doc = bson.M{"max_points": 1001}
	for k, v := range base {
		doc[k] = v
	}
	if _, err := db.Collection("assignments").InsertOne(ctx, doc); err == nil {
		t.Error("expected validation error for max_points over 1000")
	}

	// Zero points
	doc = bson.M{"max_points": 0}
	for k, v := range base {
		doc[k] = v
	}
	if _, err := db.Collection("assignments").InsertOne(ctx, doc); err == nil {
		t.Error("expected validation error for max_points of 0")
	}
}

func TestSubmissionsValidator_BadStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err = db.Collection("submissions").InsertOne(ctx, bson.M{
		"assignment_id": primitive.NewObjectID(),
		"student_id":    primitive.NewObjectID(),
		"status":        "pending-review",
		"submitted_at":  time.Now().UTC(),
	})
	if err == nil {
		t.Error("expected validation error for unknown submission status")
	}
}

func TestEnrollmentsValidator_StatusEnum(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Approved is fine
	_, err = db.Collection("enrollments").InsertOne(ctx, bson.M{
		"course_id":  primitive.NewObjectID(),
		"student_id": primitive.NewObjectID(),
		"status":     "approved",
		"created_at": time.Now().UTC(),
	})
	if err != nil {
		t.Errorf("expected approved enrollment insert to succeed, got: %v", err)
	}

	// Unknown status is rejected
	_, err = db.Collection("enrollments").InsertOne(ctx, bson.M{
		"course_id":  primitive.NewObjectID(),
		"student_id": primitive.NewObjectID(),
		"status":     "waitlisted",
		"created_at": time.Now().UTC(),
	})
	if err == nil {
		t.Error("expected validation error for unknown enrollment status")
	}
}
