package auditlog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	auditlogfeature "github.com/dalemusser/coursehub/internal/app/features/auditlog"
	"github.com/dalemusser/coursehub/internal/app/store/audit"
	"github.com/dalemusser/coursehub/internal/app/system/auth"
	"github.com/dalemusser/coursehub/internal/testutil"
)

type listEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Events []struct {
			ID        string            `json:"id"`
			Category  string            `json:"category"`
			EventType string            `json:"event_type"`
			ActorID   string            `json:"actor_id"`
			Success   bool              `json:"success"`
			Details   map[string]string `json:"details"`
		} `json:"events"`
		Paging struct {
			Page    int   `json:"page"`
			Limit   int   `json:"limit"`
			Total   int64 `json:"total"`
			HasNext bool  `json:"has_next"`
		} `json:"paging"`
	} `json:"data"`
}

func seedEvent(t *testing.T, store *audit.Store, category, eventType string, at time.Time) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actorID := primitive.NewObjectID()
	err := store.Log(ctx, audit.Event{
		Timestamp: at,
		Category:  category,
		EventType: eventType,
		ActorID:   &actorID,
		IP:        "198.51.100.7",
		Success:   true,
		Details:   map[string]string{"title": "Essay 1"},
	})
	if err != nil {
		t.Fatalf("seed audit event: %v", err)
	}
}

func TestServeList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	now := time.Now().UTC()

	seedEvent(t, store, audit.CategoryCoursework, audit.EventAssignmentCreated, now.Add(-3*time.Hour))
	seedEvent(t, store, audit.CategoryCoursework, audit.EventSubmissionCreated, now.Add(-2*time.Hour))
	seedEvent(t, store, audit.CategoryCoursework, audit.EventSubmissionGraded, now.Add(-time.Hour))
	seedEvent(t, store, audit.CategorySecurity, audit.EventAuthzDenied, now)

	handler := auditlogfeature.NewHandler(store, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/audit/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var env listEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if !env.Success {
		t.Errorf("success: got false, message %q", env.Message)
	}
	if len(env.Data.Events) != 4 {
		t.Fatalf("events: got %d, want 4", len(env.Data.Events))
	}
	// Newest first.
	if env.Data.Events[0].EventType != audit.EventAuthzDenied {
		t.Errorf("first event: got %q, want %q", env.Data.Events[0].EventType, audit.EventAuthzDenied)
	}
	if env.Data.Events[0].ActorID == "" {
		t.Error("expected actor_id on the event item")
	}
	if env.Data.Paging.Total != 4 {
		t.Errorf("total: got %d, want 4", env.Data.Paging.Total)
	}
}

func TestServeList_CategoryFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	now := time.Now().UTC()

	seedEvent(t, store, audit.CategoryCoursework, audit.EventAssignmentCreated, now.Add(-time.Hour))
	seedEvent(t, store, audit.CategorySecurity, audit.EventRateLimited, now)

	handler := auditlogfeature.NewHandler(store, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/audit/events?category=security", nil)
	rec := httptest.NewRecorder()
	handler.ServeList(rec, req)

	var env listEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(env.Data.Events) != 1 {
		t.Fatalf("events: got %d, want 1", len(env.Data.Events))
	}
	if env.Data.Events[0].Category != audit.CategorySecurity {
		t.Errorf("category: got %q", env.Data.Events[0].Category)
	}
}

func TestServeList_EventTypeFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	now := time.Now().UTC()

	seedEvent(t, store, audit.CategoryCoursework, audit.EventAssignmentCreated, now.Add(-time.Hour))
	seedEvent(t, store, audit.CategoryCoursework, audit.EventAssignmentDeleted, now)

	handler := auditlogfeature.NewHandler(store, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/audit/events?event_type=assignment_deleted", nil)
	rec := httptest.NewRecorder()
	handler.ServeList(rec, req)

	var env listEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(env.Data.Events) != 1 || env.Data.Events[0].EventType != audit.EventAssignmentDeleted {
		t.Fatalf("expected only the assignment_deleted event, got %+v", env.Data.Events)
	}
}

func TestServeList_DateWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	now := time.Now().UTC()

	seedEvent(t, store, audit.CategoryCoursework, audit.EventAssignmentCreated, now.Add(-72*time.Hour))
	seedEvent(t, store, audit.CategoryCoursework, audit.EventSubmissionCreated, now)

	handler := auditlogfeature.NewHandler(store, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/audit/events?start_date="+now.Format("2006-01-02"), nil)
	rec := httptest.NewRecorder()
	handler.ServeList(rec, req)

	var env listEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(env.Data.Events) != 1 {
		t.Fatalf("events: got %d, want 1 (old event filtered out)", len(env.Data.Events))
	}
	if env.Data.Events[0].EventType != audit.EventSubmissionCreated {
		t.Errorf("event: got %q", env.Data.Events[0].EventType)
	}
}

func TestServeList_Paging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		seedEvent(t, store, audit.CategoryCoursework, audit.EventAssignmentCreated, now.Add(-time.Duration(i)*time.Minute))
	}

	handler := auditlogfeature.NewHandler(store, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/audit/events?page=2&limit=2", nil)
	rec := httptest.NewRecorder()
	handler.ServeList(rec, req)

	var env listEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(env.Data.Events) != 2 {
		t.Errorf("events: got %d, want 2", len(env.Data.Events))
	}
	if env.Data.Paging.Page != 2 || env.Data.Paging.Total != 5 || !env.Data.Paging.HasNext {
		t.Errorf("paging: got %+v", env.Data.Paging)
	}
}

func TestServeList_UnknownCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := auditlogfeature.NewHandler(audit.New(db), zap.NewNop())

	req := httptest.NewRequest("GET", "/api/audit/events?category=gossip", nil)
	rec := httptest.NewRecorder()
	handler.ServeList(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeList_BadDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := auditlogfeature.NewHandler(audit.New(db), zap.NewNop())

	req := httptest.NewRequest("GET", "/api/audit/events?start_date=yesterday", nil)
	rec := httptest.NewRecorder()
	handler.ServeList(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRoutes_AdminOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := auditlogfeature.NewHandler(audit.New(db), zap.NewNop())

	sm, err := auth.NewSessionManager("", "coursehub_session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	router := auditlogfeature.Routes(handler, sm)

	// Anonymous request.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/events", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	// Wrong role.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/events", testutil.TrainerUser()))
	if rec.Code != http.StatusForbidden {
		t.Errorf("trainer: got %d, want %d", rec.Code, http.StatusForbidden)
	}

	// Admin.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest("GET", "/events", testutil.AdminUser()))
	if rec.Code != http.StatusOK {
		t.Errorf("admin: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
}
