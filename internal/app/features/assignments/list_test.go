package assignments_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/coursehub/internal/testutil"
)

type assignmentPageJSON struct {
	Assignments []assignmentJSON `json:"assignments"`
	Paging      pagingJSON       `json:"paging"`
}

type studentAssignmentJSON struct {
	assignmentJSON
	Submission *struct {
		Status      string    `json:"status"`
		Grade       *float64  `json:"grade"`
		SubmittedAt time.Time `json:"submitted_at"`
	} `json:"submission"`
}

type studentPageJSON struct {
	Assignments []studentAssignmentJSON `json:"assignments"`
	Paging      pagingJSON              `json:"paging"`
}

func TestServeAssignment(t *testing.T) {
	st := newStack(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	room := seedClassroom(ctx, st.fx)
	a := st.fx.CreateAssignment(ctx, room.course.ID, room.trainer.ID, "Worksheet")

	req := jsonRequest("GET", "/api/assignments/"+a.ID.Hex(), nil, testutil.UserFor(room.learner.ID, room.learner.FullName, "learner"))
	req = testutil.WithChiURLParam(req, "assignmentID", a.ID.Hex())
	rec := httptest.NewRecorder()

	st.handler.ServeAssignment(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var got assignmentJSON
	decodeData(t, rec, &got)
	if got.Title != "Worksheet" || got.CourseTitle != "Algebra" {
		t.Errorf("assignment: got %+v", got)
	}
	if got.CreatedByEmail != "tess@example.com" {
		t.Errorf("created_by_email: got %q", got.CreatedByEmail)
	}
}

func TestServeAssignment_BadID(t *testing.T) {
	st := newStack(t)

	req := testutil.NewAuthenticatedRequest("GET", "/api/assignments/xyz", testutil.LearnerUser())
	req = testutil.WithChiURLParam(req, "assignmentID", "xyz")
	rec := httptest.NewRecorder()

	st.handler.ServeAssignment(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "Invalid assignment id" {
		t.Errorf("message: got %q", env.Message)
	}
}

func TestServeAssignment_NotFound(t *testing.T) {
	st := newStack(t)

	missing := "65b1b1b1b1b1b1b1b1b1b1b1"
	req := testutil.NewAuthenticatedRequest("GET", "/api/assignments/"+missing, testutil.LearnerUser())
	req = testutil.WithChiURLParam(req, "assignmentID", missing)
	rec := httptest.NewRecorder()

	st.handler.ServeAssignment(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServeCourseList(t *testing.T) {
	st := newStack(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	room := seedClassroom(ctx, st.fx)

	st.fx.CreateAssignment(ctx, room.course.ID, room.trainer.ID, "Charlie")
	st.fx.CreateAssignment(ctx, room.course.ID, room.trainer.ID, "Alpha")
	st.fx.CreateAssignment(ctx, room.course.ID, room.trainer.ID, "Bravo")
	gone := st.fx.CreateAssignment(ctx, room.course.ID, room.trainer.ID, "Deleted")

	delReq := jsonRequest("DELETE", "/api/assignments/"+gone.ID.Hex(), nil, testutil.UserFor(room.trainer.ID, room.trainer.FullName, "trainer"))
	delReq = testutil.WithChiURLParam(delReq, "assignmentID", gone.ID.Hex())
	st.handler.HandleDelete(httptest.NewRecorder(), delReq)

	target := "/api/assignments/course/" + room.course.ID.Hex() + "?sort=title&order=asc&limit=2"
	req := jsonRequest("GET", target, nil, testutil.UserFor(room.learner.ID, room.learner.FullName, "learner"))
	req = testutil.WithChiURLParam(req, "courseID", room.course.ID.Hex())
	rec := httptest.NewRecorder()

	st.handler.ServeCourseList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var page assignmentPageJSON
	decodeData(t, rec, &page)

	if len(page.Assignments) != 2 {
		t.Fatalf("rows: got %d, want 2", len(page.Assignments))
	}
	if page.Assignments[0].Title != "Alpha" || page.Assignments[1].Title != "Bravo" {
		t.Errorf("order: got %q, %q", page.Assignments[0].Title, page.Assignments[1].Title)
	}
	if page.Paging.Total != 3 || !page.Paging.HasNext || page.Paging.Page != 1 {
		t.Errorf("paging: got %+v", page.Paging)
	}
}

func TestServeCourseList_BadID(t *testing.T) {
	st := newStack(t)

	req := testutil.NewAuthenticatedRequest("GET", "/api/assignments/course/zzz", testutil.LearnerUser())
	req = testutil.WithChiURLParam(req, "courseID", "zzz")
	rec := httptest.NewRecorder()

	st.handler.ServeCourseList(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeCourseList_UnknownCourse(t *testing.T) {
	st := newStack(t)

	missing := "65c2c2c2c2c2c2c2c2c2c2c2"
	req := testutil.NewAuthenticatedRequest("GET", "/api/assignments/course/"+missing, testutil.LearnerUser())
	req = testutil.WithChiURLParam(req, "courseID", missing)
	rec := httptest.NewRecorder()

	st.handler.ServeCourseList(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServeMyAssignments(t *testing.T) {
	st := newStack(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	room := seedClassroom(ctx, st.fx)

	soon := st.fx.CreateAssignmentDue(ctx, room.course.ID, room.trainer.ID, "Due Soon",
		time.Now().UTC().Add(3*24*time.Hour))
	st.fx.CreateAssignmentDue(ctx, room.course.ID, room.trainer.ID, "Due Later",
		time.Now().UTC().Add(10*24*time.Hour))
	st.fx.CreateSubmission(ctx, soon.ID, room.learner.ID, "my essay")

	// A course the learner is not enrolled in must not leak through.
	other := st.fx.CreateCourse(ctx, "Chemistry", room.trainer.ID)
	st.fx.CreateAssignment(ctx, other.ID, room.trainer.ID, "Lab Report")

	req := jsonRequest("GET", "/api/assignments/student/my-assignments", nil, testutil.UserFor(room.learner.ID, room.learner.FullName, "learner"))
	rec := httptest.NewRecorder()

	st.handler.ServeMyAssignments(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var page studentPageJSON
	decodeData(t, rec, &page)

	if len(page.Assignments) != 2 {
		t.Fatalf("rows: got %d, want 2", len(page.Assignments))
	}
	first, second := page.Assignments[0], page.Assignments[1]
	if first.Title != "Due Soon" || second.Title != "Due Later" {
		t.Errorf("order: got %q, %q", first.Title, second.Title)
	}
	if first.Submission == nil || first.Submission.Status != "submitted" {
		t.Errorf("first submission: got %+v", first.Submission)
	}
	if second.Submission != nil {
		t.Errorf("second submission: got %+v, want nil", second.Submission)
	}
	if page.Paging.Total != 2 {
		t.Errorf("total: got %d, want 2", page.Paging.Total)
	}
}

func TestServeMyAssignments_Anonymous(t *testing.T) {
	st := newStack(t)

	req := testutil.NewRequest("GET", "/api/assignments/student/my-assignments")
	rec := httptest.NewRecorder()

	st.handler.ServeMyAssignments(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestServeUpcoming(t *testing.T) {
	st := newStack(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	room := seedClassroom(ctx, st.fx)

	st.fx.CreateAssignmentDue(ctx, room.course.ID, room.trainer.ID, "Due Soon",
		time.Now().UTC().Add(2*24*time.Hour))
	st.fx.CreateAssignmentDue(ctx, room.course.ID, room.trainer.ID, "Due Far",
		time.Now().UTC().Add(30*24*time.Hour))
	st.fx.CreateAssignment(ctx, room.course.ID, room.trainer.ID, "No Due Date")
	done := st.fx.CreateAssignmentDue(ctx, room.course.ID, room.trainer.ID, "Already Submitted",
		time.Now().UTC().Add(3*24*time.Hour))
	st.fx.CreateSubmission(ctx, done.ID, room.learner.ID, "handed in")

	req := jsonRequest("GET", "/api/assignments/student/upcoming?days=7", nil, testutil.UserFor(room.learner.ID, room.learner.FullName, "learner"))
	rec := httptest.NewRecorder()

	st.handler.ServeUpcoming(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var got struct {
		Assignments []assignmentJSON `json:"assignments"`
	}
	decodeData(t, rec, &got)

	if len(got.Assignments) != 1 {
		t.Fatalf("rows: got %d, want 1 (%+v)", len(got.Assignments), got.Assignments)
	}
	if got.Assignments[0].Title != "Due Soon" {
		t.Errorf("title: got %q", got.Assignments[0].Title)
	}
}

func TestServeUpcoming_DaysClamped(t *testing.T) {
	st := newStack(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	room := seedClassroom(ctx, st.fx)

	st.fx.CreateAssignmentDue(ctx, room.course.ID, room.trainer.ID, "Due In Three Days",
		time.Now().UTC().Add(3*24*time.Hour))

	learner := testutil.UserFor(room.learner.ID, room.learner.FullName, "learner")

	// Missing days falls back to the one-week default.
	req := jsonRequest("GET", "/api/assignments/student/upcoming", nil, learner)
	rec := httptest.NewRecorder()
	st.handler.ServeUpcoming(rec, req)

	var got struct {
		Assignments []assignmentJSON `json:"assignments"`
	}
	decodeData(t, rec, &got)
	if len(got.Assignments) != 1 {
		t.Errorf("default window rows: got %d, want 1", len(got.Assignments))
	}

	// A negative value clamps to a one-day window, excluding the row.
	req = jsonRequest("GET", "/api/assignments/student/upcoming?days=-5", nil, learner)
	rec = httptest.NewRecorder()
	st.handler.ServeUpcoming(rec, req)

	got.Assignments = nil
	decodeData(t, rec, &got)
	if len(got.Assignments) != 0 {
		t.Errorf("clamped window rows: got %d, want 0", len(got.Assignments))
	}
}
