// internal/app/lifecycle/submissions.go
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/coursehub/internal/app/enrich"
	"github.com/dalemusser/coursehub/internal/app/policy/assignmentpolicy"
	assignmentstore "github.com/dalemusser/coursehub/internal/app/store/assignments"
	submissionstore "github.com/dalemusser/coursehub/internal/app/store/submissions"
	"github.com/dalemusser/coursehub/internal/app/stats"
	"github.com/dalemusser/coursehub/internal/app/system/csvutil"
	"github.com/dalemusser/coursehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/coursehub/internal/app/system/inputval"
	"github.com/dalemusser/coursehub/internal/app/system/paging"
	"github.com/dalemusser/coursehub/internal/app/system/txn"
	"github.com/dalemusser/coursehub/internal/domain/apperr"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// errMaxPointsShrank reports that max points moved under the grade
// between the bounds check and the write.
var errMaxPointsShrank = errors.New("grade exceeds max points")

// SubmitInput is the payload a learner sends when submitting. Text or
// a file reference must be present; file content lives in external
// storage and only the reference is recorded here.
type SubmitInput struct {
	SubmissionText string `json:"submission_text" validate:"max=50000" label:"Submission text"`
	FileURL        string `json:"file_url" validate:"max=2048" label:"File URL"`
	FileName       string `json:"file_name" validate:"max=255" label:"File name"`
}

func (in *SubmitInput) normalize() {
	in.SubmissionText = strings.TrimSpace(in.SubmissionText)
	in.FileURL = strings.TrimSpace(in.FileURL)
	in.FileName = strings.TrimSpace(in.FileName)
}

// GradeInput carries a grade and optional feedback.
type GradeInput struct {
	Grade    float64 `json:"grade"`
	Feedback string  `json:"feedback"`
}

// SubmissionPage is one window of an assignment's submissions, the
// grader's view.
type SubmissionPage struct {
	Submissions []enrich.EnrichedSubmission `json:"submissions"`
	Paging      paging.Meta                 `json:"paging"`
}

// SubmitAssignment records a learner's one submission for an
// assignment. The assignment must be active, the learner must hold an
// approved enrollment in its course, and the due date must not have
// passed. A second submit for the same pair fails with a conflict no
// matter how the two calls interleave; the derived submission id and
// the unique pair index close the race at the store.
func (s *Service) SubmitAssignment(ctx context.Context, assignmentID primitive.ObjectID, in SubmitInput, studentID primitive.ObjectID) (*enrich.EnrichedSubmission, error) {
	in.normalize()
	if res := inputval.Validate(in); res.HasErrors() {
		fe := res.Errors[0]
		return nil, apperr.ValidationField(fe.Field, fe.Msg)
	}

	sub := &models.Submission{
		StudentID:      studentID,
		SubmissionText: htmlsanitize.Sanitize(in.SubmissionText),
		FileURL:        in.FileURL,
		FileName:       in.FileName,
	}
	// Checked after sanitizing: markup with no text content counts as
	// an empty submission.
	if !sub.HasContent() {
		return nil, apperr.Validation("Submission must include text or a file reference")
	}

	a, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, apperr.NotFound("assignment")
	}

	approved, err := s.approvedFor(ctx, studentID, a.CourseID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, apperr.Authorization("You are not approved for this course")
	}

	if a.DueBefore(time.Now().UTC()) {
		return nil, apperr.Validation("The due date has passed")
	}

	if err := s.submissions.Create(ctx, assignmentID, sub); err != nil {
		if errors.Is(err, submissionstore.ErrDuplicateSubmission) {
			return nil, apperr.Conflict("You have already submitted this assignment")
		}
		return nil, apperr.Persistence("create submission", err)
	}

	es := s.enrich.Submission(ctx, sub, a)
	return &es, nil
}

// GradeSubmission records a grade and moves the submission to graded.
// Grading repeats freely and the last write wins. The submission is
// addressed by bare id, which the derived-id scheme makes a point
// query. The bounds check against the parent's max points re-runs next
// to the write inside a transaction when the server provides one, so a
// concurrent shrink of max points cannot let an out-of-range grade
// through; standalone servers fall back to the plain single-document
// update.
func (s *Service) GradeSubmission(ctx context.Context, submissionID primitive.ObjectID, in GradeInput, actorID primitive.ObjectID) (*enrich.EnrichedSubmission, error) {
	feedback := htmlsanitize.Sanitize(strings.TrimSpace(in.Feedback))
	if len(feedback) > maxTextLen {
		return nil, apperr.ValidationField("Feedback", fmt.Sprintf("Feedback must be at most %d characters.", maxTextLen))
	}

	sub, err := s.submissions.GetByIDAcrossAssignments(ctx, submissionID)
	if err != nil {
		if errors.Is(err, submissionstore.ErrNotFound) {
			return nil, apperr.NotFound("submission")
		}
		return nil, apperr.Persistence("load submission", err)
	}
	parent, err := s.loadAssignment(ctx, sub.AssignmentID)
	if err != nil {
		return nil, err
	}

	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !assignmentpolicy.CanGrade(actor, parent) {
		return nil, apperr.Authorization("You are not authorized to grade submissions for this assignment")
	}
	if in.Grade < 0 || in.Grade > float64(parent.MaxPoints) {
		return nil, apperr.Validationf("Grade must be between 0 and %d", parent.MaxPoints)
	}

	now := time.Now().UTC()
	limit := parent.MaxPoints
	err = txn.WithTransaction(ctx, s.client, s.log, func(tc context.Context) error {
		a, err := s.assignments.GetByID(tc, sub.AssignmentID)
		if err != nil {
			return err
		}
		limit = a.MaxPoints
		if in.Grade > float64(a.MaxPoints) {
			return errMaxPointsShrank
		}
		return s.submissions.SetGrade(tc, sub.AssignmentID, sub.ID, in.Grade, feedback, actorID, now)
	})
	if err != nil {
		switch {
		case errors.Is(err, errMaxPointsShrank):
			return nil, apperr.Validationf("Grade must be between 0 and %d", limit)
		case errors.Is(err, assignmentstore.ErrNotFound):
			return nil, apperr.NotFound("assignment")
		case errors.Is(err, submissionstore.ErrNotFound):
			return nil, apperr.NotFound("submission")
		}
		return nil, apperr.Persistence("grade submission", err)
	}

	graded, err := s.submissions.GetByID(ctx, sub.AssignmentID, sub.ID)
	if err != nil {
		return nil, apperr.Persistence("load graded submission", err)
	}
	es := s.enrich.Submission(ctx, graded, parent)
	return &es, nil
}

// ListSubmissions pages through an assignment's submissions for a
// grader, newest first by default.
func (s *Service) ListSubmissions(ctx context.Context, assignmentID primitive.ObjectID, opts paging.Params, actorID primitive.ObjectID) (*SubmissionPage, error) {
	a, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !assignmentpolicy.CanGrade(actor, a) {
		return nil, apperr.Authorization("You are not authorized to view submissions for this assignment")
	}

	p := opts.Resolved("submitted_at", -1)
	rows, total, err := s.submissions.ListForAssignment(ctx, assignmentID, p)
	if err != nil {
		return nil, apperr.Persistence("list submissions", err)
	}
	return &SubmissionPage{
		Submissions: s.enrich.Submissions(ctx, rows, a),
		Paging:      p.MetaFor(total),
	}, nil
}

// AllSubmissions returns every submission of an assignment, enriched,
// newest first. It backs the CSV export, which cannot page; the query is
// capped at the export row limit. The parent assignment comes back too
// so the caller can name the export.
func (s *Service) AllSubmissions(ctx context.Context, assignmentID primitive.ObjectID, actorID primitive.ObjectID) ([]enrich.EnrichedSubmission, *models.Assignment, error) {
	a, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, nil, err
	}
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	if !assignmentpolicy.CanGrade(actor, a) {
		return nil, nil, apperr.Authorization("You are not authorized to view submissions for this assignment")
	}

	rows, err := s.submissions.ListAllForAssignment(ctx, assignmentID, csvutil.MaxExportRows)
	if err != nil {
		return nil, nil, apperr.Persistence("list submissions", err)
	}
	if len(rows) == csvutil.MaxExportRows {
		s.log.Warn("submission export hit the row cap",
			zap.String("assignment_id", assignmentID.Hex()),
			zap.Int("cap", csvutil.MaxExportRows))
	}
	return s.enrich.Submissions(ctx, rows, a), a, nil
}

// AssignmentStats derives submission and grade aggregates for one
// assignment. Soft-deleted assignments keep their stats addressable.
func (s *Service) AssignmentStats(ctx context.Context, assignmentID primitive.ObjectID, actorID primitive.ObjectID) (*stats.AssignmentStats, error) {
	a, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	actor, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !assignmentpolicy.CanGrade(actor, a) {
		return nil, apperr.Authorization("You are not authorized to view stats for this assignment")
	}

	subs, err := s.submissions.ListAllForAssignment(ctx, assignmentID, 0)
	if err != nil {
		return nil, apperr.Persistence("list submissions", err)
	}
	st := stats.Compute(a.ID, a.MaxPoints, subs)
	return &st, nil
}
