// internal/app/system/csvutil/submissions.go
package csvutil

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"
)

// SubmissionRow is one line of a grader's submissions export. Identity
// fields come from enrichment and may be empty when a lookup failed; the
// raw student id column is always present.
type SubmissionRow struct {
	StudentID    string
	StudentName  string
	StudentEmail string
	Status       string
	SubmittedAt  time.Time
	Late         bool
	Grade        *float64
	Feedback     string
	GradedAt     *time.Time
	GradedBy     string
}

var submissionHeader = []string{
	"student_id", "student_name", "student_email", "status",
	"submitted_at", "late", "grade", "feedback", "graded_at", "graded_by",
}

// WriteSubmissionsCSV writes a header row and one record per submission to w.
// Timestamps are RFC 3339 UTC; grade, graded_at, and graded_by stay empty
// until the submission is graded.
func WriteSubmissionsCSV(w io.Writer, rows []SubmissionRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(submissionHeader); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{
			row.StudentID,
			row.StudentName,
			row.StudentEmail,
			row.Status,
			formatTime(row.SubmittedAt),
			formatBool(row.Late),
			formatGrade(row.Grade),
			row.Feedback,
			formatTimePtr(row.GradedAt),
			row.GradedBy,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename builds a download filename from an assignment title,
// e.g. "Week 3 Lab" -> "submissions-week-3-lab.csv".
func ExportFilename(assignmentTitle string) string {
	slug := slugify(assignmentTitle)
	if slug == "" {
		return "submissions.csv"
	}
	return "submissions-" + slug + ".csv"
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func formatGrade(g *float64) string {
	if g == nil {
		return ""
	}
	return strconv.FormatFloat(*g, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
