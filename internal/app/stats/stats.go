// internal/app/stats/stats.go

// Package stats derives aggregate grading numbers for one assignment.
// Everything here is pure; the caller fetches the submissions and
// Compute folds them.
package stats

import (
	"math"

	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStats is the aggregate view of one assignment's grading
// progress.
type AssignmentStats struct {
	AssignmentID primitive.ObjectID `json:"assignment_id"`
	MaxPoints    int                `json:"max_points"`
	Total        int                `json:"total"`
	Graded       int                `json:"graded"`
	Pending      int                `json:"pending"`
	AverageGrade float64            `json:"average_grade"`
}

// Compute folds an assignment's submissions into stats. The average
// covers graded submissions only, rounded to two decimals half away
// from zero; with no graded work it stays 0.
func Compute(assignmentID primitive.ObjectID, maxPoints int, subs []models.Submission) AssignmentStats {
	st := AssignmentStats{
		AssignmentID: assignmentID,
		MaxPoints:    maxPoints,
		Total:        len(subs),
	}

	var sum float64
	for i := range subs {
		if subs[i].IsGraded() {
			st.Graded++
			sum += *subs[i].Grade
		}
	}
	st.Pending = st.Total - st.Graded
	if st.Graded > 0 {
		st.AverageGrade = round2(sum / float64(st.Graded))
	}
	return st
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
