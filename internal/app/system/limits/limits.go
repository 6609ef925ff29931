// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxAssignmentBodySize is the maximum size for assignment create and
	// update bodies. Instructions may carry rich HTML.
	MaxAssignmentBodySize = 1 << 20 // 1 MB

	// MaxSubmissionBodySize is the maximum size for submission bodies.
	// File content lives in external storage; only text and the file URL
	// travel in the request.
	MaxSubmissionBodySize = 1 << 20 // 1 MB

	// MaxGradeBodySize is the maximum size for grading bodies (grade,
	// feedback).
	MaxGradeBodySize = 64 << 10 // 64 KB
)
