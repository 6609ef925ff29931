// internal/app/system/auditlog/logger.go
package auditlog

// Terminology: User Identifiers
//   - ActorID / actorID: the user who performed the action (trainer creating an assignment, student submitting)
//   - UserID / userID: the user the event is about (the student whose submission was graded)

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/coursehub/internal/app/store/audit"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Coursework controls logging for assignment and submission lifecycle events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Coursework string
	// Security controls logging for authorization denials and rate limiting.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Security string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (for reverse proxies)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	// Fall back to RemoteAddr
	return r.RemoteAddr
}

// correlationID returns the request's correlation ID, minting one when the
// caller did not send an X-Request-Id header.
func correlationID(r *http.Request) string {
	if id := r.Header.Get("X-Request-Id"); id != "" {
		return id
	}
	return uuid.New().String()
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.CourseID != nil {
		fields = append(fields, zap.String("course_id", event.CourseID.Hex()))
	}
	if event.CorrelationID != "" {
		fields = append(fields, zap.String("correlation_id", event.CorrelationID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	// Determine which config setting applies based on event category
	var setting string
	switch event.Category {
	case audit.CategoryCoursework:
		setting = l.config.Coursework
	case audit.CategorySecurity:
		setting = l.config.Security
	default:
		setting = "all" // Default to logging everything for unknown categories
	}

	// Check if logging is disabled for this category
	if setting == "off" {
		return
	}

	// Log to zap if configured
	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	// Log to MongoDB if configured
	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Coursework Events ---

// AssignmentCreated logs when a trainer or admin creates an assignment.
func (l *Logger) AssignmentCreated(ctx context.Context, r *http.Request, actorID, assignmentID, courseID primitive.ObjectID, actorRole, title string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryCoursework,
		EventType:     audit.EventAssignmentCreated,
		ActorID:       &actorID,
		CourseID:      &courseID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		CorrelationID: correlationID(r),
		Success:       true,
		Details: map[string]string{
			"actor_role":    actorRole,
			"assignment_id": assignmentID.Hex(),
			"title":         title,
		},
	})
}

// AssignmentUpdated logs when a trainer or admin updates an assignment.
func (l *Logger) AssignmentUpdated(ctx context.Context, r *http.Request, actorID, assignmentID, courseID primitive.ObjectID, actorRole, fieldsChanged string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryCoursework,
		EventType:     audit.EventAssignmentUpdated,
		ActorID:       &actorID,
		CourseID:      &courseID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		CorrelationID: correlationID(r),
		Success:       true,
		Details: map[string]string{
			"actor_role":     actorRole,
			"assignment_id":  assignmentID.Hex(),
			"fields_changed": fieldsChanged,
		},
	})
}

// AssignmentDeleted logs when a trainer or admin deactivates an assignment.
func (l *Logger) AssignmentDeleted(ctx context.Context, r *http.Request, actorID, assignmentID, courseID primitive.ObjectID, actorRole, title string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryCoursework,
		EventType:     audit.EventAssignmentDeleted,
		ActorID:       &actorID,
		CourseID:      &courseID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		CorrelationID: correlationID(r),
		Success:       true,
		Details: map[string]string{
			"actor_role":    actorRole,
			"assignment_id": assignmentID.Hex(),
			"title":         title,
		},
	})
}

// SubmissionCreated logs when a student submits work for an assignment.
func (l *Logger) SubmissionCreated(ctx context.Context, r *http.Request, studentID, assignmentID, courseID primitive.ObjectID, late bool) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryCoursework,
		EventType:     audit.EventSubmissionCreated,
		UserID:        &studentID,
		ActorID:       &studentID,
		CourseID:      &courseID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		CorrelationID: correlationID(r),
		Success:       true,
		Details: map[string]string{
			"assignment_id": assignmentID.Hex(),
			"late":          strconv.FormatBool(late),
		},
	})
}

// SubmissionGraded logs when a grader records a grade for a submission.
func (l *Logger) SubmissionGraded(ctx context.Context, r *http.Request, actorID, studentID, assignmentID, courseID primitive.ObjectID, actorRole string, grade float64) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryCoursework,
		EventType:     audit.EventSubmissionGraded,
		UserID:        &studentID,
		ActorID:       &actorID,
		CourseID:      &courseID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		CorrelationID: correlationID(r),
		Success:       true,
		Details: map[string]string{
			"actor_role":    actorRole,
			"assignment_id": assignmentID.Hex(),
			"grade":         strconv.FormatFloat(grade, 'f', -1, 64),
		},
	})
}

// --- Security Events ---

// AuthzDenied logs a rejected authorization check.
// Accepts a string ID from SessionUser and converts it to an ObjectID.
func (l *Logger) AuthzDenied(ctx context.Context, r *http.Request, actorIDStr, actorRole, action, reason string) {
	var actorID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(actorIDStr); err == nil {
		actorID = &oid
	}

	l.Log(ctx, audit.Event{
		Category:      audit.CategorySecurity,
		EventType:     audit.EventAuthzDenied,
		ActorID:       actorID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		CorrelationID: correlationID(r),
		Success:       false,
		FailureReason: reason,
		Details: map[string]string{
			"actor_role": actorRole,
			"action":     action,
		},
	})
}

// RateLimited logs a submit attempt rejected by the rate limiter.
func (l *Logger) RateLimited(ctx context.Context, r *http.Request, studentID primitive.ObjectID, limitType string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategorySecurity,
		EventType:     audit.EventRateLimited,
		ActorID:       &studentID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		CorrelationID: correlationID(r),
		Success:       false,
		FailureReason: "rate limit exceeded",
		Details: map[string]string{
			"limit_type": limitType,
		},
	})
}
