// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/coursehub/internal/app/store/audit"
	"github.com/dalemusser/coursehub/internal/app/system/paging"
)

// eventItem is one audit event row on the wire. IDs are hex strings;
// absent references are omitted.
type eventItem struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"event_type"`
	CourseID      string            `json:"course_id,omitempty"`
	UserID        string            `json:"user_id,omitempty"`
	ActorID       string            `json:"actor_id,omitempty"`
	IP            string            `json:"ip,omitempty"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

// listResponse is the data block of the events listing.
type listResponse struct {
	Events []eventItem `json:"events"`
	Paging paging.Meta `json:"paging"`
}

func toItem(e audit.Event) eventItem {
	item := eventItem{
		ID:            e.ID.Hex(),
		Timestamp:     e.Timestamp,
		Category:      e.Category,
		EventType:     e.EventType,
		IP:            e.IP,
		CorrelationID: e.CorrelationID,
		Success:       e.Success,
		FailureReason: e.FailureReason,
		Details:       e.Details,
	}
	if e.CourseID != nil {
		item.CourseID = e.CourseID.Hex()
	}
	if e.UserID != nil {
		item.UserID = e.UserID.Hex()
	}
	if e.ActorID != nil {
		item.ActorID = e.ActorID.Hex()
	}
	return item
}

// validCategory reports whether the category filter names a known
// category. Empty means no filter.
func validCategory(category string) bool {
	switch category {
	case "", audit.CategoryCoursework, audit.CategorySecurity:
		return true
	default:
		return false
	}
}
