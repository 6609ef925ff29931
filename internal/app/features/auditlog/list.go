// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"

	"github.com/dalemusser/coursehub/internal/app/store/audit"
	"github.com/dalemusser/coursehub/internal/app/system/normalize"
	"github.com/dalemusser/coursehub/internal/app/system/paging"
	"github.com/dalemusser/coursehub/internal/app/system/respond"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/domain/apperr"
)

// ServeList returns a page of audit events, newest first. Filters:
// category, event_type, start_date and end_date (YYYY-MM-DD, inclusive),
// page, limit.
//
// Route: GET /api/audit/events
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	category := normalize.QueryParam(query.Get(r, "category"))
	if !validCategory(category) {
		respond.Err(w, h.Log, apperr.Validationf("Unknown category %q", category))
		return
	}
	eventType := normalize.QueryParam(query.Get(r, "event_type"))

	opts := paging.Parse(r, nil, "timestamp", -1)

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Limit:     int64(opts.Limit),
		Offset:    opts.Skip(),
	}

	if s := normalize.QueryParam(query.Get(r, "start_date")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			respond.Err(w, h.Log, apperr.ValidationField("start_date", "Dates must look like 2006-01-02."))
			return
		}
		filter.StartTime = &t
	}
	if s := normalize.QueryParam(query.Get(r, "end_date")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			respond.Err(w, h.Log, apperr.ValidationField("end_date", "Dates must look like 2006-01-02."))
			return
		}
		endOfDay := t.Add(24*time.Hour - time.Second)
		filter.EndTime = &endOfDay
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit event list")
	defer cancel()

	events, err := h.Store.Query(ctx, filter)
	if err != nil {
		respond.Err(w, h.Log, apperr.Persistence("query audit events", err))
		return
	}
	total, err := h.Store.CountByFilter(ctx, filter)
	if err != nil {
		respond.Err(w, h.Log, apperr.Persistence("count audit events", err))
		return
	}

	items := make([]eventItem, 0, len(events))
	for _, e := range events {
		items = append(items, toItem(e))
	}
	respond.OK(w, listResponse{
		Events: items,
		Paging: opts.MetaFor(total),
	})
}
