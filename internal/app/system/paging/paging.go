// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLimit is the page size used when the caller sends none.
const DefaultLimit = 20

// MaxLimit caps how many rows a single page may request.
const MaxLimit = 100

// Params is a resolved paging window with a validated sort. Sort holds
// the Mongo field name (already mapped through the listing's sortable
// set), Order is 1 for ascending and -1 for descending.
type Params struct {
	Page  int
	Limit int
	Sort  string
	Order int
}

// Meta is the paging block echoed back in list responses.
type Meta struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"has_next"`
}

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParseLimit extracts the "limit" query parameter, clamped to
// [1, MaxLimit]. Returns DefaultLimit if not present or invalid.
func ParseLimit(r *http.Request) int {
	s := query.Get(r, "limit")
	if s == "" {
		return DefaultLimit
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// ParseSort maps the "sort" query parameter through sortable (query
// value to Mongo field). Unknown or absent values fall back to def.
func ParseSort(r *http.Request, sortable map[string]string, def string) string {
	s := strings.ToLower(strings.TrimSpace(query.Get(r, "sort")))
	if field, ok := sortable[s]; ok {
		return field
	}
	return def
}

// ParseOrder extracts the "order" query parameter ("asc" or "desc").
// Returns def (1 or -1) if absent or unrecognized.
func ParseOrder(r *http.Request, def int) int {
	switch strings.ToLower(strings.TrimSpace(query.Get(r, "order"))) {
	case "asc":
		return 1
	case "desc":
		return -1
	default:
		return def
	}
}

// Parse resolves the full paging window for a listing. sortable maps
// accepted sort values to Mongo fields; defSort is the Mongo field used
// when the parameter is absent or unknown, defOrder its direction.
func Parse(r *http.Request, sortable map[string]string, defSort string, defOrder int) Params {
	return Params{
		Page:  ParsePage(r),
		Limit: ParseLimit(r),
		Sort:  ParseSort(r, sortable, defSort),
		Order: ParseOrder(r, defOrder),
	}
}

// Resolved fills zero-value fields with the listing's defaults so
// stores can accept a partially built Params (tests, internal callers)
// without producing an empty sort key.
func (p Params) Resolved(defSort string, defOrder int) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Sort == "" {
		p.Sort = defSort
	}
	if p.Order != 1 && p.Order != -1 {
		p.Order = defOrder
	}
	return p
}

// Skip returns the offset for the current page.
func (p Params) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// ApplyToFind configures FindOptions with sort, skip, and limit. The
// _id tiebreak keeps order stable across equal sort keys.
func (p Params) ApplyToFind(find *options.FindOptions) {
	find.SetSort(bson.D{
		{Key: p.Sort, Value: p.Order},
		{Key: "_id", Value: p.Order},
	}).SetSkip(p.Skip()).SetLimit(int64(p.Limit))
}

// MetaFor builds the response paging block from the filter's total.
func (p Params) MetaFor(total int64) Meta {
	return Meta{
		Page:    p.Page,
		Limit:   p.Limit,
		Total:   total,
		HasNext: p.Skip()+int64(p.Limit) < total,
	}
}
