// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// policy is the shared sanitizer for user-authored content: assignment
// descriptions and instructions, submission text, and grader feedback.
// It is a UGC policy widened with the formatting and table markup the
// rich-text editors produce.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowElements("u", "s", "sub", "sup", "mark")

	// Table markup as emitted by the editors, including the class hooks
	// and the limited inline styles they set.
	tableEls := []string{"table", "thead", "tbody", "tfoot", "tr", "td", "th"}
	p.AllowAttrs("class").OnElements(tableEls...)
	p.AllowAttrs("style").OnElements(tableEls...)
	p.AllowStyles(
		"width", "height", "text-align", "vertical-align",
		"border", "border-collapse", "padding", "margin",
	).OnElements(tableEls...)

	return p
}

// Sanitize strips unsafe markup from s, keeping the formatting subset
// the policy allows. Plain text passes through unchanged. Markup with
// no text content sanitizes to the empty string.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
