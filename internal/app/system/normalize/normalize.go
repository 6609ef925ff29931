// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Normalization helpers applied to inbound values before validation and
// persistence. Queries count on these: email lookups assume lowercase,
// role/status comparisons assume canonical lowercase values.

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a person's display name. Case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role value (admin | trainer | learner).
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status lowercases and trims a status value (active | disabled).
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AssignmentType lowercases and trims the free-form assignment tag
// (e.g. "individual", "group") so listings filter consistently.
func AssignmentType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query parameter. Case is preserved.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
