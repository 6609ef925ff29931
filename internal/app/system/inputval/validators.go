// internal/app/system/inputval/validators.go
package inputval

import "strings"

// allowedRoles are the account roles this service recognizes.
var allowedRoles = map[string]bool{
	"admin":   true,
	"trainer": true,
	"learner": true,
}

// IsValidRole reports whether s (case-insensitive, trimmed) is a
// recognized role.
func IsValidRole(s string) bool {
	return allowedRoles[strings.ToLower(strings.TrimSpace(s))]
}

// AllowedRolesList returns the recognized roles in canonical order.
func AllowedRolesList() []string {
	return []string{"admin", "trainer", "learner"}
}

// IsValidStatus reports whether s (case-insensitive, trimmed) is a
// recognized account status.
func IsValidStatus(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "disabled":
		return true
	}
	return false
}
