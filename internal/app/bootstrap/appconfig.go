// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - Request body size limits
//
// AppConfig is where everything specific to CourseHub lives: the MongoDB
// connection, session cookies, audit logging policy, and the submission
// rate limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm in the pool

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: coursehub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// CORS configuration for browser clients of the JSON API
	CORSAllowedOrigins []string // Origins allowed to call the API with credentials

	// Audit logging policy
	AuditLogCoursework string        // Coursework events: "all" (db+log), "db", "log", or "off"
	AuditLogSecurity   string        // Security events: "all" (db+log), "db", "log", or "off"
	AuditRetentionDays int           // Days to keep audit events; 0 disables the purge worker
	AuditSweepInterval time.Duration // How often the purge worker runs

	// Submission rate limiting
	SubmitLimitIP       int           // Max submission attempts per IP per window
	SubmitWindowIP      time.Duration // IP window duration
	SubmitLimitStudent  int           // Max submission attempts per student per window
	SubmitWindowStudent time.Duration // Student window duration

	// Bootstrap admin (promotes/creates on startup when set)
	AdminEmail string // Email of the platform admin account
}
