// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CourseHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: COURSEHUB_MONGO_URI, COURSEHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "course_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "coursehub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// CORS
	{Name: "cors_allowed_origins", Default: "http://localhost:3000", Desc: "Comma-separated origins allowed to call the API"},

	// Audit logging settings
	{Name: "audit_log_coursework", Default: "all", Desc: "Coursework event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_security", Default: "all", Desc: "Security event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_retention_days", Default: 365, Desc: "Days to keep audit events (0 disables the purge worker)"},
	{Name: "audit_sweep_interval", Default: "24h", Desc: "How often the audit purge worker runs (e.g., 1h, 24h)"},

	// Submission rate limiting
	{Name: "submit_limit_ip", Default: 60, Desc: "Max submission attempts per IP per window"},
	{Name: "submit_window_ip", Default: "1m", Desc: "Submission rate window per IP (e.g., 1m, 30s)"},
	{Name: "submit_limit_student", Default: 30, Desc: "Max submission attempts per student per window"},
	{Name: "submit_window_student", Default: "5m", Desc: "Submission rate window per student (e.g., 5m)"},

	// Bootstrap admin
	{Name: "admin_email", Default: "", Desc: "Email of the platform admin (promotes/creates on startup)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, COURSEHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COURSEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),

		CORSAllowedOrigins: splitOrigins(appValues.String("cors_allowed_origins")),

		// Audit logging
		AuditLogCoursework: appValues.String("audit_log_coursework"),
		AuditLogSecurity:   appValues.String("audit_log_security"),
		AuditRetentionDays: appValues.Int("audit_retention_days"),
		AuditSweepInterval: appValues.Duration("audit_sweep_interval", 24*time.Hour),

		// Submission rate limiting
		SubmitLimitIP:       appValues.Int("submit_limit_ip"),
		SubmitWindowIP:      appValues.Duration("submit_window_ip", time.Minute),
		SubmitLimitStudent:  appValues.Int("submit_limit_student"),
		SubmitWindowStudent: appValues.Duration("submit_window_student", 5*time.Minute),

		// Bootstrap admin
		AdminEmail: appValues.String("admin_email"),
	}

	return coreCfg, appCfg, nil
}

// splitOrigins parses a comma-separated origin list, dropping blanks.
func splitOrigins(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
//
// CourseHub validates the MongoDB URI format and the audit logging
// modes to catch configuration errors early, before attempting to
// connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	for key, mode := range map[string]string{
		"audit_log_coursework": appCfg.AuditLogCoursework,
		"audit_log_security":   appCfg.AuditLogSecurity,
	} {
		switch mode {
		case "all", "db", "log", "off":
		default:
			return fmt.Errorf("%s must be one of 'all', 'db', 'log', 'off'; got %q", key, mode)
		}
	}

	if appCfg.AuditRetentionDays < 0 {
		return fmt.Errorf("audit_retention_days must not be negative; got %d", appCfg.AuditRetentionDays)
	}
	if appCfg.SubmitLimitIP <= 0 || appCfg.SubmitLimitStudent <= 0 {
		return fmt.Errorf("submit rate limits must be positive; got ip=%d student=%d",
			appCfg.SubmitLimitIP, appCfg.SubmitLimitStudent)
	}

	return nil
}
