// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/coursehub/internal/app/directory"
	"github.com/dalemusser/coursehub/internal/app/enrich"
	assignmentsfeature "github.com/dalemusser/coursehub/internal/app/features/assignments"
	auditlogfeature "github.com/dalemusser/coursehub/internal/app/features/auditlog"
	healthfeature "github.com/dalemusser/coursehub/internal/app/features/health"
	submissionsfeature "github.com/dalemusser/coursehub/internal/app/features/submissions"
	userinfofeature "github.com/dalemusser/coursehub/internal/app/features/userinfo"
	"github.com/dalemusser/coursehub/internal/app/lifecycle"
	assignmentstore "github.com/dalemusser/coursehub/internal/app/store/assignments"
	"github.com/dalemusser/coursehub/internal/app/store/audit"
	coursestore "github.com/dalemusser/coursehub/internal/app/store/courses"
	enrollmentstore "github.com/dalemusser/coursehub/internal/app/store/enrollments"
	submissionstore "github.com/dalemusser/coursehub/internal/app/store/submissions"
	userstore "github.com/dalemusser/coursehub/internal/app/store/users"
	"github.com/dalemusser/coursehub/internal/app/system/auditlog"
	"github.com/dalemusser/coursehub/internal/app/system/auth"
	"github.com/dalemusser/coursehub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// CourseHub assembles the lifecycle service over its Mongo-backed stores,
// applies CORS and session middleware, and mounts the JSON API routers:
// health, userinfo, assignments, submissions, and the audit trail.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.CourseHubMongoDatabase

	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on each request.
	// This ensures role changes and disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Wire the lifecycle service over the shared database. The courses,
	// users, and enrollments collections are read through directories;
	// assignments and submissions are owned by this service.
	courses := directory.NewCourseDirectory(coursestore.New(db))
	identities := directory.NewIdentityDirectory(userstore.New(db))
	subs := submissionstore.New(db)

	svc := lifecycle.New(lifecycle.Deps{
		Assignments: assignmentstore.New(db),
		Submissions: subs,
		Courses:     courses,
		Enrollments: directory.NewEnrollmentDirectory(enrollmentstore.New(db)),
		Identities:  identities,
		Enrich:      enrich.New(courses, identities, subs, logger),
		Client:      deps.CourseHubMongoClient,
		Log:         logger,
	})

	auditStore := audit.New(db)
	auditLogger := auditlog.New(auditStore, logger, auditlog.Config{
		Coursework: appCfg.AuditLogCoursework,
		Security:   appCfg.AuditLogSecurity,
	})

	submitLimiter := ratelimit.NewSubmitLimiterWithConfig(
		appCfg.SubmitLimitIP, appCfg.SubmitWindowIP,
		appCfg.SubmitLimitStudent, appCfg.SubmitWindowStudent,
	)

	r := chi.NewRouter()

	// CORS for browser clients on the configured origins. Runs before the
	// session middleware so preflight requests are answered without a
	// session lookup.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CourseHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Session identity echo for API clients
	userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

	// Assignment lifecycle: manage, list, submit, export, stats
	assignmentsHandler := assignmentsfeature.NewHandler(svc, auditLogger, submitLimiter, logger)
	r.Mount("/api/assignments", assignmentsfeature.Routes(assignmentsHandler, sessionMgr))

	// Grading
	submissionsHandler := submissionsfeature.NewHandler(svc, auditLogger, logger)
	r.Mount("/api/submissions", submissionsfeature.Routes(submissionsHandler, sessionMgr))

	// Audit trail queries for admins
	auditHandler := auditlogfeature.NewHandler(auditStore, logger)
	r.Mount("/api/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}
