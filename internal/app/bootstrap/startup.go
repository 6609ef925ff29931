// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/coursehub/internal/app/store/audit"
	userstore "github.com/dalemusser/coursehub/internal/app/store/users"
	"github.com/dalemusser/coursehub/internal/app/system/workers"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// auditRetention runs for the life of the process. Startup creates it and
// Shutdown stops it.
var auditRetention *workers.AuditRetention

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It seeds
// the bootstrap admin account when one is configured and launches the audit
// retention worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
			return fmt.Errorf("ensure admin account: %w", err)
		}
	}

	if appCfg.AuditRetentionDays > 0 {
		retention := time.Duration(appCfg.AuditRetentionDays) * 24 * time.Hour
		auditRetention = workers.NewAuditRetention(
			audit.New(deps.CourseHubMongoDatabase),
			logger,
			appCfg.AuditSweepInterval,
			retention,
		)
		auditRetention.Start()
	}

	return nil
}

// ensureAdmin guarantees that the configured email belongs to an admin
// account. An existing user is promoted in place; a missing one is created
// with status active.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	users := userstore.New(deps.CourseHubMongoDatabase)

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == "admin" {
			logger.Debug("admin account already present", zap.String("email", email))
			return nil
		}
		_, err := deps.CourseHubMongoDatabase.Collection("users").UpdateOne(ctx,
			bson.M{"_id": existing.ID},
			bson.M{"$set": bson.M{
				"role":       "admin",
				"updated_at": time.Now().UTC(),
			}})
		if err != nil {
			return fmt.Errorf("promote user to admin: %w", err)
		}
		logger.Info("promoted existing user to admin",
			zap.String("email", email),
			zap.String("previous_role", existing.Role))
		return nil

	case errors.Is(err, mongo.ErrNoDocuments):
		if _, err := users.Create(ctx, models.User{
			FullName: "CourseHub Admin",
			Email:    email,
			Role:     "admin",
			Status:   "active",
		}); err != nil {
			return fmt.Errorf("create admin user: %w", err)
		}
		logger.Info("created admin account", zap.String("email", email))
		return nil

	default:
		return fmt.Errorf("look up admin user: %w", err)
	}
}
