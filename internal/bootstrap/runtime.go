// Package bootstrap establishes runtime dependencies (database, Redis)
// for the command-line entry points.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"uplift/internal/cache"
	"uplift/internal/config"
	"uplift/internal/database"
	"uplift/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// DevAdminPassword, when set in a development environment, ensures a
	// root admin account exists with these credentials.
	DevAdminPassword string
}

// InitRuntime connects to the database and Redis. The Redis client may be
// nil when the server is unreachable; the application degrades to
// uncached reads.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	if err := ensureDevAdmin(cfg, db, opts.DevAdminPassword); err != nil {
		return nil, nil, fmt.Errorf("development admin bootstrap failed: %w", err)
	}

	return db, cache.GetClient(), nil
}

// ensureDevAdmin creates or repairs the development root admin account.
// Only runs in development and only when a password is provided.
func ensureDevAdmin(cfg *config.Config, db *gorm.DB, password string) error {
	if !strings.EqualFold(cfg.Env, "development") || password == "" {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var admin models.User
		findErr := tx.Where("username = ?", "uplift_admin").Take(&admin).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			admin = models.User{
				Username: "uplift_admin",
				Email:    "admin@uplift.local",
				Password: string(hashed),
				IsAdmin:  true,
			}
			if err := tx.Create(&admin).Error; err != nil {
				return err
			}
			slog.Info("created development admin account", slog.Uint64("user_id", uint64(admin.ID)))
		case findErr != nil:
			return findErr
		default:
			if err := tx.Model(&admin).Updates(map[string]any{
				"is_admin": true,
				"password": string(hashed),
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
