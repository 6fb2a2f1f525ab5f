package initializer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/amirasaad/bank/infra"
	infrarepo "github.com/amirasaad/bank/infra/repository"
	"github.com/amirasaad/bank/pkg/app"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/user"
	"github.com/amirasaad/bank/pkg/repository"
	"github.com/amirasaad/bank/pkg/utils"
	"gorm.io/gorm"
)

// InitializeDependencies initializes all the application dependencies.
// A database that cannot be opened aborts startup; a failed migration or
// admin seed is logged and startup continues.
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	err error,
) {
	logger := setupLogger(cfg.Log, os.Stdout)
	deps = &app.Deps{Logger: logger}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	deps.Uow = Bootstrap(context.Background(), db, cfg, logger)
	return deps, nil
}

// Bootstrap migrates the schema when enabled, seeds the admin account and
// returns the unit of work over db.
func Bootstrap(
	ctx context.Context,
	db *gorm.DB,
	cfg *config.App,
	logger *slog.Logger,
) repository.UnitOfWork {
	if cfg.DB.Migrate {
		if err := infra.Migrate(db); err != nil {
			logger.Error("Failed to migrate database", "error", err)
		} else {
			logger.Info("Database schema is up to date", "driver", db.Dialector.Name())
		}
	}

	uow := infrarepo.NewUoW(db)
	if cfg.Admin != nil && cfg.Admin.Username != "" && cfg.Admin.Password != "" {
		if err := SeedAdmin(ctx, uow, cfg.Admin, cfg.Auth.BcryptCost, logger); err != nil {
			logger.Error("Failed to seed admin user", "username", cfg.Admin.Username, "error", err)
		}
	}
	return uow
}

// SeedAdmin creates the configured administrator unless the username is
// already taken. An existing user is left untouched.
func SeedAdmin(
	ctx context.Context,
	uow repository.UnitOfWork,
	cfg *config.Admin,
	bcryptCost int,
	logger *slog.Logger,
) error {
	log := logger.With("context", "SeedAdmin", "username", cfg.Username)
	email := cfg.Email
	if email != "" && !utils.IsEmail(email) {
		log.Warn("Ignoring invalid admin email", "email", email)
		email = ""
	}
	hash, err := utils.HashPassword(cfg.Password, bcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin, err := user.New(cfg.Username, hash, user.Profile{
		FirstName: "Admin",
		Email:     email,
	}, user.RoleAdmin)
	if err != nil {
		return err
	}

	created := false
	err = uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		taken, err := repo.ExistsByUsername(ctx, cfg.Username)
		if err != nil || taken {
			return err
		}
		if err := repo.Create(ctx, admin); err != nil {
			return err
		}
		created = true
		return nil
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		err = nil
	}
	if err != nil {
		return err
	}
	if created {
		log.Info("Admin user created", "userID", admin.ID)
	} else {
		log.Info("Admin user already present")
	}
	return nil
}
