// Package testutils builds throwaway databases, configuration and services
// for package tests.
package testutils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/bank/infra"
	infrarepo "github.com/amirasaad/bank/infra/repository"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/amirasaad/bank/pkg/domain/user"
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/amirasaad/bank/pkg/repository"
	"github.com/amirasaad/bank/pkg/service/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password given to users created by the helpers.
const DefaultPassword = "password123"

// NewConfig returns an App configuration suited to tests: sqlite, cheap
// bcrypt and a fixed signing secret.
func NewConfig() *config.App {
	return &config.App{
		Env:    "test",
		Server: &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:    &config.Log{Level: 0, Format: "text", TimeFormat: time.RFC3339, Prefix: "[test]"},
		DB:     &config.DB{Driver: "sqlite", Migrate: true},
		Auth: &config.Auth{
			Jwt: &config.Jwt{
				Secret:   "test-secret-key-that-is-long-enough",
				Expiry:   24 * time.Hour,
				Issuer:   "bank-api",
				Audience: "bank-clients",
			},
			BcryptCost: bcrypt.MinCost,
		},
		Cors:  &config.Cors{AllowOrigins: "*"},
		Admin: &config.Admin{},
	}
}

// NewLogger returns a logger that discards everything.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestDB opens a private in-memory sqlite database with the schema applied.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	url := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := infra.NewDBConnection(&config.DB{Driver: "sqlite", Url: url}, "test")
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewTestUoW returns a unit of work over a fresh test database.
func NewTestUoW(t testing.TB) repository.UnitOfWork {
	t.Helper()
	return infrarepo.NewUoW(NewTestDB(t))
}

// CreateUser registers a user with DefaultPassword and optionally promotes it.
func CreateUser(
	t testing.TB,
	uow repository.UnitOfWork,
	authSvc *auth.Service,
	username, role string,
) *user.User {
	t.Helper()
	u, err := authSvc.Register(context.Background(), dto.RegisterRequest{
		Username:   username,
		Password:   DefaultPassword,
		FirstName:  "Test",
		LastName:   "User",
		NationalID: "ID-" + username,
		Email:      username + "@example.com",
	})
	require.NoError(t, err)
	if role != "" && role != u.Role {
		u.Role = role
		require.NoError(t, uow.Do(context.Background(), func(uow repository.UnitOfWork) error {
			repo, err := uow.UserRepository()
			if err != nil {
				return err
			}
			return repo.Update(context.Background(), u)
		}))
	}
	return u
}
