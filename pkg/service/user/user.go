// Package user provides business logic for managing user records.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/user"
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/amirasaad/bank/pkg/repository"
	"github.com/amirasaad/bank/pkg/service/auth"
)

// PasswordHasher hashes plain passwords for storage.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// Service provides user CRUD. Ownership is checked here; admin-only
// operations are gated by the HTTP layer.
type Service struct {
	uow    repository.UnitOfWork
	hasher PasswordHasher
	logger *slog.Logger
}

// New creates a new Service with a UnitOfWork, password hasher and logger.
func New(
	uow repository.UnitOfWork,
	hasher PasswordHasher,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, hasher: hasher, logger: logger}
}

// List returns every user.
func (s *Service) List(ctx context.Context) (users []*user.User, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		users, err = repo.List(ctx)
		return err
	})
	return
}

// Get returns the user when the actor is that user or an admin.
func (s *Service) Get(
	ctx context.Context,
	actor *auth.Identity,
	id uint,
) (u *user.User, err error) {
	if !actor.CanAccess(id) {
		return nil, domain.ErrForbidden
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		u = nil
	}
	return
}

// Create stores a new user from admin input. A taken username yields
// domain.ErrAlreadyExists.
func (s *Service) Create(
	ctx context.Context,
	in dto.UserInput,
) (*user.User, error) {
	log := s.logger.With("context", "CreateUser", "username", in.Username)
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = user.RoleUser
	}
	hash, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := user.New(in.Username, hash, profileOf(in), role)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		taken, err := repo.ExistsByUsername(ctx, u.Username)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: username %q", domain.ErrAlreadyExists, u.Username)
		}
		return repo.Create(ctx, u)
	})
	if err != nil {
		log.Warn("Create user failed", "error", err)
		return nil, err
	}
	log.Info("User created", "userID", u.ID)
	return u, nil
}

// Update replaces the user's fields. An empty password keeps the stored
// hash and an empty role keeps the stored role; only admins may change a role.
func (s *Service) Update(
	ctx context.Context,
	actor *auth.Identity,
	id uint,
	in dto.UserInput,
) (*user.User, error) {
	log := s.logger.With("context", "UpdateUser", "userID", id)
	if in.ID != 0 && in.ID != id {
		return nil, fmt.Errorf("%w: body id %d does not match path id %d", domain.ErrValidation, in.ID, id)
	}
	if strings.TrimSpace(in.Username) == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", domain.ErrValidation)
	}
	if in.Role != "" && !user.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, in.Role)
	}
	if !actor.CanAccess(id) {
		return nil, domain.ErrForbidden
	}
	var hash string
	if in.Password != "" {
		var err error
		if hash, err = s.hasher.HashPassword(in.Password); err != nil {
			return nil, err
		}
	}

	var u *user.User
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if in.Role != "" && in.Role != u.Role {
			if !actor.IsAdmin() {
				return fmt.Errorf("%w: only admins may change roles", domain.ErrForbidden)
			}
			u.Role = in.Role
		}
		if in.Username != u.Username {
			taken, err := repo.ExistsByUsername(ctx, in.Username)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: username %q", domain.ErrAlreadyExists, in.Username)
			}
			u.Username = in.Username
		}
		if hash != "" {
			u.Password = hash
		}
		u.ApplyProfile(profileOf(in))
		return repo.Update(ctx, u)
	})
	if err != nil {
		log.Warn("Update user failed", "error", err)
		return nil, err
	}
	log.Info("User updated")
	return u, nil
}

// Delete removes the user together with its accounts and cards. A user
// whose accounts appear in transactions cannot be deleted.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("Delete user failed", "userID", id, "error", err)
	}
	return err
}

func profileOf(in dto.UserInput) user.Profile {
	return user.Profile{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		NationalID: in.NationalID,
		Email:      in.Email,
	}
}
