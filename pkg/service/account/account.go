// Package account provides business logic for bank accounts.
package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/amirasaad/bank/pkg/repository"
	"github.com/amirasaad/bank/pkg/service/auth"
)

// Service provides account CRUD scoped to the caller. Balances change only
// through Update; recording a transaction never moves them.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new account Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// List returns every account for admins and the caller's own otherwise.
func (s *Service) List(
	ctx context.Context,
	actor *auth.Identity,
) (accounts []*account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if actor.IsAdmin() {
			accounts, err = repo.List(ctx)
		} else {
			accounts, err = repo.ListByOwner(ctx, actor.UserID)
		}
		return err
	})
	return
}

// ListByOwner returns the accounts of one user.
func (s *Service) ListByOwner(
	ctx context.Context,
	actor *auth.Identity,
	ownerID uint,
) (accounts []*account.Account, err error) {
	if !actor.CanAccess(ownerID) {
		return nil, domain.ErrForbidden
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		accounts, err = repo.ListByOwner(ctx, ownerID)
		return err
	})
	return
}

// Get returns the account when the caller owns it or is an admin.
func (s *Service) Get(
	ctx context.Context,
	actor *auth.Identity,
	id uint,
) (a *account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanAccess(a.OwnerID) {
			return domain.ErrForbidden
		}
		return nil
	})
	if err != nil {
		a = nil
	}
	return
}

// Create opens an account. A zero owner means the caller; only admins may
// open accounts for someone else.
func (s *Service) Create(
	ctx context.Context,
	actor *auth.Identity,
	in dto.AccountInput,
) (*account.Account, error) {
	ownerID := in.OwnerID
	if ownerID == 0 {
		ownerID = actor.UserID
	}
	log := s.logger.With("context", "CreateAccount", "ownerID", ownerID)
	if !actor.CanAccess(ownerID) {
		return nil, domain.ErrForbidden
	}
	a, err := account.New().
		WithIBAN(in.IBAN).
		WithOwnerID(ownerID).
		WithCurrency(in.Currency).
		WithBalance(in.Balance).
		Build()
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := ensureUser(ctx, uow, ownerID); err != nil {
			return err
		}
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, a)
	})
	if err != nil {
		log.Warn("Create account failed", "error", err)
		return nil, err
	}
	log.Info("Account created", "accountID", a.ID)
	return a, nil
}

// Update replaces the account's fields. A body id that differs from the
// path id is rejected before anything is written.
func (s *Service) Update(
	ctx context.Context,
	actor *auth.Identity,
	id uint,
	in dto.AccountInput,
) (*account.Account, error) {
	log := s.logger.With("context", "UpdateAccount", "accountID", id)
	if in.ID != 0 && in.ID != id {
		return nil, fmt.Errorf("%w: body id %d does not match path id %d", domain.ErrValidation, in.ID, id)
	}
	var a *account.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanAccess(current.OwnerID) {
			return domain.ErrForbidden
		}
		ownerID := in.OwnerID
		if ownerID == 0 {
			ownerID = current.OwnerID
		}
		if ownerID != current.OwnerID {
			if !actor.IsAdmin() {
				return fmt.Errorf("%w: only admins may transfer ownership", domain.ErrForbidden)
			}
			if err := ensureUser(ctx, uow, ownerID); err != nil {
				return err
			}
		}
		a, err = account.New().
			WithID(id).
			WithIBAN(in.IBAN).
			WithOwnerID(ownerID).
			WithCurrency(in.Currency).
			WithBalance(in.Balance).
			WithCreatedAt(current.CreatedAt).
			Build()
		if err != nil {
			return err
		}
		return repo.Update(ctx, a)
	})
	if err != nil {
		log.Warn("Update account failed", "error", err)
		return nil, err
	}
	log.Info("Account updated")
	return a, nil
}

// Delete removes the account and its cards. Accounts referenced by any
// transaction yield domain.ErrConflict.
func (s *Service) Delete(
	ctx context.Context,
	actor *auth.Identity,
	id uint,
) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanAccess(a.OwnerID) {
			return domain.ErrForbidden
		}
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		n, err := txRepo.CountByAccount(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: account %d is referenced by %d transactions", domain.ErrConflict, id, n)
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Warn("Delete account failed", "accountID", id, "error", err)
	}
	return err
}

func ensureUser(ctx context.Context, uow repository.UnitOfWork, id uint) error {
	repo, err := uow.UserRepository()
	if err != nil {
		return err
	}
	ok, err := repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user %d", domain.ErrInvalidReference, id)
	}
	return nil
}
