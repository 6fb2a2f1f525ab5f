// Package card provides business logic for payment cards bound to accounts.
package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/card"
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/amirasaad/bank/pkg/repository"
	"github.com/amirasaad/bank/pkg/service/auth"
)

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// List returns every card for admins and the cards on the caller's
// accounts otherwise.
func (s *Service) List(
	ctx context.Context,
	actor *auth.Identity,
) (cards []*card.Card, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CardRepository()
		if err != nil {
			return err
		}
		if actor.IsAdmin() {
			cards, err = repo.List(ctx)
		} else {
			cards, err = repo.ListByOwner(ctx, actor.UserID)
		}
		return err
	})
	return
}

// ListByAccount returns the cards bound to one account.
func (s *Service) ListByAccount(
	ctx context.Context,
	actor *auth.Identity,
	accountID uint,
) (cards []*card.Card, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := authorizeAccount(ctx, uow, actor, accountID, domain.ErrNotFound); err != nil {
			return err
		}
		repo, err := uow.CardRepository()
		if err != nil {
			return err
		}
		cards, err = repo.ListByAccount(ctx, accountID)
		return err
	})
	return
}

func (s *Service) Get(
	ctx context.Context,
	actor *auth.Identity,
	id uint,
) (c *card.Card, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CardRepository()
		if err != nil {
			return err
		}
		c, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		return authorizeAccount(ctx, uow, actor, c.AccountID, domain.ErrNotFound)
	})
	if err != nil {
		c = nil
	}
	return
}

// Create issues a card on an account the caller owns.
func (s *Service) Create(
	ctx context.Context,
	actor *auth.Identity,
	in dto.CardInput,
) (*card.Card, error) {
	log := s.logger.With("context", "CreateCard", "accountID", in.AccountID)
	c, err := fromInput(in)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := authorizeAccount(ctx, uow, actor, c.AccountID, domain.ErrInvalidReference); err != nil {
			return err
		}
		repo, err := uow.CardRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, c)
	})
	if err != nil {
		log.Warn("Create card failed", "error", err)
		return nil, err
	}
	log.Info("Card created", "cardID", c.ID)
	return c, nil
}

// Update replaces the card's fields. The caller must own both the current
// and the target account.
func (s *Service) Update(
	ctx context.Context,
	actor *auth.Identity,
	id uint,
	in dto.CardInput,
) (*card.Card, error) {
	log := s.logger.With("context", "UpdateCard", "cardID", id)
	if in.ID != 0 && in.ID != id {
		return nil, fmt.Errorf("%w: body id %d does not match path id %d", domain.ErrValidation, in.ID, id)
	}
	c, err := fromInput(in)
	if err != nil {
		return nil, err
	}
	c.ID = id
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CardRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := authorizeAccount(ctx, uow, actor, current.AccountID, domain.ErrNotFound); err != nil {
			return err
		}
		if c.AccountID != current.AccountID {
			if err := authorizeAccount(ctx, uow, actor, c.AccountID, domain.ErrInvalidReference); err != nil {
				return err
			}
		}
		c.CreatedAt = current.CreatedAt
		return repo.Update(ctx, c)
	})
	if err != nil {
		log.Warn("Update card failed", "error", err)
		return nil, err
	}
	log.Info("Card updated")
	return c, nil
}

func (s *Service) Delete(
	ctx context.Context,
	actor *auth.Identity,
	id uint,
) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CardRepository()
		if err != nil {
			return err
		}
		c, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := authorizeAccount(ctx, uow, actor, c.AccountID, domain.ErrNotFound); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Warn("Delete card failed", "cardID", id, "error", err)
	}
	return err
}

func fromInput(in dto.CardInput) (*card.Card, error) {
	expiration, err := time.Parse(card.DateLayout, in.ExpirationDate)
	if err != nil {
		return nil, fmt.Errorf("%w: expiration_date must use %s", domain.ErrValidation, card.DateLayout)
	}
	return card.New(in.Number, in.HolderName, expiration, in.CVV, in.AccountID)
}

// authorizeAccount loads the account and checks the caller may use it.
// A missing account is reported as missing.
func authorizeAccount(
	ctx context.Context,
	uow repository.UnitOfWork,
	actor *auth.Identity,
	accountID uint,
	missing error,
) error {
	repo, err := uow.AccountRepository()
	if err != nil {
		return err
	}
	a, err := repo.Get(ctx, accountID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: account %d", missing, accountID)
	}
	if err != nil {
		return err
	}
	if !actor.CanAccess(a.OwnerID) {
		return domain.ErrForbidden
	}
	return nil
}
