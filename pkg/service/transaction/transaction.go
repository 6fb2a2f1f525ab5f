// Package transaction records transactions between accounts.
//
// Recording a transaction writes one row and nothing else: balances are
// never debited or credited and amounts are not checked for sign or
// sufficiency.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/transaction"
	"github.com/amirasaad/bank/pkg/dto"
	"github.com/amirasaad/bank/pkg/repository"
	"github.com/amirasaad/bank/pkg/service/auth"
)

// Service records and queries transactions.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new transaction Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// List returns every transaction for admins and, otherwise, those where
// the caller owns the sender or the receiver account.
func (s *Service) List(
	ctx context.Context,
	actor *auth.Identity,
) (txs []*transaction.Transaction, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		if actor.IsAdmin() {
			txs, err = repo.List(ctx)
		} else {
			txs, err = repo.ListByOwner(ctx, actor.UserID)
		}
		return err
	})
	return
}

// ListByAccount returns the transactions an account took part in.
func (s *Service) ListByAccount(
	ctx context.Context,
	actor *auth.Identity,
	accountID uint,
) (txs []*transaction.Transaction, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		a, err := loadAccount(ctx, uow, accountID, domain.ErrNotFound)
		if err != nil {
			return err
		}
		if !actor.CanAccess(a.OwnerID) {
			return domain.ErrForbidden
		}
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = repo.ListByAccount(ctx, accountID)
		return err
	})
	return
}

// Get returns the transaction when the caller is an involved party or an admin.
func (s *Service) Get(
	ctx context.Context,
	actor *auth.Identity,
	id uint,
) (tx *transaction.Transaction, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		tx, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if actor.IsAdmin() {
			return nil
		}
		for _, accountID := range []uint{tx.SenderID, tx.ReceiverID} {
			a, err := loadAccount(ctx, uow, accountID, domain.ErrNotFound)
			if err != nil {
				return err
			}
			if a.OwnerID == actor.UserID {
				return nil
			}
		}
		return domain.ErrForbidden
	})
	if err != nil {
		tx = nil
	}
	return
}

// Create records a transaction. Non-admins must own the sender account.
func (s *Service) Create(
	ctx context.Context,
	actor *auth.Identity,
	in dto.TransactionInput,
) (*transaction.Transaction, error) {
	log := s.logger.With("context", "CreateTransaction", "senderID", in.SenderID, "receiverID", in.ReceiverID)
	tx, err := fromInput(in)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		sender, err := loadAccount(ctx, uow, tx.SenderID, domain.ErrInvalidReference)
		if err != nil {
			return err
		}
		if _, err := loadAccount(ctx, uow, tx.ReceiverID, domain.ErrInvalidReference); err != nil {
			return err
		}
		if !actor.CanAccess(sender.OwnerID) {
			return fmt.Errorf("%w: sender account is not yours", domain.ErrForbidden)
		}
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, tx)
	})
	if err != nil {
		log.Warn("Create transaction failed", "error", err)
		return nil, err
	}
	log.Info("Transaction recorded", "transactionID", tx.ID, "identifier", tx.Identifier)
	return tx, nil
}

// Update replaces a transaction record. Admin only.
func (s *Service) Update(
	ctx context.Context,
	id uint,
	in dto.TransactionInput,
) (*transaction.Transaction, error) {
	log := s.logger.With("context", "UpdateTransaction", "transactionID", id)
	if in.ID != 0 && in.ID != id {
		return nil, fmt.Errorf("%w: body id %d does not match path id %d", domain.ErrValidation, in.ID, id)
	}
	tx, err := fromInput(in)
	if err != nil {
		return nil, err
	}
	tx.ID = id
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if in.Identifier == "" {
			tx.Identifier = current.Identifier
		}
		if in.Time.IsZero() {
			tx.Time = current.Time
		}
		for _, accountID := range []uint{tx.SenderID, tx.ReceiverID} {
			if _, err := loadAccount(ctx, uow, accountID, domain.ErrInvalidReference); err != nil {
				return err
			}
		}
		tx.CreatedAt = current.CreatedAt
		return repo.Update(ctx, tx)
	})
	if err != nil {
		log.Warn("Update transaction failed", "error", err)
		return nil, err
	}
	log.Info("Transaction updated")
	return tx, nil
}

// Delete removes a transaction record. Admin only.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Warn("Delete transaction failed", "transactionID", id, "error", err)
	}
	return err
}

func fromInput(in dto.TransactionInput) (*transaction.Transaction, error) {
	return transaction.New(
		in.Identifier,
		in.Amount,
		in.Currency,
		in.Time,
		in.Type,
		in.SenderID,
		in.ReceiverID,
		in.Phone,
	)
}

func loadAccount(
	ctx context.Context,
	uow repository.UnitOfWork,
	id uint,
	missing error,
) (*account.Account, error) {
	repo, err := uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	a, err := repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: account %d", missing, id)
	}
	return a, err
}
