package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/amirasaad/bank/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Repositories obtained inside Do share the transaction session; outside Do
// they run on the plain connection.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			repository.TypeOf[repository.UserRepository]():        func(db *gorm.DB) any { return NewUserRepository(db) },
			repository.TypeOf[repository.AccountRepository]():     func(db *gorm.DB) any { return NewAccountRepository(db) },
			repository.TypeOf[repository.CardRepository]():        func(db *gorm.DB) any { return NewCardRepository(db) },
			repository.TypeOf[repository.TransactionRepository](): func(db *gorm.DB) any { return NewTransactionRepository(db) },
		},
	}
}

// Do runs the given function in a transaction boundary, providing a UoW with repository access.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// GetRepository returns the repository registered for the interface type,
// bound to the current session.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

func getTyped[T any](u *UoW) (T, error) {
	var zero T
	repoAny, err := u.GetRepository(repository.TypeOf[T]())
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("repository %T does not implement %v", repoAny, repository.TypeOf[T]())
	}
	return repo, nil
}

func (u *UoW) UserRepository() (repository.UserRepository, error) {
	return getTyped[repository.UserRepository](u)
}

func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return getTyped[repository.AccountRepository](u)
}

func (u *UoW) CardRepository() (repository.CardRepository, error) {
	return getTyped[repository.CardRepository](u)
}

func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return getTyped[repository.TransactionRepository](u)
}

var _ repository.UnitOfWork = (*UoW)(nil)
