package repository

import (
	"context"

	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/card"
	"github.com/amirasaad/bank/pkg/domain/transaction"
	"github.com/amirasaad/bank/pkg/domain/user"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// List returns every user ordered by id.
	List(ctx context.Context) ([]*user.User, error)
	// Get returns domain.ErrNotFound when no row has the id.
	Get(ctx context.Context, id uint) (*user.User, error)
	// GetByUsername matches the username exactly (case-sensitive).
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// Create assigns the generated id back onto u.
	Create(ctx context.Context, u *user.User) error
	// Update replaces every mutable column. Returns domain.ErrNotFound when
	// the row vanished, including when a concurrent delete won the race.
	Update(ctx context.Context, u *user.User) error
	// Delete cascades to the user's accounts and their cards.
	Delete(ctx context.Context, id uint) error
}

// AccountRepository defines the interface for account data access operations.
type AccountRepository interface {
	List(ctx context.Context) ([]*account.Account, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]*account.Account, error)
	Get(ctx context.Context, id uint) (*account.Account, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, a *account.Account) error
	Update(ctx context.Context, a *account.Account) error
	// Delete cascades to cards and is rejected with domain.ErrConflict while
	// any transaction references the account.
	Delete(ctx context.Context, id uint) error
}

// CardRepository defines the interface for card data access operations.
type CardRepository interface {
	List(ctx context.Context) ([]*card.Card, error)
	// ListByOwner returns cards bound to any account of the user.
	ListByOwner(ctx context.Context, ownerID uint) ([]*card.Card, error)
	ListByAccount(ctx context.Context, accountID uint) ([]*card.Card, error)
	Get(ctx context.Context, id uint) (*card.Card, error)
	Create(ctx context.Context, c *card.Card) error
	Update(ctx context.Context, c *card.Card) error
	Delete(ctx context.Context, id uint) error
}

// TransactionRepository defines the interface for transaction data access operations.
type TransactionRepository interface {
	List(ctx context.Context) ([]*transaction.Transaction, error)
	// ListByOwner returns transactions where the sender or the receiver
	// account belongs to the user.
	ListByOwner(ctx context.Context, ownerID uint) ([]*transaction.Transaction, error)
	ListByAccount(ctx context.Context, accountID uint) ([]*transaction.Transaction, error)
	// CountByAccount counts transactions where the account is sender or receiver.
	CountByAccount(ctx context.Context, accountID uint) (int64, error)
	Get(ctx context.Context, id uint) (*transaction.Transaction, error)
	Create(ctx context.Context, t *transaction.Transaction) error
	Update(ctx context.Context, t *transaction.Transaction) error
	Delete(ctx context.Context, id uint) error
}
