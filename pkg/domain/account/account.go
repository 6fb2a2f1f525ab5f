// Package account holds the Account entity.
package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/bank/pkg/domain"
)

// DefaultCurrency is used when an account is opened without a currency.
const DefaultCurrency = "USD"

// Account represents a balance holder owned by exactly one user.
//
// The balance is authoritative: transactions referencing the account are a log
// and never move it. Sufficiency and sign of the balance are not enforced.
type Account struct {
	ID        uint      `json:"id"`
	IBAN      string    `json:"iban"`
	OwnerID   uint      `json:"owner_id"`
	Currency  string    `json:"currency"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id        uint
	iban      string
	ownerID   uint
	currency  string
	balance   float64
	createdAt time.Time
	updatedAt time.Time
}

// New creates a new Builder with the default currency.
func New() *Builder {
	now := time.Now().UTC()
	return &Builder{
		currency:  DefaultCurrency,
		createdAt: now,
		updatedAt: now,
	}
}

// WithID sets the ID, used when hydrating from storage.
func (b *Builder) WithID(id uint) *Builder {
	b.id = id
	return b
}

// WithIBAN sets the IBAN.
func (b *Builder) WithIBAN(iban string) *Builder {
	b.iban = iban
	return b
}

// WithOwnerID sets the owning user. This is a mandatory field.
func (b *Builder) WithOwnerID(ownerID uint) *Builder {
	b.ownerID = ownerID
	return b
}

// WithCurrency sets the currency code. Empty keeps the default.
func (b *Builder) WithCurrency(code string) *Builder {
	if code != "" {
		b.currency = strings.ToUpper(code)
	}
	return b
}

// WithBalance sets the starting balance.
func (b *Builder) WithBalance(balance float64) *Builder {
	b.balance = balance
	return b
}

// WithCreatedAt sets the creation timestamp.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates the owner and currency and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if b.ownerID == 0 {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrValidation)
	}
	if !ValidCurrency(b.currency) {
		return nil, fmt.Errorf("%w: invalid currency code %q", domain.ErrValidation, b.currency)
	}
	return &Account{
		ID:        b.id,
		IBAN:      b.iban,
		OwnerID:   b.ownerID,
		Currency:  b.currency,
		Balance:   b.balance,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}, nil
}

// ValidCurrency reports whether code looks like an ISO 4217 alphabetic code.
func ValidCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
