// Package transaction holds the Transaction entity, a historical record of
// value moving between two accounts.
package transaction

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/bank/pkg/domain"
	"github.com/google/uuid"
)

// Conventional type tags. Any other free-text value is accepted.
const (
	TypeTransfer   = "transfer"
	TypeDeposit    = "deposit"
	TypeWithdrawal = "withdrawal"
	TypePayment    = "payment"
	TypeRefund     = "refund"
)

// Transaction is written once by a client action. The amount sign is not
// enforced and no account balance is touched when it is recorded.
type Transaction struct {
	ID         uint      `json:"id"`
	Identifier string    `json:"identifier"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	Time       time.Time `json:"time"`
	Type       string    `json:"type"`
	SenderID   uint      `json:"sender_id"`
	ReceiverID uint      `json:"receiver_id"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// New creates a Transaction, filling identifier, time and type when empty.
func New(
	identifier string,
	amount float64,
	currency string,
	at time.Time,
	kind string,
	senderID, receiverID uint,
	phone string,
) (*Transaction, error) {
	if senderID == 0 || receiverID == 0 {
		return nil, fmt.Errorf("%w: sender and receiver accounts are required", domain.ErrValidation)
	}
	if strings.TrimSpace(currency) == "" {
		return nil, fmt.Errorf("%w: currency is required", domain.ErrValidation)
	}
	if identifier == "" {
		identifier = NewIdentifier()
	}
	if at.IsZero() {
		at = time.Now()
	}
	if kind == "" {
		kind = TypeTransfer
	}
	now := time.Now().UTC()
	return &Transaction{
		Identifier: identifier,
		Amount:     amount,
		Currency:   strings.ToUpper(currency),
		Time:       at.UTC(),
		Type:       kind,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Phone:      phone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// NewIdentifier returns a human readable reference such as TX-1A2B3C4D5E6F.
func NewIdentifier() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TX-" + strings.ToUpper(raw[:12])
}

// Involves reports whether the account is the sender or the receiver.
func (t *Transaction) Involves(accountID uint) bool {
	return t.SenderID == accountID || t.ReceiverID == accountID
}
