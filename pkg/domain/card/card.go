// Package card holds the Card entity bound to one account.
package card

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/bank/pkg/domain"
)

// DateLayout is the wire format of expiration dates.
const DateLayout = "2006-01-02"

// Card is a payment instrument. Issuance is not authorized or checked
// against any network; numbers are not required to be unique.
type Card struct {
	ID             uint      `json:"id"`
	Number         string    `json:"number"`
	HolderName     string    `json:"holder_name"`
	ExpirationDate time.Time `json:"expiration_date"`
	CVV            string    `json:"cvv"`
	AccountID      uint      `json:"account_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// New creates a Card after checking the mandatory fields.
func New(
	number, holderName string,
	expiration time.Time,
	cvv string,
	accountID uint,
) (*Card, error) {
	if accountID == 0 {
		return nil, fmt.Errorf("%w: account id is required", domain.ErrValidation)
	}
	if strings.TrimSpace(number) == "" {
		return nil, fmt.Errorf("%w: card number is required", domain.ErrValidation)
	}
	if expiration.IsZero() {
		return nil, fmt.Errorf("%w: expiration date is required", domain.ErrValidation)
	}
	now := time.Now().UTC()
	return &Card{
		Number:         number,
		HolderName:     holderName,
		ExpirationDate: expiration,
		CVV:            cvv,
		AccountID:      accountID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// MaskedNumber returns the number with all but the last four digits hidden,
// grouped in fours for display.
func (c Card) MaskedNumber() string {
	digits := strings.ReplaceAll(c.Number, " ", "")
	if len(digits) <= 4 {
		return digits
	}
	masked := strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
	var b strings.Builder
	for i, r := range masked {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Expired reports whether the card is past its expiration date at t.
func (c Card) Expired(t time.Time) bool {
	return t.After(c.ExpirationDate.AddDate(0, 0, 1))
}

// MarshalJSON adds the masked number to the serialized card.
func (c Card) MarshalJSON() ([]byte, error) {
	type alias Card
	return json.Marshal(struct {
		alias
		MaskedNumber string `json:"masked_number"`
	}{
		alias:        alias(c),
		MaskedNumber: c.MaskedNumber(),
	})
}
