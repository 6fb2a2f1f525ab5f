package dto

import "time"

// TransactionInput is the body for POST and PUT /transactions.
// Identifier, time and type are filled in when omitted.
type TransactionInput struct {
	ID         uint      `json:"id,omitempty"`
	Identifier string    `json:"identifier,omitempty" validate:"omitempty,max=64"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency" validate:"required,iso4217"`
	Time       time.Time `json:"time,omitempty"`
	Type       string    `json:"type,omitempty" validate:"omitempty,max=32"`
	SenderID   uint      `json:"sender_id" validate:"required"`
	ReceiverID uint      `json:"receiver_id" validate:"required"`
	Phone      string    `json:"phone,omitempty" validate:"omitempty,max=32"`
}
