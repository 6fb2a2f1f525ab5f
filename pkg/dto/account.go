package dto

// AccountInput is the body for POST and PUT /accounts.
// A zero owner id on POST means the caller.
type AccountInput struct {
	ID       uint    `json:"id,omitempty"`
	IBAN     string  `json:"iban" validate:"omitempty,max=34"`
	OwnerID  uint    `json:"owner_id"`
	Currency string  `json:"currency" validate:"required,iso4217"`
	Balance  float64 `json:"balance"`
}

// CardInput is the body for POST and PUT /cards.
type CardInput struct {
	ID             uint   `json:"id,omitempty"`
	Number         string `json:"number" validate:"required,numeric,min=12,max=19"`
	HolderName     string `json:"holder_name" validate:"required,max=100"`
	ExpirationDate string `json:"expiration_date" validate:"required,datetime=2006-01-02"`
	CVV            string `json:"cvv" validate:"required,numeric,min=3,max=4"`
	AccountID      uint   `json:"account_id" validate:"required"`
}
