package repository

import (
	"time"

	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/card"
	"github.com/amirasaad/bank/pkg/domain/transaction"
	"github.com/amirasaad/bank/pkg/domain/user"
)

// User represents a user record in the database.
type User struct {
	ID         uint   `gorm:"primaryKey"`
	Username   string `gorm:"uniqueIndex;not null;size:50"`
	Password   string `gorm:"not null"`
	FirstName  string `gorm:"size:100"`
	LastName   string `gorm:"size:100"`
	NationalID string `gorm:"size:32"`
	Email      string `gorm:"size:255"`
	Role       string `gorm:"size:16;not null;default:user"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Account represents an account record. Deleting the owner deletes the account.
type Account struct {
	ID        uint    `gorm:"primaryKey"`
	IBAN      string  `gorm:"column:iban;size:34"`
	OwnerID   uint    `gorm:"not null;index"`
	Owner     *User   `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Currency  string  `gorm:"type:varchar(3);not null;default:'USD'"`
	Balance   float64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Card represents a card record. Deleting the account deletes the card.
type Card struct {
	ID             uint      `gorm:"primaryKey"`
	Number         string    `gorm:"size:19;not null"`
	HolderName     string    `gorm:"size:100"`
	ExpirationDate time.Time `gorm:"type:date;not null"`
	CVV            string    `gorm:"column:cvv;size:4"`
	AccountID      uint      `gorm:"not null;index"`
	Account        *Account  `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Transaction represents a persisted transaction record. Both account
// references restrict deletion so history cannot be orphaned.
type Transaction struct {
	ID         uint      `gorm:"primaryKey"`
	Identifier string    `gorm:"size:64;not null"`
	Amount     float64   `gorm:"not null"`
	Currency   string    `gorm:"type:varchar(3);not null"`
	Time       time.Time `gorm:"column:occurred_at;not null"`
	Type       string    `gorm:"column:type;size:32;not null"`
	SenderID   uint      `gorm:"not null;index"`
	Sender     *Account  `gorm:"foreignKey:SenderID;constraint:OnDelete:RESTRICT"`
	ReceiverID uint      `gorm:"not null;index"`
	Receiver   *Account  `gorm:"foreignKey:ReceiverID;constraint:OnDelete:RESTRICT"`
	Phone      string    `gorm:"size:32"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Models lists every persisted model in dependency order.
func Models() []any {
	return []any{&User{}, &Account{}, &Card{}, &Transaction{}}
}

func userToModel(u *user.User) *User {
	return &User{
		ID:         u.ID,
		Username:   u.Username,
		Password:   u.Password,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		NationalID: u.NationalID,
		Email:      u.Email,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func userToDomain(m *User) *user.User {
	return &user.User{
		ID:         m.ID,
		Username:   m.Username,
		Password:   m.Password,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		NationalID: m.NationalID,
		Email:      m.Email,
		Role:       m.Role,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func accountToModel(a *account.Account) *Account {
	return &Account{
		ID:        a.ID,
		IBAN:      a.IBAN,
		OwnerID:   a.OwnerID,
		Currency:  a.Currency,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func accountToDomain(m *Account) *account.Account {
	return &account.Account{
		ID:        m.ID,
		IBAN:      m.IBAN,
		OwnerID:   m.OwnerID,
		Currency:  m.Currency,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func cardToModel(c *card.Card) *Card {
	return &Card{
		ID:             c.ID,
		Number:         c.Number,
		HolderName:     c.HolderName,
		ExpirationDate: c.ExpirationDate,
		CVV:            c.CVV,
		AccountID:      c.AccountID,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func cardToDomain(m *Card) *card.Card {
	return &card.Card{
		ID:             m.ID,
		Number:         m.Number,
		HolderName:     m.HolderName,
		ExpirationDate: m.ExpirationDate,
		CVV:            m.CVV,
		AccountID:      m.AccountID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func transactionToModel(t *transaction.Transaction) *Transaction {
	return &Transaction{
		ID:         t.ID,
		Identifier: t.Identifier,
		Amount:     t.Amount,
		Currency:   t.Currency,
		Time:       t.Time,
		Type:       t.Type,
		SenderID:   t.SenderID,
		ReceiverID: t.ReceiverID,
		Phone:      t.Phone,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func transactionToDomain(m *Transaction) *transaction.Transaction {
	return &transaction.Transaction{
		ID:         m.ID,
		Identifier: m.Identifier,
		Amount:     m.Amount,
		Currency:   m.Currency,
		Time:       m.Time,
		Type:       m.Type,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Phone:      m.Phone,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
