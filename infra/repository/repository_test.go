package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/card"
	"github.com/amirasaad/bank/pkg/domain/transaction"
	"github.com/amirasaad/bank/pkg/domain/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

func TestAccountRepository_Get(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	db, mock := newMockDB(t)

	accRepo := accountRepository{db: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "iban", "owner_id", "currency", "balance", "created_at", "updated_at"}).
		AddRow(7, "DE89370400440532013000", 3, "EUR", 12.5, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE "accounts"."id" = $1 ORDER BY "accounts"."id" LIMIT $2`)).
		WithArgs(7, 1).WillReturnRows(rows)

	acc, err := accRepo.Get(context.Background(), 7)
	require.NoError(err)
	assert.Equal(uint(7), acc.ID)
	assert.Equal(uint(3), acc.OwnerID)
	assert.Equal("EUR", acc.Currency)
	assert.InDelta(12.5, acc.Balance, 0.0001)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE "accounts"."id" = $1`)).
		WithArgs(8, 1).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	acc, err = accRepo.Get(context.Background(), 8)
	require.ErrorIs(err, domain.ErrNotFound)
	assert.Nil(acc)
	assert.NoError(mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)

	userRepo := userRepository{db: db}
	u := &user.User{Username: "alice", Password: "hash", Role: user.RoleUser}

	mock.ExpectQuery(`INSERT INTO "users" (.+) VALUES (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	require.NoError(userRepo.Create(context.Background(), u))
	require.Equal(uint(1), u.ID)

	mock.ExpectQuery(`INSERT INTO "users" (.+) VALUES (.+) RETURNING "id"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := userRepo.Create(context.Background(), &user.User{Username: "alice", Password: "hash"})
	require.ErrorIs(err, domain.ErrAlreadyExists)
}

func TestAccountRepository_UpdateMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	accRepo := accountRepository{db: db}

	mock.ExpectExec(`UPDATE "accounts" SET (.+) WHERE id = (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := accRepo.Update(context.Background(), &account.Account{ID: 42, OwnerID: 1, Currency: "USD"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountRepository_DeleteRestricted(t *testing.T) {
	db, mock := newMockDB(t)
	accRepo := accountRepository{db: db}

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "accounts" WHERE "accounts"."id" = $1`)).
		WithArgs(5).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := accRepo.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCardRepository_CreateUnknownAccount(t *testing.T) {
	db, mock := newMockDB(t)
	cardRepo := cardRepository{db: db}

	mock.ExpectQuery(`INSERT INTO "cards" (.+) VALUES (.+) RETURNING "id"`).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := cardRepo.Create(context.Background(), &card.Card{Number: "4111111111111111", AccountID: 99})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

type fixture struct {
	users    *userRepository
	accounts *accountRepository
	cards    *cardRepository
	txs      *transactionRepository
}

func newFixture(t *testing.T) fixture {
	db := newSQLiteDB(t)
	return fixture{
		users:    &userRepository{db: db},
		accounts: &accountRepository{db: db},
		cards:    &cardRepository{db: db},
		txs:      &transactionRepository{db: db},
	}
}

func (f fixture) seedUser(t *testing.T, username string) *user.User {
	t.Helper()
	u := &user.User{Username: username, Password: "hash", Role: user.RoleUser}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f fixture) seedAccount(t *testing.T, ownerID uint, currency string) *account.Account {
	t.Helper()
	a := &account.Account{OwnerID: ownerID, Currency: currency, Balance: 100}
	require.NoError(t, f.accounts.Create(context.Background(), a))
	return a
}

func (f fixture) seedCard(t *testing.T, accountID uint) *card.Card {
	t.Helper()
	c := &card.Card{
		Number:         "4111111111111111",
		HolderName:     "Alice",
		ExpirationDate: time.Date(2030, 1, 31, 0, 0, 0, 0, time.UTC),
		CVV:            "123",
		AccountID:      accountID,
	}
	require.NoError(t, f.cards.Create(context.Background(), c))
	return c
}

func (f fixture) seedTransaction(t *testing.T, senderID, receiverID uint) *transaction.Transaction {
	t.Helper()
	tx := &transaction.Transaction{
		Identifier: transaction.NewIdentifier(),
		Amount:     10,
		Currency:   "USD",
		Time:       time.Now().UTC(),
		Type:       transaction.TypeTransfer,
		SenderID:   senderID,
		ReceiverID: receiverID,
	}
	require.NoError(t, f.txs.Create(context.Background(), tx))
	return tx
}

func TestUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.seedUser(t, "alice")
	assert.NotZero(t, alice.ID)

	got, err := f.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = f.users.GetByUsername(ctx, "Alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	exists, err := f.users.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	err = f.users.Create(ctx, &user.User{Username: "alice", Password: "x", Role: user.RoleUser})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	alice.Email = "alice@example.com"
	require.NoError(t, f.users.Update(ctx, alice))
	got, err = f.users.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	require.NoError(t, f.users.Delete(ctx, alice.ID))
	assert.ErrorIs(t, f.users.Delete(ctx, alice.ID), domain.ErrNotFound)
	assert.ErrorIs(t, f.users.Update(ctx, alice), domain.ErrNotFound)
}

func TestDeleteUser_CascadesToAccountsAndCards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.seedUser(t, "alice")
	bob := f.seedUser(t, "bob")
	acc := f.seedAccount(t, alice.ID, "USD")
	bobAcc := f.seedAccount(t, bob.ID, "EUR")
	c := f.seedCard(t, acc.ID)

	require.NoError(t, f.users.Delete(ctx, alice.ID))

	_, err := f.accounts.Get(ctx, acc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.cards.Get(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	remaining, err := f.accounts.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, bobAcc.ID, remaining[0].ID)
}

func TestDeleteAccount_RestrictedByTransactions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.seedUser(t, "alice")
	from := f.seedAccount(t, alice.ID, "USD")
	to := f.seedAccount(t, alice.ID, "USD")
	tx := f.seedTransaction(t, from.ID, to.ID)

	count, err := f.txs.CountByAccount(ctx, to.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, f.accounts.Delete(ctx, from.ID), domain.ErrConflict)
	assert.ErrorIs(t, f.accounts.Delete(ctx, to.ID), domain.ErrConflict)

	require.NoError(t, f.txs.Delete(ctx, tx.ID))
	require.NoError(t, f.accounts.Delete(ctx, from.ID))
}

func TestCreate_UnknownReferenceRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.accounts.Create(ctx, &account.Account{OwnerID: 404, Currency: "USD"})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	err = f.cards.Create(ctx, &card.Card{Number: "4111111111111111", ExpirationDate: time.Now(), AccountID: 404})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestListByOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.seedUser(t, "alice")
	bob := f.seedUser(t, "bob")
	aliceAcc := f.seedAccount(t, alice.ID, "USD")
	bobAcc := f.seedAccount(t, bob.ID, "USD")
	aliceCard := f.seedCard(t, aliceAcc.ID)
	f.seedCard(t, bobAcc.ID)
	incoming := f.seedTransaction(t, bobAcc.ID, aliceAcc.ID)
	f.seedTransaction(t, bobAcc.ID, bobAcc.ID)

	accounts, err := f.accounts.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, aliceAcc.ID, accounts[0].ID)

	cards, err := f.cards.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, aliceCard.ID, cards[0].ID)
	assert.Equal(t, 2030, cards[0].ExpirationDate.Year())

	txs, err := f.txs.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, incoming.ID, txs[0].ID)

	txs, err = f.txs.ListByAccount(ctx, bobAcc.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	cards, err = f.cards.ListByAccount(ctx, bobAcc.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestTransactionRepository_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	alice := f.seedUser(t, "alice")
	a := f.seedAccount(t, alice.ID, "USD")
	b := f.seedAccount(t, alice.ID, "USD")
	tx := f.seedTransaction(t, a.ID, b.ID)

	tx.Amount = 99.5
	tx.Phone = "+15550100"
	require.NoError(t, f.txs.Update(ctx, tx))

	got, err := f.txs.Get(ctx, tx.ID)
	require.NoError(t, err)
	assert.InDelta(t, 99.5, got.Amount, 0.0001)
	assert.Equal(t, "+15550100", got.Phone)

	tx.ReceiverID = 999
	assert.ErrorIs(t, f.txs.Update(ctx, tx), domain.ErrInvalidReference)

	missing := *tx
	missing.ID = 12345
	missing.ReceiverID = b.ID
	assert.ErrorIs(t, f.txs.Update(ctx, &missing), domain.ErrNotFound)
}
