package transaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/bank/internal/fixtures/mocks"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/transaction"
	"github.com/amirasaad/bank/pkg/domain/user"
	"github.com/amirasaad/bank/pkg/dto"
	accountsvc "github.com/amirasaad/bank/pkg/service/account"
	"github.com/amirasaad/bank/pkg/service/auth"
	txsvc "github.com/amirasaad/bank/pkg/service/transaction"
	"github.com/amirasaad/bank/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type env struct {
	svc              *txsvc.Service
	accounts         *accountsvc.Service
	alice, bob       *auth.Identity
	carol, admin     *auth.Identity
	aliceAcc, bobAcc *account.Account
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	uow := testutils.NewTestUoW(t)
	authSvc := auth.New(uow, testutils.NewConfig().Auth, testutils.NewLogger())
	id := func(u *user.User) *auth.Identity { return &auth.Identity{UserID: u.ID, Role: u.Role} }

	e := &env{
		svc:      txsvc.New(uow, testutils.NewLogger()),
		accounts: accountsvc.New(uow, testutils.NewLogger()),
		alice:    id(testutils.CreateUser(t, uow, authSvc, "alice", "")),
		bob:      id(testutils.CreateUser(t, uow, authSvc, "bob", "")),
		carol:    id(testutils.CreateUser(t, uow, authSvc, "carol", "")),
		admin:    id(testutils.CreateUser(t, uow, authSvc, "admin", user.RoleAdmin)),
	}
	var err error
	e.aliceAcc, err = e.accounts.Create(ctx, e.alice, dto.AccountInput{Currency: "USD", Balance: 100})
	require.NoError(t, err)
	e.bobAcc, err = e.accounts.Create(ctx, e.bob, dto.AccountInput{Currency: "USD", Balance: 50})
	require.NoError(t, err)
	return e
}

func TestCreate_LeavesBalancesAlone(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tx, err := e.svc.Create(ctx, e.alice, dto.TransactionInput{
		Amount: 30, Currency: "usd", SenderID: e.aliceAcc.ID, ReceiverID: e.bobAcc.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, tx.ID)
	assert.Contains(t, tx.Identifier, "TX-")
	assert.Equal(t, transaction.TypeTransfer, tx.Type)
	assert.Equal(t, "USD", tx.Currency)

	a, err := e.accounts.Get(ctx, e.alice, e.aliceAcc.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, a.Balance)
	b, err := e.accounts.Get(ctx, e.bob, e.bobAcc.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, b.Balance)
}

func TestCreate_Rules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Create(ctx, e.alice, dto.TransactionInput{
		Amount: 1, Currency: "USD", SenderID: e.bobAcc.ID, ReceiverID: e.aliceAcc.ID,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.svc.Create(ctx, e.alice, dto.TransactionInput{
		Amount: 1, Currency: "USD", SenderID: e.aliceAcc.ID, ReceiverID: 9999,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	_, err = e.svc.Create(ctx, e.alice, dto.TransactionInput{Amount: 1, Currency: "USD", ReceiverID: e.bobAcc.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.svc.Create(ctx, e.admin, dto.TransactionInput{
		Amount: -5, Currency: "USD", SenderID: e.bobAcc.ID, ReceiverID: e.aliceAcc.ID, Type: transaction.TypeRefund,
	})
	assert.NoError(t, err)
}

func TestListAndGet_Scoped(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tx, err := e.svc.Create(ctx, e.alice, dto.TransactionInput{
		Amount: 1, Currency: "USD", SenderID: e.aliceAcc.ID, ReceiverID: e.bobAcc.ID,
	})
	require.NoError(t, err)

	for _, who := range []*auth.Identity{e.alice, e.bob, e.admin} {
		list, err := e.svc.List(ctx, who)
		require.NoError(t, err)
		assert.Len(t, list, 1)
		got, err := e.svc.Get(ctx, who, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, tx.Identifier, got.Identifier)
	}

	list, err := e.svc.List(ctx, e.carol)
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = e.svc.Get(ctx, e.carol, tx.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.svc.Get(ctx, e.admin, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err = e.svc.ListByAccount(ctx, e.bob, e.bobAcc.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	_, err = e.svc.ListByAccount(ctx, e.carol, e.bobAcc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateAndDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tx, err := e.svc.Create(ctx, e.alice, dto.TransactionInput{
		Identifier: "REF-1", Amount: 1, Currency: "USD", SenderID: e.aliceAcc.ID, ReceiverID: e.bobAcc.ID,
	})
	require.NoError(t, err)

	got, err := e.svc.Update(ctx, tx.ID, dto.TransactionInput{
		ID: tx.ID, Amount: 2, Currency: "USD", SenderID: e.aliceAcc.ID, ReceiverID: e.bobAcc.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Amount)
	assert.Equal(t, "REF-1", got.Identifier)

	_, err = e.svc.Update(ctx, tx.ID, dto.TransactionInput{
		ID: tx.ID + 1, Amount: 3, Currency: "USD", SenderID: e.aliceAcc.ID, ReceiverID: e.bobAcc.ID,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.svc.Update(ctx, tx.ID, dto.TransactionInput{
		Amount: 3, Currency: "USD", SenderID: e.aliceAcc.ID, ReceiverID: 9999,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	require.NoError(t, e.svc.Delete(ctx, tx.ID))
	assert.ErrorIs(t, e.svc.Delete(ctx, tx.ID), domain.ErrNotFound)
	_, err = e.svc.Update(ctx, tx.ID, dto.TransactionInput{
		Amount: 3, Currency: "USD", SenderID: e.aliceAcc.ID, ReceiverID: e.bobAcc.ID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_KeepsRecordedTimeWhenOmitted(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	recorded := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	tx, err := e.svc.Create(ctx, e.alice, dto.TransactionInput{
		Amount: 1, Currency: "USD", Time: recorded, SenderID: e.aliceAcc.ID, ReceiverID: e.bobAcc.ID,
	})
	require.NoError(t, err)

	_, err = e.svc.Update(ctx, tx.ID, dto.TransactionInput{
		Amount: 2, Currency: "USD", SenderID: e.aliceAcc.ID, ReceiverID: e.bobAcc.ID,
	})
	require.NoError(t, err)
	got, err := e.svc.Get(ctx, e.admin, tx.ID)
	require.NoError(t, err)
	assert.True(t, got.Time.Equal(recorded), "time changed to %s", got.Time)
	assert.Equal(t, tx.Identifier, got.Identifier)

	moved := recorded.Add(48 * time.Hour)
	_, err = e.svc.Update(ctx, tx.ID, dto.TransactionInput{
		Amount: 2, Currency: "USD", Time: moved, SenderID: e.aliceAcc.ID, ReceiverID: e.bobAcc.ID,
	})
	require.NoError(t, err)
	got, err = e.svc.Get(ctx, e.admin, tx.ID)
	require.NoError(t, err)
	assert.True(t, got.Time.Equal(moved), "time = %s", got.Time)
}

func TestUpdate_LosesRaceWithDelete(t *testing.T) {
	uow := mocks.NewMockUnitOfWork()
	txs := &mocks.MockTransactionRepository{}
	accounts := &mocks.MockAccountRepository{}
	uow.On("TransactionRepository").Return(txs, nil)
	uow.On("AccountRepository").Return(accounts, nil)
	txs.On("Get", mock.Anything, uint(9)).Return(&transaction.Transaction{ID: 9, Identifier: "TX-1", CreatedAt: time.Now()}, nil)
	accounts.On("Get", mock.Anything, mock.Anything).Return(&account.Account{ID: 1, OwnerID: 1}, nil)
	txs.On("Update", mock.Anything, mock.Anything).Return(domain.ErrNotFound)

	svc := txsvc.New(uow, testutils.NewLogger())
	_, err := svc.Update(context.Background(), 9, dto.TransactionInput{
		Amount: 1, Currency: "USD", SenderID: 1, ReceiverID: 2,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	txs.AssertExpectations(t)
}
