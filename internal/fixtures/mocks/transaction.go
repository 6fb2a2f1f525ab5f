package mocks

import (
	"context"

	"github.com/amirasaad/bank/pkg/domain/transaction"
	"github.com/amirasaad/bank/pkg/repository"
	"github.com/stretchr/testify/mock"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) List(ctx context.Context) ([]*transaction.Transaction, error) {
	args := m.Called(ctx)
	txs, _ := args.Get(0).([]*transaction.Transaction)
	return txs, args.Error(1)
}

func (m *MockTransactionRepository) ListByOwner(
	ctx context.Context,
	ownerID uint,
) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, ownerID)
	txs, _ := args.Get(0).([]*transaction.Transaction)
	return txs, args.Error(1)
}

func (m *MockTransactionRepository) ListByAccount(
	ctx context.Context,
	accountID uint,
) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, accountID)
	txs, _ := args.Get(0).([]*transaction.Transaction)
	return txs, args.Error(1)
}

func (m *MockTransactionRepository) CountByAccount(ctx context.Context, accountID uint) (int64, error) {
	args := m.Called(ctx, accountID)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

func (m *MockTransactionRepository) Get(ctx context.Context, id uint) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	tx, _ := args.Get(0).(*transaction.Transaction)
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *transaction.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx *transaction.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

var _ repository.TransactionRepository = (*MockTransactionRepository)(nil)
