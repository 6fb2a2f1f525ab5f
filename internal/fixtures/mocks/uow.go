// Package mocks provides testify mocks for the repository contracts.
package mocks

import (
	"context"
	"reflect"

	"github.com/amirasaad/bank/pkg/repository"
	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork runs Do callbacks against itself unless an expectation
// for Do returns an error.
type MockUnitOfWork struct {
	mock.Mock
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{}
}

func (m *MockUnitOfWork) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	for _, call := range m.ExpectedCalls {
		if call.Method == "Do" {
			if err := m.Called(ctx, fn).Error(0); err != nil {
				return err
			}
			break
		}
	}
	return fn(m)
}

func (m *MockUnitOfWork) GetRepository(repoType reflect.Type) (any, error) {
	args := m.Called(repoType)
	return args.Get(0), args.Error(1)
}

func (m *MockUnitOfWork) UserRepository() (repository.UserRepository, error) {
	args := m.Called()
	repo, _ := args.Get(0).(repository.UserRepository)
	return repo, args.Error(1)
}

func (m *MockUnitOfWork) AccountRepository() (repository.AccountRepository, error) {
	args := m.Called()
	repo, _ := args.Get(0).(repository.AccountRepository)
	return repo, args.Error(1)
}

func (m *MockUnitOfWork) CardRepository() (repository.CardRepository, error) {
	args := m.Called()
	repo, _ := args.Get(0).(repository.CardRepository)
	return repo, args.Error(1)
}

func (m *MockUnitOfWork) TransactionRepository() (repository.TransactionRepository, error) {
	args := m.Called()
	repo, _ := args.Get(0).(repository.TransactionRepository)
	return repo, args.Error(1)
}

var _ repository.UnitOfWork = (*MockUnitOfWork)(nil)
