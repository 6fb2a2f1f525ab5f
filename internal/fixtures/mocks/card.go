package mocks

import (
	"context"

	"github.com/amirasaad/bank/pkg/domain/card"
	"github.com/amirasaad/bank/pkg/repository"
	"github.com/stretchr/testify/mock"
)

type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) List(ctx context.Context) ([]*card.Card, error) {
	args := m.Called(ctx)
	cards, _ := args.Get(0).([]*card.Card)
	return cards, args.Error(1)
}

func (m *MockCardRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*card.Card, error) {
	args := m.Called(ctx, ownerID)
	cards, _ := args.Get(0).([]*card.Card)
	return cards, args.Error(1)
}

func (m *MockCardRepository) ListByAccount(ctx context.Context, accountID uint) ([]*card.Card, error) {
	args := m.Called(ctx, accountID)
	cards, _ := args.Get(0).([]*card.Card)
	return cards, args.Error(1)
}

func (m *MockCardRepository) Get(ctx context.Context, id uint) (*card.Card, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*card.Card)
	return c, args.Error(1)
}

func (m *MockCardRepository) Create(ctx context.Context, c *card.Card) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCardRepository) Update(ctx context.Context, c *card.Card) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

var _ repository.CardRepository = (*MockCardRepository)(nil)
