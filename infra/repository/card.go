package repository

import (
	"context"
	"time"

	"github.com/amirasaad/bank/pkg/domain/card"
	"github.com/amirasaad/bank/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new GORM-backed CardRepository.
func NewCardRepository(db *gorm.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) find(ctx context.Context, query *gorm.DB) ([]*card.Card, error) {
	var models []Card
	if err := query.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	cards := make([]*card.Card, 0, len(models))
	for i := range models {
		cards = append(cards, cardToDomain(&models[i]))
	}
	return cards, nil
}

func (r *cardRepository) List(ctx context.Context) ([]*card.Card, error) {
	return r.find(ctx, r.db)
}

func (r *cardRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*card.Card, error) {
	owned := r.db.Model(&Account{}).Select("id").Where("owner_id = ?", ownerID)
	return r.find(ctx, r.db.Where("account_id IN (?)", owned))
}

func (r *cardRepository) ListByAccount(ctx context.Context, accountID uint) ([]*card.Card, error) {
	return r.find(ctx, r.db.Where("account_id = ?", accountID))
}

func (r *cardRepository) Get(ctx context.Context, id uint) (*card.Card, error) {
	var m Card
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return cardToDomain(&m), nil
}

func (r *cardRepository) Create(ctx context.Context, c *card.Card) error {
	m := cardToModel(c)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	c.ID = m.ID
	c.CreatedAt = m.CreatedAt
	c.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *cardRepository) Update(ctx context.Context, c *card.Card) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&Card{}).Where("id = ?", c.ID).Updates(map[string]any{
		"number":          c.Number,
		"holder_name":     c.HolderName,
		"expiration_date": c.ExpirationDate,
		"cvv":             c.CVV,
		"account_id":      c.AccountID,
		"updated_at":      now,
	})
	if err := rowsAffectedOrNotFound(res, MapGormErrorToDomain); err != nil {
		return err
	}
	c.UpdatedAt = now
	return nil
}

func (r *cardRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Card{}, id)
	return rowsAffectedOrNotFound(res, mapDeleteError)
}
