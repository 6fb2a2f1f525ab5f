package repository

import (
	"context"
	"time"

	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new GORM-backed AccountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) find(ctx context.Context, query *gorm.DB) ([]*account.Account, error) {
	var models []Account
	if err := query.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	accounts := make([]*account.Account, 0, len(models))
	for i := range models {
		accounts = append(accounts, accountToDomain(&models[i]))
	}
	return accounts, nil
}

func (r *accountRepository) List(ctx context.Context) ([]*account.Account, error) {
	return r.find(ctx, r.db)
}

func (r *accountRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*account.Account, error) {
	return r.find(ctx, r.db.Where("owner_id = ?", ownerID))
}

func (r *accountRepository) Get(ctx context.Context, id uint) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return accountToDomain(&m), nil
}

func (r *accountRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, MapGormErrorToDomain(err)
	}
	return count > 0, nil
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	m := accountToModel(a)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	a.ID = m.ID
	a.CreatedAt = m.CreatedAt
	a.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", a.ID).Updates(map[string]any{
		"iban":       a.IBAN,
		"owner_id":   a.OwnerID,
		"currency":   a.Currency,
		"balance":    a.Balance,
		"updated_at": now,
	})
	if err := rowsAffectedOrNotFound(res, MapGormErrorToDomain); err != nil {
		return err
	}
	a.UpdatedAt = now
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Account{}, id)
	return rowsAffectedOrNotFound(res, mapDeleteError)
}
