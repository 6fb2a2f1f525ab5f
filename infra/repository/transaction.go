package repository

import (
	"context"
	"time"

	"github.com/amirasaad/bank/pkg/domain/transaction"
	"github.com/amirasaad/bank/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new GORM-backed TransactionRepository.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) find(ctx context.Context, query *gorm.DB) ([]*transaction.Transaction, error) {
	var models []Transaction
	if err := query.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	txs := make([]*transaction.Transaction, 0, len(models))
	for i := range models {
		txs = append(txs, transactionToDomain(&models[i]))
	}
	return txs, nil
}

func (r *transactionRepository) List(ctx context.Context) ([]*transaction.Transaction, error) {
	return r.find(ctx, r.db)
}

func (r *transactionRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*transaction.Transaction, error) {
	owned := func() *gorm.DB {
		return r.db.Model(&Account{}).Select("id").Where("owner_id = ?", ownerID)
	}
	return r.find(ctx, r.db.Where("sender_id IN (?) OR receiver_id IN (?)", owned(), owned()))
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uint) ([]*transaction.Transaction, error) {
	return r.find(ctx, r.db.Where("sender_id = ? OR receiver_id = ?", accountID, accountID))
}

func (r *transactionRepository) CountByAccount(ctx context.Context, accountID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Transaction{}).
		Where("sender_id = ? OR receiver_id = ?", accountID, accountID).
		Count(&count).Error
	if err != nil {
		return 0, MapGormErrorToDomain(err)
	}
	return count, nil
}

func (r *transactionRepository) Get(ctx context.Context, id uint) (*transaction.Transaction, error) {
	var m Transaction
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return transactionToDomain(&m), nil
}

func (r *transactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	m := transactionToModel(t)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	t.ID = m.ID
	t.CreatedAt = m.CreatedAt
	t.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *transactionRepository) Update(ctx context.Context, t *transaction.Transaction) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&Transaction{}).Where("id = ?", t.ID).Updates(map[string]any{
		"identifier":  t.Identifier,
		"amount":      t.Amount,
		"currency":    t.Currency,
		"occurred_at": t.Time,
		"type":        t.Type,
		"sender_id":   t.SenderID,
		"receiver_id": t.ReceiverID,
		"phone":       t.Phone,
		"updated_at":  now,
	})
	if err := rowsAffectedOrNotFound(res, MapGormErrorToDomain); err != nil {
		return err
	}
	t.UpdatedAt = now
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Transaction{}, id)
	return rowsAffectedOrNotFound(res, mapDeleteError)
}
