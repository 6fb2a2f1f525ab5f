package repository

import (
	"context"
	"time"

	"github.com/amirasaad/bank/pkg/domain/user"
	"github.com/amirasaad/bank/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new GORM-backed UserRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) List(ctx context.Context) ([]*user.User, error) {
	var models []User
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	users := make([]*user.User, 0, len(models))
	for i := range models {
		users = append(users, userToDomain(&models[i]))
	}
	return users, nil
}

func (r *userRepository) Get(ctx context.Context, id uint) (*user.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return userToDomain(&m), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var m User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return userToDomain(&m), nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, MapGormErrorToDomain(err)
	}
	return count > 0, nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, MapGormErrorToDomain(err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	m := userToModel(u)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	u.ID = m.ID
	u.CreatedAt = m.CreatedAt
	u.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", u.ID).Updates(map[string]any{
		"username":    u.Username,
		"password":    u.Password,
		"first_name":  u.FirstName,
		"last_name":   u.LastName,
		"national_id": u.NationalID,
		"email":       u.Email,
		"role":        u.Role,
		"updated_at":  now,
	})
	if err := rowsAffectedOrNotFound(res, MapGormErrorToDomain); err != nil {
		return err
	}
	u.UpdatedAt = now
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&User{}, id)
	return rowsAffectedOrNotFound(res, mapDeleteError)
}
