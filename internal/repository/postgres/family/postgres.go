package family

import (
	"context"
	"errors"

	familydomain "home-inventory-go/internal/domain/family"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetFamily(ctx context.Context, familyID string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("id = ?", familyID).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) GetUser(ctx context.Context, userID string) (*familydomain.User, error) {
	var user familydomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *familydomain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *PostgresRepository) UpdateFamilyName(ctx context.Context, familyID, name string) error {
	result := r.db.WithContext(ctx).
		Model(&familydomain.Family{}).
		Where("id = ?", familyID).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return familydomain.ErrFamilyNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateUserProfile(ctx context.Context, user *familydomain.User) error {
	result := r.db.WithContext(ctx).
		Model(&familydomain.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"display_name": user.DisplayName,
			"discord_id":   user.DiscordID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return familydomain.ErrUserNotFound
	}
	return nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context, familyID string) ([]familydomain.User, error) {
	var users []familydomain.User
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
