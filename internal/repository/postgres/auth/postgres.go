package auth

import (
	"context"
	"errors"

	authdomain "home-inventory-go/internal/domain/auth"
	familydomain "home-inventory-go/internal/domain/family"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetCaller(ctx context.Context, userID string) (*authdomain.Caller, error) {
	var user familydomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authdomain.ErrUserNotFound
		}
		return nil, err
	}

	return &authdomain.Caller{
		UserID:   user.ID,
		FamilyID: user.FamilyID,
		Role:     user.Role,
	}, nil
}
