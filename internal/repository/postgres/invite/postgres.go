package invite

import (
	"context"
	"errors"
	"time"

	familydomain "home-inventory-go/internal/domain/family"
	invitedomain "home-inventory-go/internal/domain/invite"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(invitedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*invitedomain.InviteCode, error) {
	var invite invitedomain.InviteCode
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invitedomain.ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

func (r *PostgresRepository) Create(ctx context.Context, invite *invitedomain.InviteCode) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *PostgresRepository) ListByFamily(ctx context.Context, familyID string) ([]invitedomain.InviteCode, error) {
	var invites []invitedomain.InviteCode
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at desc").
		Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&invitedomain.InviteCode{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkExpired flips active -> expired; the status predicate makes
// concurrent flips idempotent.
func (r *PostgresRepository) MarkExpired(ctx context.Context, inviteID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&invitedomain.InviteCode{}).
		Where("id = ? AND status = ?", inviteID, invitedomain.StatusActive).
		Update("status", invitedomain.StatusExpired)
	return result.RowsAffected > 0, result.Error
}

// Consume is the single-use gate: only a row still in active moves to
// used, so exactly one concurrent redeemer sees RowsAffected == 1.
func (r *PostgresRepository) Consume(ctx context.Context, inviteID, userID string, usedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&invitedomain.InviteCode{}).
		Where("id = ? AND status = ?", inviteID, invitedomain.StatusActive).
		Updates(map[string]interface{}{
			"status":  invitedomain.StatusUsed,
			"used_by": userID,
			"used_at": usedAt,
		})
	return result.RowsAffected > 0, result.Error
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

func (r *PostgresRepository) CreateUser(ctx context.Context, user *familydomain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}
