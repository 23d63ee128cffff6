package wishlist

import (
	"context"
	"errors"
	"time"

	inventorydomain "home-inventory-go/internal/domain/inventory"
	wishlistdomain "home-inventory-go/internal/domain/wishlist"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(wishlistdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Get(ctx context.Context, familyID, wishlistID string) (*wishlistdomain.WishlistItem, error) {
	var item wishlistdomain.WishlistItem
	if err := r.db.WithContext(ctx).
		Where("family_id = ? AND id = ?", familyID, wishlistID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wishlistdomain.ErrWishlistItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) List(ctx context.Context, familyID string) ([]wishlistdomain.WishlistItem, error) {
	var items []wishlistdomain.WishlistItem
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *wishlistdomain.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) Update(ctx context.Context, item *wishlistdomain.WishlistItem) error {
	return r.db.WithContext(ctx).
		Model(&wishlistdomain.WishlistItem{}).
		Where("id = ? AND family_id = ?", item.ID, item.FamilyID).
		Updates(map[string]interface{}{
			"name":         item.Name,
			"item_type_id": item.ItemTypeID,
			"priority":     item.Priority,
			"tags":         item.Tags,
			"memo":         item.Memo,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, familyID, wishlistID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&wishlistdomain.WishlistItem{}, "family_id = ? AND id = ?", familyID, wishlistID)
	return result.RowsAffected > 0, result.Error
}

// MarkStatus is the conditional transition write; the status predicate
// lets exactly one concurrent purchase or cancel win.
func (r *PostgresRepository) MarkStatus(ctx context.Context, familyID, wishlistID, fromStatus, toStatus string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&wishlistdomain.WishlistItem{}).
		Where("id = ? AND family_id = ? AND status = ?", wishlistID, familyID, fromStatus).
		Updates(map[string]interface{}{
			"status":     toStatus,
			"updated_at": at,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CreateInventoryItem(ctx context.Context, item *inventorydomain.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}
