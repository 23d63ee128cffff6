package inventory

import (
	"context"
	"errors"

	inventorydomain "home-inventory-go/internal/domain/inventory"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(inventorydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// Items

func (r *PostgresRepository) GetItem(ctx context.Context, familyID, itemID string) (*inventorydomain.Item, error) {
	var item inventorydomain.Item
	if err := r.db.WithContext(ctx).
		Where("family_id = ? AND id = ?", familyID, itemID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) ListItems(ctx context.Context, familyID string, filter inventorydomain.ItemFilter) ([]inventorydomain.Item, error) {
	query := r.db.WithContext(ctx).
		Model(&inventorydomain.Item{}).
		Where("family_id = ?", familyID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ItemTypeID != "" {
		query = query.Where("item_type_id = ?", filter.ItemTypeID)
	}
	if filter.BoxID != "" {
		query = query.Where("box_id = ?", filter.BoxID)
	}

	var items []inventorydomain.Item
	if err := query.Order("created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *inventorydomain.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) UpdateItem(ctx context.Context, item *inventorydomain.Item) error {
	return r.db.WithContext(ctx).
		Model(&inventorydomain.Item{}).
		Where("id = ? AND family_id = ?", item.ID, item.FamilyID).
		Updates(map[string]interface{}{
			"box_id": item.BoxID,
			"tags":   item.Tags,
			"memo":   item.Memo,
		}).Error
}

// UpdateItemStatus is the optimistic transition write: the status
// predicate serializes concurrent transitions so only one applies.
func (r *PostgresRepository) UpdateItemStatus(ctx context.Context, fromStatus string, item *inventorydomain.Item) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&inventorydomain.Item{}).
		Where("id = ? AND family_id = ? AND status = ?", item.ID, item.FamilyID, fromStatus).
		Updates(map[string]interface{}{
			"status":      item.Status,
			"consumed_at": item.ConsumedAt,
			"given_to":    item.GivenTo,
			"given_at":    item.GivenAt,
			"sold_to":     item.SoldTo,
			"sold_price":  item.SoldPrice,
			"sold_at":     item.SoldAt,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, familyID, itemID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&inventorydomain.Item{}, "family_id = ? AND id = ?", familyID, itemID)
	return result.RowsAffected > 0, result.Error
}

// Item types

func (r *PostgresRepository) GetItemType(ctx context.Context, familyID, typeID string) (*inventorydomain.ItemType, error) {
	var itemType inventorydomain.ItemType
	if err := r.db.WithContext(ctx).
		Where("family_id = ? AND id = ?", familyID, typeID).
		First(&itemType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrItemTypeNotFound
		}
		return nil, err
	}
	return &itemType, nil
}

func (r *PostgresRepository) ListItemTypes(ctx context.Context, familyID string) ([]inventorydomain.ItemType, error) {
	var itemTypes []inventorydomain.ItemType
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("name asc").
		Find(&itemTypes).Error; err != nil {
		return nil, err
	}
	return itemTypes, nil
}

func (r *PostgresRepository) CreateItemType(ctx context.Context, itemType *inventorydomain.ItemType) error {
	return r.db.WithContext(ctx).Create(itemType).Error
}

func (r *PostgresRepository) UpdateItemType(ctx context.Context, itemType *inventorydomain.ItemType) error {
	return r.db.WithContext(ctx).
		Model(&inventorydomain.ItemType{}).
		Where("id = ? AND family_id = ?", itemType.ID, itemType.FamilyID).
		Updates(map[string]interface{}{
			"name": itemType.Name,
			"tags": itemType.Tags,
		}).Error
}

func (r *PostgresRepository) DeleteItemType(ctx context.Context, familyID, typeID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&inventorydomain.ItemType{}, "family_id = ? AND id = ?", familyID, typeID)
	return result.RowsAffected > 0, result.Error
}

// Boxes

func (r *PostgresRepository) GetBox(ctx context.Context, familyID, boxID string) (*inventorydomain.Box, error) {
	var box inventorydomain.Box
	if err := r.db.WithContext(ctx).
		Where("family_id = ? AND id = ?", familyID, boxID).
		First(&box).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrBoxNotFound
		}
		return nil, err
	}
	return &box, nil
}

func (r *PostgresRepository) ListBoxes(ctx context.Context, familyID string) ([]inventorydomain.Box, error) {
	var boxes []inventorydomain.Box
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("name asc").
		Find(&boxes).Error; err != nil {
		return nil, err
	}
	return boxes, nil
}

func (r *PostgresRepository) CreateBox(ctx context.Context, box *inventorydomain.Box) error {
	return r.db.WithContext(ctx).Create(box).Error
}

func (r *PostgresRepository) UpdateBox(ctx context.Context, box *inventorydomain.Box) error {
	return r.db.WithContext(ctx).
		Model(&inventorydomain.Box{}).
		Where("id = ? AND family_id = ?", box.ID, box.FamilyID).
		Updates(map[string]interface{}{
			"name":        box.Name,
			"location_id": box.LocationID,
			"tags":        box.Tags,
		}).Error
}

func (r *PostgresRepository) DeleteBox(ctx context.Context, familyID, boxID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&inventorydomain.Box{}, "family_id = ? AND id = ?", familyID, boxID)
	return result.RowsAffected > 0, result.Error
}

// Locations

func (r *PostgresRepository) GetLocation(ctx context.Context, familyID, locationID string) (*inventorydomain.Location, error) {
	var location inventorydomain.Location
	if err := r.db.WithContext(ctx).
		Where("family_id = ? AND id = ?", familyID, locationID).
		First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrLocationNotFound
		}
		return nil, err
	}
	return &location, nil
}

func (r *PostgresRepository) ListLocations(ctx context.Context, familyID string) ([]inventorydomain.Location, error) {
	var locations []inventorydomain.Location
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("name asc").
		Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *PostgresRepository) CreateLocation(ctx context.Context, location *inventorydomain.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *PostgresRepository) UpdateLocation(ctx context.Context, location *inventorydomain.Location) error {
	return r.db.WithContext(ctx).
		Model(&inventorydomain.Location{}).
		Where("id = ? AND family_id = ?", location.ID, location.FamilyID).
		Updates(map[string]interface{}{
			"name": location.Name,
			"tags": location.Tags,
		}).Error
}

func (r *PostgresRepository) DeleteLocation(ctx context.Context, familyID, locationID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&inventorydomain.Location{}, "family_id = ? AND id = ?", familyID, locationID)
	return result.RowsAffected > 0, result.Error
}

// Tags

func (r *PostgresRepository) GetTag(ctx context.Context, familyID, tagID string) (*inventorydomain.Tag, error) {
	var tag inventorydomain.Tag
	if err := r.db.WithContext(ctx).
		Where("family_id = ? AND id = ?", familyID, tagID).
		First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventorydomain.ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

func (r *PostgresRepository) ListTags(ctx context.Context, familyID string) ([]inventorydomain.Tag, error) {
	var tags []inventorydomain.Tag
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("name asc").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *PostgresRepository) CreateTag(ctx context.Context, tag *inventorydomain.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *PostgresRepository) UpdateTag(ctx context.Context, tag *inventorydomain.Tag) error {
	return r.db.WithContext(ctx).
		Model(&inventorydomain.Tag{}).
		Where("id = ? AND family_id = ?", tag.ID, tag.FamilyID).
		Update("name", tag.Name).Error
}

func (r *PostgresRepository) DeleteTag(ctx context.Context, familyID, tagID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&inventorydomain.Tag{}, "family_id = ? AND id = ?", familyID, tagID)
	return result.RowsAffected > 0, result.Error
}

// Reference counts for delete preconditions

func (r *PostgresRepository) CountItemsByType(ctx context.Context, familyID, typeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&inventorydomain.Item{}).
		Where("family_id = ? AND item_type_id = ?", familyID, typeID).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountItemsByBox(ctx context.Context, familyID, boxID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&inventorydomain.Item{}).
		Where("family_id = ? AND box_id = ?", familyID, boxID).
		Count(&count).Error
	return count, err
}

// Items store tag ids as a JSON array in a text column; the LIKE match
// relies on ids being quoted UUIDs, which cannot collide on substring.
func (r *PostgresRepository) CountItemsByTag(ctx context.Context, familyID, tagID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&inventorydomain.Item{}).
		Where("family_id = ? AND tags LIKE ?", familyID, `%"`+tagID+`"%`).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountBoxesByLocation(ctx context.Context, familyID, locationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&inventorydomain.Box{}).
		Where("family_id = ? AND location_id = ?", familyID, locationID).
		Count(&count).Error
	return count, err
}
