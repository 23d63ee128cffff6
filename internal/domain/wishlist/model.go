package wishlist

import (
	"time"

	"home-inventory-go/internal/domain/auth"
	"home-inventory-go/internal/domain/inventory"
)

const (
	StatusPending   = "pending"
	StatusPurchased = "purchased"
	StatusCancelled = "cancelled"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type WishlistItem struct {
	ID          string               `gorm:"type:uuid;primaryKey"`
	FamilyID    string               `gorm:"type:uuid;index;not null"`
	Name        string               `gorm:"not null"`
	ItemTypeID  *string              `gorm:"type:uuid"`
	RequesterID string               `gorm:"not null"`
	Priority    string               `gorm:"type:varchar(16);not null"`
	Tags        inventory.StringList `gorm:"type:text"`
	Memo        *string
	Status      string    `gorm:"type:varchar(16);not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

type CreateInput struct {
	Name       string
	ItemTypeID *string
	Priority   string
	Tags       []string
	Memo       *string
}

// PurchaseResult carries both sides of the purchase transaction.
type PurchaseResult struct {
	Wishlist *WishlistItem
	Item     *inventory.Item
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func wishlistDoc(w WishlistItem) auth.Doc {
	return auth.Doc{
		"id":          w.ID,
		"familyId":    w.FamilyID,
		"name":        w.Name,
		"requesterId": w.RequesterID,
		"priority":    w.Priority,
		"status":      w.Status,
	}
}
