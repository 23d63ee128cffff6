package wishlist

import (
	"context"
	"time"

	"home-inventory-go/internal/domain/inventory"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Get(ctx context.Context, familyID, wishlistID string) (*WishlistItem, error)
	List(ctx context.Context, familyID string) ([]WishlistItem, error)
	Create(ctx context.Context, item *WishlistItem) error
	Update(ctx context.Context, item *WishlistItem) error
	Delete(ctx context.Context, familyID, wishlistID string) (bool, error)

	// MarkStatus flips pending -> toStatus only while the stored row is
	// still pending; the boolean reports whether this caller won.
	MarkStatus(ctx context.Context, familyID, wishlistID, fromStatus, toStatus string, at time.Time) (bool, error)

	// CreateInventoryItem lets the purchase transaction create the Item
	// in the same atomic unit as the status flip.
	CreateInventoryItem(ctx context.Context, item *inventory.Item) error
}
