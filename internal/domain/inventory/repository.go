package inventory

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetItem(ctx context.Context, familyID, itemID string) (*Item, error)
	ListItems(ctx context.Context, familyID string, filter ItemFilter) ([]Item, error)
	CreateItem(ctx context.Context, item *Item) error
	UpdateItem(ctx context.Context, item *Item) error
	// UpdateItemStatus persists a transition only if the stored status
	// still matches fromStatus; the boolean reports whether it did.
	UpdateItemStatus(ctx context.Context, fromStatus string, item *Item) (bool, error)
	DeleteItem(ctx context.Context, familyID, itemID string) (bool, error)

	GetItemType(ctx context.Context, familyID, typeID string) (*ItemType, error)
	ListItemTypes(ctx context.Context, familyID string) ([]ItemType, error)
	CreateItemType(ctx context.Context, itemType *ItemType) error
	UpdateItemType(ctx context.Context, itemType *ItemType) error
	DeleteItemType(ctx context.Context, familyID, typeID string) (bool, error)

	GetBox(ctx context.Context, familyID, boxID string) (*Box, error)
	ListBoxes(ctx context.Context, familyID string) ([]Box, error)
	CreateBox(ctx context.Context, box *Box) error
	UpdateBox(ctx context.Context, box *Box) error
	DeleteBox(ctx context.Context, familyID, boxID string) (bool, error)

	GetLocation(ctx context.Context, familyID, locationID string) (*Location, error)
	ListLocations(ctx context.Context, familyID string) ([]Location, error)
	CreateLocation(ctx context.Context, location *Location) error
	UpdateLocation(ctx context.Context, location *Location) error
	DeleteLocation(ctx context.Context, familyID, locationID string) (bool, error)

	GetTag(ctx context.Context, familyID, tagID string) (*Tag, error)
	ListTags(ctx context.Context, familyID string) ([]Tag, error)
	CreateTag(ctx context.Context, tag *Tag) error
	UpdateTag(ctx context.Context, tag *Tag) error
	DeleteTag(ctx context.Context, familyID, tagID string) (bool, error)

	// Referential-integrity preconditions for reference-data deletes.
	CountItemsByType(ctx context.Context, familyID, typeID string) (int64, error)
	CountItemsByBox(ctx context.Context, familyID, boxID string) (int64, error)
	CountItemsByTag(ctx context.Context, familyID, tagID string) (int64, error)
	CountBoxesByLocation(ctx context.Context, familyID, locationID string) (int64, error)
}
