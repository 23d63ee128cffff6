package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"home-inventory-go/internal/domain/auth"
	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Items

func (s *Service) CreateItem(ctx context.Context, caller auth.Caller, input CreateItemInput) (*Item, error) {
	typeID := strings.TrimSpace(input.ItemTypeID)
	item := Item{
		ID:          uuid.NewString(),
		FamilyID:    caller.FamilyID,
		ItemTypeID:  &typeID,
		OwnerID:     strings.TrimSpace(input.OwnerID),
		BoxID:       input.BoxID,
		Tags:        input.Tags,
		Memo:        input.Memo,
		Status:      StatusOwned,
		PurchasedAt: input.PurchasedAt,
	}
	if item.OwnerID == "" {
		item.OwnerID = caller.UserID
	}

	if decision := auth.Authorize(caller, auth.OpCreate, auth.CollectionItems, nil, itemDoc(item)); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}

	if _, err := s.repo.GetItemType(ctx, caller.FamilyID, typeID); err != nil {
		return nil, err
	}
	if item.BoxID != nil {
		if _, err := s.repo.GetBox(ctx, caller.FamilyID, *item.BoxID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateItem(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) GetItem(ctx context.Context, caller auth.Caller, itemID string) (*Item, error) {
	item, err := s.repo.GetItem(ctx, caller.FamilyID, itemID)
	if err != nil {
		return nil, err
	}
	if decision := auth.Authorize(caller, auth.OpRead, auth.CollectionItems, itemDoc(*item), nil); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}
	return item, nil
}

func (s *Service) ListItems(ctx context.Context, caller auth.Caller, filter ItemFilter) ([]Item, error) {
	if caller.FamilyID == "" {
		return nil, auth.Denied(auth.ReasonNotInFamily)
	}
	return s.repo.ListItems(ctx, caller.FamilyID, filter)
}

// UpdateItem changes box placement, tags and memo. Status changes go
// through the transition endpoints only.
func (s *Service) UpdateItem(ctx context.Context, caller auth.Caller, itemID string, input UpdateItemInput) (*Item, error) {
	item, err := s.repo.GetItem(ctx, caller.FamilyID, itemID)
	if err != nil {
		return nil, err
	}
	if decision := auth.Authorize(caller, auth.OpUpdate, auth.CollectionItems, itemDoc(*item), nil); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}

	if input.BoxID != nil {
		boxID := strings.TrimSpace(*input.BoxID)
		if boxID == "" {
			item.BoxID = nil
		} else {
			if _, err := s.repo.GetBox(ctx, caller.FamilyID, boxID); err != nil {
				return nil, err
			}
			item.BoxID = &boxID
		}
	}
	if input.Tags != nil {
		item.Tags = *input.Tags
	}
	if input.Memo != nil {
		memo := strings.TrimSpace(*input.Memo)
		if memo == "" {
			item.Memo = nil
		} else {
			item.Memo = &memo
		}
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, caller auth.Caller, itemID string) error {
	item, err := s.repo.GetItem(ctx, caller.FamilyID, itemID)
	if err != nil {
		return err
	}
	if decision := auth.Authorize(caller, auth.OpDelete, auth.CollectionItems, itemDoc(*item), nil); !decision.Allowed {
		return auth.Denied(decision.Reason)
	}

	deleted, err := s.repo.DeleteItem(ctx, caller.FamilyID, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrItemNotFound
	}
	return nil
}

// Consume marks an owned item consumed. Concurrent transitions on the
// same item serialize on the conditional write: exactly one wins, the
// rest observe a non-owned status.
func (s *Service) Consume(ctx context.Context, caller auth.Caller, itemID string) (*Item, error) {
	return s.transition(ctx, caller, itemID, Transition{Kind: TransitionConsume, At: s.now().UTC()})
}

func (s *Service) Give(ctx context.Context, caller auth.Caller, itemID, givenTo string) (*Item, error) {
	return s.transition(ctx, caller, itemID, Transition{Kind: TransitionGive, GivenTo: givenTo, At: s.now().UTC()})
}

func (s *Service) Sell(ctx context.Context, caller auth.Caller, itemID string, soldTo *string, soldPrice *float64) (*Item, error) {
	return s.transition(ctx, caller, itemID, Transition{Kind: TransitionSell, SoldTo: soldTo, SoldPrice: soldPrice, At: s.now().UTC()})
}

func (s *Service) transition(ctx context.Context, caller auth.Caller, itemID string, t Transition) (*Item, error) {
	item, err := s.repo.GetItem(ctx, caller.FamilyID, itemID)
	if err != nil {
		return nil, err
	}
	if decision := auth.Authorize(caller, auth.OpUpdate, auth.CollectionItems, itemDoc(*item), nil); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}

	updated, err := applyTransition(*item, t)
	if err != nil {
		return nil, err
	}

	won, err := s.repo.UpdateItemStatus(ctx, item.Status, &updated)
	if err != nil {
		return nil, err
	}
	if !won {
		// Lost the race: someone else transitioned the item first.
		return nil, fmt.Errorf("%w: item is no longer %s", ErrInvalidStatus, StatusOwned)
	}
	return &updated, nil
}

// RelatedTags merges the tags declared on the item itself, its type,
// its box and that box's location into one provenance-tagged set.
// Dangling references contribute nothing; they are not errors.
func (s *Service) RelatedTags(ctx context.Context, caller auth.Caller, itemID string) ([]RelatedTag, error) {
	item, err := s.repo.GetItem(ctx, caller.FamilyID, itemID)
	if err != nil {
		return nil, err
	}
	if decision := auth.Authorize(caller, auth.OpRead, auth.CollectionItems, itemDoc(*item), nil); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}

	tags, err := s.repo.ListTags(ctx, caller.FamilyID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(tags))
	for _, tag := range tags {
		names[tag.ID] = tag.Name
	}

	var related []RelatedTag
	seen := make(map[string]struct{})
	collect := func(source TagSource, ids StringList) {
		for _, id := range ids {
			name, ok := names[id]
			if !ok {
				continue
			}
			key := string(source) + "/" + id
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			related = append(related, RelatedTag{ID: id, Name: name, Source: source})
		}
	}

	collect(TagSourceItem, item.Tags)

	if item.ItemTypeID != nil {
		itemType, err := s.repo.GetItemType(ctx, caller.FamilyID, *item.ItemTypeID)
		if err != nil && !errors.Is(err, ErrItemTypeNotFound) {
			return nil, err
		}
		if itemType != nil {
			collect(TagSourceItemType, itemType.Tags)
		}
	}

	if item.BoxID != nil {
		box, err := s.repo.GetBox(ctx, caller.FamilyID, *item.BoxID)
		if err != nil && !errors.Is(err, ErrBoxNotFound) {
			return nil, err
		}
		if box != nil {
			collect(TagSourceBox, box.Tags)

			if box.LocationID != nil {
				location, err := s.repo.GetLocation(ctx, caller.FamilyID, *box.LocationID)
				if err != nil && !errors.Is(err, ErrLocationNotFound) {
					return nil, err
				}
				if location != nil {
					collect(TagSourceLocation, location.Tags)
				}
			}
		}
	}

	return related, nil
}

// Item types

func (s *Service) CreateItemType(ctx context.Context, caller auth.Caller, input ReferenceInput) (*ItemType, error) {
	name := strings.TrimSpace(input.Name)
	itemType := ItemType{
		ID:       uuid.NewString(),
		FamilyID: caller.FamilyID,
		Name:     name,
		Tags:     input.Tags,
	}
	if decision := auth.Authorize(caller, auth.OpCreate, auth.CollectionItemTypes, nil, referenceDoc(itemType.ID, itemType.FamilyID, itemType.Name)); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}
	if err := s.repo.CreateItemType(ctx, &itemType); err != nil {
		return nil, err
	}
	return &itemType, nil
}

func (s *Service) ListItemTypes(ctx context.Context, caller auth.Caller) ([]ItemType, error) {
	if caller.FamilyID == "" {
		return nil, auth.Denied(auth.ReasonNotInFamily)
	}
	return s.repo.ListItemTypes(ctx, caller.FamilyID)
}

func (s *Service) UpdateItemType(ctx context.Context, caller auth.Caller, typeID string, input ReferenceInput) (*ItemType, error) {
	itemType, err := s.repo.GetItemType(ctx, caller.FamilyID, typeID)
	if err != nil {
		return nil, err
	}
	if decision := auth.Authorize(caller, auth.OpUpdate, auth.CollectionItemTypes, referenceDoc(itemType.ID, itemType.FamilyID, itemType.Name), nil); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		itemType.Name = name
	}
	if input.Tags != nil {
		itemType.Tags = input.Tags
	}
	if err := s.repo.UpdateItemType(ctx, itemType); err != nil {
		return nil, err
	}
	return itemType, nil
}

func (s *Service) DeleteItemType(ctx context.Context, caller auth.Caller, typeID string) error {
	itemType, err := s.repo.GetItemType(ctx, caller.FamilyID, typeID)
	if err != nil {
		return err
	}
	if decision := auth.Authorize(caller, auth.OpDelete, auth.CollectionItemTypes, referenceDoc(itemType.ID, itemType.FamilyID, itemType.Name), nil); !decision.Allowed {
		return auth.Denied(decision.Reason)
	}

	count, err := s.repo.CountItemsByType(ctx, caller.FamilyID, typeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: item type has %d items", ErrInUse, count)
	}

	deleted, err := s.repo.DeleteItemType(ctx, caller.FamilyID, typeID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrItemTypeNotFound
	}
	return nil
}

// Boxes

func (s *Service) CreateBox(ctx context.Context, caller auth.Caller, input BoxInput) (*Box, error) {
	box := Box{
		ID:         uuid.NewString(),
		FamilyID:   caller.FamilyID,
		Name:       strings.TrimSpace(input.Name),
		LocationID: input.LocationID,
		Tags:       input.Tags,
	}
	if decision := auth.Authorize(caller, auth.OpCreate, auth.CollectionBoxes, nil, referenceDoc(box.ID, box.FamilyID, box.Name)); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}
	if box.LocationID != nil {
		if _, err := s.repo.GetLocation(ctx, caller.FamilyID, *box.LocationID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.CreateBox(ctx, &box); err != nil {
		return nil, err
	}
	return &box, nil
}

func (s *Service) ListBoxes(ctx context.Context, caller auth.Caller) ([]Box, error) {
	if caller.FamilyID == "" {
		return nil, auth.Denied(auth.ReasonNotInFamily)
	}
	return s.repo.ListBoxes(ctx, caller.FamilyID)
}

func (s *Service) UpdateBox(ctx context.Context, caller auth.Caller, boxID string, input BoxInput) (*Box, error) {
	box, err := s.repo.GetBox(ctx, caller.FamilyID, boxID)
	if err != nil {
		return nil, err
	}
	if decision := auth.Authorize(caller, auth.OpUpdate, auth.CollectionBoxes, referenceDoc(box.ID, box.FamilyID, box.Name), nil); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		box.Name = name
	}
	if input.LocationID != nil {
		locationID := strings.TrimSpace(*input.LocationID)
		if locationID == "" {
			box.LocationID = nil
		} else {
			if _, err := s.repo.GetLocation(ctx, caller.FamilyID, locationID); err != nil {
				return nil, err
			}
			box.LocationID = &locationID
		}
	}
	if input.Tags != nil {
		box.Tags = input.Tags
	}
	if err := s.repo.UpdateBox(ctx, box); err != nil {
		return nil, err
	}
	return box, nil
}

func (s *Service) DeleteBox(ctx context.Context, caller auth.Caller, boxID string) error {
	box, err := s.repo.GetBox(ctx, caller.FamilyID, boxID)
	if err != nil {
		return err
	}
	if decision := auth.Authorize(caller, auth.OpDelete, auth.CollectionBoxes, referenceDoc(box.ID, box.FamilyID, box.Name), nil); !decision.Allowed {
		return auth.Denied(decision.Reason)
	}

	count, err := s.repo.CountItemsByBox(ctx, caller.FamilyID, boxID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: box has %d items", ErrInUse, count)
	}

	deleted, err := s.repo.DeleteBox(ctx, caller.FamilyID, boxID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBoxNotFound
	}
	return nil
}

// Locations

func (s *Service) CreateLocation(ctx context.Context, caller auth.Caller, input ReferenceInput) (*Location, error) {
	location := Location{
		ID:       uuid.NewString(),
		FamilyID: caller.FamilyID,
		Name:     strings.TrimSpace(input.Name),
		Tags:     input.Tags,
	}
	if decision := auth.Authorize(caller, auth.OpCreate, auth.CollectionLocations, nil, referenceDoc(location.ID, location.FamilyID, location.Name)); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}
	if err := s.repo.CreateLocation(ctx, &location); err != nil {
		return nil, err
	}
	return &location, nil
}

func (s *Service) ListLocations(ctx context.Context, caller auth.Caller) ([]Location, error) {
	if caller.FamilyID == "" {
		return nil, auth.Denied(auth.ReasonNotInFamily)
	}
	return s.repo.ListLocations(ctx, caller.FamilyID)
}

func (s *Service) UpdateLocation(ctx context.Context, caller auth.Caller, locationID string, input ReferenceInput) (*Location, error) {
	location, err := s.repo.GetLocation(ctx, caller.FamilyID, locationID)
	if err != nil {
		return nil, err
	}
	if decision := auth.Authorize(caller, auth.OpUpdate, auth.CollectionLocations, referenceDoc(location.ID, location.FamilyID, location.Name), nil); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		location.Name = name
	}
	if input.Tags != nil {
		location.Tags = input.Tags
	}
	if err := s.repo.UpdateLocation(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *Service) DeleteLocation(ctx context.Context, caller auth.Caller, locationID string) error {
	location, err := s.repo.GetLocation(ctx, caller.FamilyID, locationID)
	if err != nil {
		return err
	}
	if decision := auth.Authorize(caller, auth.OpDelete, auth.CollectionLocations, referenceDoc(location.ID, location.FamilyID, location.Name), nil); !decision.Allowed {
		return auth.Denied(decision.Reason)
	}

	count, err := s.repo.CountBoxesByLocation(ctx, caller.FamilyID, locationID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: location has %d boxes", ErrInUse, count)
	}

	deleted, err := s.repo.DeleteLocation(ctx, caller.FamilyID, locationID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrLocationNotFound
	}
	return nil
}

// Tags

func (s *Service) CreateTag(ctx context.Context, caller auth.Caller, name string) (*Tag, error) {
	tag := Tag{
		ID:       uuid.NewString(),
		FamilyID: caller.FamilyID,
		Name:     strings.TrimSpace(name),
	}
	if decision := auth.Authorize(caller, auth.OpCreate, auth.CollectionTags, nil, referenceDoc(tag.ID, tag.FamilyID, tag.Name)); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}
	if err := s.repo.CreateTag(ctx, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *Service) ListTags(ctx context.Context, caller auth.Caller) ([]Tag, error) {
	if caller.FamilyID == "" {
		return nil, auth.Denied(auth.ReasonNotInFamily)
	}
	return s.repo.ListTags(ctx, caller.FamilyID)
}

func (s *Service) UpdateTag(ctx context.Context, caller auth.Caller, tagID, name string) (*Tag, error) {
	tag, err := s.repo.GetTag(ctx, caller.FamilyID, tagID)
	if err != nil {
		return nil, err
	}
	if decision := auth.Authorize(caller, auth.OpUpdate, auth.CollectionTags, referenceDoc(tag.ID, tag.FamilyID, tag.Name), nil); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}

	if trimmed := strings.TrimSpace(name); trimmed != "" {
		tag.Name = trimmed
	}
	if err := s.repo.UpdateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag is open to any family member, unlike the other reference
// deletes, but keeps the unreferenced precondition.
func (s *Service) DeleteTag(ctx context.Context, caller auth.Caller, tagID string) error {
	tag, err := s.repo.GetTag(ctx, caller.FamilyID, tagID)
	if err != nil {
		return err
	}
	if decision := auth.Authorize(caller, auth.OpDelete, auth.CollectionTags, referenceDoc(tag.ID, tag.FamilyID, tag.Name), nil); !decision.Allowed {
		return auth.Denied(decision.Reason)
	}

	count, err := s.repo.CountItemsByTag(ctx, caller.FamilyID, tagID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: tag is on %d items", ErrInUse, count)
	}

	deleted, err := s.repo.DeleteTag(ctx, caller.FamilyID, tagID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTagNotFound
	}
	return nil
}
