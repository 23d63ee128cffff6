package wishlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"home-inventory-go/internal/domain/auth"
	"home-inventory-go/internal/domain/inventory"
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

func (s *Service) Create(ctx context.Context, caller auth.Caller, input CreateInput) (*WishlistItem, error) {
	if !ValidPriority(input.Priority) {
		return nil, fmt.Errorf("priority must be high, medium or low")
	}

	item := WishlistItem{
		ID:          uuid.NewString(),
		FamilyID:    caller.FamilyID,
		Name:        strings.TrimSpace(input.Name),
		ItemTypeID:  input.ItemTypeID,
		RequesterID: caller.UserID,
		Priority:    input.Priority,
		Tags:        input.Tags,
		Memo:        input.Memo,
		Status:      StatusPending,
	}

	if decision := auth.Authorize(caller, auth.OpCreate, auth.CollectionWishlistItems, nil, wishlistDoc(item)); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}

	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) Get(ctx context.Context, caller auth.Caller, wishlistID string) (*WishlistItem, error) {
	item, err := s.repo.Get(ctx, caller.FamilyID, wishlistID)
	if err != nil {
		return nil, err
	}
	if decision := auth.Authorize(caller, auth.OpRead, auth.CollectionWishlistItems, wishlistDoc(*item), nil); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, caller auth.Caller) ([]WishlistItem, error) {
	if caller.FamilyID == "" {
		return nil, auth.Denied(auth.ReasonNotInFamily)
	}
	return s.repo.List(ctx, caller.FamilyID)
}

// Purchase flips a pending wishlist entry to purchased and creates the
// owned Item in the same transaction: a reader never sees one side
// without the other, and of two concurrent purchases exactly one wins.
func (s *Service) Purchase(ctx context.Context, caller auth.Caller, wishlistID string) (*PurchaseResult, error) {
	entry, err := s.repo.Get(ctx, caller.FamilyID, wishlistID)
	if err != nil {
		return nil, err
	}
	if decision := auth.Authorize(caller, auth.OpUpdate, auth.CollectionWishlistItems, wishlistDoc(*entry), nil); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}
	if entry.Status != StatusPending {
		return nil, fmt.Errorf("%w: wishlist item is %s", ErrInvalidStatus, entry.Status)
	}

	now := s.now().UTC()
	newItem := inventory.Item{
		ID:          uuid.NewString(),
		FamilyID:    entry.FamilyID,
		ItemTypeID:  entry.ItemTypeID,
		OwnerID:     entry.RequesterID,
		Tags:        entry.Tags,
		Memo:        entry.Memo,
		Status:      inventory.StatusOwned,
		PurchasedAt: &now,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		won, err := tx.MarkStatus(ctx, entry.FamilyID, entry.ID, StatusPending, StatusPurchased, now)
		if err != nil {
			return err
		}
		if !won {
			return fmt.Errorf("%w: wishlist item is no longer %s", ErrInvalidStatus, StatusPending)
		}
		return tx.CreateInventoryItem(ctx, &newItem)
	})
	if err != nil {
		return nil, err
	}

	entry.Status = StatusPurchased
	entry.UpdatedAt = now
	return &PurchaseResult{Wishlist: entry, Item: &newItem}, nil
}

// Cancel is the other terminal transition out of pending.
func (s *Service) Cancel(ctx context.Context, caller auth.Caller, wishlistID string) (*WishlistItem, error) {
	entry, err := s.repo.Get(ctx, caller.FamilyID, wishlistID)
	if err != nil {
		return nil, err
	}
	if decision := auth.Authorize(caller, auth.OpUpdate, auth.CollectionWishlistItems, wishlistDoc(*entry), nil); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}
	if entry.Status != StatusPending {
		return nil, fmt.Errorf("%w: wishlist item is %s", ErrInvalidStatus, entry.Status)
	}

	now := s.now().UTC()
	won, err := s.repo.MarkStatus(ctx, entry.FamilyID, entry.ID, StatusPending, StatusCancelled, now)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, fmt.Errorf("%w: wishlist item is no longer %s", ErrInvalidStatus, StatusPending)
	}

	entry.Status = StatusCancelled
	entry.UpdatedAt = now
	return entry, nil
}

func (s *Service) Delete(ctx context.Context, caller auth.Caller, wishlistID string) error {
	entry, err := s.repo.Get(ctx, caller.FamilyID, wishlistID)
	if err != nil {
		return err
	}
	if decision := auth.Authorize(caller, auth.OpDelete, auth.CollectionWishlistItems, wishlistDoc(*entry), nil); !decision.Allowed {
		return auth.Denied(decision.Reason)
	}

	deleted, err := s.repo.Delete(ctx, caller.FamilyID, wishlistID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrWishlistItemNotFound
	}
	return nil
}
