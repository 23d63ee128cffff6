package family

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"home-inventory-go/internal/domain/auth"
	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateFamily is the founder flow: one transaction creates the family
// and its admin user. The identity must not already have a User record.
func (s *Service) CreateFamily(ctx context.Context, identity Identity, name string) (*Family, *User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, fmt.Errorf("name is required")
	}

	caller := auth.Caller{UserID: identity.UserID}

	newFamily := Family{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedBy: identity.UserID,
	}
	newUser := User{
		ID:          identity.UserID,
		Email:       strings.TrimSpace(identity.Email),
		DisplayName: strings.TrimSpace(identity.DisplayName),
		Role:        auth.RoleAdmin,
		FamilyID:    newFamily.ID,
	}
	if newUser.DisplayName == "" {
		newUser.DisplayName = newUser.Email
	}

	if decision := auth.Authorize(caller, auth.OpCreate, auth.CollectionFamilies, nil, familyDoc(newFamily)); !decision.Allowed {
		return nil, nil, auth.Denied(decision.Reason)
	}
	if decision := auth.Authorize(caller, auth.OpCreate, auth.CollectionUsers, nil, userDoc(newUser)); !decision.Allowed {
		return nil, nil, auth.Denied(decision.Reason)
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.GetUser(ctx, identity.UserID)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return err
		}
		if existing != nil {
			return ErrUserAlreadyExists
		}

		if err := tx.CreateFamily(ctx, &newFamily); err != nil {
			return err
		}
		return tx.CreateUser(ctx, &newUser)
	})
	if err != nil {
		return nil, nil, err
	}

	return &newFamily, &newUser, nil
}

func (s *Service) GetFamily(ctx context.Context, caller auth.Caller) (*Family, error) {
	fam, err := s.repo.GetFamily(ctx, caller.FamilyID)
	if err != nil {
		return nil, err
	}
	if decision := auth.Authorize(caller, auth.OpRead, auth.CollectionFamilies, familyDoc(*fam), nil); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}
	return fam, nil
}

func (s *Service) UpdateFamilyName(ctx context.Context, caller auth.Caller, name string) (*Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	fam, err := s.repo.GetFamily(ctx, caller.FamilyID)
	if err != nil {
		return nil, err
	}
	if decision := auth.Authorize(caller, auth.OpUpdate, auth.CollectionFamilies, familyDoc(*fam), nil); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}

	if err := s.repo.UpdateFamilyName(ctx, fam.ID, name); err != nil {
		return nil, err
	}
	fam.Name = name
	return fam, nil
}

func (s *Service) ListMembers(ctx context.Context, caller auth.Caller) ([]User, error) {
	fam, err := s.repo.GetFamily(ctx, caller.FamilyID)
	if err != nil {
		return nil, err
	}
	if decision := auth.Authorize(caller, auth.OpRead, auth.CollectionFamilies, familyDoc(*fam), nil); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}
	return s.repo.ListUsers(ctx, fam.ID)
}

func (s *Service) GetUser(ctx context.Context, caller auth.Caller, userID string) (*User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if decision := auth.Authorize(caller, auth.OpRead, auth.CollectionUsers, userDoc(*user), nil); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}
	return user, nil
}

// UpdateProfile changes the mutable profile fields only. Role and
// family membership are carried over unchanged so the policy's
// immutability rule holds by construction; a forged update that does
// touch them is rejected by the same rule.
func (s *Service) UpdateProfile(ctx context.Context, caller auth.Caller, input UpdateProfileInput) (*User, error) {
	user, err := s.repo.GetUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	updated := *user
	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, fmt.Errorf("display name is required")
		}
		updated.DisplayName = name
	}
	if input.DiscordID != nil {
		trimmed := strings.TrimSpace(*input.DiscordID)
		if trimmed == "" {
			updated.DiscordID = nil
		} else {
			updated.DiscordID = &trimmed
		}
	}

	if decision := auth.Authorize(caller, auth.OpUpdate, auth.CollectionUsers, userDoc(*user), userDoc(updated)); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}

	if err := s.repo.UpdateUserProfile(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
