package invite

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"home-inventory-go/internal/domain/auth"
	"home-inventory-go/internal/domain/family"
	"github.com/google/uuid"
)

const (
	defaultCodeLength = 6
	codeAttempts      = 10
	consumeAttempts   = 3
)

type Config struct {
	TTL        time.Duration
	CodeLength int
}

type Service struct {
	repo Repository
	cfg  Config
	now  func() time.Time
}

func NewService(repo Repository, cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = defaultCodeLength
	}
	return &Service{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

// Create issues a new invite code for the caller's family. Admin only,
// enforced by the policy table.
func (s *Service) Create(ctx context.Context, caller auth.Caller) (*InviteCode, error) {
	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	inv := InviteCode{
		ID:        uuid.NewString(),
		Code:      code,
		FamilyID:  caller.FamilyID,
		CreatedBy: caller.UserID,
		Status:    StatusActive,
		ExpiresAt: s.now().Add(s.cfg.TTL).UTC(),
	}

	if decision := auth.Authorize(caller, auth.OpCreate, auth.CollectionInviteCodes, nil, inviteDoc(inv)); !decision.Allowed {
		return nil, auth.Denied(decision.Reason)
	}

	if err := s.repo.Create(ctx, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// List returns the family's invites with lazy expiry applied: any
// active invite past its deadline is flipped before it is reported.
func (s *Service) List(ctx context.Context, caller auth.Caller) ([]InviteCode, error) {
	if !caller.IsAdmin() {
		return nil, auth.Denied(auth.ReasonAdminRequired)
	}

	invites, err := s.repo.ListByFamily(ctx, caller.FamilyID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range invites {
		resolved, expiredNow := resolveExpiry(invites[i], now)
		if expiredNow {
			if _, err := s.repo.MarkExpired(ctx, invites[i].ID); err != nil {
				return nil, err
			}
		}
		invites[i] = resolved
	}
	return invites, nil
}

// Result is what a successful redemption produced.
type Result struct {
	User   *family.User
	Invite *InviteCode
}

// Redeem drives the join flow: the identity must not already be a
// user, the code must resolve to an active invite, and the member
// creation plus the conditional active -> used consume run in one
// transaction, so exactly one of several concurrent redeemers wins and
// the losers leave nothing behind.
func (s *Service) Redeem(ctx context.Context, identity family.Identity, code string) (*Result, error) {
	normalized := normalizeCode(code)
	if normalized == "" {
		return nil, fmt.Errorf("code is required")
	}

	existing, err := s.repo.GetUser(ctx, identity.UserID)
	if err != nil && !errors.Is(err, family.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, family.ErrUserAlreadyExists
	}

	now := s.now()

	for attempt := 0; attempt < consumeAttempts; attempt++ {
		inv, err := s.repo.GetByCode(ctx, normalized)
		if err != nil {
			if errors.Is(err, ErrInviteNotFound) {
				return nil, ErrInviteNotFound
			}
			return nil, err
		}

		resolved, expiredNow := resolveExpiry(*inv, now)
		if expiredNow {
			if _, err := s.repo.MarkExpired(ctx, inv.ID); err != nil {
				return nil, err
			}
			return nil, ErrInviteExpired
		}

		redeemed, err := redeem(resolved, identity.UserID, now)
		if err != nil {
			return nil, err
		}

		if decision := auth.Authorize(auth.Caller{UserID: identity.UserID}, auth.OpUpdate, auth.CollectionInviteCodes, inviteDoc(resolved), inviteDoc(redeemed)); !decision.Allowed {
			return nil, auth.Denied(decision.Reason)
		}

		newUser := family.User{
			ID:          identity.UserID,
			Email:       strings.TrimSpace(identity.Email),
			DisplayName: strings.TrimSpace(identity.DisplayName),
			Role:        auth.RoleMember,
			FamilyID:    inv.FamilyID,
		}
		if newUser.DisplayName == "" {
			newUser.DisplayName = newUser.Email
		}

		if decision := auth.Authorize(auth.Caller{UserID: identity.UserID}, auth.OpCreate, auth.CollectionUsers, nil, userCreateDoc(newUser)); !decision.Allowed {
			return nil, auth.Denied(decision.Reason)
		}

		var lost bool
		err = s.repo.Transaction(ctx, func(tx Repository) error {
			if err := tx.CreateUser(ctx, &newUser); err != nil {
				return err
			}
			won, err := tx.Consume(ctx, inv.ID, identity.UserID, now)
			if err != nil {
				return err
			}
			if !won {
				lost = true
				return errConsumeLost
			}
			return nil
		})
		if err != nil {
			if lost {
				// Another redeemer got there first, or the code just
				// expired; re-read and report the authoritative state.
				continue
			}
			return nil, err
		}

		return &Result{User: &newUser, Invite: &redeemed}, nil
	}

	return nil, ErrInviteAlreadyUsed
}

var errConsumeLost = errors.New("invite consume lost")

func (s *Service) generateUniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := generateCode(s.cfg.CodeLength)
		if err != nil {
			return "", err
		}
		taken, err := s.repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGeneration
}

func generateCode(length int) (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	max := big.NewInt(int64(len(alphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}

	return builder.String(), nil
}

func userCreateDoc(u family.User) auth.Doc {
	return auth.Doc{
		"id":          u.ID,
		"email":       u.Email,
		"displayName": u.DisplayName,
		"role":        string(u.Role),
		"familyId":    u.FamilyID,
	}
}
