package invite

import (
	"context"
	"time"

	"home-inventory-go/internal/domain/family"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByCode(ctx context.Context, code string) (*InviteCode, error)
	Create(ctx context.Context, code *InviteCode) error
	ListByFamily(ctx context.Context, familyID string) ([]InviteCode, error)
	IsCodeTaken(ctx context.Context, code string) (bool, error)

	// MarkExpired and Consume are conditional writes gated on
	// status == active; the boolean reports whether this caller won.
	MarkExpired(ctx context.Context, inviteID string) (bool, error)
	Consume(ctx context.Context, inviteID, userID string, usedAt time.Time) (bool, error)

	// Redemption creates the member inside the same transaction that
	// consumes the code, so a losing consume rolls the user back.
	GetUser(ctx context.Context, userID string) (*family.User, error)
	CreateUser(ctx context.Context, user *family.User) error
}
