package invite

import (
	"context"
	"errors"
	"testing"
	"time"

	"home-inventory-go/internal/domain/auth"
	"home-inventory-go/internal/domain/family"
)

type fakeInviteRepo struct {
	invites map[string]*InviteCode
	byCode  map[string]string
	users   map[string]*family.User

	// beforeTransaction runs once ahead of the next transaction,
	// simulating a concurrent redeemer that committed between this
	// caller's read and its write.
	beforeTransaction func(r *fakeInviteRepo)
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{
		invites: make(map[string]*InviteCode),
		byCode:  make(map[string]string),
		users:   make(map[string]*family.User),
	}
}

// Transaction snapshots state and restores it when fn fails, matching
// the rollback the real implementation gets from the database.
func (r *fakeInviteRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	if r.beforeTransaction != nil {
		hook := r.beforeTransaction
		r.beforeTransaction = nil
		hook(r)
	}

	invites := make(map[string]*InviteCode, len(r.invites))
	for id, inv := range r.invites {
		copied := *inv
		invites[id] = &copied
	}
	users := make(map[string]*family.User, len(r.users))
	for id, user := range r.users {
		copied := *user
		users[id] = &copied
	}

	if err := fn(r); err != nil {
		r.invites = invites
		r.users = users
		return err
	}
	return nil
}

func (r *fakeInviteRepo) GetByCode(ctx context.Context, code string) (*InviteCode, error) {
	id, ok := r.byCode[code]
	if !ok {
		return nil, ErrInviteNotFound
	}
	copied := *r.invites[id]
	return &copied, nil
}

func (r *fakeInviteRepo) Create(ctx context.Context, code *InviteCode) error {
	copied := *code
	r.invites[code.ID] = &copied
	r.byCode[code.Code] = code.ID
	return nil
}

func (r *fakeInviteRepo) ListByFamily(ctx context.Context, familyID string) ([]InviteCode, error) {
	result := make([]InviteCode, 0)
	for _, inv := range r.invites {
		if inv.FamilyID == familyID {
			result = append(result, *inv)
		}
	}
	return result, nil
}

func (r *fakeInviteRepo) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	_, ok := r.byCode[code]
	return ok, nil
}

func (r *fakeInviteRepo) MarkExpired(ctx context.Context, inviteID string) (bool, error) {
	inv, ok := r.invites[inviteID]
	if !ok || inv.Status != StatusActive {
		return false, nil
	}
	inv.Status = StatusExpired
	return true, nil
}

func (r *fakeInviteRepo) Consume(ctx context.Context, inviteID, userID string, usedAt time.Time) (bool, error) {
	inv, ok := r.invites[inviteID]
	if !ok || inv.Status != StatusActive {
		return false, nil
	}
	inv.Status = StatusUsed
	inv.UsedBy = &userID
	at := usedAt
	inv.UsedAt = &at
	return true, nil
}

func (r *fakeInviteRepo) GetUser(ctx context.Context, userID string) (*family.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, family.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeInviteRepo) CreateUser(ctx context.Context, user *family.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeInviteRepo) seedInvite(id, code, familyID, status string, expiresAt time.Time) {
	r.invites[id] = &InviteCode{
		ID:        id,
		Code:      code,
		FamilyID:  familyID,
		CreatedBy: "admin-1",
		Status:    status,
		ExpiresAt: expiresAt,
	}
	r.byCode[code] = id
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo, Config{})
	svc.now = fixedNow
	return svc
}

func TestCreateInvite(t *testing.T) {
	repo := newFakeInviteRepo()
	svc := newTestService(repo)

	caller := auth.Caller{UserID: "admin-1", FamilyID: "fam-1", Role: auth.RoleAdmin}
	inv, err := svc.Create(context.Background(), caller)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(inv.Code) != defaultCodeLength {
		t.Fatalf("expected code length %d, got %q", defaultCodeLength, inv.Code)
	}
	if inv.Status != StatusActive {
		t.Fatalf("expected active, got %q", inv.Status)
	}
	want := fixedNow().Add(7 * 24 * time.Hour)
	if !inv.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, inv.ExpiresAt)
	}
}

func TestCreateInviteMemberDenied(t *testing.T) {
	repo := newFakeInviteRepo()
	svc := newTestService(repo)

	caller := auth.Caller{UserID: "member-1", FamilyID: "fam-1", Role: auth.RoleMember}
	if _, err := svc.Create(context.Background(), caller); !errors.Is(err, auth.ErrDenied) {
		t.Fatalf("expected ErrDenied, got %v", err)
	}
	if len(repo.invites) != 0 {
		t.Fatalf("expected nothing persisted")
	}
}

func TestListAppliesLazyExpiry(t *testing.T) {
	repo := newFakeInviteRepo()
	repo.seedInvite("inv-1", "FRESH1", "fam-1", StatusActive, fixedNow().Add(time.Hour))
	repo.seedInvite("inv-2", "STALE1", "fam-1", StatusActive, fixedNow().Add(-time.Hour))
	svc := newTestService(repo)

	caller := auth.Caller{UserID: "admin-1", FamilyID: "fam-1", Role: auth.RoleAdmin}
	invites, err := svc.List(context.Background(), caller)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	statuses := make(map[string]string, len(invites))
	for _, inv := range invites {
		statuses[inv.ID] = inv.Status
	}
	if statuses["inv-1"] != StatusActive {
		t.Fatalf("expected inv-1 active, got %q", statuses["inv-1"])
	}
	if statuses["inv-2"] != StatusExpired {
		t.Fatalf("expected inv-2 expired, got %q", statuses["inv-2"])
	}
	if repo.invites["inv-2"].Status != StatusExpired {
		t.Fatalf("expected expiry persisted")
	}
}

func TestListMemberDenied(t *testing.T) {
	svc := newTestService(newFakeInviteRepo())
	caller := auth.Caller{UserID: "member-1", FamilyID: "fam-1", Role: auth.RoleMember}
	if _, err := svc.List(context.Background(), caller); !errors.Is(err, auth.ErrDenied) {
		t.Fatalf("expected ErrDenied, got %v", err)
	}
}

func TestRedeem(t *testing.T) {
	repo := newFakeInviteRepo()
	repo.seedInvite("inv-1", "AB2C3D", "fam-1", StatusActive, fixedNow().Add(time.Hour))
	svc := newTestService(repo)

	identity := family.Identity{UserID: "joiner", Email: "j@example.com", DisplayName: "Joiner"}
	result, err := svc.Redeem(context.Background(), identity, "  ab2c3d ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.User.FamilyID != "fam-1" {
		t.Fatalf("expected member joined fam-1, got %q", result.User.FamilyID)
	}
	if result.User.Role != auth.RoleMember {
		t.Fatalf("expected member role, got %q", result.User.Role)
	}
	if result.Invite.Status != StatusUsed {
		t.Fatalf("expected invite used, got %q", result.Invite.Status)
	}
	if repo.invites["inv-1"].UsedBy == nil || *repo.invites["inv-1"].UsedBy != "joiner" {
		t.Fatalf("expected usedBy persisted")
	}
	if _, ok := repo.users["joiner"]; !ok {
		t.Fatalf("expected user persisted")
	}
}

func TestRedeemUnknownCode(t *testing.T) {
	svc := newTestService(newFakeInviteRepo())
	_, err := svc.Redeem(context.Background(), family.Identity{UserID: "joiner", Email: "j@example.com"}, "NOSUCH")
	if !errors.Is(err, ErrInviteNotFound) {
		t.Fatalf("expected ErrInviteNotFound, got %v", err)
	}
}

func TestRedeemExpiredCode(t *testing.T) {
	repo := newFakeInviteRepo()
	repo.seedInvite("inv-1", "STALE1", "fam-1", StatusActive, fixedNow().Add(-time.Minute))
	svc := newTestService(repo)

	_, err := svc.Redeem(context.Background(), family.Identity{UserID: "joiner", Email: "j@example.com"}, "STALE1")
	if !errors.Is(err, ErrInviteExpired) {
		t.Fatalf("expected ErrInviteExpired, got %v", err)
	}
	if repo.invites["inv-1"].Status != StatusExpired {
		t.Fatalf("expected lazy expiry persisted, got %q", repo.invites["inv-1"].Status)
	}
	if len(repo.users) != 0 {
		t.Fatalf("expected no user created")
	}
}

func TestRedeemUsedCode(t *testing.T) {
	repo := newFakeInviteRepo()
	repo.seedInvite("inv-1", "USED11", "fam-1", StatusUsed, fixedNow().Add(time.Hour))
	svc := newTestService(repo)

	_, err := svc.Redeem(context.Background(), family.Identity{UserID: "joiner", Email: "j@example.com"}, "USED11")
	if !errors.Is(err, ErrInviteAlreadyUsed) {
		t.Fatalf("expected ErrInviteAlreadyUsed, got %v", err)
	}
}

func TestRedeemExistingUser(t *testing.T) {
	repo := newFakeInviteRepo()
	repo.seedInvite("inv-1", "AB2C3D", "fam-1", StatusActive, fixedNow().Add(time.Hour))
	repo.users["joiner"] = &family.User{ID: "joiner", FamilyID: "fam-2", Role: auth.RoleMember}
	svc := newTestService(repo)

	_, err := svc.Redeem(context.Background(), family.Identity{UserID: "joiner", Email: "j@example.com"}, "AB2C3D")
	if !errors.Is(err, family.ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
	if repo.invites["inv-1"].Status != StatusActive {
		t.Fatalf("invite must stay active, got %q", repo.invites["inv-1"].Status)
	}
}

// A concurrent redeemer wins between the read and the conditional
// consume. The loser's transaction must roll back the user it created
// and the re-read classifies the invite as already used.
func TestRedeemLosesConsumeRace(t *testing.T) {
	repo := newFakeInviteRepo()
	repo.seedInvite("inv-1", "AB2C3D", "fam-1", StatusActive, fixedNow().Add(time.Hour))
	repo.beforeTransaction = func(r *fakeInviteRepo) {
		winner := "rival"
		at := fixedNow()
		r.invites["inv-1"].Status = StatusUsed
		r.invites["inv-1"].UsedBy = &winner
		r.invites["inv-1"].UsedAt = &at
	}
	svc := newTestService(repo)

	_, err := svc.Redeem(context.Background(), family.Identity{UserID: "joiner", Email: "j@example.com"}, "AB2C3D")
	if !errors.Is(err, ErrInviteAlreadyUsed) {
		t.Fatalf("expected ErrInviteAlreadyUsed, got %v", err)
	}
	if _, ok := repo.users["joiner"]; ok {
		t.Fatalf("losing redeemer must leave no membership behind")
	}
	if *repo.invites["inv-1"].UsedBy != "rival" {
		t.Fatalf("winner's consume must survive the loser's rollback")
	}
}
