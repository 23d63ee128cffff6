package invite

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeCode(t *testing.T) {
	if got := normalizeCode("  ab2c3d \n"); got != "AB2C3D" {
		t.Fatalf("expected AB2C3D, got %q", got)
	}
	if got := normalizeCode("   "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestResolveExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	fresh := InviteCode{ID: "inv-1", Status: StatusActive, ExpiresAt: now.Add(time.Hour)}
	resolved, flipped := resolveExpiry(fresh, now)
	if flipped || resolved.Status != StatusActive {
		t.Fatalf("expected fresh invite untouched, got %+v flipped=%v", resolved, flipped)
	}

	stale := InviteCode{ID: "inv-2", Status: StatusActive, ExpiresAt: now.Add(-time.Minute)}
	resolved, flipped = resolveExpiry(stale, now)
	if !flipped || resolved.Status != StatusExpired {
		t.Fatalf("expected lazy expiry flip, got %+v flipped=%v", resolved, flipped)
	}

	used := InviteCode{ID: "inv-3", Status: StatusUsed, ExpiresAt: now.Add(-time.Minute)}
	resolved, flipped = resolveExpiry(used, now)
	if flipped || resolved.Status != StatusUsed {
		t.Fatalf("used invite must not flip, got %+v flipped=%v", resolved, flipped)
	}
}

func TestRedeemTransition(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	active := InviteCode{ID: "inv-1", Status: StatusActive, ExpiresAt: now.Add(time.Hour)}
	redeemed, err := redeem(active, "user-1", now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if redeemed.Status != StatusUsed {
		t.Fatalf("expected used, got %q", redeemed.Status)
	}
	if redeemed.UsedBy == nil || *redeemed.UsedBy != "user-1" {
		t.Fatalf("expected usedBy stamped, got %v", redeemed.UsedBy)
	}
	if redeemed.UsedAt == nil || !redeemed.UsedAt.Equal(now) {
		t.Fatalf("expected usedAt stamped, got %v", redeemed.UsedAt)
	}

	if _, err := redeem(InviteCode{Status: StatusUsed}, "user-1", now); !errors.Is(err, ErrInviteAlreadyUsed) {
		t.Fatalf("expected ErrInviteAlreadyUsed, got %v", err)
	}
	if _, err := redeem(InviteCode{Status: StatusExpired}, "user-1", now); !errors.Is(err, ErrInviteExpired) {
		t.Fatalf("expected ErrInviteExpired, got %v", err)
	}
	if _, err := redeem(InviteCode{Status: "garbage"}, "user-1", now); !errors.Is(err, ErrInviteNotFound) {
		t.Fatalf("expected ErrInviteNotFound, got %v", err)
	}
}
