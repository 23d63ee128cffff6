package invite

import (
	"strings"
	"time"
)

// Pure lifecycle functions. Expiry is modeled as an explicit
// resolve-then-validate step rather than a read side effect, so the
// coordinator (and tests) decide when the expired status gets written
// back.

// normalizeCode folds equivalent inputs onto one lookup key.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// resolveExpiry returns the invite with lazy expiry applied and
// whether the flip happened now (meaning the caller should persist it).
func resolveExpiry(code InviteCode, now time.Time) (InviteCode, bool) {
	if code.Status == StatusActive && now.After(code.ExpiresAt) {
		code.Status = StatusExpired
		return code, true
	}
	return code, false
}

// redeem validates the active -> used transition and stamps the
// redeemer. It assumes expiry has already been resolved.
func redeem(code InviteCode, userID string, now time.Time) (InviteCode, error) {
	switch code.Status {
	case StatusActive:
		code.Status = StatusUsed
		code.UsedBy = &userID
		usedAt := now
		code.UsedAt = &usedAt
		return code, nil
	case StatusUsed:
		return InviteCode{}, ErrInviteAlreadyUsed
	case StatusExpired:
		return InviteCode{}, ErrInviteExpired
	default:
		return InviteCode{}, ErrInviteNotFound
	}
}
