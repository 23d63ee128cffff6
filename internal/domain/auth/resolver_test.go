package auth

import (
	"context"
	"errors"
	"testing"
)

type fakeCallerRepo struct {
	callers map[string]*Caller
	calls   int
}

func (r *fakeCallerRepo) GetCaller(ctx context.Context, userID string) (*Caller, error) {
	r.calls++
	caller, ok := r.callers[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return caller, nil
}

func TestResolve(t *testing.T) {
	repo := &fakeCallerRepo{callers: map[string]*Caller{
		"user-1": {UserID: "user-1", FamilyID: "fam-1", Role: RoleAdmin},
	}}
	resolver := NewResolver(repo)

	caller, err := resolver.Resolve(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if caller.FamilyID != "fam-1" || caller.Role != RoleAdmin {
		t.Fatalf("unexpected caller %+v", caller)
	}
}

func TestResolveUnknownUser(t *testing.T) {
	resolver := NewResolver(&fakeCallerRepo{callers: map[string]*Caller{}})

	_, err := resolver.Resolve(context.Background(), "stranger")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestResolveEmptyIdentity(t *testing.T) {
	repo := &fakeCallerRepo{callers: map[string]*Caller{}}
	resolver := NewResolver(repo)

	_, err := resolver.Resolve(context.Background(), "   ")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no repository lookup for empty identity, got %d", repo.calls)
	}
}

func TestResolveNoCaching(t *testing.T) {
	repo := &fakeCallerRepo{callers: map[string]*Caller{
		"user-1": {UserID: "user-1", FamilyID: "fam-1", Role: RoleMember},
	}}
	resolver := NewResolver(repo)

	for i := 0; i < 3; i++ {
		if _, err := resolver.Resolve(context.Background(), "user-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if repo.calls != 3 {
		t.Fatalf("expected a lookup per call, got %d", repo.calls)
	}
}
