package family

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetFamily(ctx context.Context, familyID string) (*Family, error)
	GetUser(ctx context.Context, userID string) (*User, error)
	CreateFamily(ctx context.Context, family *Family) error
	CreateUser(ctx context.Context, user *User) error
	UpdateFamilyName(ctx context.Context, familyID, name string) error
	UpdateUserProfile(ctx context.Context, user *User) error
	ListUsers(ctx context.Context, familyID string) ([]User, error)
}
