package invite

import "errors"

var (
	ErrInviteNotFound    = errors.New("invite not found")
	ErrInviteExpired     = errors.New("invite expired")
	ErrInviteAlreadyUsed = errors.New("invite already used")
	ErrCodeGeneration    = errors.New("invite code generation failed")
)
