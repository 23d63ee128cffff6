package family

import "errors"

var (
	ErrFamilyNotFound    = errors.New("family not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)
