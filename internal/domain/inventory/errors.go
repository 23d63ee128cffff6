package inventory

import "errors"

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrItemTypeNotFound = errors.New("item type not found")
	ErrBoxNotFound      = errors.New("box not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInUse            = errors.New("record is referenced and cannot be deleted")
)
