package wishlist

import "errors"

var (
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
	ErrInvalidStatus        = errors.New("invalid status")
)
