package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	authdomain "home-inventory-go/internal/domain/auth"
	familydomain "home-inventory-go/internal/domain/family"
	invitedomain "home-inventory-go/internal/domain/invite"
	inventorydomain "home-inventory-go/internal/domain/inventory"
	wishlistdomain "home-inventory-go/internal/domain/wishlist"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// respondServiceError maps the domain error taxonomy onto the fixed
// HTTP status/code pairs. Anything unmatched is internal.
func (h *Handlers) respondServiceError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, authdomain.ErrDenied):
		h.log.BusinessError(op+": denied", err, args...)
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, familydomain.ErrUserAlreadyExists):
		h.log.BusinessError(op+": user already exists", err, args...)
		writeError(w, http.StatusConflict, "user_already_exists", "user already exists")
	case errors.Is(err, invitedomain.ErrInviteAlreadyUsed):
		h.log.BusinessError(op+": invite already used", err, args...)
		writeError(w, http.StatusConflict, "invite_already_used", "invite already used")
	case errors.Is(err, invitedomain.ErrInviteExpired):
		h.log.BusinessError(op+": invite expired", err, args...)
		writeError(w, http.StatusGone, "invite_expired", "invite expired")
	case errors.Is(err, invitedomain.ErrInviteNotFound):
		h.log.BusinessError(op+": invite not found", err, args...)
		writeError(w, http.StatusNotFound, "invite_not_found", "invite not found")
	case errors.Is(err, inventorydomain.ErrInvalidStatus), errors.Is(err, wishlistdomain.ErrInvalidStatus):
		h.log.BusinessError(op+": invalid status", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, inventorydomain.ErrInUse):
		h.log.BusinessError(op+": record in use", err, args...)
		writeError(w, http.StatusConflict, "in_use", err.Error())
	case errors.Is(err, familydomain.ErrFamilyNotFound):
		h.log.BusinessError(op+": family not found", err, args...)
		writeError(w, http.StatusNotFound, "family_not_found", "family not found")
	case errors.Is(err, familydomain.ErrUserNotFound):
		h.log.BusinessError(op+": user not found", err, args...)
		writeError(w, http.StatusNotFound, "user_not_found", "user not found")
	case errors.Is(err, inventorydomain.ErrItemNotFound):
		h.log.BusinessError(op+": item not found", err, args...)
		writeError(w, http.StatusNotFound, "item_not_found", "item not found")
	case errors.Is(err, inventorydomain.ErrItemTypeNotFound):
		h.log.BusinessError(op+": item type not found", err, args...)
		writeError(w, http.StatusNotFound, "item_type_not_found", "item type not found")
	case errors.Is(err, inventorydomain.ErrBoxNotFound):
		h.log.BusinessError(op+": box not found", err, args...)
		writeError(w, http.StatusNotFound, "box_not_found", "box not found")
	case errors.Is(err, inventorydomain.ErrLocationNotFound):
		h.log.BusinessError(op+": location not found", err, args...)
		writeError(w, http.StatusNotFound, "location_not_found", "location not found")
	case errors.Is(err, inventorydomain.ErrTagNotFound):
		h.log.BusinessError(op+": tag not found", err, args...)
		writeError(w, http.StatusNotFound, "tag_not_found", "tag not found")
	case errors.Is(err, wishlistdomain.ErrWishlistItemNotFound):
		h.log.BusinessError(op+": wishlist item not found", err, args...)
		writeError(w, http.StatusNotFound, "wishlist_item_not_found", "wishlist item not found")
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
