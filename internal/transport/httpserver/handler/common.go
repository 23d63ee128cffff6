package handler

import (
	"errors"
	"net/http"

	authdomain "home-inventory-go/internal/domain/auth"
	"home-inventory-go/internal/transport/httpserver/middleware"
)

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	member, err := h.Families.GetUser(r.Context(), caller, caller.UserID)
	if err != nil {
		h.respondServiceError(w, "auth.me", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(member))
}

// resolveCaller turns the authenticated identity into a family-scoped
// caller. Callers without a membership get 403; routes that onboard new
// users (create family, redeem invite) skip this and use identityFromRequest.
func (h *Handlers) resolveCaller(w http.ResponseWriter, r *http.Request) (authdomain.Caller, middleware.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return authdomain.Caller{}, middleware.User{}, false
	}

	caller, err := h.Auth.Resolve(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			h.log.BusinessError("auth.resolve: no membership", err, "user_id", user.ID)
			writeError(w, http.StatusForbidden, "no_membership", "user does not belong to a family")
			return authdomain.Caller{}, middleware.User{}, false
		}
		h.log.InternalError("auth.resolve: resolve caller failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return authdomain.Caller{}, middleware.User{}, false
	}

	return *caller, user, true
}
