package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	familydomain "home-inventory-go/internal/domain/family"
	invitedomain "home-inventory-go/internal/domain/invite"
	"home-inventory-go/internal/transport/httpserver/middleware"
)

type redeemInviteRequest struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

func (h *Handlers) CreateInvite(w http.ResponseWriter, r *http.Request) {
	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	invite, err := h.Invites.Create(r.Context(), caller)
	if err != nil {
		if errors.Is(err, invitedomain.ErrCodeGeneration) {
			h.log.InternalError("invites.create: code generation exhausted", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		h.respondServiceError(w, "invites.create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toInviteResponse(invite))
}

func (h *Handlers) ListInvites(w http.ResponseWriter, r *http.Request) {
	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	invites, err := h.Invites.List(r.Context(), caller)
	if err != nil {
		h.respondServiceError(w, "invites.list", err, "user_id", user.ID)
		return
	}

	response := make([]inviteResponse, 0, len(invites))
	for i := range invites {
		response = append(response, toInviteResponse(&invites[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) RedeemInvite(w http.ResponseWriter, r *http.Request) {
	var req redeemInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	identity := identityFromUser(user, req.DisplayName)

	result, err := h.Invites.Redeem(r.Context(), identity, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, invitedomain.ErrInviteNotFound):
			h.log.BusinessError("invites.redeem: invite not found", err, "user_id", user.ID, "code", req.Code)
			writeError(w, http.StatusNotFound, "invite_not_found", "invite not found")
		case errors.Is(err, invitedomain.ErrInviteExpired):
			h.log.BusinessError("invites.redeem: invite expired", err, "user_id", user.ID, "code", req.Code)
			writeError(w, http.StatusGone, "invite_expired", "invite expired")
		case errors.Is(err, invitedomain.ErrInviteAlreadyUsed):
			h.log.BusinessError("invites.redeem: invite already used", err, "user_id", user.ID, "code", req.Code)
			writeError(w, http.StatusConflict, "invite_already_used", "invite already used")
		case errors.Is(err, familydomain.ErrUserAlreadyExists):
			h.log.BusinessError("invites.redeem: user already in a family", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "user_already_exists", "user already belongs to a family")
		default:
			h.respondServiceError(w, "invites.redeem", err, "user_id", user.ID, "code", req.Code)
		}
		return
	}

	writeJSON(w, http.StatusOK, redeemInviteResponse{
		User:   toUserResponse(result.User),
		Invite: toInviteResponse(result.Invite),
	})
}

type inviteResponse struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	FamilyID  string     `json:"family_id"`
	CreatedBy string     `json:"created_by"`
	Status    string     `json:"status"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedBy    *string    `json:"used_by"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
}

type redeemInviteResponse struct {
	User   userResponse   `json:"user"`
	Invite inviteResponse `json:"invite"`
}

func toInviteResponse(invite *invitedomain.InviteCode) inviteResponse {
	return inviteResponse{
		ID:        invite.ID,
		Code:      invite.Code,
		FamilyID:  invite.FamilyID,
		CreatedBy: invite.CreatedBy,
		Status:    invite.Status,
		ExpiresAt: invite.ExpiresAt,
		UsedBy:    invite.UsedBy,
		UsedAt:    invite.UsedAt,
		CreatedAt: invite.CreatedAt,
	}
}
