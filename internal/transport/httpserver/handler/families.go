package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	familydomain "home-inventory-go/internal/domain/family"
	"home-inventory-go/internal/transport/httpserver/middleware"
)

type createFamilyRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

type updateFamilyRequest struct {
	Name string `json:"name"`
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	DiscordID   *string `json:"discord_id"`
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	identity := identityFromUser(user, req.DisplayName)

	familyModel, member, err := h.Families.CreateFamily(r.Context(), identity, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrUserAlreadyExists):
			h.log.BusinessError("families.create: user already in a family", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "user_already_exists", "user already belongs to a family")
		default:
			h.log.InternalError("families.create: create family failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, createFamilyResponse{
		Family: toFamilyResponse(familyModel),
		User:   toUserResponse(member),
	})
}

func (h *Handlers) GetFamilyMe(w http.ResponseWriter, r *http.Request) {
	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	familyModel, err := h.Families.GetFamily(r.Context(), caller)
	if err != nil {
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("families.get_me: family not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.log.InternalError("families.get_me: get family failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(familyModel))
}

func (h *Handlers) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	var req updateFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	familyModel, err := h.Families.UpdateFamilyName(r.Context(), caller, req.Name)
	if err != nil {
		if errors.Is(err, familydomain.ErrFamilyNotFound) {
			h.log.BusinessError("families.update: family not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "family_not_found", "family not found")
			return
		}
		h.respondServiceError(w, "families.update", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(familyModel))
}

func (h *Handlers) ListFamilyMembers(w http.ResponseWriter, r *http.Request) {
	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	members, err := h.Families.ListMembers(r.Context(), caller)
	if err != nil {
		h.respondServiceError(w, "families.list_members", err, "user_id", user.ID)
		return
	}

	response := make([]userResponse, 0, len(members))
	for i := range members {
		response = append(response, toUserResponse(&members[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "display_name cannot be empty")
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	member, err := h.Families.UpdateProfile(r.Context(), caller, familydomain.UpdateProfileInput{
		DisplayName: req.DisplayName,
		DiscordID:   req.DiscordID,
	})
	if err != nil {
		h.respondServiceError(w, "users.update_me", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(member))
}

func identityFromUser(user middleware.User, displayName string) familydomain.Identity {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = user.Name
	}
	if displayName == "" {
		displayName = user.Email
	}
	return familydomain.Identity{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: displayName,
	}
}

type familyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	FamilyID    string    `json:"family_id"`
	DiscordID   *string   `json:"discord_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type createFamilyResponse struct {
	Family familyResponse `json:"family"`
	User   userResponse   `json:"user"`
}

func toFamilyResponse(familyModel *familydomain.Family) familyResponse {
	return familyResponse{
		ID:        familyModel.ID,
		Name:      familyModel.Name,
		CreatedBy: familyModel.CreatedBy,
		CreatedAt: familyModel.CreatedAt,
		UpdatedAt: familyModel.UpdatedAt,
	}
}

func toUserResponse(member *familydomain.User) userResponse {
	return userResponse{
		ID:          member.ID,
		Email:       member.Email,
		DisplayName: member.DisplayName,
		Role:        string(member.Role),
		FamilyID:    member.FamilyID,
		DiscordID:   member.DiscordID,
		CreatedAt:   member.CreatedAt,
		UpdatedAt:   member.UpdatedAt,
	}
}
