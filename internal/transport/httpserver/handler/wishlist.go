package handler

import (
	"net/http"
	"strings"
	"time"

	wishlistdomain "home-inventory-go/internal/domain/wishlist"
)

type createWishlistRequest struct {
	Name       string   `json:"name"`
	ItemTypeID *string  `json:"item_type_id"`
	Priority   string   `json:"priority"`
	Tags       []string `json:"tags"`
	Memo       *string  `json:"memo"`
}

func (h *Handlers) CreateWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req createWishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	if req.Priority == "" {
		req.Priority = wishlistdomain.PriorityMedium
	}
	if !wishlistdomain.ValidPriority(req.Priority) {
		writeError(w, http.StatusBadRequest, "invalid_request", "priority must be high, medium or low")
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	wish, err := h.Wishlist.Create(r.Context(), caller, wishlistdomain.CreateInput{
		Name:       req.Name,
		ItemTypeID: req.ItemTypeID,
		Priority:   req.Priority,
		Tags:       req.Tags,
		Memo:       req.Memo,
	})
	if err != nil {
		h.respondServiceError(w, "wishlist.create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toWishlistResponse(wish))
}

func (h *Handlers) GetWishlistItem(w http.ResponseWriter, r *http.Request) {
	wishlistID, ok := pathParam(w, r, "wishlist_id")
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	wish, err := h.Wishlist.Get(r.Context(), caller, wishlistID)
	if err != nil {
		h.respondServiceError(w, "wishlist.get", err, "user_id", user.ID, "wishlist_id", wishlistID)
		return
	}

	writeJSON(w, http.StatusOK, toWishlistResponse(wish))
}

func (h *Handlers) ListWishlistItems(w http.ResponseWriter, r *http.Request) {
	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	wishes, err := h.Wishlist.List(r.Context(), caller)
	if err != nil {
		h.respondServiceError(w, "wishlist.list", err, "user_id", user.ID)
		return
	}

	response := make([]wishlistResponse, 0, len(wishes))
	for i := range wishes {
		response = append(response, toWishlistResponse(&wishes[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) PurchaseWishlistItem(w http.ResponseWriter, r *http.Request) {
	wishlistID, ok := pathParam(w, r, "wishlist_id")
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	result, err := h.Wishlist.Purchase(r.Context(), caller, wishlistID)
	if err != nil {
		h.respondServiceError(w, "wishlist.purchase", err, "user_id", user.ID, "wishlist_id", wishlistID)
		return
	}

	writeJSON(w, http.StatusOK, purchaseResponse{
		Wishlist: toWishlistResponse(result.Wishlist),
		Item:     toItemResponse(result.Item),
	})
}

func (h *Handlers) CancelWishlistItem(w http.ResponseWriter, r *http.Request) {
	wishlistID, ok := pathParam(w, r, "wishlist_id")
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	wish, err := h.Wishlist.Cancel(r.Context(), caller, wishlistID)
	if err != nil {
		h.respondServiceError(w, "wishlist.cancel", err, "user_id", user.ID, "wishlist_id", wishlistID)
		return
	}

	writeJSON(w, http.StatusOK, toWishlistResponse(wish))
}

func (h *Handlers) DeleteWishlistItem(w http.ResponseWriter, r *http.Request) {
	wishlistID, ok := pathParam(w, r, "wishlist_id")
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	if err := h.Wishlist.Delete(r.Context(), caller, wishlistID); err != nil {
		h.respondServiceError(w, "wishlist.delete", err, "user_id", user.ID, "wishlist_id", wishlistID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type wishlistResponse struct {
	ID          string    `json:"id"`
	FamilyID    string    `json:"family_id"`
	Name        string    `json:"name"`
	ItemTypeID  *string   `json:"item_type_id"`
	RequesterID string    `json:"requester_id"`
	Priority    string    `json:"priority"`
	Tags        []string  `json:"tags"`
	Memo        *string   `json:"memo"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type purchaseResponse struct {
	Wishlist wishlistResponse `json:"wishlist"`
	Item     itemResponse     `json:"item"`
}

func toWishlistResponse(wish *wishlistdomain.WishlistItem) wishlistResponse {
	return wishlistResponse{
		ID:          wish.ID,
		FamilyID:    wish.FamilyID,
		Name:        wish.Name,
		ItemTypeID:  wish.ItemTypeID,
		RequesterID: wish.RequesterID,
		Priority:    wish.Priority,
		Tags:        emptyIfNil(wish.Tags),
		Memo:        wish.Memo,
		Status:      wish.Status,
		CreatedAt:   wish.CreatedAt,
		UpdatedAt:   wish.UpdatedAt,
	}
}
