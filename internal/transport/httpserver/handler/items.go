package handler

import (
	"net/http"
	"strings"
	"time"

	inventorydomain "home-inventory-go/internal/domain/inventory"
	"github.com/go-chi/chi/v5"
)

type createItemRequest struct {
	ItemTypeID  string     `json:"item_type_id"`
	OwnerID     string     `json:"owner_id"`
	BoxID       *string    `json:"box_id"`
	Tags        []string   `json:"tags"`
	Memo        *string    `json:"memo"`
	PurchasedAt *time.Time `json:"purchased_at"`
}

type updateItemRequest struct {
	BoxID *string   `json:"box_id"`
	Tags  *[]string `json:"tags"`
	Memo  *string   `json:"memo"`
}

type giveItemRequest struct {
	GivenTo string `json:"given_to"`
}

type sellItemRequest struct {
	SoldTo    *string  `json:"sold_to"`
	SoldPrice *float64 `json:"sold_price"`
}

func (h *Handlers) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.ItemTypeID = strings.TrimSpace(req.ItemTypeID)
	if req.ItemTypeID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "item_type_id is required")
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	item, err := h.Inventory.CreateItem(r.Context(), caller, inventorydomain.CreateItemInput{
		ItemTypeID:  req.ItemTypeID,
		OwnerID:     strings.TrimSpace(req.OwnerID),
		BoxID:       req.BoxID,
		Tags:        req.Tags,
		Memo:        req.Memo,
		PurchasedAt: req.PurchasedAt,
	})
	if err != nil {
		h.respondServiceError(w, "items.create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

func (h *Handlers) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(chi.URLParam(r, "item_id"))
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "item_id is required")
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	item, err := h.Inventory.GetItem(r.Context(), caller, itemID)
	if err != nil {
		h.respondServiceError(w, "items.get", err, "user_id", user.ID, "item_id", itemID)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handlers) ListItems(w http.ResponseWriter, r *http.Request) {
	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	filter := inventorydomain.ItemFilter{
		Status:     strings.TrimSpace(r.URL.Query().Get("status")),
		ItemTypeID: strings.TrimSpace(r.URL.Query().Get("item_type_id")),
		BoxID:      strings.TrimSpace(r.URL.Query().Get("box_id")),
	}

	items, err := h.Inventory.ListItems(r.Context(), caller, filter)
	if err != nil {
		h.respondServiceError(w, "items.list", err, "user_id", user.ID)
		return
	}

	response := make([]itemResponse, 0, len(items))
	for i := range items {
		response = append(response, toItemResponse(&items[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(chi.URLParam(r, "item_id"))
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "item_id is required")
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	item, err := h.Inventory.UpdateItem(r.Context(), caller, itemID, inventorydomain.UpdateItemInput{
		BoxID: req.BoxID,
		Tags:  req.Tags,
		Memo:  req.Memo,
	})
	if err != nil {
		h.respondServiceError(w, "items.update", err, "user_id", user.ID, "item_id", itemID)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handlers) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(chi.URLParam(r, "item_id"))
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "item_id is required")
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	if err := h.Inventory.DeleteItem(r.Context(), caller, itemID); err != nil {
		h.respondServiceError(w, "items.delete", err, "user_id", user.ID, "item_id", itemID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ConsumeItem(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(chi.URLParam(r, "item_id"))
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "item_id is required")
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	item, err := h.Inventory.Consume(r.Context(), caller, itemID)
	if err != nil {
		h.respondServiceError(w, "items.consume", err, "user_id", user.ID, "item_id", itemID)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handlers) GiveItem(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(chi.URLParam(r, "item_id"))
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "item_id is required")
		return
	}

	var req giveItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.GivenTo = strings.TrimSpace(req.GivenTo)
	if req.GivenTo == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "given_to is required")
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	item, err := h.Inventory.Give(r.Context(), caller, itemID, req.GivenTo)
	if err != nil {
		h.respondServiceError(w, "items.give", err, "user_id", user.ID, "item_id", itemID)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handlers) SellItem(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(chi.URLParam(r, "item_id"))
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "item_id is required")
		return
	}

	var req sellItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.SoldPrice != nil && *req.SoldPrice < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "sold_price cannot be negative")
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	item, err := h.Inventory.Sell(r.Context(), caller, itemID, req.SoldTo, req.SoldPrice)
	if err != nil {
		h.respondServiceError(w, "items.sell", err, "user_id", user.ID, "item_id", itemID)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handlers) ItemRelatedTags(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimSpace(chi.URLParam(r, "item_id"))
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "item_id is required")
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	tags, err := h.Inventory.RelatedTags(r.Context(), caller, itemID)
	if err != nil {
		h.respondServiceError(w, "items.related_tags", err, "user_id", user.ID, "item_id", itemID)
		return
	}

	response := make([]relatedTagResponse, 0, len(tags))
	for _, tag := range tags {
		response = append(response, relatedTagResponse{
			ID:     tag.ID,
			Name:   tag.Name,
			Source: string(tag.Source),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

type itemResponse struct {
	ID          string     `json:"id"`
	FamilyID    string     `json:"family_id"`
	ItemTypeID  *string    `json:"item_type_id"`
	OwnerID     string     `json:"owner_id"`
	BoxID       *string    `json:"box_id"`
	Tags        []string   `json:"tags"`
	Memo        *string    `json:"memo"`
	Status      string     `json:"status"`
	PurchasedAt *time.Time `json:"purchased_at"`
	ConsumedAt  *time.Time `json:"consumed_at"`
	GivenTo     *string    `json:"given_to"`
	GivenAt     *time.Time `json:"given_at"`
	SoldTo      *string    `json:"sold_to"`
	SoldPrice   *float64   `json:"sold_price"`
	SoldAt      *time.Time `json:"sold_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type relatedTagResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

func toItemResponse(item *inventorydomain.Item) itemResponse {
	return itemResponse{
		ID:          item.ID,
		FamilyID:    item.FamilyID,
		ItemTypeID:  item.ItemTypeID,
		OwnerID:     item.OwnerID,
		BoxID:       item.BoxID,
		Tags:        emptyIfNil(item.Tags),
		Memo:        item.Memo,
		Status:      item.Status,
		PurchasedAt: item.PurchasedAt,
		ConsumedAt:  item.ConsumedAt,
		GivenTo:     item.GivenTo,
		GivenAt:     item.GivenAt,
		SoldTo:      item.SoldTo,
		SoldPrice:   item.SoldPrice,
		SoldAt:      item.SoldAt,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
