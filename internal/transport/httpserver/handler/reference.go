package handler

import (
	"net/http"
	"strings"
	"time"

	inventorydomain "home-inventory-go/internal/domain/inventory"
	"github.com/go-chi/chi/v5"
)

type referenceRequest struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

type boxRequest struct {
	Name       string   `json:"name"`
	LocationID *string  `json:"location_id"`
	Tags       []string `json:"tags"`
}

type tagRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) CreateItemType(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeReference(w, r)
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	itemType, err := h.Inventory.CreateItemType(r.Context(), caller, req)
	if err != nil {
		h.respondServiceError(w, "item_types.create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toItemTypeResponse(itemType))
}

func (h *Handlers) ListItemTypes(w http.ResponseWriter, r *http.Request) {
	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	itemTypes, err := h.Inventory.ListItemTypes(r.Context(), caller)
	if err != nil {
		h.respondServiceError(w, "item_types.list", err, "user_id", user.ID)
		return
	}

	response := make([]itemTypeResponse, 0, len(itemTypes))
	for i := range itemTypes {
		response = append(response, toItemTypeResponse(&itemTypes[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) UpdateItemType(w http.ResponseWriter, r *http.Request) {
	typeID, ok := pathParam(w, r, "type_id")
	if !ok {
		return
	}
	req, ok := h.decodeReference(w, r)
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	itemType, err := h.Inventory.UpdateItemType(r.Context(), caller, typeID, req)
	if err != nil {
		h.respondServiceError(w, "item_types.update", err, "user_id", user.ID, "type_id", typeID)
		return
	}

	writeJSON(w, http.StatusOK, toItemTypeResponse(itemType))
}

func (h *Handlers) DeleteItemType(w http.ResponseWriter, r *http.Request) {
	typeID, ok := pathParam(w, r, "type_id")
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	if err := h.Inventory.DeleteItemType(r.Context(), caller, typeID); err != nil {
		h.respondServiceError(w, "item_types.delete", err, "user_id", user.ID, "type_id", typeID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CreateBox(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeBox(w, r)
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	box, err := h.Inventory.CreateBox(r.Context(), caller, req)
	if err != nil {
		h.respondServiceError(w, "boxes.create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toBoxResponse(box))
}

func (h *Handlers) ListBoxes(w http.ResponseWriter, r *http.Request) {
	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	boxes, err := h.Inventory.ListBoxes(r.Context(), caller)
	if err != nil {
		h.respondServiceError(w, "boxes.list", err, "user_id", user.ID)
		return
	}

	response := make([]boxResponse, 0, len(boxes))
	for i := range boxes {
		response = append(response, toBoxResponse(&boxes[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) UpdateBox(w http.ResponseWriter, r *http.Request) {
	boxID, ok := pathParam(w, r, "box_id")
	if !ok {
		return
	}
	req, ok := h.decodeBox(w, r)
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	box, err := h.Inventory.UpdateBox(r.Context(), caller, boxID, req)
	if err != nil {
		h.respondServiceError(w, "boxes.update", err, "user_id", user.ID, "box_id", boxID)
		return
	}

	writeJSON(w, http.StatusOK, toBoxResponse(box))
}

func (h *Handlers) DeleteBox(w http.ResponseWriter, r *http.Request) {
	boxID, ok := pathParam(w, r, "box_id")
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	if err := h.Inventory.DeleteBox(r.Context(), caller, boxID); err != nil {
		h.respondServiceError(w, "boxes.delete", err, "user_id", user.ID, "box_id", boxID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CreateLocation(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeReference(w, r)
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	location, err := h.Inventory.CreateLocation(r.Context(), caller, req)
	if err != nil {
		h.respondServiceError(w, "locations.create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toLocationResponse(location))
}

func (h *Handlers) ListLocations(w http.ResponseWriter, r *http.Request) {
	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	locations, err := h.Inventory.ListLocations(r.Context(), caller)
	if err != nil {
		h.respondServiceError(w, "locations.list", err, "user_id", user.ID)
		return
	}

	response := make([]locationResponse, 0, len(locations))
	for i := range locations {
		response = append(response, toLocationResponse(&locations[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	locationID, ok := pathParam(w, r, "location_id")
	if !ok {
		return
	}
	req, ok := h.decodeReference(w, r)
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	location, err := h.Inventory.UpdateLocation(r.Context(), caller, locationID, req)
	if err != nil {
		h.respondServiceError(w, "locations.update", err, "user_id", user.ID, "location_id", locationID)
		return
	}

	writeJSON(w, http.StatusOK, toLocationResponse(location))
}

func (h *Handlers) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	locationID, ok := pathParam(w, r, "location_id")
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	if err := h.Inventory.DeleteLocation(r.Context(), caller, locationID); err != nil {
		h.respondServiceError(w, "locations.delete", err, "user_id", user.ID, "location_id", locationID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	name, ok := h.decodeTagName(w, r)
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	tag, err := h.Inventory.CreateTag(r.Context(), caller, name)
	if err != nil {
		h.respondServiceError(w, "tags.create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toTagResponse(tag))
}

func (h *Handlers) ListTags(w http.ResponseWriter, r *http.Request) {
	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	tags, err := h.Inventory.ListTags(r.Context(), caller)
	if err != nil {
		h.respondServiceError(w, "tags.list", err, "user_id", user.ID)
		return
	}

	response := make([]tagResponse, 0, len(tags))
	for i := range tags {
		response = append(response, toTagResponse(&tags[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) UpdateTag(w http.ResponseWriter, r *http.Request) {
	tagID, ok := pathParam(w, r, "tag_id")
	if !ok {
		return
	}
	name, ok := h.decodeTagName(w, r)
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	tag, err := h.Inventory.UpdateTag(r.Context(), caller, tagID, name)
	if err != nil {
		h.respondServiceError(w, "tags.update", err, "user_id", user.ID, "tag_id", tagID)
		return
	}

	writeJSON(w, http.StatusOK, toTagResponse(tag))
}

func (h *Handlers) DeleteTag(w http.ResponseWriter, r *http.Request) {
	tagID, ok := pathParam(w, r, "tag_id")
	if !ok {
		return
	}

	caller, user, ok := h.resolveCaller(w, r)
	if !ok {
		return
	}

	if err := h.Inventory.DeleteTag(r.Context(), caller, tagID); err != nil {
		h.respondServiceError(w, "tags.delete", err, "user_id", user.ID, "tag_id", tagID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) decodeReference(w http.ResponseWriter, r *http.Request) (inventorydomain.ReferenceInput, bool) {
	var req referenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return inventorydomain.ReferenceInput{}, false
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return inventorydomain.ReferenceInput{}, false
	}
	return inventorydomain.ReferenceInput{Name: req.Name, Tags: req.Tags}, true
}

func (h *Handlers) decodeBox(w http.ResponseWriter, r *http.Request) (inventorydomain.BoxInput, bool) {
	var req boxRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return inventorydomain.BoxInput{}, false
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return inventorydomain.BoxInput{}, false
	}
	return inventorydomain.BoxInput{Name: req.Name, LocationID: req.LocationID, Tags: req.Tags}, true
}

func (h *Handlers) decodeTagName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return "", false
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return "", false
	}
	return req.Name, true
}

func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", name+" is required")
		return "", false
	}
	return value, true
}

type itemTypeResponse struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	Name      string    `json:"name"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type boxResponse struct {
	ID         string    `json:"id"`
	FamilyID   string    `json:"family_id"`
	Name       string    `json:"name"`
	LocationID *string   `json:"location_id"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type locationResponse struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	Name      string    `json:"name"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type tagResponse struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toItemTypeResponse(itemType *inventorydomain.ItemType) itemTypeResponse {
	return itemTypeResponse{
		ID:        itemType.ID,
		FamilyID:  itemType.FamilyID,
		Name:      itemType.Name,
		Tags:      emptyIfNil(itemType.Tags),
		CreatedAt: itemType.CreatedAt,
		UpdatedAt: itemType.UpdatedAt,
	}
}

func toBoxResponse(box *inventorydomain.Box) boxResponse {
	return boxResponse{
		ID:         box.ID,
		FamilyID:   box.FamilyID,
		Name:       box.Name,
		LocationID: box.LocationID,
		Tags:       emptyIfNil(box.Tags),
		CreatedAt:  box.CreatedAt,
		UpdatedAt:  box.UpdatedAt,
	}
}

func toLocationResponse(location *inventorydomain.Location) locationResponse {
	return locationResponse{
		ID:        location.ID,
		FamilyID:  location.FamilyID,
		Name:      location.Name,
		Tags:      emptyIfNil(location.Tags),
		CreatedAt: location.CreatedAt,
		UpdatedAt: location.UpdatedAt,
	}
}

func toTagResponse(tag *inventorydomain.Tag) tagResponse {
	return tagResponse{
		ID:        tag.ID,
		FamilyID:  tag.FamilyID,
		Name:      tag.Name,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}
}

func emptyIfNil(tags inventorydomain.StringList) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
