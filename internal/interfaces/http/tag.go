package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"moneta/internal/domain/tag"
)

type TagHandler struct {
	tags *tag.Service
}

func NewTagHandler(tags *tag.Service) *TagHandler {
	return &TagHandler{tags: tags}
}

// Request/Response DTOs

type CreateTagRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
	Color    string  `json:"color"`
}

type UpdateTagRequest struct {
	Name        *string `json:"name,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
	ClearParent bool    `json:"clear_parent,omitempty"`
	Color       *string `json:"color,omitempty"`
}

type SyncColorsResponse struct {
	Changed int64 `json:"changed"`
}

// HandleTags routes requests to the appropriate handler based on method
func (h *TagHandler) HandleTags(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListTags(w, r)
	case http.MethodPost:
		h.handleCreateTag(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleTagByID routes requests for a specific tag
func (h *TagHandler) HandleTagByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.handleUpdateTag(w, r)
	case http.MethodDelete:
		h.handleDeleteTag(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleListTags returns the flat tag list; clients group on parent_id to
// rebuild the forest.
func (h *TagHandler) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.ListTags(r.Context())
	if err != nil {
		log.Printf("Error listing tags: %v", err)
		http.Error(w, "Failed to list tags", http.StatusInternalServerError)
		return
	}

	if tags == nil {
		tags = []*tag.Tag{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tags)
}

// handleCreateTag creates a new tag
func (h *TagHandler) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding create tag request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := tag.CreateTagParams{
		Name:     req.Name,
		ParentID: req.ParentID,
		Color:    req.Color,
	}

	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := h.tags.CreateTag(r.Context(), params)
	if err != nil {
		if errors.Is(err, tag.ErrParentNotFound) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error creating tag: %v", err)
		http.Error(w, "Failed to create tag", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(t)
}

// handleUpdateTag updates an existing tag
func (h *TagHandler) handleUpdateTag(w http.ResponseWriter, r *http.Request) {
	tagID := r.PathValue("id")
	if tagID == "" {
		http.Error(w, "Tag ID is required", http.StatusBadRequest)
		return
	}

	var req UpdateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding update tag request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := tag.UpdateTagParams{
		Name:        req.Name,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
		Color:       req.Color,
	}

	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	t, err := h.tags.UpdateTag(r.Context(), tagID, params)
	if err != nil {
		switch {
		case errors.Is(err, tag.ErrTagNotFound):
			http.Error(w, "Tag not found", http.StatusNotFound)
		case errors.Is(err, tag.ErrCyclicParent), errors.Is(err, tag.ErrParentNotFound):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error updating tag %s: %v", tagID, err)
			http.Error(w, "Failed to update tag", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}

// handleDeleteTag deletes a tag; its children are promoted to the deleted
// tag's parent.
func (h *TagHandler) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	tagID := r.PathValue("id")
	if tagID == "" {
		http.Error(w, "Tag ID is required", http.StatusBadRequest)
		return
	}

	if err := h.tags.DeleteTag(r.Context(), tagID); err != nil {
		if errors.Is(err, tag.ErrTagNotFound) {
			http.Error(w, "Tag not found", http.StatusNotFound)
			return
		}
		log.Printf("Error deleting tag %s: %v", tagID, err)
		http.Error(w, "Failed to delete tag", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSyncColors recolors every child tag to its parent's color.
func (h *TagHandler) HandleSyncColors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	changed, err := h.tags.SyncChildColors(r.Context())
	if err != nil {
		log.Printf("Error syncing tag colors: %v", err)
		http.Error(w, "Failed to sync tag colors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SyncColorsResponse{Changed: changed})
}
