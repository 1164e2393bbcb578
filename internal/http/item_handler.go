package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/fjod/items-api/internal/domain"
	"github.com/fjod/items-api/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ItemService is the slice of the service layer the handlers need.
type ItemService interface {
	ListItems(ctx context.Context) ([]*domain.Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, upd domain.ItemUpdate) (*domain.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type ItemHandler struct {
	service ItemService
	timeout time.Duration
}

func NewItemHandler(service ItemService, timeout time.Duration) *ItemHandler {
	return &ItemHandler{
		service: service,
		timeout: timeout,
	}
}

type CreateItemRequestDTO struct {
	ID          *uuid.UUID `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Price       *float64   `json:"price"`
	InStock     *bool      `json:"in_stock"`
}

type UpdateItemRequestDTO struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	InStock     *bool    `json:"in_stock"`
}

type ItemResponseDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	InStock     bool    `json:"in_stock"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type DeleteResponseDTO struct {
	Detail string `json:"detail"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func convertItem(item *domain.Item) ItemResponseDTO {
	return ItemResponseDTO{
		ID:          item.ID.String(),
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		InStock:     item.InStock,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.Format(time.RFC3339),
	}
}

// GET /items
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.service.ListItems(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	dtos := make([]ItemResponseDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, convertItem(item))
	}

	respondJSON(w, http.StatusOK, dtos)
}

// GET /items/{id}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseItemID(w, r)
	if !ok {
		return
	}

	item, err := h.service.GetItem(ctx, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertItem(item))
}

// POST /items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "missing_name", "name is required")
		return
	}
	if req.Price == nil {
		respondError(w, http.StatusBadRequest, "missing_price", "price is required")
		return
	}
	if *req.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}

	item := &domain.Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		InStock:     true,
	}
	if req.ID != nil {
		item.ID = *req.ID
	}
	if req.InStock != nil {
		item.InStock = *req.InStock
	}

	created, err := h.service.CreateItem(ctx, item)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, convertItem(created))
}

// PUT /items/{id}
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseItemID(w, r)
	if !ok {
		return
	}

	var req UpdateItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Name != nil && *req.Name == "" {
		respondError(w, http.StatusBadRequest, "missing_name", "name must not be empty")
		return
	}
	if req.Price != nil && *req.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}

	item, err := h.service.UpdateItem(ctx, id, domain.ItemUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		InStock:     req.InStock,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertItem(item))
}

// DELETE /items/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseItemID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteItem(ctx, id); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, DeleteResponseDTO{Detail: "item deleted"})
}

func parseItemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: "",
	})
}

// handleServiceError maps service-layer sentinel errors to HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "not_found", "item not found")
	case errors.Is(err, repository.ErrDuplicateItem):
		respondError(w, http.StatusConflict, "already_exists", "item with this id already exists")
	default:
		log.Printf("service error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
