package handler

import (
	"time"

	"github.com/sweetshop/sweet-shop-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createSweetRequest struct {
	Name     string  `json:"name"     validate:"required"`
	Category string  `json:"category" validate:"required"`
	Price    float64 `json:"price"    validate:"gte=0"`
	Quantity int64   `json:"quantity" validate:"gte=0"`
}

// updateSweetRequest carries a partial update; nil fields are not touched.
// Field-level constraints are enforced by the catalog service so they hold
// for every caller, not only this transport.
type updateSweetRequest struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price"`
	Quantity *int64   `json:"quantity"`
}

type quantityRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type sweetResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type sweetListResponse struct {
	Results int             `json:"results"`
	Sweets  []sweetResponse `json:"sweets"`
}

func newSweetResponse(s *domain.Sweet) sweetResponse {
	return sweetResponse{
		ID:        s.ID,
		Name:      s.Name,
		Category:  s.Category,
		Price:     s.Price,
		Quantity:  s.Quantity,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func newSweetListResponse(sweets []*domain.Sweet) sweetListResponse {
	items := make([]sweetResponse, 0, len(sweets))
	for _, s := range sweets {
		items = append(items, newSweetResponse(s))
	}
	return sweetListResponse{Results: len(items), Sweets: items}
}
