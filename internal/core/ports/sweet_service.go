package ports

import (
	"context"

	"github.com/sweetshop/sweet-shop-api/internal/core/domain"
)

// CreateSweetInput carries all data needed to add a sweet to the catalog.
type CreateSweetInput struct {
	Name     string
	Category string
	Price    float64
	Quantity int64
}

// SweetService defines use-case operations for catalog curation and search.
type SweetService interface {
	Create(ctx context.Context, input CreateSweetInput) (*domain.Sweet, error)
	List(ctx context.Context) ([]*domain.Sweet, error)
	Search(ctx context.Context, filter SearchFilter) ([]*domain.Sweet, error)
	Update(ctx context.Context, id string, upd SweetUpdate) (*domain.Sweet, error)
	Delete(ctx context.Context, id string) error
}

// StockService defines the purchase and restock operations. Both return the
// sweet as it stands after the write.
type StockService interface {
	Purchase(ctx context.Context, sweetID string, qty int64, actor string) (*domain.Sweet, error)
	Restock(ctx context.Context, sweetID string, qty int64, actor string) (*domain.Sweet, error)
}
