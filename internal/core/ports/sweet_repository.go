package ports

import (
	"context"

	"github.com/sweetshop/sweet-shop-api/internal/core/domain"
)

// SearchFilter carries the optional catalog search parameters. A record
// matches only when every supplied filter matches; absent filters impose no
// constraint. Price bounds are inclusive.
type SearchFilter struct {
	Name     string   // case-insensitive substring
	Category string   // case-insensitive substring
	MinPrice *float64 // price >= MinPrice
	MaxPrice *float64 // price <= MaxPrice
}

// SweetUpdate carries the fields of a partial catalog update. Nil fields are
// left untouched.
type SweetUpdate struct {
	Name     *string
	Category *string
	Price    *float64
	Quantity *int64
}

// SweetRepository defines persistence operations for the sweet catalog.
// Quantity is only ever mutated through the atomic Decrement/Increment
// primitives, never through a read-then-write pair.
type SweetRepository interface {
	Create(ctx context.Context, s *domain.Sweet) (*domain.Sweet, error)
	FindByID(ctx context.Context, id string) (*domain.Sweet, error)
	List(ctx context.Context) ([]*domain.Sweet, error)
	// Search scans the catalog with the compiled filter. The filter is applied
	// store-side; the full record set is never materialized in the service.
	Search(ctx context.Context, filter SearchFilter) ([]*domain.Sweet, error)
	// UpdateFields applies the non-nil fields of upd only if the stored
	// version still equals expectedVersion. Returns domain.ErrConflict when
	// the version moved and domain.ErrSweetNotFound when id does not resolve.
	UpdateFields(ctx context.Context, id string, expectedVersion int64, upd SweetUpdate) (*domain.Sweet, error)
	Delete(ctx context.Context, id string) error
	// DecrementStock subtracts qty from the sweet's quantity in one atomic
	// conditional write, succeeding only if the stored quantity is still
	// >= qty at write time. Returns domain.ErrInsufficientStock when stock is
	// short and domain.ErrSweetNotFound when id does not resolve.
	DecrementStock(ctx context.Context, id string, qty int64) (*domain.Sweet, error)
	// IncrementStock adds qty to the sweet's quantity atomically.
	IncrementStock(ctx context.Context, id string, qty int64) (*domain.Sweet, error)
}
