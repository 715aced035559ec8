package domain

import (
	"errors"
	"time"
)

var ErrSweetNotFound = errors.New("sweet not found")
var ErrInsufficientStock = errors.New("not enough stock")
var ErrConflict = errors.New("conflicting concurrent update")

// Sweet is the core catalog entity. Quantity never goes below zero; the
// repository enforces that with an atomic conditional decrement, not with
// application-level checks.
type Sweet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int64     `json:"quantity"`
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
