package ports

import (
	"context"
	"time"

	"github.com/sweetshop/sweet-shop-api/internal/core/domain"
)

// StockEventInput is the DTO handed from the stock service to the ledger
// pipeline.
type StockEventInput struct {
	SweetID   string
	Kind      domain.StockEventKind
	Quantity  int64
	Actor     string
	Timestamp time.Time
}

// LedgerService records stock mutations in the audit ledger.
type LedgerService interface {
	Process(ctx context.Context, event StockEventInput) error
}

// LedgerRepository persists ledger entries to the stock_events audit
// collection.
type LedgerRepository interface {
	InsertEvent(ctx context.Context, event *domain.StockEvent) error
}
