package domain

import "time"

// StockEventKind identifies the mutation a ledger entry records.
type StockEventKind string

const (
	StockEventPurchase StockEventKind = "purchase"
	StockEventRestock  StockEventKind = "restock"
)

// StockEvent is an audit record of a single stock mutation.
type StockEvent struct {
	SweetID   string
	Kind      StockEventKind
	Quantity  int64
	Actor     string // account ID that performed the mutation
	Timestamp time.Time
}
