package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweetshop/sweet-shop-api/internal/api/metrics"
	"github.com/sweetshop/sweet-shop-api/internal/core/domain"
	"github.com/sweetshop/sweet-shop-api/internal/core/ports"
)

// StockEventSink accepts ledger events for asynchronous recording.
type StockEventSink interface {
	Enqueue(event ports.StockEventInput)
}

// StockService implements purchase and restock. All cross-request mutual
// exclusion on a sweet's quantity lives in the repository's atomic
// conditional-write primitives; this service holds no locks, so correctness
// survives horizontal scaling across processes sharing one store.
type StockService struct {
	repo   ports.SweetRepository
	ledger StockEventSink
	logger zerolog.Logger
}

func NewStockService(repo ports.SweetRepository, ledger StockEventSink, logger zerolog.Logger) *StockService {
	return &StockService{repo: repo, ledger: ledger, logger: logger}
}

// Purchase decrements the sweet's quantity by qty in a single conditional
// write that only lands while quantity >= qty. There is never a partial
// decrement: concurrent purchases either fully succeed or fail with
// ErrInsufficientStock.
func (s *StockService) Purchase(ctx context.Context, sweetID string, qty int64, actor string) (*domain.Sweet, error) {
	if qty < 1 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}

	sweet, err := s.repo.DecrementStock(ctx, sweetID, qty)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues(stockResult(err)).Inc()
		return nil, err
	}

	metrics.PurchasesTotal.WithLabelValues("success").Inc()
	s.record(ports.StockEventInput{
		SweetID:   sweet.ID,
		Kind:      domain.StockEventPurchase,
		Quantity:  qty,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	})

	s.logger.Info().
		Str("sweet_id", sweet.ID).
		Int64("quantity", qty).
		Int64("remaining", sweet.Quantity).
		Str("account_id", actor).
		Msg("purchase completed")

	return sweet, nil
}

// Restock increments the sweet's quantity by qty. Increments commute, so no
// conditional guard is needed beyond the atomicity of the increment itself.
func (s *StockService) Restock(ctx context.Context, sweetID string, qty int64, actor string) (*domain.Sweet, error) {
	if qty < 1 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}

	sweet, err := s.repo.IncrementStock(ctx, sweetID, qty)
	if err != nil {
		metrics.RestocksTotal.WithLabelValues(stockResult(err)).Inc()
		return nil, err
	}

	metrics.RestocksTotal.WithLabelValues("success").Inc()
	s.record(ports.StockEventInput{
		SweetID:   sweet.ID,
		Kind:      domain.StockEventRestock,
		Quantity:  qty,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	})

	s.logger.Info().
		Str("sweet_id", sweet.ID).
		Int64("quantity", qty).
		Int64("in_stock", sweet.Quantity).
		Str("account_id", actor).
		Msg("restock completed")

	return sweet, nil
}

func (s *StockService) record(event ports.StockEventInput) {
	if s.ledger != nil {
		s.ledger.Enqueue(event)
	}
}

// stockResult maps a stock mutation error to its metric result label.
func stockResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrSweetNotFound):
		return "not_found"
	default:
		return "error"
	}
}
