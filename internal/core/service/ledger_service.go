package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweetshop/sweet-shop-api/internal/api/metrics"
	"github.com/sweetshop/sweet-shop-api/internal/core/domain"
	"github.com/sweetshop/sweet-shop-api/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, sweetID, kind, actor string, ts time.Time) (bool, error)
	Mark(ctx context.Context, sweetID, kind, actor string, ts time.Time) error
}

type ledgerService struct {
	repo  ports.LedgerRepository
	dedup DedupChecker
	log   zerolog.Logger
}

// NewLedgerService returns a LedgerService that appends stock mutations to the
// audit ledger, skipping redelivered events.
func NewLedgerService(repo ports.LedgerRepository, dedup DedupChecker, log zerolog.Logger) ports.LedgerService {
	return &ledgerService{repo: repo, dedup: dedup, log: log}
}

// Process deduplicates and persists a single stock event. The ledger is an
// audit trail; it never participates in the stock write itself, so a failure
// here cannot corrupt quantities.
func (s *ledgerService) Process(ctx context.Context, in ports.StockEventInput) error {
	kind := string(in.Kind)

	isDup, err := s.dedup.IsDuplicate(ctx, in.SweetID, kind, in.Actor, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("sweet_id", in.SweetID).Msg("dedup check failed, recording anyway")
	} else if isDup {
		metrics.LedgerDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("sweet_id", in.SweetID).Str("kind", kind).Msg("duplicate stock event skipped")
		return nil
	}
	metrics.LedgerDedupTotal.WithLabelValues("miss").Inc()

	if markErr := s.dedup.Mark(ctx, in.SweetID, kind, in.Actor, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("sweet_id", in.SweetID).Msg("failed to set dedup key")
	}

	entry := &domain.StockEvent{
		SweetID:   in.SweetID,
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		Actor:     in.Actor,
		Timestamp: in.Timestamp,
	}
	if err := s.repo.InsertEvent(ctx, entry); err != nil {
		metrics.LedgerErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("record stock event: %w", err)
	}

	metrics.LedgerProcessedTotal.WithLabelValues(kind).Inc()
	s.log.Info().
		Str("sweet_id", in.SweetID).
		Str("kind", kind).
		Int64("quantity", in.Quantity).
		Msg("stock event recorded")

	return nil
}
