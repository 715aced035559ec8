package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweetshop/sweet-shop-api/internal/core/domain"
	"github.com/sweetshop/sweet-shop-api/internal/core/ports"
)

type stubDedup struct {
	seen    map[string]bool
	isDupEr error
}

func newStubDedup() *stubDedup {
	return &stubDedup{seen: make(map[string]bool)}
}

func (d *stubDedup) key(sweetID, kind, actor string, ts time.Time) string {
	return sweetID + "|" + kind + "|" + actor + "|" + ts.String()
}

func (d *stubDedup) IsDuplicate(_ context.Context, sweetID, kind, actor string, ts time.Time) (bool, error) {
	if d.isDupEr != nil {
		return false, d.isDupEr
	}
	return d.seen[d.key(sweetID, kind, actor, ts)], nil
}

func (d *stubDedup) Mark(_ context.Context, sweetID, kind, actor string, ts time.Time) error {
	d.seen[d.key(sweetID, kind, actor, ts)] = true
	return nil
}

type stubLedgerRepo struct {
	inserted  []*domain.StockEvent
	insertErr error
}

func (r *stubLedgerRepo) InsertEvent(_ context.Context, event *domain.StockEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, event)
	return nil
}

func sampleEvent() ports.StockEventInput {
	return ports.StockEventInput{
		SweetID:   "sweet_1",
		Kind:      domain.StockEventPurchase,
		Quantity:  3,
		Actor:     "acc_1",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLedgerService_Process_Records(t *testing.T) {
	repo := &stubLedgerRepo{}
	svc := NewLedgerService(repo, newStubDedup(), zerolog.Nop())

	if err := svc.Process(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
	}
	got := repo.inserted[0]
	if got.SweetID != "sweet_1" || got.Kind != domain.StockEventPurchase || got.Quantity != 3 {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestLedgerService_Process_SkipsDuplicates(t *testing.T) {
	repo := &stubLedgerRepo{}
	svc := NewLedgerService(repo, newStubDedup(), zerolog.Nop())

	event := sampleEvent()
	if err := svc.Process(context.Background(), event); err != nil {
		t.Fatalf("first Process failed: %v", err)
	}
	if err := svc.Process(context.Background(), event); err != nil {
		t.Fatalf("duplicate Process failed: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("duplicate was recorded, %d inserts", len(repo.inserted))
	}
}

func TestLedgerService_Process_DedupFailureIsNonFatal(t *testing.T) {
	repo := &stubLedgerRepo{}
	dedup := newStubDedup()
	dedup.isDupEr = errors.New("redis down")
	svc := NewLedgerService(repo, dedup, zerolog.Nop())

	// A broken dedup store must not lose ledger entries.
	if err := svc.Process(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected entry recorded despite dedup failure, got %d", len(repo.inserted))
	}
}

func TestLedgerService_Process_InsertFailure(t *testing.T) {
	repo := &stubLedgerRepo{insertErr: errors.New("write failed")}
	svc := NewLedgerService(repo, newStubDedup(), zerolog.Nop())

	if err := svc.Process(context.Background(), sampleEvent()); err == nil {
		t.Fatalf("expected error when insert fails")
	}
}
