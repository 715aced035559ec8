package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweetshop/sweet-shop-api/internal/api/metrics"
	"github.com/sweetshop/sweet-shop-api/internal/core/domain"
	"github.com/sweetshop/sweet-shop-api/internal/core/ports"
)

// maxUpdateAttempts bounds the optimistic retry loop on partial updates.
// Exceeding it surfaces as ErrConflict rather than spinning under contention.
const maxUpdateAttempts = 3

// SweetService implements catalog curation and search.
type SweetService struct {
	repo   ports.SweetRepository
	logger zerolog.Logger
}

func NewSweetService(repo ports.SweetRepository, logger zerolog.Logger) *SweetService {
	return &SweetService{repo: repo, logger: logger}
}

func (s *SweetService) Create(ctx context.Context, input ports.CreateSweetInput) (*domain.Sweet, error) {
	name := strings.TrimSpace(input.Name)
	category := strings.TrimSpace(input.Category)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", domain.ErrValidation)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if input.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", domain.ErrValidation)
	}

	now := time.Now().UTC()
	sweet := &domain.Sweet{
		Name:      name,
		Category:  category,
		Price:     input.Price,
		Quantity:  input.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, sweet)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create sweet")
		return nil, err
	}

	s.logger.Info().Str("sweet_id", created.ID).Str("name", created.Name).Msg("sweet created")
	return created, nil
}

func (s *SweetService) List(ctx context.Context) ([]*domain.Sweet, error) {
	return s.repo.List(ctx)
}

// Search hands the compiled filter to the repository scan. The conjunction
// semantics (every supplied filter must match) live in the repository's
// native query; nothing is filtered in memory here.
func (s *SweetService) Search(ctx context.Context, filter ports.SearchFilter) ([]*domain.Sweet, error) {
	return s.repo.Search(ctx, filter)
}

// Update applies a partial update through a bounded optimistic loop: read the
// current version, attempt a write conditioned on that version, and retry
// from the read when a concurrent mutation moved it. Past the attempt ceiling
// the conflict is surfaced to the caller instead of retried server-side.
func (s *SweetService) Update(ctx context.Context, id string, upd ports.SweetUpdate) (*domain.Sweet, error) {
	if err := validateUpdate(upd); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		updated, err := s.repo.UpdateFields(ctx, id, current.Version, upd)
		if errors.Is(err, domain.ErrConflict) {
			metrics.UpdateRetriesTotal.Inc()
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.Info().Str("sweet_id", updated.ID).Msg("sweet updated")
		return updated, nil
	}

	s.logger.Warn().Str("sweet_id", id).Msg("update abandoned after contention ceiling")
	return nil, domain.ErrConflict
}

func (s *SweetService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("sweet_id", id).Msg("sweet deleted")
	return nil
}

func validateUpdate(upd ports.SweetUpdate) error {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}
	if upd.Category != nil && strings.TrimSpace(*upd.Category) == "" {
		return fmt.Errorf("%w: category must not be empty", domain.ErrValidation)
	}
	if upd.Price != nil && *upd.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if upd.Quantity != nil && *upd.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", domain.ErrValidation)
	}
	return nil
}
