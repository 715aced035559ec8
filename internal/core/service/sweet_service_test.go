package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sweetshop/sweet-shop-api/internal/core/domain"
	"github.com/sweetshop/sweet-shop-api/internal/core/ports"
)

func newSweetService(repo *stubSweetRepo) *SweetService {
	return NewSweetService(repo, zerolog.Nop())
}

func TestSweetService_Create_Success(t *testing.T) {
	repo := newStubSweetRepo()
	svc := newSweetService(repo)

	sweet, err := svc.Create(context.Background(), ports.CreateSweetInput{
		Name:     "  Chocolate Bar  ",
		Category: "Chocolate",
		Price:    2.99,
		Quantity: 50,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if sweet.ID == "" {
		t.Fatalf("expected assigned ID")
	}
	if sweet.Name != "Chocolate Bar" {
		t.Fatalf("expected trimmed name, got %q", sweet.Name)
	}
}

func TestSweetService_Create_Validation(t *testing.T) {
	svc := newSweetService(newStubSweetRepo())

	cases := []ports.CreateSweetInput{
		{Name: "", Category: "Chocolate", Price: 1, Quantity: 1},
		{Name: "   ", Category: "Chocolate", Price: 1, Quantity: 1},
		{Name: "Bar", Category: "", Price: 1, Quantity: 1},
		{Name: "Bar", Category: "Chocolate", Price: -0.01, Quantity: 1},
		{Name: "Bar", Category: "Chocolate", Price: 1, Quantity: -1},
	}
	for i, input := range cases {
		if _, err := svc.Create(context.Background(), input); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestSweetService_Search_FilterPassthrough(t *testing.T) {
	repo := newStubSweetRepo()
	svc := newSweetService(repo)

	min, max := 2.0, 5.0
	filter := ports.SearchFilter{Name: "choc", Category: "bar", MinPrice: &min, MaxPrice: &max}
	if _, err := svc.Search(context.Background(), filter); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	got := repo.lastFilter
	if got.Name != "choc" || got.Category != "bar" {
		t.Fatalf("filter not passed through: %+v", got)
	}
	if got.MinPrice == nil || *got.MinPrice != 2.0 || got.MaxPrice == nil || *got.MaxPrice != 5.0 {
		t.Fatalf("price bounds not passed through: %+v", got)
	}
}

func TestSweetService_Update_Success(t *testing.T) {
	repo := newStubSweetRepo()
	id := repo.add(domain.Sweet{Name: "Fudge", Category: "Toffee", Price: 1.5, Quantity: 10})
	svc := newSweetService(repo)

	price := 1.75
	sweet, err := svc.Update(context.Background(), id, ports.SweetUpdate{Price: &price})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if sweet.Price != 1.75 {
		t.Fatalf("expected updated price, got %v", sweet.Price)
	}
	if sweet.Name != "Fudge" || sweet.Quantity != 10 {
		t.Fatalf("absent fields must stay untouched: %+v", sweet)
	}
}

func TestSweetService_Update_Validation(t *testing.T) {
	repo := newStubSweetRepo()
	id := repo.add(domain.Sweet{Name: "Fudge", Category: "Toffee", Price: 1.5, Quantity: 10})
	svc := newSweetService(repo)

	empty := " "
	negative := -1.0
	if _, err := svc.Update(context.Background(), id, ports.SweetUpdate{Name: &empty}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty name, got %v", err)
	}
	if _, err := svc.Update(context.Background(), id, ports.SweetUpdate{Price: &negative}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative price, got %v", err)
	}
}

func TestSweetService_Update_RetriesOnConflict(t *testing.T) {
	repo := newStubSweetRepo()
	id := repo.add(domain.Sweet{Name: "Fudge", Category: "Toffee", Price: 1.5, Quantity: 10})
	// First two attempts lose the race, the third lands.
	repo.updateErrs = []error{domain.ErrConflict, domain.ErrConflict, nil}
	svc := newSweetService(repo)

	price := 2.0
	sweet, err := svc.Update(context.Background(), id, ports.SweetUpdate{Price: &price})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if sweet.Price != 2.0 {
		t.Fatalf("expected updated price, got %v", sweet.Price)
	}
	if repo.updateCalls != 3 {
		t.Fatalf("expected 3 attempts, got %d", repo.updateCalls)
	}
}

func TestSweetService_Update_ConflictCeiling(t *testing.T) {
	repo := newStubSweetRepo()
	id := repo.add(domain.Sweet{Name: "Fudge", Category: "Toffee", Price: 1.5, Quantity: 10})
	// Every attempt conflicts; the loop must give up, not spin.
	repo.updateErrs = []error{domain.ErrConflict, domain.ErrConflict, domain.ErrConflict, domain.ErrConflict}
	svc := newSweetService(repo)

	price := 2.0
	if _, err := svc.Update(context.Background(), id, ports.SweetUpdate{Price: &price}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict past retry ceiling, got %v", err)
	}
	if repo.updateCalls != maxUpdateAttempts {
		t.Fatalf("expected %d attempts, got %d", maxUpdateAttempts, repo.updateCalls)
	}
}

func TestSweetService_Update_NotFound(t *testing.T) {
	svc := newSweetService(newStubSweetRepo())

	price := 2.0
	if _, err := svc.Update(context.Background(), "missing", ports.SweetUpdate{Price: &price}); !errors.Is(err, domain.ErrSweetNotFound) {
		t.Fatalf("expected ErrSweetNotFound, got %v", err)
	}
}

func TestSweetService_Delete(t *testing.T) {
	repo := newStubSweetRepo()
	id := repo.add(domain.Sweet{Name: "Fudge", Category: "Toffee", Price: 1.5, Quantity: 10})
	svc := newSweetService(repo)

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(context.Background(), id); !errors.Is(err, domain.ErrSweetNotFound) {
		t.Fatalf("expected ErrSweetNotFound on second delete, got %v", err)
	}
}
