package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sweetshop/sweet-shop-api/internal/core/domain"
	"github.com/sweetshop/sweet-shop-api/internal/core/token"
)

type stubAuthRepo struct {
	byEmail map[string]*domain.User
	nextID  int
	findErr error // returned by FindByEmail when set
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{byEmail: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("acc_%d", r.nextID)
	r.byEmail[created.Email] = cloneUser(created)
	return created, nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func newAuthService(repo *stubAuthRepo) *AuthService {
	return NewAuthService(repo, token.NewCodec("secret", time.Hour))
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := newAuthService(newStubAuthRepo())

	tkn, user, err := svc.Register(context.Background(), "alice", "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if tkn == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.Role != domain.RoleCustomer {
		t.Fatalf("expected customer role, got %s", user.Role)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthService(newStubAuthRepo())

	cases := []struct {
		name            string
		username, email string
		password        string
	}{
		{"short username", "al", "al@example.com", "pass123"},
		{"whitespace username", "  a  ", "a@example.com", "pass123"},
		{"bad email", "alice", "not-an-email", "pass123"},
		{"short password", "alice", "alice@example.com", "12345"},
	}
	for _, tc := range cases {
		if _, _, err := svc.Register(context.Background(), tc.username, tc.email, tc.password); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthService(repo)

	if _, _, err := svc.Register(context.Background(), "bob", "bob@example.com", "pass123"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, err := svc.Register(context.Background(), "bobby", "bob@example.com", "other1"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	// The original account is unaffected.
	original, err := repo.FindByEmail(context.Background(), "bob@example.com")
	if err != nil || original.Username != "bob" {
		t.Fatalf("original account mutated: %+v err=%v", original, err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newAuthService(newStubAuthRepo())

	if _, _, err := svc.Register(context.Background(), "carol", "carol@example.com", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	tkn, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if tkn == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.Username != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims, err := token.NewCodec("secret", time.Hour).Verify(tkn)
	if err != nil {
		t.Fatalf("minted token does not verify: %v", err)
	}
	if claims.Subject != user.ID || claims.Role != domain.RoleCustomer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	svc := newAuthService(newStubAuthRepo())

	_, _, _ = svc.Register(context.Background(), "dave", "dave@example.com", "goodpass")

	// Wrong password and missing account yield the same error.
	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for missing account, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty input, got %v", err)
	}
}

// A storage outage during login must surface as an internal error, not as a
// credentials failure.
func TestAuthService_Login_RepoFailurePropagates(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthService(repo)

	if _, _, err := svc.Register(context.Background(), "erin", "erin@example.com", "pass123"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	storeErr := errors.New("connection timed out")
	repo.findErr = storeErr

	_, _, err := svc.Login(context.Background(), "erin@example.com", "pass123")
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("storage failure collapsed into ErrInvalidCredentials")
	}
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}
