package token

import (
	"errors"
	"testing"
	"time"

	"github.com/sweetshop/sweet-shop-api/internal/core/domain"
)

func TestCodec_IssueVerify_RoundTrip(t *testing.T) {
	c := NewCodec("secret", time.Hour)

	raw, err := c.Issue("acc_1", "customer")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if raw == "" {
		t.Fatalf("expected token, got empty")
	}

	claims, err := c.Verify(raw)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Subject != "acc_1" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Role != "customer" {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
}

func TestCodec_Verify_Expired(t *testing.T) {
	c := &Codec{secret: []byte("secret"), ttl: -time.Minute}

	raw, err := c.Issue("acc_1", "customer")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := c.Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestCodec_Verify_WrongKey(t *testing.T) {
	issuer := NewCodec("secret-a", time.Hour)
	verifier := NewCodec("secret-b", time.Hour)

	raw, err := issuer.Issue("acc_1", "admin")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := verifier.Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong key, got %v", err)
	}
}

func TestCodec_Verify_Malformed(t *testing.T) {
	c := NewCodec("secret", time.Hour)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := c.Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}

func TestCodec_DefaultTTL(t *testing.T) {
	c := NewCodec("secret", 0)
	if c.ttl != defaultTTL {
		t.Fatalf("expected default TTL, got %v", c.ttl)
	}
}
