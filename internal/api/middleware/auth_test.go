package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/sweet-shop-api/internal/core/token"
)

func authContext(t *testing.T, header string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", he.Code)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour)
	c, _ := authContext(t, "")

	handler := Auth(codec)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	assertUnauthorized(t, handler(c))
}

func TestAuth_MalformedHeader(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour)

	for _, header := range []string{"Basic abc", "Bearer", "justatoken"} {
		c, _ := authContext(t, header)
		handler := Auth(codec)(func(c echo.Context) error {
			t.Fatalf("should not reach next handler for %q", header)
			return nil
		})
		assertUnauthorized(t, handler(c))
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour)
	c, _ := authContext(t, "Bearer not-a-token")

	handler := Auth(codec)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	assertUnauthorized(t, handler(c))
}

func TestAuth_ValidToken(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour)
	raw, err := codec.Issue("acc_42", "admin")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	c, rec := authContext(t, "Bearer "+raw)

	called := false
	handler := Auth(codec)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got, _ := c.Get("account_id").(string); got != "acc_42" {
		t.Fatalf("account_id not injected, got %q", got)
	}
	if got, _ := c.Get("role").(string); got != "admin" {
		t.Fatalf("role not injected, got %q", got)
	}
}
