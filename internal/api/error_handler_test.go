package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sweetshop/sweet-shop/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"not found", domain.ErrSweetNotFound, http.StatusNotFound, "sweet not found"},
		{"wrapped conflict", fmt.Errorf("insert: %w", domain.ErrSweetExists), http.StatusConflict, "sweet already exists"},
		{"out of stock", domain.ErrOutOfStock, http.StatusConflict, "out of stock"},
		{"bad quantity", domain.ErrInvalidQuantity, http.StatusBadRequest, "quantity must be positive"},
		{"blank sweet", domain.ErrInvalidSweet, http.StatusBadRequest, "name and category must not be blank"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "wrong email or password"},
		{"unknown user", domain.ErrUserNotFound, http.StatusUnauthorized, "wrong email or password"},
		{"revoked", domain.ErrTokenRevoked, http.StatusUnauthorized, "token revoked"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, body.Error)
			}
		})
	}
}
