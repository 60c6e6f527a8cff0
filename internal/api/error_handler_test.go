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

	"github.com/ruetfest/festcrm/internal/core/domain"
)

func runErrorHandler(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/sponsors/list", nil)
	w := httptest.NewRecorder()
	c := e.NewContext(req, w)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v (%s)", err, w.Body.String())
	}
	return w.Code, resp.Error
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		{&domain.ValidationError{Field: "website"}, http.StatusBadRequest, "missing required field: website"},
		{domain.ErrEmptyUpdate, http.StatusBadRequest, "no updatable fields provided"},
		{domain.ErrDuplicate, http.StatusConflict, "record already exists"},
		{domain.ErrNotFound, http.StatusNotFound, "record not found"},
		{domain.ErrUnauthorized, http.StatusForbidden, "Unauthorized"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid username or password"},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too many failed login attempts"},
	}
	for _, tc := range cases {
		code, msg := runErrorHandler(t, tc.err)
		if code != tc.wantCode || msg != tc.wantMsg {
			t.Errorf("%v: got %d %q, want %d %q", tc.err, code, msg, tc.wantCode, tc.wantMsg)
		}
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	code, msg := runErrorHandler(t, fmt.Errorf("list sponsor: %w", domain.ErrUnauthorized))
	if code != http.StatusForbidden || msg != "Unauthorized" {
		t.Fatalf("got %d %q", code, msg)
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	code, msg := runErrorHandler(t, echo.NewHTTPError(http.StatusUnauthorized, "authentication required"))
	if code != http.StatusUnauthorized || msg != "authentication required" {
		t.Fatalf("got %d %q", code, msg)
	}
}

func TestHTTPErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	code, msg := runErrorHandler(t, errors.New("mongo: connection reset"))
	if code != http.StatusInternalServerError {
		t.Fatalf("code = %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}

func TestHTTPErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	c := e.NewContext(req, w)
	_ = c.String(http.StatusOK, "already written")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late failure"), c)

	if w.Body.String() != "already written" {
		t.Fatalf("committed response rewritten: %q", w.Body.String())
	}
}
