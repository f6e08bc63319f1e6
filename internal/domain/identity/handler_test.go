package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Yi-Jacob/mentalspace-ehr-sub007/internal/platform/auth"
)

func TestHandlerMe(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)
	h := NewHandler(svc)
	u := staffUser(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, u.ID.String())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	if err := h.Me(c); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), u.ID.String()) {
		t.Error("response missing user id")
	}
}

func TestHandlerMe_UnknownUser(t *testing.T) {
	h := NewHandler(NewService(newMockUserRepo()))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, uuid.NewString())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	err := h.Me(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("got %v, want 404", err)
	}
}

func TestHandlerCreateUser_Invalid(t *testing.T) {
	h := NewHandler(NewService(newMockUserRepo()))

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"display_name": "No Email"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	err := h.CreateUser(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("got %v, want 400", err)
	}
}
