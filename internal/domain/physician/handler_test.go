package physician

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
)

func newTestHandler() (*Handler, *echo.Echo) {
	h := NewHandler(newTestService())
	e := echo.New()
	return h, e
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Signup(t *testing.T) {
	h, e := newTestHandler()

	c, rec := postJSON(e, "/api/v1/physicians/signup", `{"email":"a@x.com","password":"pw1"}`)
	if err := h.Signup(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var p Physician
	json.Unmarshal(rec.Body.Bytes(), &p)
	if p.Email != "a@x.com" {
		t.Errorf("expected a@x.com, got %s", p.Email)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not contain password material")
	}
}

func TestHandler_Signup_DuplicateConflict(t *testing.T) {
	h, e := newTestHandler()

	c, _ := postJSON(e, "/api/v1/physicians/signup", `{"email":"a@x.com","password":"pw1"}`)
	if err := h.Signup(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, _ = postJSON(e, "/api/v1/physicians/signup", `{"email":"a@x.com","password":"pw2"}`)
	err := h.Signup(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %v", err)
	}
}

func TestHandler_Login(t *testing.T) {
	h, e := newTestHandler()

	c, _ := postJSON(e, "/api/v1/physicians/signup", `{"email":"a@x.com","password":"pw1"}`)
	if err := h.Signup(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, rec := postJSON(e, "/api/v1/physicians/login", `{"email":"a@x.com","password":"pw1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp tokenResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.AccessToken == "" {
		t.Error("expected access token in response")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("expected token_type bearer, got %s", resp.TokenType)
	}
}

func TestHandler_Me(t *testing.T) {
	h, e := newTestHandler()

	c, rec := postJSON(e, "/api/v1/physicians/signup", `{"email":"a@x.com","password":"pw1"}`)
	if err := h.Signup(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var created Physician
	json.Unmarshal(rec.Body.Bytes(), &created)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/physicians/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.IdentityKey,
		&auth.Identity{ID: created.ID, Email: created.Email}))
	rec = httptest.NewRecorder()
	if err := h.Me(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var p Physician
	json.Unmarshal(rec.Body.Bytes(), &p)
	if p.ID != created.ID || p.Email != "a@x.com" {
		t.Errorf("unexpected profile: %+v", p)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not contain password material")
	}
}

func TestHandler_Me_MissingIdentity(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/physicians/me", nil)
	rec := httptest.NewRecorder()
	err := h.Me(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %v", err)
	}
}

func TestHandler_Me_UnknownID(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/physicians/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.IdentityKey,
		&auth.Identity{ID: uuid.New(), Email: "ghost@x.com"}))
	rec := httptest.NewRecorder()
	err := h.Me(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for vanished physician, got %v", err)
	}
}

func TestHandler_Login_BadCredentials(t *testing.T) {
	h, e := newTestHandler()

	c, _ := postJSON(e, "/api/v1/physicians/signup", `{"email":"a@x.com","password":"pw1"}`)
	if err := h.Signup(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, _ = postJSON(e, "/api/v1/physicians/login", `{"email":"a@x.com","password":"wrong"}`)
	err := h.Login(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %v", err)
	}
}
