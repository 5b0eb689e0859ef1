package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dkrasnov/fintrack-backend/internal/service"
	"github.com/dkrasnov/fintrack-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

func newAuthHandler() (*AuthHandler, *testutil.MockUserRepository) {
	userRepo := testutil.NewMockUserRepository()
	return NewAuthHandler(service.NewAuthService(userRepo, "test-secret")), userRepo
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegister(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "registers a new user",
			body:       `{"email":"ana@example.com","name":"Ana","password":"longenough"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "rejects short password",
			body:       `{"email":"ana@example.com","name":"Ana","password":"short"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "rejects missing email",
			body:       `{"name":"Ana","password":"longenough"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "rejects missing name",
			body:       `{"email":"ana@example.com","name":"","password":"longenough"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newAuthHandler()
			c, rec := postJSON(e, "/api/v1/auth/register", tt.body)

			if err := handler.Register(c); err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantStatus == http.StatusCreated {
				var result service.AuthResult
				if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if result.Token == "" {
					t.Error("response token is empty")
				}
				// The hash never leaves the server.
				if strings.Contains(rec.Body.String(), "password") {
					t.Error("response leaks password material")
				}
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e := echo.New()
	handler, _ := newAuthHandler()

	c, rec := postJSON(e, "/api/v1/auth/register", `{"email":"ana@example.com","name":"Ana","password":"longenough"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("first register status = %d, want 201", rec.Code)
	}

	c, rec = postJSON(e, "/api/v1/auth/register", `{"email":"ANA@example.com","name":"Ana Again","password":"longenough"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	e := echo.New()
	handler, _ := newAuthHandler()

	c, rec := postJSON(e, "/api/v1/auth/register", `{"email":"ana@example.com","name":"Ana","password":"longenough"}`)
	if err := handler.Register(c); err != nil || rec.Code != http.StatusCreated {
		t.Fatalf("register failed: err=%v status=%d", err, rec.Code)
	}

	c, rec = postJSON(e, "/api/v1/auth/login", `{"email":"ana@example.com","password":"longenough"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("login status = %d, want 200", rec.Code)
	}

	c, rec = postJSON(e, "/api/v1/auth/login", `{"email":"ana@example.com","password":"wrongpass"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password login status = %d, want 401", rec.Code)
	}
}

func TestMe(t *testing.T) {
	e := echo.New()
	handler, userRepo := newAuthHandler()

	c, rec := postJSON(e, "/api/v1/auth/register", `{"email":"ana@example.com","name":"Ana","password":"longenough"}`)
	if err := handler.Register(c); err != nil || rec.Code != http.StatusCreated {
		t.Fatalf("register failed: err=%v status=%d", err, rec.Code)
	}

	user, err := userRepo.GetByEmail("ana@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	setupAuthContext(c, user.ID)

	if err := handler.Me(c); err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)

	if err := handler.Me(c); err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", rec.Code)
	}
}
