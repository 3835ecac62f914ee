package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/devfolio/devfolio-go/internal/repository"
	"github.com/devfolio/devfolio-go/internal/service"
)

func newAuthHandler(t *testing.T, production bool) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := service.NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour)
	return NewAuthHandler(svc, "admin@example.com", "secret123", production), mock
}

func TestHandleLoginInvalidBody(t *testing.T) {
	h, _ := newAuthHandler(t, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`not json`))
	h.HandleLogin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Message != "Invalid request body" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestHandleLoginValidationError(t *testing.T) {
	h, _ := newAuthHandler(t, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"","password":"secret123"}`))
	h.HandleLogin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Message != "Email is required" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestHandleLoginUnknownUser(t *testing.T) {
	h, mock := newAuthHandler(t, false)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at", "updated_at"}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"nobody@example.com","password":"secret123"}`))
	h.HandleLogin(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Message != "Invalid email or password" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestHandleLogout(t *testing.T) {
	h, _ := newAuthHandler(t, false)

	rec := httptest.NewRecorder()
	h.HandleLogout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Message != "Logged out successfully" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestHandleVerifyWithoutIdentity(t *testing.T) {
	h, _ := newAuthHandler(t, false)

	rec := httptest.NewRecorder()
	h.HandleVerify(rec, httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestHandleCredentialsDevelopment(t *testing.T) {
	h, _ := newAuthHandler(t, false)

	rec := httptest.NewRecorder()
	h.HandleCredentials(rec, httptest.NewRequest(http.MethodGet, "/api/auth/credentials", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	data := resp.Data.(map[string]any)
	if data["email"] != "admin@example.com" {
		t.Errorf("email = %v", data["email"])
	}
	if data["password"] != "secret123" {
		t.Errorf("password = %v", data["password"])
	}
}

func TestHandleCredentialsProduction(t *testing.T) {
	h, _ := newAuthHandler(t, true)

	rec := httptest.NewRecorder()
	h.HandleCredentials(rec, httptest.NewRequest(http.MethodGet, "/api/auth/credentials", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Message != "Credentials endpoint not available in production" {
		t.Errorf("message = %q", resp.Message)
	}
}
