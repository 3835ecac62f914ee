package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/devfolio/devfolio-go/internal/middleware"
	"github.com/devfolio/devfolio-go/internal/model"
	"github.com/devfolio/devfolio-go/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service       *service.AuthService
	adminEmail    string
	adminPassword string
	production    bool
}

// NewAuthHandler creates a new AuthHandler. The admin credentials are only
// served by the demo credentials endpoint, which is disabled in production.
func NewAuthHandler(svc *service.AuthService, adminEmail, adminPassword string, production bool) *AuthHandler {
	return &AuthHandler{
		service:       svc,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
		production:    production,
	}
}

// HandleLogin handles POST /api/auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			h.internalError(w, "Login failed", err)
		}
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", resp)
}

// HandleVerify handles GET /api/auth/verify requests. The middleware has
// already verified the token and confirmed the account exists; this just
// echoes the identity back.
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.AuthUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	writeSuccess(w, http.StatusOK, "Token is valid", map[string]any{"user": user})
}

// HandleLogout handles POST /api/auth/logout requests. Tokens are
// stateless, so this is an acknowledgment only; the client discards its
// copy.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "Logged out successfully", nil)
}

// HandleProfile handles GET /api/auth/profile requests.
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.AuthUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.service.Profile(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "User not found")
			return
		}
		h.internalError(w, "Failed to fetch profile", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Profile retrieved successfully", map[string]any{"user": profile})
}

// HandleChangePassword handles PUT /api/auth/password requests.
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.AuthUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.service.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Current password is incorrect")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusUnauthorized, "User not found")
		default:
			h.internalError(w, "Failed to change password", err)
		}
		return
	}

	writeSuccess(w, http.StatusOK, "Password updated successfully", nil)
}

// HandleCredentials handles GET /api/auth/credentials requests, exposing
// the seeded demo credentials for local development. Refused in
// production.
func (h *AuthHandler) HandleCredentials(w http.ResponseWriter, r *http.Request) {
	if h.production {
		writeError(w, http.StatusForbidden, "Credentials endpoint not available in production")
		return
	}

	writeSuccess(w, http.StatusOK, "Demo credentials for testing", map[string]any{
		"email":    h.adminEmail,
		"password": h.adminPassword,
		"note":     "Use these credentials to login as admin",
	})
}

func (h *AuthHandler) internalError(w http.ResponseWriter, message string, err error) {
	if h.production {
		writeError(w, http.StatusInternalServerError, message)
		return
	}
	writeErrorDetail(w, http.StatusInternalServerError, message, err.Error())
}
