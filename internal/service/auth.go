package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/devfolio/devfolio-go/internal/crypto"
	"github.com/devfolio/devfolio-go/internal/model"
	"github.com/devfolio/devfolio-go/internal/repository"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password; the two cases must be indistinguishable to the client.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService handles authentication and admin identity management.
type AuthService struct {
	repo      *repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.UserRepository, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		repo:      repo,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Login authenticates the admin and returns a signed token plus the user
// record. Input problems are validation errors; a failed credential check
// is always ErrInvalidCredentials regardless of which part was wrong.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	if err := validateEmail(req.Email); err != nil {
		return model.AuthResponse{}, err
	}
	if err := validatePassword(req.Password); err != nil {
		return model.AuthResponse{}, err
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Warn("login failed", "email", req.Email)
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		slog.Warn("login failed", "email", req.Email)
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := crypto.GenerateToken(user, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, err
	}

	slog.Info("login successful", "userId", user.ID, "email", user.Email)

	return model.AuthResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

// ResolveUser confirms a token subject still exists and returns the
// request identity. Implements middleware.UserResolver.
func (s *AuthService) ResolveUser(ctx context.Context, id string) (model.AuthUser, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthUser{}, ErrUserNotFound
		}
		return model.AuthUser{}, err
	}

	return model.AuthUser{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// Profile returns the full identity record, sans password hash.
func (s *AuthService) Profile(ctx context.Context, id string) (model.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return user.ToResponse(), nil
}

// ChangePassword rotates the admin password after confirming the current
// one. The new password goes through the same length rule and hash as
// account creation. Outstanding tokens stay valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !crypto.VerifyPassword(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	slog.Info("password changed", "userId", id)
	return nil
}

// SeedAdmin creates the admin identity at startup if it does not already
// exist. Safe to call on every boot.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		slog.Warn("admin bootstrap credentials not configured, skipping seed")
		return nil
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := validatePassword(password); err != nil {
		return err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		slog.Info("admin user already exists", "email", email)
		return nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent boot; the account exists either way.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil
		}
		return err
	}

	slog.Info("admin user created", "userId", user.ID, "email", user.Email)
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return validationErr("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return validationErr("Please enter a valid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return validationErr("Password is required")
	}
	if len(password) < minPasswordLength {
		return validationErr("Password must be at least 6 characters long")
	}
	return nil
}
