package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/devfolio/devfolio-go/internal/crypto"
	"github.com/devfolio/devfolio-go/internal/model"
)

type contextKey string

const authUserKey contextKey = "authUser"

// UserResolver confirms a token's subject still exists in the credential
// store. The auth service implements it; tests substitute a stub.
type UserResolver interface {
	ResolveUser(ctx context.Context, id string) (model.AuthUser, error)
}

// JWTAuth returns middleware that enforces a valid Bearer token from the
// Authorization header. The three failure modes get distinct messages: no
// credential, bad credential (split into expired vs invalid), and a token
// whose subject no longer exists.
func JWTAuth(secret string, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, errMsg := authenticate(r, secret, users)
			if errMsg != "" {
				writeJSONError(w, http.StatusUnauthorized, errMsg)
				return
			}

			ctx := context.WithValue(r.Context(), authUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWTAuth attaches an identity when a valid token is present but
// lets every request through. Handlers that care check AuthUserFromContext.
func OptionalJWTAuth(secret string, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, errMsg := authenticate(r, secret, users); errMsg == "" {
				r = r.WithContext(context.WithValue(r.Context(), authUserKey, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole returns middleware that rejects authenticated requests whose
// role is not in the allowed set. It composes after JWTAuth and never
// causes an authentication failure itself.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := AuthUserFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !allowed[user.Role] {
				writeJSONError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthUserFromContext extracts the authenticated identity from the request
// context. Returns false for anonymous requests.
func AuthUserFromContext(ctx context.Context) (model.AuthUser, bool) {
	user, ok := ctx.Value(authUserKey).(model.AuthUser)
	return user, ok
}

// authenticate runs the shared extract/verify/resolve pipeline. It returns
// a client-facing message on failure, empty on success.
func authenticate(r *http.Request, secret string, users UserResolver) (model.AuthUser, string) {
	token, ok := crypto.ExtractBearerToken(r.Header.Get("Authorization"))
	if !ok {
		return model.AuthUser{}, "Access token required"
	}

	claims, err := crypto.ValidateToken(token, secret)
	if err != nil {
		if errors.Is(err, crypto.ErrTokenExpired) {
			return model.AuthUser{}, "Token has expired"
		}
		return model.AuthUser{}, "Invalid token"
	}

	user, err := users.ResolveUser(r.Context(), claims.UserID)
	if err != nil {
		return model.AuthUser{}, "User not found"
	}

	return user, ""
}
