package crypto

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devfolio/devfolio-go/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:    "cl3q2k0b0000qzrmn831i7rn",
		Email: "admin@example.com",
		Role:  model.RoleAdmin,
	}
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(testUser(), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty string")
	}
}

func TestValidateTokenValid(t *testing.T) {
	secret := "test-secret"
	user := testUser()

	token, err := GenerateToken(user, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("ValidateToken() UserID = %q, want %q", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("ValidateToken() Email = %q, want %q", claims.Email, user.Email)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("ValidateToken() Role = %q, want %q", claims.Role, model.RoleAdmin)
	}
}

func TestValidateTokenMalformed(t *testing.T) {
	_, err := ValidateToken("not-a-valid-token", "test-secret")
	if !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("ValidateToken() error = %v, want ErrTokenMalformed", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testUser(), "correct-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	_, err = ValidateToken(token, "wrong-secret")
	if !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("ValidateToken() error = %v, want ErrTokenMalformed", err)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken(testUser(), "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	_, err = ValidateToken(token, "test-secret")
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("ValidateToken() error = %v, want ErrTokenExpired", err)
	}
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	secret := "test-secret"

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "wrong-issuer",
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: "cl3q2k0b0000qzrmn831i7rn",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}

	_, err = ValidateToken(tokenString, secret)
	if !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("ValidateToken() error = %v, want ErrTokenMalformed", err)
	}
}

func TestValidateTokenWrongAudience(t *testing.T) {
	secret := "test-secret"

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{"wrong-audience"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: "cl3q2k0b0000qzrmn831i7rn",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}

	_, err = ValidateToken(tokenString, secret)
	if !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("ValidateToken() error = %v, want ErrTokenMalformed", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"empty header", "", "", false},
		{"no scheme", "abc.def.ghi", "", false},
		{"wrong scheme", "Basic abc.def.ghi", "", false},
		{"lowercase scheme", "bearer abc.def.ghi", "", false},
		{"empty token", "Bearer ", "", false},
		{"extra parts", "Bearer abc def", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := ExtractBearerToken(tt.header)
			if ok != tt.ok {
				t.Fatalf("ExtractBearerToken(%q) ok = %v, want %v", tt.header, ok, tt.ok)
			}
			if token != tt.token {
				t.Errorf("ExtractBearerToken(%q) token = %q, want %q", tt.header, token, tt.token)
			}
		})
	}
}
