package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestJWTFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-12345")

	userID := uuid.New().String()

	token, err := GenerateToken(userID, "test@example.com", "restaurant")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected userID %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "test@example.com" || claims.Role != "restaurant" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateToken_LegacyUserIDClaim(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": "legacy-1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, _ := token.SignedString([]byte("test-secret"))

	claims, err := ValidateToken(signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "legacy-1" {
		t.Fatalf("expected legacy-1, got %s", claims.UserID)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredToken, _ := expired.SignedString([]byte("test-secret"))

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	wrongKeyToken, _ := wrongKey.SignedString([]byte("other-secret"))

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "a@b.c",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	noSubjectToken, _ := noSubject.SignedString([]byte("test-secret"))

	tests := map[string]string{
		"garbage":    "not.a.token",
		"expired":    expiredToken,
		"wrong key":  wrongKeyToken,
		"no subject": noSubjectToken,
	}

	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ValidateToken(tok); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestGenerateToken_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := GenerateToken("u1", "", ""); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}
