package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "unit-test-secret"

func TestUserTokenRoundTrip(t *testing.T) {
	tok, err := NewUserToken(testSecret, 42, 30)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := VerifyToken(testSecret, tok.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != 42 {
		t.Fatalf("subject = %d, want 42", claims.Subject)
	}
	if claims.Role != RoleUser {
		t.Fatalf("role = %q, want %q", claims.Role, RoleUser)
	}
}

func TestAdminTokenHasNoSubject(t *testing.T) {
	tok, err := NewAdminToken(testSecret, 30)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := VerifyToken(testSecret, tok.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Role != RoleAdmin {
		t.Fatalf("role = %q, want %q", claims.Role, RoleAdmin)
	}
	if claims.Subject != 0 {
		t.Fatalf("subject = %d, want 0", claims.Subject)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	tok, err := NewUserToken(testSecret, 1, 30)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := VerifyToken("other-secret", tok.Token); err != ErrTokenInvalid {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  float64(7),
		"role": RoleUser,
		"exp":  time.Now().UTC().Add(-time.Hour).Unix(),
		"iat":  time.Now().UTC().Add(-2 * time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyToken(testSecret, signed); err != ErrTokenExpired {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := VerifyToken(testSecret, raw); err != ErrTokenInvalid {
			t.Fatalf("raw %q: err = %v, want ErrTokenInvalid", raw, err)
		}
	}
}

func TestVerifyTokenRejectsUserWithoutSubject(t *testing.T) {
	claims := jwt.MapClaims{
		"role": RoleUser,
		"exp":  time.Now().UTC().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyToken(testSecret, signed); err != ErrTokenInvalid {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyTokenRejectsUnknownRole(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":  float64(1),
		"role": "superuser",
		"exp":  time.Now().UTC().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyToken(testSecret, signed); err != ErrTokenInvalid {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestNewResetToken(t *testing.T) {
	raw, exp, err := NewResetToken()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if len(raw) != 64 {
		t.Fatalf("raw length = %d, want 64 hex chars", len(raw))
	}
	until := time.Until(exp)
	if until < 55*time.Minute || until > 65*time.Minute {
		t.Fatalf("expiry %v not about one hour out", until)
	}
	other, _, err := NewResetToken()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if raw == other {
		t.Fatal("two reset tokens collided")
	}
}

func TestHashResetRaw(t *testing.T) {
	a := HashResetRaw("abc")
	b := HashResetRaw("abc")
	if a != b {
		t.Fatal("hash not deterministic")
	}
	if a == "abc" || len(a) != 64 {
		t.Fatalf("unexpected hash %q", a)
	}
	if HashResetRaw("abd") == a {
		t.Fatal("different inputs hashed equal")
	}
}
