package identity

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-signing-secret"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func validClaims(uid string) Claims {
	return Claims{
		Email: uid + "@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerify_Valid(t *testing.T) {
	v, err := NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	p, err := v.Verify(signToken(t, validClaims("user-1"), testSecret))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if p.UID != "user-1" {
		t.Errorf("UID: got %q, want %q", p.UID, "user-1")
	}
	if p.Email != "user-1@example.com" {
		t.Errorf("Email: got %q, want %q", p.Email, "user-1@example.com")
	}
	if p.InternalAdmin {
		t.Error("InternalAdmin should default to false")
	}
}

func TestVerify_InternalAdminClaim(t *testing.T) {
	v, _ := NewVerifier(testSecret)

	claims := validClaims("ops-1")
	claims.InternalAdmin = true

	p, err := v.Verify(signToken(t, claims, testSecret))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !p.InternalAdmin {
		t.Error("expected InternalAdmin to be true")
	}
}

func TestVerify_Rejections(t *testing.T) {
	v, _ := NewVerifier(testSecret)

	expired := validClaims("user-1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noSubject := validClaims("")

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", signToken(t, validClaims("user-1"), "other-secret")},
		{"expired", signToken(t, expired, testSecret)},
		{"no subject", signToken(t, noSubject, testSecret)},
		{"garbage", "not-a-jwt"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(tt.token); err == nil {
				t.Error("expected verification to fail")
			}
		})
	}
}

func TestVerifyRequest(t *testing.T) {
	v, _ := NewVerifier(testSecret)

	r := httptest.NewRequest("POST", "/org/create-user", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("user-7"), testSecret))

	p, err := v.VerifyRequest(r)
	if err != nil {
		t.Fatalf("VerifyRequest failed: %v", err)
	}
	if p.UID != "user-7" {
		t.Errorf("UID: got %q, want %q", p.UID, "user-7")
	}

	r2 := httptest.NewRequest("POST", "/org/create-user", nil)
	if _, err := v.VerifyRequest(r2); err != ErrNoToken {
		t.Errorf("expected ErrNoToken, got %v", err)
	}

	r3 := httptest.NewRequest("POST", "/org/create-user", nil)
	r3.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if _, err := v.VerifyRequest(r3); err != ErrNoToken {
		t.Errorf("expected ErrNoToken for non-bearer scheme, got %v", err)
	}
}
