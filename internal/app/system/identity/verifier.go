// internal/app/system/identity/verifier.go
package identity

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the verified caller of a request: the identity provider's
// subject id plus the claims this service acts on.
type Principal struct {
	UID           string
	Email         string
	InternalAdmin bool
}

// Claims is the token payload issued by the identity provider.
type Claims struct {
	Email         string `json:"email,omitempty"`
	InternalAdmin bool   `json:"internalAdmin,omitempty"`
	jwt.RegisteredClaims
}

var (
	// ErrNoToken is returned when the Authorization header is missing or malformed.
	ErrNoToken = errors.New("missing bearer token")
	// ErrInvalidToken is returned for tokens that fail verification.
	ErrInvalidToken = errors.New("invalid token")
)

// Verifier validates bearer tokens minted by the identity provider.
// Token issuance stays on the provider side; this service only checks the
// shared-secret signature and expiry.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier from the provider's signing secret.
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("identity signing secret not provided")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// VerifyRequest extracts and validates the bearer token on r.
func (v *Verifier) VerifyRequest(r *http.Request) (*Principal, error) {
	tokenStr := bearerToken(r)
	if tokenStr == "" {
		return nil, ErrNoToken
	}
	return v.Verify(tokenStr)
}

// Verify validates a raw token string and returns the caller Principal.
func (v *Verifier) Verify(tokenStr string) (*Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("invalid signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrInvalidToken
	}

	return &Principal{
		UID:           claims.Subject,
		Email:         claims.Email,
		InternalAdmin: claims.InternalAdmin,
	}, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
