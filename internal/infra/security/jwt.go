package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/medeiros27/diligencias-app/internal/core/domain"
)

var (
	// ErrInvalidToken indicates the token is malformed or its signature
	// does not verify.
	ErrInvalidToken = errors.New("jwt: invalid token")
	// ErrExpiredToken indicates the token's validity window has elapsed.
	ErrExpiredToken = errors.New("jwt: token expired")
)

// SessionClaims is the signed claim set carried by every bearer token:
// principal id, perfil and email on top of the registered claims. Tokens are
// stateless; expiry is the only invalidation mechanism.
type SessionClaims struct {
	PrincipalID int64         `json:"id"`
	Perfil      domain.Perfil `json:"perfil"`
	Email       string        `json:"email"`
	jwt.RegisteredClaims
}

// Ator converts the claims into the domain actor used by ownership guards.
func (c *SessionClaims) Ator() domain.Ator {
	return domain.Ator{ID: c.PrincipalID, Perfil: c.Perfil}
}

// TokenManager signs and verifies HS256 session tokens with a shared secret.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager constructs a TokenManager. TTL defaults to 24h when not
// positive.
func NewTokenManager(secret, issuer string, ttl time.Duration) (*TokenManager, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("jwt: signing secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock allows injection of a custom clock (primarily for testing).
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	if now != nil {
		m.now = now
	}
	return m
}

// TTL returns the configured token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Sign issues a session token for the given principal.
func (m *TokenManager) Sign(principal domain.Principal) (string, error) {
	if principal.ID == 0 {
		return "", fmt.Errorf("jwt: principal id is required")
	}
	if !principal.Perfil.Valid() {
		return "", fmt.Errorf("jwt: unknown perfil %q", principal.Perfil)
	}

	now := m.now().UTC()
	claims := SessionClaims{
		PrincipalID: principal.ID,
		Perfil:      principal.Perfil,
		Email:       principal.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   fmt.Sprintf("%d", principal.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}

	return signed, nil
}

// Parse verifies the token signature and expiry and returns the decoded
// claims.
func (m *TokenManager) Parse(tokenString string) (*SessionClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.PrincipalID == 0 || !claims.Perfil.Valid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
