package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTTL = 5 * time.Minute
	accessTokenType  = "access"
)

var (
	ErrMissingToken = errors.New("missing authorization token")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenRevoked = errors.New("token has been revoked")
)

type Claims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

type IssuedToken struct {
	AccessToken string
	JTI         string
	ExpiresAt   time.Time
}

// TokenManager issues and verifies access tokens. Verification consults the
// registry, so a revoked jti stays rejected until the process (or the shared
// backend) forgets it.
type TokenManager struct {
	secret    []byte
	accessTTL time.Duration
	registry  Registry
	now       func() time.Time
}

func NewTokenManager(secret string, accessTTL time.Duration, registry Registry) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}

	return &TokenManager{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		registry:  registry,
		now:       time.Now,
	}
}

func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

func (m *TokenManager) Registry() Registry {
	return m.registry
}

func (m *TokenManager) Issue(subject string) (IssuedToken, error) {
	now := m.now().UTC()
	expiresAt := now.Add(m.accessTTL)
	jti := uuid.NewString()

	claims := Claims{
		Type: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	encoded, err := token.SignedString(m.secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign jwt: %w", err)
	}

	return IssuedToken{AccessToken: encoded, JTI: jti, ExpiresAt: expiresAt}, nil
}

// Verify checks the signature, then expiry, then revocation.
func (m *TokenManager) Verify(ctx context.Context, raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrMissingToken
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !token.Valid || claims.Type != accessTokenType || claims.ID == "" || claims.Subject == "" {
		return Claims{}, ErrTokenInvalid
	}

	revoked, err := m.registry.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Claims{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Claims{}, ErrTokenRevoked
	}

	return claims, nil
}
