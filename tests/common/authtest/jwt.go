//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"github.com/Meet5113/greencart-backend/internal/pkg/config"
	pkgjwt "github.com/Meet5113/greencart-backend/internal/pkg/jwt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTHelper mints tokens the way the identity service does, so tests can
// exercise the verify-only middleware.
type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	return h.sign(t, h.cfg.Secret, pkgjwt.Claims{
		UserID:    userID,
		Role:      role,
		TokenType: pkgjwt.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	return h.sign(t, h.cfg.Secret, pkgjwt.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
}

func (h *JWTHelper) CreateRefreshToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	return h.sign(t, h.cfg.Secret, pkgjwt.Claims{
		UserID:    userID,
		Role:      role,
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
}

func (h *JWTHelper) CreateForeignToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	return h.sign(t, "some-other-secret", pkgjwt.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
}

func (h *JWTHelper) sign(t *testing.T, secret string, claims pkgjwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}
