//go:build unit

package jwt_test

import (
	"testing"

	"github.com/Meet5113/greencart-backend/internal/pkg/config"
	pkgjwt "github.com/Meet5113/greencart-backend/internal/pkg/jwt"
	"github.com/Meet5113/greencart-backend/tests/common/authtest"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_Verify(t *testing.T) {
	cfg := config.NewTestConfig().JWT
	helper := authtest.NewJWTHelper(cfg)
	verifier := pkgjwt.NewVerifier(cfg.Secret)
	userID := uuid.New()

	t.Run("valid access token", func(t *testing.T) {
		claims, err := verifier.Verify(helper.GenerateToken(t, userID, "admin"))
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "admin", claims.Role)
	})

	testCases := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr error
	}{
		{name: "expired", token: func(t *testing.T) string { return helper.CreateExpiredToken(t, userID, "user") }, wantErr: pkgjwt.ErrExpiredToken},
		{name: "refresh token", token: func(t *testing.T) string { return helper.CreateRefreshToken(t, userID, "user") }, wantErr: pkgjwt.ErrInvalidToken},
		{name: "wrong secret", token: func(t *testing.T) string { return helper.CreateForeignToken(t, userID, "user") }, wantErr: pkgjwt.ErrInvalidToken},
		{name: "garbage", token: func(*testing.T) string { return "not.a.token" }, wantErr: pkgjwt.ErrInvalidToken},
		{name: "no subject", token: func(t *testing.T) string { return helper.GenerateToken(t, uuid.Nil, "user") }, wantErr: pkgjwt.ErrInvalidToken},
		{
			name: "alg none",
			token: func(t *testing.T) string {
				s, err := jwt.NewWithClaims(jwt.SigningMethodNone, pkgjwt.Claims{UserID: userID}).
					SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return s
			},
			wantErr: pkgjwt.ErrInvalidToken,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := verifier.Verify(tc.token(t))
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
