package usecase

import (
	"github.com/Meet5113/greencart-backend/internal/pkg/errs"
	"github.com/Meet5113/greencart-backend/internal/pkg/jwt"
	"github.com/Meet5113/greencart-backend/internal/usecase/queries"

	"github.com/google/uuid"
)

var ErrUnknownRole = errs.New("unknown role")

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, string, error)
}

type tokenValidatorImpl struct {
	verifier *jwt.Verifier
}

func NewTokenValidator(verifier *jwt.Verifier) TokenValidator {
	return &tokenValidatorImpl{
		verifier: verifier,
	}
}

// ValidateToken treats a missing role as a regular customer.
func (t *tokenValidatorImpl) ValidateToken(tokenString string) (uuid.UUID, string, error) {
	claims, err := t.verifier.Verify(tokenString)
	if err != nil {
		return uuid.Nil, "", err
	}

	switch claims.Role {
	case "":
		return claims.UserID, queries.RoleUser, nil
	case queries.RoleUser, queries.RoleAdmin:
		return claims.UserID, claims.Role, nil
	}
	return uuid.Nil, "", errs.Wrapf(ErrUnknownRole, "role %q", claims.Role)
}
