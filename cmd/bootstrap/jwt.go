package bootstrap

import (
	"github.com/Meet5113/greencart-backend/internal/pkg/config"
	"github.com/Meet5113/greencart-backend/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTVerifier,
	),
)

func NewJWTVerifier(cfg config.Config) *jwt.Verifier {
	if cfg.JWT.Secret == "" {
		panic("JWT_SECRET must not be empty")
	}
	return jwt.NewVerifier(cfg.JWT.Secret)
}
