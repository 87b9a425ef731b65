package bootstrap

import (
	"ticket-gate/internal/pkg/config"
	"ticket-gate/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.Scanner.JWTSecret, cfg.Scanner.TokenDuration)
}
