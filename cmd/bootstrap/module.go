package bootstrap

import (
	"rewardgate/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	JWTModule,
	SSVModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
