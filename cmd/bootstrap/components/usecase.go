package components

import (
	"rewardgate/internal/pkg/clock"
	"rewardgate/internal/usecase"
	"rewardgate/internal/usecase/commands"
	"rewardgate/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		queries.NewEntitlementQueries,
		commands.NewCallbackUseCase,
		commands.NewSessionUseCase,
		usecase.NewAuthUseCase,
		usecase.NewTokenValidator,
	),
)
