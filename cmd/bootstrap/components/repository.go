package components

import (
	"rewardgate/internal/infra/db"
	"rewardgate/internal/infra/readstore"
	"rewardgate/internal/infra/repository"
	"rewardgate/internal/infra/uow"
	"rewardgate/internal/usecase"
	"rewardgate/internal/usecase/commands"
	"rewardgate/internal/usecase/queries"
	"rewardgate/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		// Write side
		fx.Annotate(
			repository.NewGrantRepository,
			fx.As(new(shared.GrantRepository)),
		),
		fx.Annotate(
			repository.NewSessionRepository,
			fx.As(new(shared.SessionRepository)),
		),
		// Read side
		fx.Annotate(
			readstore.NewGrantReadStore,
			fx.As(new(queries.GrantReadStore)),
		),
		fx.Annotate(
			readstore.NewLedgerReadStore,
			fx.As(new(commands.LedgerReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(usecase.UserReadStore)),
			fx.As(new(commands.UserReadStore)),
		),
		fx.Annotate(
			readstore.NewServerReadStore,
			fx.As(new(commands.ServerReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
