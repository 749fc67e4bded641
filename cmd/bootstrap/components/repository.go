package components

import (
	"tutorbook/internal/infra/repository"
	"tutorbook/internal/usecase/commands"
	"tutorbook/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repository.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
			fx.As(new(queries.BookingReadStore)),
			fx.As(new(queries.OccupiedSlotReadStore)),
		),
		fx.Annotate(
			repository.NewLedgerRepository,
			fx.As(new(commands.LedgerRepository)),
			fx.As(new(queries.LedgerReadStore)),
		),
		fx.Annotate(
			repository.NewWalletRepository,
			fx.As(new(commands.WalletRepository)),
			fx.As(new(queries.WalletReadStore)),
		),
		fx.Annotate(
			repository.NewAvailabilityRepository,
			fx.As(new(queries.AvailabilityReadStore)),
		),
	),
)
