package components

import (
	"tutorbook/internal/infra/db"
	"tutorbook/internal/pkg/clock"
	"tutorbook/internal/pkg/config"
	"tutorbook/internal/usecase"
	"tutorbook/internal/usecase/commands"
	"tutorbook/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.PaymentConfig { return cfg.Payment },
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingUseCase,
		commands.NewPaymentUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		NewSlotQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewSlotQueries(
	availabilityStore queries.AvailabilityReadStore,
	occupiedStore queries.OccupiedSlotReadStore,
	pool db.Pool,
	clk clock.Clock,
	cfg config.Config,
) queries.SlotQueries {
	return queries.NewSlotQueries(availabilityStore, occupiedStore, pool, clk, cfg.Booking.WindowDays)
}
