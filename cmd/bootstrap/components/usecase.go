package components

import (
	"time"

	"reservation-engine/internal/domain/booking"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/usecase"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"

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
	booking.NewValidator,
	commands.NewCollisionChecker,
	NewSettings,
)

func NewSettings(cfg config.Config) (commands.Settings, error) {
	loc, err := time.LoadLocation(cfg.Reservation.TimeZone)
	if err != nil {
		return commands.Settings{}, err
	}
	return commands.Settings{
		Location:  loc,
		OpenHour:  cfg.Reservation.OpenHour,
		CloseHour: cfg.Reservation.CloseHour,
	}, nil
}

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewEventCommands,
		commands.NewCalendarCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewEventQueries,
		queries.NewCalendarQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
