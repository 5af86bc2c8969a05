package components

import (
	"reservation-engine/internal/infra/googlecal"
	"reservation-engine/internal/infra/identity"
	"reservation-engine/internal/infra/notify"
	"reservation-engine/internal/infra/readstore"
	repo_impl "reservation-engine/internal/infra/repository"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewEventRepository,
			fx.As(new(commands.EventRepository)),
		),
		fx.Annotate(
			repo_impl.NewCalendarRepository,
			fx.As(new(commands.CalendarRepository)),
		),
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserRepository)),
		),
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewEventReadStore,
			fx.As(new(queries.EventReadStore)),
		),
		fx.Annotate(
			readstore.NewCalendarReadStore,
			fx.As(new(queries.CalendarReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		// External collaborators
		fx.Annotate(
			NewCalendarClient,
			fx.As(new(commands.ExternalCalendar)),
		),
		fx.Annotate(
			NewIdentityClient,
			fx.As(new(commands.EntitlementSource)),
		),
		fx.Annotate(
			notify.NewQueue,
			fx.As(new(commands.Notifier)),
		),
	),
)

func NewCalendarClient(cfg config.Config) *googlecal.Client {
	return googlecal.NewClient(cfg.Calendar)
}

func NewIdentityClient(cfg config.Config) *identity.Client {
	return identity.NewClient(cfg.Identity)
}
