package components

import (
	"questbook/internal/infra/db"
	"questbook/internal/infra/notify"
	"questbook/internal/pkg/clock"
	"questbook/internal/pkg/config"
	"questbook/internal/usecase"
	"questbook/internal/usecase/commands"
	"questbook/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
	usecaseServicesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		notify.New,
		fx.As(new(commands.Notifier)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
		NewImportCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
	),
)

var usecaseServicesModule = fx.Module("usecase/services",
	fx.Provide(
		fx.Annotate(
			NewBlacklistService,
			fx.As(new(usecase.BlacklistService)),
			fx.As(new(queries.BlacklistGate)),
		),
		NewPartnerService,
		usecase.NewCatalogService,
	),
)

func NewBlacklistService(repo usecase.BlacklistRepository, cfg config.Config) usecase.BlacklistService {
	return usecase.NewBlacklistService(repo, cfg.Booking)
}

func NewImportCommands(
	pool commands.DB,
	bookingRepo commands.BookingRepository,
	slotRepo commands.SlotRepository,
	questRepo commands.QuestRepository,
	sequenceRepo commands.SequenceRepository,
	cfg config.Config,
	clk clock.Clock,
) commands.ImportCommands {
	return commands.NewImportCommands(pool, bookingRepo, slotRepo, questRepo, sequenceRepo, cfg.Partner.Tag, clk)
}

func NewPartnerService(
	pool db.DBTX,
	quests usecase.PartnerQuestRepo,
	slots usecase.PartnerSlotRepo,
	bookings commands.BookingCommands,
	cfg config.Config,
	clk clock.Clock,
) usecase.PartnerService {
	return usecase.NewPartnerService(pool, quests, slots, bookings, cfg.Partner, clk)
}
