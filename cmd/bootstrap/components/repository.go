package components

import (
	"questbook/internal/infra/db"
	"questbook/internal/infra/notify"
	"questbook/internal/infra/readstore"
	repo_impl "questbook/internal/infra/repository"
	"questbook/internal/usecase"
	"questbook/internal/usecase/commands"
	"questbook/internal/usecase/queries"
	"questbook/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		NewCommandDB,
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
			fx.As(new(worker.SweepStore)),
		),
		fx.Annotate(
			repo_impl.NewSlotRepository,
			fx.As(new(commands.SlotRepository)),
			fx.As(new(usecase.PartnerSlotRepo)),
		),
		fx.Annotate(
			repo_impl.NewQuestRepository,
			fx.As(new(commands.QuestRepository)),
			fx.As(new(usecase.PartnerQuestRepo)),
		),
		fx.Annotate(
			repo_impl.NewPromoRepository,
			fx.As(new(commands.PromoRepository)),
			fx.As(new(usecase.PromoLookup)),
		),
		fx.Annotate(
			repo_impl.NewExtraServiceRepository,
			fx.As(new(commands.ExtraServiceRepository)),
			fx.As(new(usecase.ExtraServiceCatalog)),
		),
		fx.Annotate(
			repo_impl.NewSequenceRepository,
			fx.As(new(commands.SequenceRepository)),
		),
		fx.Annotate(
			repo_impl.NewBlacklistRepository,
			fx.As(new(usecase.BlacklistRepository)),
		),
		fx.Annotate(
			repo_impl.NewNotificationRepository,
			fx.As(new(notify.JobQueue)),
		),
		// Read-side store for queries
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingViewRepo)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewCommandDB(pool *pgxpool.Pool) commands.DB {
	return pool
}
