package components

import (
	"questbook/internal/handler"
	"questbook/internal/handler/api"
	"questbook/internal/handler/middleware"
	"questbook/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewAdminMiddleware,
		api.NewBookingHandler,
		api.NewImportHandler,
		api.NewBlacklistHandler,
		api.NewCatalogHandler,
		api.NewPartnerHandler,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewAdminMiddleware(cfg config.Config) *middleware.AdminMiddleware {
	return middleware.NewAdminMiddleware(cfg.Admin)
}

func NewHandlers(
	booking *api.BookingHandler,
	importHandler *api.ImportHandler,
	blacklist *api.BlacklistHandler,
	catalog *api.CatalogHandler,
	partner *api.PartnerHandler,
) handler.Handlers {
	return handler.Handlers{
		Booking:   booking,
		Import:    importHandler,
		Blacklist: blacklist,
		Catalog:   catalog,
		Partner:   partner,
	}
}
