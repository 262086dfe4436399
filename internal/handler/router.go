package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"questbook/internal/handler/api"
	"questbook/internal/handler/middleware"
	"questbook/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Booking   *api.BookingHandler
	Import    *api.ImportHandler
	Blacklist *api.BlacklistHandler
	Catalog   *api.CatalogHandler
	Partner   *api.PartnerHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, handlers Handlers, adminMiddleware *middleware.AdminMiddleware, logger *middleware.Logger) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, handlers, adminMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, adminMiddleware *middleware.AdminMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := engine.Group("/api")
	{
		bookings := apiGroup.Group("/bookings")
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Booking.CreateBooking},
			})

			adminRequired := bookings.Group("")
			adminRequired.Use(adminMiddleware.RequireAdmin())
			addRoutes(adminRequired, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Booking.ListBookings},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.GetBooking},
				{Method: http.MethodPatch, Path: "/:id", Handler: h.Booking.UpdateBooking},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Booking.DeleteBooking},
				{Method: http.MethodPost, Path: "/import", Handler: h.Import.Import},
			})
		}

		blacklist := apiGroup.Group("/blacklist")
		blacklist.Use(adminMiddleware.RequireAdmin())
		{
			addRoutes(blacklist, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Blacklist.ListEntries},
				{Method: http.MethodPost, Path: "", Handler: h.Blacklist.CreateEntry},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Blacklist.GetEntry},
				{Method: http.MethodPut, Path: "/:id", Handler: h.Blacklist.UpdateEntry},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Blacklist.DeleteEntry},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/extra-services", Handler: h.Catalog.ListExtraServices},
			{Method: http.MethodGet, Path: "/promos/:code", Handler: h.Catalog.GetPromo},
		})

		partner := apiGroup.Group("/partner/:slug")
		{
			addRoutes(partner, []route{
				{Method: http.MethodGet, Path: "/schedule", Handler: h.Partner.Schedule},
				{Method: http.MethodPost, Path: "/order", Handler: h.Partner.SubmitOrder},
				{Method: http.MethodGet, Path: "/tariff", Handler: h.Partner.Tariff},
				{Method: http.MethodGet, Path: "/prepay", Handler: h.Partner.Prepay},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
