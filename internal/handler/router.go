package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"gamezone-booking/internal/domain/user"
	"gamezone-booking/internal/handler/api"
	"gamezone-booking/internal/handler/middleware"
	"gamezone-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	fx.In

	Reservation *api.ReservationHandler
	Session     *api.SessionHandler
	Station     *api.StationHandler
	Waitlist    *api.WaitlistHandler
	Payment     *api.PaymentHandler
	Events      *api.EventsHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		// gateway callback, authenticated by its signature
		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/payments/verify", Handler: h.Payment.Verify},
		})

		authed := apiGroup.Group("")
		authed.Use(authMiddleware.RequireAuth())
		addRoutes(authed, []route{
			{Method: http.MethodGet, Path: "/events", Handler: h.Events.Stream},
			{Method: http.MethodGet, Path: "/station-types", Handler: h.Station.ListTypes},
			{Method: http.MethodGet, Path: "/station-types/:id/stations", Handler: h.Station.Availability},

			{Method: http.MethodPost, Path: "/reservations", Handler: h.Reservation.Create},
			{Method: http.MethodGet, Path: "/reservations/:id", Handler: h.Reservation.Get},
			{Method: http.MethodPost, Path: "/reservations/:id/cancel", Handler: h.Reservation.Cancel},
			{Method: http.MethodPost, Path: "/reservations/:id/offline-payment", Handler: h.Reservation.OfflinePayment},
			{Method: http.MethodGet, Path: "/reservations/:id/queue", Handler: h.Reservation.QueueStatus},

			{Method: http.MethodPost, Path: "/waitlist/:id/cancel", Handler: h.Waitlist.Cancel},

			{Method: http.MethodGet, Path: "/sessions/:id", Handler: h.Session.Get},
			{Method: http.MethodPost, Path: "/sessions/:id/start", Handler: h.Session.Start},
			{Method: http.MethodPost, Path: "/sessions/:id/pause", Handler: h.Session.Pause},
			{Method: http.MethodPost, Path: "/sessions/:id/resume", Handler: h.Session.Resume},
			{Method: http.MethodPost, Path: "/sessions/:id/extend", Handler: h.Session.Extend},
			{Method: http.MethodPost, Path: "/sessions/:id/end", Handler: h.Session.End},
		})

		adminOnly := []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleAdmin)}

		admin := authed.Group("/admin")
		admin.Use(authMiddleware.RequireRoleAtLeast(user.RoleStaff))
		addRoutes(admin, []route{
			{Method: http.MethodPost, Path: "/station-types", Handler: h.Station.CreateType, Mw: adminOnly},
			{Method: http.MethodPost, Path: "/stations", Handler: h.Station.CreateStation, Mw: adminOnly},
			{Method: http.MethodPost, Path: "/stations/:id/status", Handler: h.Station.SetStatus},
			{Method: http.MethodPost, Path: "/station-types/:id/promote", Handler: h.Waitlist.Promote},
			{Method: http.MethodPost, Path: "/waitlist", Handler: h.Waitlist.Enqueue},

			{Method: http.MethodPost, Path: "/reservations/:id/approve", Handler: h.Reservation.Approve},
			{Method: http.MethodPost, Path: "/reservations/:id/confirm", Handler: h.Reservation.Confirm},
			{Method: http.MethodPost, Path: "/reservations/:id/payment-failed", Handler: h.Reservation.MarkFailed},

			{Method: http.MethodPost, Path: "/sessions/:id/cancel", Handler: h.Session.Cancel},
			{Method: http.MethodPost, Path: "/sessions/:id/winner", Handler: h.Session.Winner},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
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
