package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"reservation-engine/internal/handler/api"
	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	eventHandler *api.EventHandler,
	calendarHandler *api.CalendarHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, eventHandler, calendarHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	eventHandler *api.EventHandler,
	calendarHandler *api.CalendarHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: authHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		events := apiGroup.Group("/events")
		events.Use(authMiddleware.RequireAuth())
		{
			addRoutes(events, []route{
				{Method: http.MethodPost, Path: "", Handler: eventHandler.CreateEvent},
				{Method: http.MethodGet, Path: "", Handler: eventHandler.ListEvents},
				{Method: http.MethodGet, Path: "/current", Handler: eventHandler.GetCurrentEvent},
				{Method: http.MethodGet, Path: "/managed", Handler: eventHandler.ListManagedEvents},
				{Method: http.MethodGet, Path: "/:id", Handler: eventHandler.GetEvent},
				{Method: http.MethodPatch, Path: "/:id", Handler: eventHandler.UpdateEvent},
				{Method: http.MethodDelete, Path: "/:id", Handler: eventHandler.CancelEvent},
				{Method: http.MethodDelete, Path: "/:id/permanent", Handler: eventHandler.HardDeleteEvent},
				{Method: http.MethodPost, Path: "/:id/restore", Handler: eventHandler.RestoreEvent},
				{Method: http.MethodPost, Path: "/:id/approval", Handler: eventHandler.ResolveApproval},
				{Method: http.MethodPost, Path: "/:id/time-change", Handler: eventHandler.RequestTimeChange},
				{Method: http.MethodPost, Path: "/:id/time-change/resolution", Handler: eventHandler.ResolveTimeChange},
			})
		}

		calendars := apiGroup.Group("/calendars")
		calendars.Use(authMiddleware.RequireAuth())
		{
			addRoutes(calendars, []route{
				{Method: http.MethodGet, Path: "", Handler: calendarHandler.ListCalendars},
				{Method: http.MethodGet, Path: "/by-type/:type", Handler: calendarHandler.GetCalendarByReservationType},
				{Method: http.MethodGet, Path: "/:id", Handler: calendarHandler.GetCalendar},
				{Method: http.MethodPost, Path: "", Handler: calendarHandler.CreateCalendar},
				{Method: http.MethodPut, Path: "/:id", Handler: calendarHandler.UpdateCalendar},
				{Method: http.MethodDelete, Path: "/:id", Handler: calendarHandler.DeleteCalendar},
				{Method: http.MethodPost, Path: "/:id/restore", Handler: calendarHandler.RestoreCalendar},
			})
		}
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
