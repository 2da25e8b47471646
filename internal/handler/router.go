package handler

import (
	"gptading/backend/internal/middleware"
	"gptading/backend/internal/service"
	"gptading/backend/pkg/jwt"
	"gptading/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RouterDeps is everything the HTTP layer needs
type RouterDeps struct {
	Log            *logger.Logger
	Tokens         *jwt.SessionTokenManager
	SecureCookie   bool
	AllowedOrigins []string
	Limiter        middleware.Limiter
	Store          Pinger

	Bots      *service.BotService
	Dashboard *service.DashboardService
	Exchange  *service.ExchangeService
	Settings  *service.SettingsService
	Hub       *service.WSHub
	Static    *StaticHandler
}

// NewRouter builds the gin engine with all routes
func NewRouter(d RouterDeps) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(middleware.Recovery(d.Log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(d.Log))
	router.Use(middleware.CORS(d.AllowedOrigins))

	statusHandler := NewStatusHandler(d.Store)
	botHandler := NewBotHandler(d.Bots)
	dashboardHandler := NewDashboardHandler(d.Dashboard)
	exchangeHandler := NewExchangeHandler(d.Exchange)
	settingsHandler := NewSettingsHandler(d.Settings)

	router.GET("/", d.Static.Index)
	router.GET("/health", statusHandler.Health)
	router.GET("/api/status", statusHandler.Status)

	api := router.Group("/api")
	api.Use(middleware.Session(d.Tokens, d.SecureCookie, d.Log))
	api.Use(middleware.RateLimit(d.Limiter, "api", d.Log))
	{
		bots := api.Group("/bots")
		{
			bots.GET("", botHandler.ListBots)
			bots.POST("", botHandler.CreateBot)
			bots.GET("/stats", botHandler.Stats)
			bots.GET("/:id", botHandler.GetBot)
			bots.POST("/:id/toggle", botHandler.ToggleBot)
		}
		api.GET("/strategies", botHandler.Strategies)

		api.GET("/dashboard", dashboardHandler.Summary)
		api.GET("/portfolio", dashboardHandler.Portfolio)
		api.GET("/portfolio/allocation", dashboardHandler.Allocation)
		api.GET("/trades", dashboardHandler.Trades)
		api.GET("/market/pairs", dashboardHandler.Pairs)

		exchange := api.Group("/exchange")
		{
			exchange.GET("", exchangeHandler.Status)
			exchange.POST("/connect", exchangeHandler.Connect)
			exchange.POST("/disconnect", exchangeHandler.Disconnect)
			exchange.PUT("/test-mode", exchangeHandler.SetTestMode)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/notifications", settingsHandler.GetNotifications)
			settings.PUT("/notifications", settingsHandler.UpdateNotifications)
		}

		api.GET("/ws", d.Hub.ServeWS)
	}

	router.NoRoute(d.Static.NotFound)

	return router, nil
}
