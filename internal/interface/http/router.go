package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/climahealth/climahealth-api/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", handler.Register)
			authGroup.POST("/login", handler.Login)
			authGroup.POST("/refresh", handler.Refresh)
			authGroup.GET("/google/url", handler.GoogleAuthURL)
			authGroup.GET("/google/callback", handler.GoogleCallback)
			authGroup.POST("/logout", authMiddleware(handler.authSvc), handler.Logout)
		}

		climateGroup := api.Group("/climate")
		{
			climateGroup.GET("/current", handler.CurrentConditions)
			climateGroup.GET("/latest", handler.LatestConditions)
		}
		api.GET("/forecast/today", handler.TodayForecast)

		authed := api.Group("")
		authed.Use(authMiddleware(handler.authSvc))
		{
			authed.GET("/user/profile", handler.GetProfile)
			authed.PUT("/user/profile", handler.UpdateProfile)

			authed.POST("/symptoms/log", handler.LogSymptom)
			authed.GET("/symptoms/history", handler.SymptomHistory)
			authed.GET("/symptoms/log/:id", handler.GetSymptomLog)
			authed.PATCH("/symptoms/log/:id", handler.UpdateSymptomLog)
			authed.DELETE("/symptoms/log/:id", handler.DeleteSymptomLog)
			authed.GET("/symptoms/insights", handler.SymptomInsights)
			authed.GET("/symptoms/stats", handler.SymptomStats)

			authed.POST("/coach/message", handler.CoachMessage)
			authed.GET("/coach/history", handler.CoachHistory)

			authed.POST("/game/complete", handler.CompleteActivity)
			authed.GET("/game/rewards", handler.GetRewards)
			authed.GET("/game/leaderboard", handler.Leaderboard)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
