package server

import (
	"github.com/nulzo/llm-translate/internal/server/middleware"
	v1 "github.com/nulzo/llm-translate/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	s.router.Use(middleware.ErrorHandler(s.logger))

	meta := v1.NewMetaHandler(s.version)
	s.router.GET("/health", meta.Health)

	api := s.router.Group("/v1")
	api.Use(middleware.Auth(s.config.Server.APIKeys))
	if s.config.RateLimit.RequestsPerSecond > 0 {
		s.limiter = middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)
		api.Use(s.limiter.Middleware())
	}
	{
		translate := v1.NewTranslateHandler(s.service, s.settings)
		api.POST("/translate", translate.Translate)

		models := v1.NewModelHandler(s.service, s.settings)
		api.GET("/models", models.ListModels)

		settings := v1.NewSettingsHandler(s.settings, s.logger)
		api.GET("/settings", settings.Get)
		api.PUT("/settings", settings.Update)

		api.GET("/languages", meta.Languages)
	}
}
