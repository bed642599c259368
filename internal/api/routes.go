package api

import (
	"github.com/labstack/echo/v4"

	"worldmandia-web/internal/ratelimit"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api *echo.Group, h *Handlers, writeLimiter *ratelimit.Limiter) {
	// Health check
	api.GET("/health", h.healthCheck)

	// Landing page content
	api.GET("/features", h.getFeaturesHandler)
	api.GET("/stats", h.getStatsHandler)
	api.GET("/time", h.getTimeHandler)

	// Theme preference (writes are rate limited per client)
	prefs := api.Group("/preferences")
	prefs.GET("", h.getPreferenceHandler)
	prefs.PUT("", h.updatePreferenceHandler, writeLimiter.Middleware())
	prefs.GET("/theme", h.getThemeHandler)
	prefs.POST("/toggle", h.toggleThemeHandler, writeLimiter.Middleware())
	prefs.GET("/ws", h.themeStreamHandler)

	// Auth stubs
	authGroup := api.Group("/auth")
	authGroup.POST("/discord", h.discordAuthHandler, writeLimiter.Middleware())
	authGroup.GET("/discord/login", h.discordLoginHandler)
	authGroup.GET("/discord/callback", h.discordCallbackHandler)
	authGroup.POST("/discord/callback", h.discordCallbackHandler)
}
