package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"worldmandia-web/internal/oauth"
	"worldmandia-web/internal/preferences"
	"worldmandia-web/internal/showcase"
	"worldmandia-web/internal/theme"
)

// Handlers holds the dependencies of the API handlers
type Handlers struct {
	store    *preferences.Store
	session  *theme.Session
	catalog  *showcase.Catalog
	discord  *oauth.Client // nil when Discord is not configured
	upgrader websocket.Upgrader
}

// NewHandlers creates the API handlers. discord may be nil.
func NewHandlers(store *preferences.Store, session *theme.Session, catalog *showcase.Catalog, discord *oauth.Client) *Handlers {
	return &Handlers{
		store:   store,
		session: session,
		catalog: catalog,
		discord: discord,
	}
}

// Health check
func (h *Handlers) healthCheck(c echo.Context) error {
	prefs := "ok"
	if h.store.Degraded() {
		prefs = "degraded"
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":      "ok",
		"preferences": prefs,
	})
}

// getFeaturesHandler handles GET /api/features
func (h *Handlers) getFeaturesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Features())
}

// getStatsHandler handles GET /api/stats
func (h *Handlers) getStatsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Stats())
}

// getTimeHandler handles GET /api/time
func (h *Handlers) getTimeHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Time())
}
