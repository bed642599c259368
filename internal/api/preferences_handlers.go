package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"worldmandia-web/internal/models"
	"worldmandia-web/internal/theme"
)

// getPreferenceHandler handles GET /api/preferences
func (h *Handlers) getPreferenceHandler(c echo.Context) error {
	pref, err := h.store.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pref)
}

// getThemeHandler handles GET /api/preferences/theme
func (h *Handlers) getThemeHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.session.Load(c.Request().Context()))
}

// updatePreferenceHandler handles PUT /api/preferences
func (h *Handlers) updatePreferenceHandler(c echo.Context) error {
	var req models.UpdatePreferenceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if req.IsDarkTheme == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "isDarkTheme is required",
		})
	}

	state := h.session.Set(*req.IsDarkTheme)
	return h.respondPersisted(c, state)
}

// toggleThemeHandler handles POST /api/preferences/toggle
func (h *Handlers) toggleThemeHandler(c echo.Context) error {
	state := h.session.Toggle(c.Request().Context())
	return h.respondPersisted(c, state)
}

// respondPersisted waits for the write behind state before answering so a
// following GET observes it
func (h *Handlers) respondPersisted(c echo.Context, state theme.State) error {
	if err := h.session.Sync(c.Request().Context()); err != nil {
		c.Logger().Warn("preference write still pending: ", err)
	}
	return c.JSON(http.StatusOK, state)
}

// themeStreamHandler handles GET /api/preferences/ws.
// It sends the current theme state, then every change until the client disconnects.
func (h *Handlers) themeStreamHandler(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		c.Logger().Error("failed to upgrade to WebSocket: ", err)
		return err
	}
	defer ws.Close()

	updates, unsubscribe := h.session.Subscribe()
	defer unsubscribe()

	// Reading is required to process control frames and notice the client leaving
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := ws.WriteJSON(h.session.Current()); err != nil {
		return nil
	}

	for {
		select {
		case <-closed:
			return nil
		case state, ok := <-updates:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(state); err != nil {
				return nil
			}
		}
	}
}
