package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
)

// Placeholder routes for a future Discord login. Nothing here authenticates anyone.

// discordAuthHandler handles POST /api/auth/discord
func (h *Handlers) discordAuthHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// discordLoginHandler handles GET /api/auth/discord/login
func (h *Handlers) discordLoginHandler(c echo.Context) error {
	if h.discord == nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "discord login is not configured",
		})
	}

	url, _ := h.discord.AuthURL(c.QueryParam("state"))
	return c.Redirect(http.StatusFound, url)
}

// discordCallbackHandler handles GET/POST /api/auth/discord/callback.
// It echoes the received query parameters as plain text, one key=value per line.
func (h *Handlers) discordCallbackHandler(c echo.Context) error {
	params := c.QueryParams()

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		for _, value := range params[key] {
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(value)
			b.WriteByte('\n')
		}
	}

	return c.String(http.StatusOK, b.String())
}
