package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldmandia-web/internal/config"
	"worldmandia-web/internal/models"
	"worldmandia-web/internal/oauth"
	"worldmandia-web/internal/preferences"
	"worldmandia-web/internal/ratelimit"
	"worldmandia-web/internal/showcase"
	"worldmandia-web/internal/theme"
)

type testEnv struct {
	echo    *echo.Echo
	store   *preferences.Store
	session *theme.Session
}

func newTestEnv(t *testing.T, discord *oauth.Client, writes int) *testEnv {
	t.Helper()

	store := preferences.NewStore(preferences.NewMemoryBackend(), "")
	session := theme.NewSession(store)
	limiter := ratelimit.New(writes, time.Minute)
	t.Cleanup(func() {
		limiter.Stop()
		session.Wait()
	})

	e := echo.New()
	RegisterRoutes(e.Group("/api"), NewHandlers(store, session, showcase.NewCatalog(time.UTC), discord), limiter)

	return &testEnv{echo: e, store: store, session: session}
}

func (env *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, nil, 10)

	rec := env.do(http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","preferences":"ok"}`, rec.Body.String())
}

func TestPreferences_Scenario(t *testing.T) {
	env := newTestEnv(t, nil, 10)

	rec := env.do(http.MethodGet, "/api/preferences", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isDarkTheme":false}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/preferences/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[theme.State](t, rec)
	assert.Equal(t, models.ThemeSelectionLight, state.Selection, "first toggle resolves the stored value")

	rec = env.do(http.MethodPost, "/api/preferences/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	state = decode[theme.State](t, rec)
	assert.True(t, state.IsDarkTheme)
	assert.Equal(t, "dark", state.ColorScheme)

	rec = env.do(http.MethodGet, "/api/preferences", "")
	assert.JSONEq(t, `{"isDarkTheme":true}`, rec.Body.String())
}

func TestPreferences_ThemeResolvesOnRead(t *testing.T) {
	env := newTestEnv(t, nil, 10)

	rec := env.do(http.MethodGet, "/api/preferences/theme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[theme.State](t, rec)
	assert.Equal(t, models.ThemeSelectionLight, state.Selection)
}

func TestPreferences_Put(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantDark   bool
	}{
		{name: "set dark", body: `{"isDarkTheme":true}`, wantStatus: http.StatusOK, wantDark: true},
		{name: "set light", body: `{"isDarkTheme":false}`, wantStatus: http.StatusOK, wantDark: false},
		{name: "missing field", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "malformed body", body: `{"isDarkTheme":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil, 10)

			rec := env.do(http.MethodPut, "/api/preferences", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			rec = env.do(http.MethodGet, "/api/preferences", "")
			assert.Equal(t, tt.wantDark, decode[models.ThemePreference](t, rec).IsDarkTheme)
		})
	}
}

func TestPreferences_WritesAreRateLimited(t *testing.T) {
	env := newTestEnv(t, nil, 2)

	assert.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/preferences/toggle", "").Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/preferences/toggle", "").Code)

	rec := env.do(http.MethodPost, "/api/preferences/toggle", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Reads are not limited
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/preferences", "").Code)
}

func TestShowcaseRoutes(t *testing.T) {
	env := newTestEnv(t, nil, 10)

	features := decode[[]models.Feature](t, env.do(http.MethodGet, "/api/features", ""))
	assert.Len(t, features, 4)

	stats := decode[models.Stats](t, env.do(http.MethodGet, "/api/stats", ""))
	assert.Equal(t, "99%", stats.Performance)

	now := decode[models.TimeInfo](t, env.do(http.MethodGet, "/api/time", ""))
	assert.Equal(t, "UTC", now.Timezone)
	_, err := time.Parse(time.DateOnly, now.Date)
	assert.NoError(t, err)
}

func TestDiscordStubs(t *testing.T) {
	env := newTestEnv(t, nil, 10)

	rec := env.do(http.MethodPost, "/api/auth/discord", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/auth/discord/callback?state=xyz&code=abc&code=def", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "code=abc\ncode=def\nstate=xyz\n", rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain))

	rec = env.do(http.MethodPost, "/api/auth/discord/callback?error=access_denied", "")
	assert.Equal(t, "error=access_denied\n", rec.Body.String())

	rec = env.do(http.MethodGet, "/api/auth/discord/callback", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDiscordLogin(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		env := newTestEnv(t, nil, 10)
		rec := env.do(http.MethodGet, "/api/auth/discord/login", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("redirects to provider", func(t *testing.T) {
		client, err := oauth.NewDiscordClient(config.DiscordSettings{ClientID: "abc"})
		require.NoError(t, err)
		env := newTestEnv(t, client, 10)

		rec := env.do(http.MethodGet, "/api/auth/discord/login?state=s1", "")
		assert.Equal(t, http.StatusFound, rec.Code)
		location := rec.Header().Get(echo.HeaderLocation)
		assert.True(t, strings.HasPrefix(location, oauth.DiscordEndpoint.AuthURL))
		assert.Contains(t, location, "state=s1")
	})
}

func TestThemeStream(t *testing.T) {
	env := newTestEnv(t, nil, 10)
	srv := httptest.NewServer(env.echo)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/preferences/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var initial theme.State
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, models.ThemeSelectionLocal, initial.Selection)

	env.session.Set(true)

	var changed theme.State
	require.NoError(t, conn.ReadJSON(&changed))
	assert.Equal(t, models.ThemeSelectionDark, changed.Selection)
	assert.True(t, changed.IsDarkTheme)
}
