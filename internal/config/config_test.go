package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	settings, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", settings.Server.Host)
	assert.Equal(t, 8080, settings.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", settings.Address())
	assert.Equal(t, "static/", settings.Static.Dir)
	assert.Equal(t, "index.html", settings.Static.Index)
	assert.Equal(t, []string{".txt"}, settings.Static.Ignore)
	assert.Equal(t, "saved_state", settings.Preferences.Key)
	assert.Equal(t, time.Minute, settings.RateLimit.Window)
	assert.False(t, settings.Server.TLS.Enabled)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("WMW_SERVER_PORT", "9090")
	t.Setenv("WMW_STATIC_DIR", "/srv/bundle")
	t.Setenv("WMW_AUTH_DISCORD_CLIENTID", "client-123")

	settings, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 9090, settings.Server.Port)
	assert.Equal(t, "/srv/bundle", settings.Static.Dir)
	assert.Equal(t, "client-123", settings.Auth.Discord.ClientID)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 3000
database:
  path: ""
ratelimit:
  window: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	settings, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 3000, settings.Server.Port)
	assert.Empty(t, settings.Database.Path)
	assert.Equal(t, 30*time.Second, settings.RateLimit.Window)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{name: "valid", mutate: func(*Settings) {}},
		{name: "port zero", mutate: func(s *Settings) { s.Server.Port = 0 }, wantErr: "server.port"},
		{name: "port too large", mutate: func(s *Settings) { s.Server.Port = 70000 }, wantErr: "server.port"},
		{name: "empty index", mutate: func(s *Settings) { s.Static.Index = "" }, wantErr: "static.index"},
		{name: "empty dir", mutate: func(s *Settings) { s.Static.Dir = "" }, wantErr: "static.dir"},
		{name: "bad log level", mutate: func(s *Settings) { s.Log.Level = "loud" }, wantErr: "log.level"},
		{name: "no writes", mutate: func(s *Settings) { s.RateLimit.Writes = 0 }, wantErr: "ratelimit.writes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings, err := Load(viper.New(), "")
			require.NoError(t, err)

			tt.mutate(settings)
			err = settings.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
