// config.go - runtime settings for the worldmandia web backend
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. WMW_SERVER_PORT
const EnvPrefix = "WMW"

// Settings holds all configuration of the service
type Settings struct {
	Server struct {
		Host string
		Port int
		TLS  struct {
			Enabled bool
			CertDir string
		}
		CORS struct {
			Origins []string
		}
	}

	Static struct {
		Dir    string   // on-disk asset directory, created at startup
		Index  string   // default document for SPA fallback
		Ignore []string // file extensions never served
	}

	Database struct {
		Path string // empty keeps preferences in memory
	}

	Preferences struct {
		Key string
	}

	RateLimit struct {
		Writes int
		Window time.Duration
	}

	Auth struct {
		Discord DiscordSettings
	}

	Log struct {
		Level string
	}
}

// DiscordSettings configures the Discord OAuth stub routes
type DiscordSettings struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Address returns the listen address
func (s *Settings) Address() string {
	return net.JoinHostPort(s.Server.Host, strconv.Itoa(s.Server.Port))
}

// Load reads configuration from defaults, the optional config file and the environment
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks the settings for values the server cannot start with
func (s *Settings) Validate() error {
	var errs []error
	if s.Server.Port < 1 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Server.Port))
	}
	if s.Static.Dir == "" {
		errs = append(errs, errors.New("static.dir must not be empty"))
	}
	if s.Static.Index == "" {
		errs = append(errs, errors.New("static.index must not be empty"))
	}
	if s.RateLimit.Writes < 1 {
		errs = append(errs, fmt.Errorf("ratelimit.writes must be positive, got %d", s.RateLimit.Writes))
	}
	if s.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("ratelimit.window must be positive"))
	}
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", s.Log.Level))
	}
	return errors.Join(errs...)
}
