package config

import (
	"time"

	"github.com/spf13/viper"

	"worldmandia-web/internal/models"
)

// SetDefaults sets default values for the configuration.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.tls.enabled", false)
	v.SetDefault("server.tls.certdir", "certs")
	v.SetDefault("server.cors.origins", []string{})

	v.SetDefault("static.dir", "static/")
	v.SetDefault("static.index", "index.html")
	v.SetDefault("static.ignore", []string{".txt"})

	v.SetDefault("database.path", "./worldmandia.db")

	v.SetDefault("preferences.key", models.DefaultPreferenceKey)

	v.SetDefault("ratelimit.writes", 30)
	v.SetDefault("ratelimit.window", time.Minute)

	v.SetDefault("auth.discord.clientid", "")
	v.SetDefault("auth.discord.clientsecret", "")
	v.SetDefault("auth.discord.redirecturl", "")

	v.SetDefault("log.level", "info")
}
