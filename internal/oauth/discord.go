// Package oauth builds authorization redirects for the placeholder login routes.
// No code exchange or token handling happens here.
package oauth

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"worldmandia-web/internal/config"
)

// ErrNotConfigured is returned when the provider has no client ID
var ErrNotConfigured = errors.New("oauth provider not configured")

// DiscordEndpoint is Discord's OAuth2 endpoint
var DiscordEndpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  "https://discord.com/api/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// Client wraps an oauth2 configuration for one provider
type Client struct {
	oauth2Config *oauth2.Config
}

// NewDiscordClient creates a client from settings
func NewDiscordClient(settings config.DiscordSettings) (*Client, error) {
	if settings.ClientID == "" {
		return nil, ErrNotConfigured
	}

	return &Client{
		oauth2Config: &oauth2.Config{
			ClientID:     settings.ClientID,
			ClientSecret: settings.ClientSecret,
			RedirectURL:  settings.RedirectURL,
			Endpoint:     DiscordEndpoint,
			Scopes:       []string{"identify"},
		},
	}, nil
}

// AuthURL generates the authorization URL, generating a state if none is given
func (c *Client) AuthURL(state string) (url, usedState string) {
	if state == "" {
		state = uuid.NewString()
	}
	return c.oauth2Config.AuthCodeURL(state), state
}
