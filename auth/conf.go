package auth

import (
	"errors"

	"golang.org/x/oauth2/clientcredentials"
)

// Conf holds OAuth2 client-credentials settings. An empty ClientID disables
// authentication.
type Conf struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	TokenURL     string   `json:"token_url"`
	Scopes       []string `json:"scopes"`
}

// Enabled reports whether credentials are configured.
func (c Conf) Enabled() bool { return c.ClientID != "" }

// Validate checks that an enabled configuration names a token endpoint.
func (c Conf) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.TokenURL == "" {
		return errors.New("auth: token_url is required when client_id is set")
	}
	return nil
}

func (c Conf) toOauth2Config() clientcredentials.Config {
	return clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.TokenURL,
		Scopes:       c.Scopes,
	}
}
