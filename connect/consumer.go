package connect

import (
	"golang.org/x/oauth2"
)

// Consumer holds the OAuth2 application credentials an administrator
// configured for a provider. The zero value with only Provider set is the
// default for providers that have never been configured.
type Consumer struct {
	Provider ProviderID `json:"provider"`
	Key      string     `json:"key"`
	Secret   string     `json:"secret"`
	Domain   string     `json:"domain,omitempty"`
}

// Configured reports whether the consumer carries usable credentials. Being
// configured is independent of the provider being enabled; both gates must
// pass before a provider is offered to visitors.
func (c Consumer) Configured() bool {
	return c.Key != "" && c.Secret != ""
}

// OAuthConfig builds the x/oauth2 config the host uses to drive the redirect
// flow. Tenant-scoped providers resolve their endpoint from the configured
// domain.
func (c Consumer) OAuthConfig(redirectURL string) *oauth2.Config {
	p, _ := LookupProvider(c.Provider)
	return &oauth2.Config{
		ClientID:     c.Key,
		ClientSecret: c.Secret,
		RedirectURL:  redirectURL,
		Endpoint:     p.EndpointFor(c.Domain),
		Scopes:       p.Scopes,
	}
}
