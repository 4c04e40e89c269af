package connect

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// ProviderID identifies one of the compiled-in OAuth2 providers.
type ProviderID string

const (
	Google ProviderID = "google"
	GitHub ProviderID = "github"
	Slack  ProviderID = "slack"
	Auth0  ProviderID = "auth0"
	LWA    ProviderID = "lwa"
)

// Provider describes an OAuth2 identity provider. The set of providers is
// fixed at compile time; disabling a provider only hides it from offering, it
// never removes the descriptor.
type Provider struct {
	ID          ProviderID
	Name        string
	Description string

	// ConsoleURL points at the provider's developer console, where an
	// administrator creates the OAuth application and obtains credentials.
	ConsoleURL string

	// Logo is the asset name a host can use when rendering links.
	Logo string

	Endpoint oauth2.Endpoint
	Scopes   []string

	// RequiresDomain is set for providers whose endpoints are tenant-scoped
	// and must be derived from a configured domain.
	RequiresDomain bool
}

// EndpointFor resolves the provider's OAuth2 endpoint. For tenant-scoped
// providers the configured domain is substituted into the endpoint URLs.
func (p Provider) EndpointFor(domain string) oauth2.Endpoint {
	if !p.RequiresDomain || domain == "" {
		return p.Endpoint
	}
	return oauth2.Endpoint{
		AuthURL:  "https://" + domain + "/authorize",
		TokenURL: "https://" + domain + "/oauth/token",
	}
}

var providers = []Provider{
	{
		ID:          Google,
		Name:        "Google",
		Description: "Sign in with a Google account.",
		ConsoleURL:  "https://console.cloud.google.com/apis/credentials",
		Logo:        "logos/google.svg",
		Endpoint:    endpoints.Google,
		Scopes:      []string{"openid", "email", "profile"},
	},
	{
		ID:          GitHub,
		Name:        "GitHub",
		Description: "Sign in with a GitHub account.",
		ConsoleURL:  "https://github.com/settings/developers",
		Logo:        "logos/github.svg",
		Endpoint:    endpoints.GitHub,
		Scopes:      []string{"read:user", "user:email"},
	},
	{
		ID:          Slack,
		Name:        "Slack",
		Description: "Sign in with a Slack workspace account.",
		ConsoleURL:  "https://api.slack.com/apps",
		Logo:        "logos/slack.svg",
		Endpoint:    endpoints.Slack,
		Scopes:      []string{"openid", "email", "profile"},
	},
	{
		ID:             Auth0,
		Name:           "Auth0",
		Description:    "Sign in through an Auth0 tenant.",
		ConsoleURL:     "https://manage.auth0.com/",
		Logo:           "logos/auth0.svg",
		Scopes:         []string{"openid", "email", "profile"},
		RequiresDomain: true,
	},
	{
		ID:          LWA,
		Name:        "Login with Amazon",
		Description: "Sign in with an Amazon account.",
		ConsoleURL:  "https://developer.amazon.com/loginwithamazon/console/site/lwa/overview.html",
		Logo:        "logos/lwa.svg",
		Endpoint:    endpoints.Amazon,
		Scopes:      []string{"profile"},
	},
}

// Providers returns the compiled provider descriptors in declared order.
func Providers() []Provider {
	out := make([]Provider, len(providers))
	copy(out, providers)
	return out
}

// LookupProvider returns the descriptor for an id.
func LookupProvider(id ProviderID) (Provider, bool) {
	for _, p := range providers {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}
