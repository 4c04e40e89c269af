package connect

import (
	"context"
	"time"

	"github.com/dpup/oauthconnect"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// ClientOption is a functional option for configuring the client.
type ClientOption func(*Client)

// WithErrorHook installs a per-provider hook that rewrites the user-visible
// message of authorization failures.
func WithErrorHook(provider ProviderID, hook func(error) string) ClientOption {
	return func(c *Client) {
		c.errorHooks[provider] = hook
	}
}

// WithSigningKey sets the key used to sign session tokens, overriding
// auth.signingKey from config.
func WithSigningKey(key []byte) ClientOption {
	return func(c *Client) {
		c.signingKey = key
	}
}

// WithExpiration sets how long minted session tokens are valid, overriding
// auth.expiration from config.
func WithExpiration(d time.Duration) ClientOption {
	return func(c *Client) {
		c.expiration = d
	}
}

// NewClient returns a client that coordinates the credential store, the
// compiled provider registry, and the host's user facilities. redirectURL is
// handed to providers as the callback for the host's redirect flow.
func NewClient(store *Store, host Host, redirectURL string, opts ...ClientOption) *Client {
	c := &Client{
		store:       store,
		host:        host,
		redirectURL: redirectURL,
		errorHooks:  map[ProviderID]func(error) string{},
		signingKey:  []byte(oauthconnect.ConfigString("auth.signingKey")),
		issuer:      oauthconnect.ConfigString("auth.issuer"),
		expiration:  oauthconnect.ConfigDuration("auth.expiration"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Client is the single entry point surfaces use: it owns the offering rule
// and the authorization decision.
type Client struct {
	store       *Store
	host        Host
	redirectURL string
	errorHooks  map[ProviderID]func(error) string

	signingKey []byte
	issuer     string
	expiration time.Duration
}

// Store exposes the underlying credential store, used by admin surfaces to
// save consumer credentials.
func (c *Client) Store() *Store {
	return c.store
}

// Providers returns all compiled provider descriptors, regardless of enabled
// or configured state.
func (c *Client) Providers() []Provider {
	return Providers()
}

// DisabledProviders returns the persisted disabled set.
func (c *Client) DisabledProviders(ctx context.Context) []ProviderID {
	return c.store.DisabledProviders(ctx)
}

// SetDisabledProviders overwrites the persisted disabled set.
func (c *Client) SetDisabledProviders(ctx context.Context, ids []ProviderID) error {
	return c.store.SetDisabledProviders(ctx, ids)
}

// Disabled reports whether a provider has been disabled by an administrator.
func (c *Client) Disabled(ctx context.Context, id ProviderID) bool {
	for _, d := range c.store.DisabledProviders(ctx) {
		if d == id {
			return true
		}
	}
	return false
}

// Disable adds a provider to the disabled set. Stored credentials and
// bindings are untouched and come back into effect on re-enable.
func (c *Client) Disable(ctx context.Context, id ProviderID) error {
	if c.Disabled(ctx, id) {
		return nil
	}
	return c.SetDisabledProviders(ctx, append(c.DisabledProviders(ctx), id))
}

// Enable removes a provider from the disabled set.
func (c *Client) Enable(ctx context.Context, id ProviderID) error {
	disabled := c.DisabledProviders(ctx)
	kept := make([]ProviderID, 0, len(disabled))
	for _, d := range disabled {
		if d != id {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(disabled) {
		return nil
	}
	return c.SetDisabledProviders(ctx, kept)
}

// Offered returns the providers that should be shown to visitors: those that
// are enabled AND have configured credentials. Every surface uses this one
// rule.
func (c *Client) Offered(ctx context.Context) []Provider {
	var out []Provider
	for _, p := range Providers() {
		if c.Disabled(ctx, p.ID) {
			continue
		}
		if !c.store.Consumer(ctx, p.ID).Configured() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// OAuthConfig returns the x/oauth2 config for a provider, built from its
// stored consumer credentials.
func (c *Client) OAuthConfig(ctx context.Context, id ProviderID) (*oauth2.Config, error) {
	if _, ok := LookupProvider(id); !ok {
		return nil, ErrUnknownProvider
	}
	consumer := c.store.Consumer(ctx, id)
	if !consumer.Configured() {
		return nil, ErrConfigIncomplete
	}
	return consumer.OAuthConfig(c.redirectURL), nil
}

// AuthCodeURL returns the URL a visitor should be sent to in order to start
// the provider's consent flow, along with the state parameter that the host
// must verify on callback.
func (c *Client) AuthCodeURL(ctx context.Context, id ProviderID) (url string, state string, err error) {
	cfg, err := c.OAuthConfig(ctx, id)
	if err != nil {
		return "", "", err
	}
	state = uuid.NewString()
	return cfg.AuthCodeURL(state), state, nil
}
