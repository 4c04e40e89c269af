package connect

import (
	"context"

	"github.com/dpup/oauthconnect"
	"github.com/dpup/oauthconnect/errors"
	"github.com/dpup/oauthconnect/eventbus"
	"github.com/dpup/oauthconnect/logging"
	"github.com/dpup/oauthconnect/settings"
	"github.com/dpup/oauthconnect/storage"
)

// Constant name for identifying the connect plugin.
const PluginName = "oauth2connect"

// ConnectOption is a functional option for configuring the plugin.
type ConnectOption func(*ConnectPlugin)

// WithHost supplies the host facilities. A plugin without a host initializes
// in degraded mode.
func WithHost(h Host) ConnectOption {
	return func(p *ConnectPlugin) {
		p.host = h
	}
}

// WithRedirectURL overrides the callback URL handed to providers. Defaults
// to the configured site address plus /oauth2/callback.
func WithRedirectURL(url string) ConnectOption {
	return func(p *ConnectPlugin) {
		p.redirectURL = url
	}
}

// WithClientOptions passes options through to the client constructed during
// Init.
func WithClientOptions(opts ...ClientOption) ConnectOption {
	return func(p *ConnectPlugin) {
		p.clientOpts = append(p.clientOpts, opts...)
	}
}

// Plugin returns the connect plugin. Register it alongside the storage and
// settings plugins; the eventbus plugin is picked up when present.
func Plugin(opts ...ConnectOption) *ConnectPlugin {
	p := &ConnectPlugin{
		redirectURL: oauthconnect.ConfigString("address") + "/oauth2/callback",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ConnectPlugin wires the credential store and client into the plugin
// registry. If construction fails the plugin stays registered in degraded
// mode: Client returns nil and surfaces render nothing.
type ConnectPlugin struct {
	host        Host
	redirectURL string
	clientOpts  []ClientOption

	client *Client
}

var _ oauthconnect.Plugin = &ConnectPlugin{}
var _ oauthconnect.DependentPlugin = &ConnectPlugin{}
var _ oauthconnect.OptionalDependentPlugin = &ConnectPlugin{}
var _ oauthconnect.InitializablePlugin = &ConnectPlugin{}

// From oauthconnect.Plugin.
func (p *ConnectPlugin) Name() string {
	return PluginName
}

// From oauthconnect.DependentPlugin.
func (p *ConnectPlugin) Deps() []string {
	return []string{storage.PluginName, settings.PluginName}
}

// From oauthconnect.OptionalDependentPlugin.
func (p *ConnectPlugin) OptDeps() []string {
	return []string{eventbus.PluginName}
}

// From oauthconnect.InitializablePlugin.
func (p *ConnectPlugin) Init(ctx context.Context, r *oauthconnect.Registry) error {
	if p.host == nil {
		logging.Warn(ctx, "connect: no host configured, plugin running in degraded mode")
		return nil
	}

	sp, ok := r.Get(storage.PluginName).(*storage.StoragePlugin)
	if !ok {
		return errors.New("connect: storage plugin not registered")
	}
	st, ok := r.Get(settings.PluginName).(settings.Settings)
	if !ok {
		return errors.New("connect: settings plugin not registered")
	}

	if err := sp.InitModel(Token{}); err != nil {
		return errors.Wrap(err, 0)
	}
	if err := sp.InitModel(Binding{}); err != nil {
		return errors.Wrap(err, 0)
	}

	storeOpts := []StoreOption{}
	if bus, ok := r.Get(eventbus.PluginName).(eventbus.EventBus); ok {
		storeOpts = append(storeOpts, WithEventBus(bus))
	}

	store := NewStore(st, sp.Store, p.host, storeOpts...)
	p.client = NewClient(store, p.host, p.redirectURL, p.clientOpts...)
	return nil
}

// Client returns the constructed client, or nil when the plugin is degraded.
func (p *ConnectPlugin) Client() *Client {
	return p.client
}
