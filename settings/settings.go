// Package settings provides scoped, named string values persisted through the
// storage plugin. It is the facility a host CMS would back with its own
// settings tables; consumer credentials and the disabled provider list are
// stored here.
//
// Examples:
//
//	registry.Register(settings.Plugin())
//
//	s := registry.Get(settings.PluginName).(settings.Settings)
//	v, ok := s.Get(ctx, "oauth2connect", "disabled_providers")
package settings

import (
	"context"

	"github.com/dpup/oauthconnect"
	"github.com/dpup/oauthconnect/errors"
	"github.com/dpup/oauthconnect/logging"
	"github.com/dpup/oauthconnect/storage"
)

// PluginName can be used to query the settings plugin.
const PluginName = "settings"

// Settings reads and writes scoped named values. Writes are synchronous, a
// nil error means the value is durable.
type Settings interface {
	// Get returns the value for (scope, name). The second return is false if
	// no value has been stored.
	Get(ctx context.Context, scope, name string) (string, bool)

	// Put stores the value for (scope, name), overwriting any previous value.
	Put(ctx context.Context, scope, name, value string) error
}

// Setting is the storage model for a single scoped value.
type Setting struct {
	Scope string `json:"scope"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// From storage.Model.
func (s Setting) PK() string {
	return s.Scope + ":" + s.Name
}

// Plugin returns a settings plugin backed by the registered storage plugin.
func Plugin() *SettingsPlugin {
	return &SettingsPlugin{}
}

// SettingsPlugin implements Settings on top of storage.Store.
type SettingsPlugin struct {
	store storage.Store
}

var _ oauthconnect.Plugin = &SettingsPlugin{}
var _ Settings = &SettingsPlugin{}

// From oauthconnect.Plugin.
func (p *SettingsPlugin) Name() string {
	return PluginName
}

// From oauthconnect.DependentPlugin.
func (p *SettingsPlugin) Deps() []string {
	return []string{storage.PluginName}
}

// From oauthconnect.InitializablePlugin.
func (p *SettingsPlugin) Init(ctx context.Context, r *oauthconnect.Registry) error {
	sp, ok := r.Get(storage.PluginName).(*storage.StoragePlugin)
	if !ok {
		return errors.New("settings: storage plugin not registered")
	}
	if err := sp.InitModel(Setting{}); err != nil {
		return errors.Wrap(err, 0)
	}
	p.store = sp.Store
	return nil
}

// Get returns the stored value for (scope, name). Read failures other than
// not-found are logged and treated as absent.
func (p *SettingsPlugin) Get(ctx context.Context, scope, name string) (string, bool) {
	var s Setting
	err := p.store.Read(Setting{Scope: scope, Name: name}.PK(), &s)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logging.Warnw(ctx, "settings: failed to read setting",
				"scope", scope, "name", name, "error", err)
		}
		return "", false
	}
	return s.Value, true
}

// Put stores the value for (scope, name).
func (p *SettingsPlugin) Put(ctx context.Context, scope, name, value string) error {
	err := p.store.Upsert(Setting{Scope: scope, Name: name, Value: value})
	if err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}
