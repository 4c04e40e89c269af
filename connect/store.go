package connect

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dpup/oauthconnect/errors"
	"github.com/dpup/oauthconnect/eventbus"
	"github.com/dpup/oauthconnect/logging"
	"github.com/dpup/oauthconnect/settings"
	"github.com/dpup/oauthconnect/storage"
)

// Scope under which all connect settings are stored.
const settingsScope = "oauth2connect"

const (
	consumerSettingSuffix    = "_consumer"
	disabledProvidersSetting = "disabled_providers"
)

// StoreOption is a functional option for configuring the credential store.
type StoreOption func(*Store)

// WithEventBus makes the store publish unlink events when bindings are
// removed.
func WithEventBus(bus eventbus.EventBus) StoreOption {
	return func(s *Store) {
		s.bus = bus
	}
}

// NewStore returns a credential store backed by the given settings facility
// and storage engine.
func NewStore(st settings.Settings, db storage.Store, host Host, opts ...StoreOption) *Store {
	s := &Store{
		settings:  st,
		storage:   db,
		host:      host,
		consumers: map[ProviderID]Consumer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store persists consumer credentials, provider tokens, and identity
// bindings. Reads are lenient: malformed stored data degrades to empty
// values and is logged, it is never surfaced to callers.
type Store struct {
	settings settings.Settings
	storage  storage.Store
	host     Host
	bus      eventbus.EventBus

	mu        sync.RWMutex
	consumers map[ProviderID]Consumer
}

// Consumer returns the configured credentials for a provider. Results are
// cached for the lifetime of the store. A missing or malformed setting, or
// one recorded against a different provider, yields the default consumer for
// the requested provider.
func (s *Store) Consumer(ctx context.Context, provider ProviderID) Consumer {
	s.mu.RLock()
	if c, ok := s.consumers[provider]; ok {
		s.mu.RUnlock()
		return c
	}
	s.mu.RUnlock()

	c := Consumer{Provider: provider}
	if raw, ok := s.settings.Get(ctx, settingsScope, string(provider)+consumerSettingSuffix); ok {
		var decoded Consumer
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			logging.Warnw(ctx, "connect: ignoring malformed consumer config",
				"provider", provider, "error", err)
		} else if decoded.Provider != provider {
			logging.Warnw(ctx, "connect: ignoring consumer config recorded for another provider",
				"provider", provider, "recorded_provider", decoded.Provider)
		} else {
			c = decoded
		}
	}

	s.mu.Lock()
	s.consumers[provider] = c
	s.mu.Unlock()
	return c
}

// SetConsumer overwrites the stored credentials for a provider. The write is
// synchronous; the cache is only updated once the value is durable.
func (s *Store) SetConsumer(ctx context.Context, provider ProviderID, key, secret, domain string) error {
	c := Consumer{Provider: provider, Key: key, Secret: secret, Domain: domain}
	raw, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	if err := s.settings.Put(ctx, settingsScope, string(provider)+consumerSettingSuffix, string(raw)); err != nil {
		return err
	}

	s.mu.Lock()
	s.consumers[provider] = c
	s.mu.Unlock()
	return nil
}

// Token returns the stored token for (provider, user). An empty user id
// returns an empty token without touching storage. When no token exists and
// there is an authenticated session, an empty placeholder is persisted so
// that later writes follow the normal replace path.
func (s *Store) Token(ctx context.Context, provider ProviderID, userID string) Token {
	if userID == "" {
		return Token{Provider: provider}
	}

	var t Token
	err := s.storage.Read(Token{Provider: provider, UserID: userID}.PK(), &t)
	if err == nil {
		return t
	}

	if errors.Is(err, storage.ErrNotFound) {
		if s.host.CurrentUserID(ctx) != "" {
			t = Token{Provider: provider, UserID: userID}
			if err := s.SetToken(ctx, provider, userID, t); err != nil {
				logging.Warnw(ctx, "connect: failed to persist placeholder token",
					"provider", provider, "user_id", userID, "error", err)
			}
			return t
		}
		return Token{Provider: provider}
	}

	logging.Warnw(ctx, "connect: ignoring unreadable token",
		"provider", provider, "user_id", userID, "error", err)
	return Token{Provider: provider}
}

// SetToken replaces the stored token for (provider, user). The previous
// token is deleted first; fields absent from the new token are gone after
// the write.
func (s *Store) SetToken(ctx context.Context, provider ProviderID, userID string, t Token) error {
	t.Provider = provider
	t.UserID = userID
	if err := s.DelToken(ctx, provider, userID); err != nil {
		return err
	}
	if err := s.storage.Create(t); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

// DelToken removes the stored token for (provider, user). Deleting a token
// that does not exist is not an error.
func (s *Store) DelToken(ctx context.Context, provider ProviderID, userID string) error {
	err := s.storage.Delete(Token{Provider: provider, UserID: userID})
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return errors.Wrap(err, 0)
	}
	return nil
}

// HasUser reports whether a persisted binding exists for (provider, uid).
// Synthetic bindings returned by User are never persisted, so this
// distinguishes a stored link from a session-derived one.
func (s *Store) HasUser(ctx context.Context, provider ProviderID, uid string) bool {
	exists, err := s.storage.Exists(Binding{Provider: provider, UID: uid}.PK(), Binding{})
	if err != nil {
		logging.Warnw(ctx, "connect: failed to check for binding",
			"provider", provider, "uid", uid, "error", err)
		return false
	}
	return exists
}

// User returns the binding for an external identity. When none exists, a
// synthetic binding pointing at the current session user is returned; it is
// not persisted.
func (s *Store) User(ctx context.Context, provider ProviderID, uid string) Binding {
	var b Binding
	err := s.storage.Read(Binding{Provider: provider, UID: uid}.PK(), &b)
	if err == nil {
		return b
	}
	if !errors.Is(err, storage.ErrNotFound) {
		logging.Warnw(ctx, "connect: ignoring unreadable binding",
			"provider", provider, "uid", uid, "error", err)
	}
	return Binding{Provider: provider, UID: uid, UserID: s.host.CurrentUserID(ctx)}
}

// SetUser links an external identity to a local user. Existing bindings for
// (provider, user) are removed first, so a user holds at most one current
// uid per provider.
func (s *Store) SetUser(ctx context.Context, provider ProviderID, b Binding, userID string) error {
	b.Provider = provider
	b.UserID = userID
	if err := s.DelUser(ctx, provider, userID); err != nil {
		return err
	}
	if err := s.storage.Create(b); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

// DelUser removes all bindings between a provider and a local user, then
// invalidates host caches and broadcasts an unlink event.
func (s *Store) DelUser(ctx context.Context, provider ProviderID, userID string) error {
	var bindings []Binding
	if err := s.storage.List(&bindings, Binding{Provider: provider, UserID: userID}); err != nil {
		return errors.Wrap(err, 0)
	}
	for _, b := range bindings {
		if err := s.storage.Delete(b); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return errors.Wrap(err, 0)
		}
	}

	s.host.InvalidateRelatedCaches(ctx)
	s.publish(ctx, UnlinkTopic, UnlinkEvent{Provider: provider, UserID: userID})
	return nil
}

// DisabledProviders returns the persisted set of disabled provider ids. A
// missing or malformed setting yields the empty set.
func (s *Store) DisabledProviders(ctx context.Context) []ProviderID {
	raw, ok := s.settings.Get(ctx, settingsScope, disabledProvidersSetting)
	if !ok {
		return nil
	}
	var ids []ProviderID
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		logging.Warnw(ctx, "connect: ignoring malformed disabled provider list", "error", err)
		return nil
	}
	return ids
}

// SetDisabledProviders overwrites the persisted set of disabled provider
// ids.
func (s *Store) SetDisabledProviders(ctx context.Context, ids []ProviderID) error {
	if ids == nil {
		ids = []ProviderID{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	return s.settings.Put(ctx, settingsScope, disabledProvidersSetting, string(raw))
}

func (s *Store) publish(ctx context.Context, topic string, data any) {
	if s.bus != nil {
		s.bus.Publish(ctx, topic, data)
	}
}
