package connect

import (
	"context"
	"testing"
	"time"

	"github.com/dpup/oauthconnect/eventbus"
	"github.com/dpup/oauthconnect/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.SetConsumer(ctx, GitHub, "key", "secret", ""))

	// Cached read.
	c := env.store.Consumer(ctx, GitHub)
	assert.Equal(t, Consumer{Provider: GitHub, Key: "key", Secret: "secret"}, c)

	// Cold read from persistence.
	c = env.freshStore().Consumer(ctx, GitHub)
	assert.Equal(t, Consumer{Provider: GitHub, Key: "key", Secret: "secret"}, c)
	assert.True(t, c.Configured())
}

func TestConsumerUnconfiguredDefault(t *testing.T) {
	env := newTestEnv(t)
	c := env.store.Consumer(context.Background(), Slack)
	assert.Equal(t, Consumer{Provider: Slack}, c)
	assert.False(t, c.Configured())
}

func TestConsumerMalformedSetting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.settings.Put(ctx, "oauth2connect", "google_consumer", "{not json"))

	c := env.store.Consumer(ctx, Google)
	assert.Equal(t, Consumer{Provider: Google}, c)
}

func TestConsumerProviderMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A github record stored under google's setting is ignored.
	require.NoError(t, env.settings.Put(ctx, "oauth2connect", "google_consumer",
		`{"provider":"github","key":"k","secret":"s"}`))

	c := env.store.Consumer(ctx, Google)
	assert.Equal(t, Consumer{Provider: Google}, c)
}

func TestSetConsumerOverwrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.SetConsumer(ctx, Auth0, "k1", "s1", "a.auth0.com"))
	require.NoError(t, env.store.SetConsumer(ctx, Auth0, "k2", "s2", ""))

	c := env.freshStore().Consumer(ctx, Auth0)
	assert.Equal(t, Consumer{Provider: Auth0, Key: "k2", Secret: "s2"}, c)
}

func TestTokenReplaceNotMerge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	full := Token{AccessToken: "a1", RefreshToken: "r1", Extra: map[string]string{"scope": "email"}}
	require.NoError(t, env.store.SetToken(ctx, Google, "u1", full))

	require.NoError(t, env.store.SetToken(ctx, Google, "u1", Token{AccessToken: "a2"}))

	got := env.store.Token(ctx, Google, "u1")
	assert.Equal(t, "a2", got.AccessToken)
	assert.Empty(t, got.RefreshToken)
	assert.Empty(t, got.Extra)
}

func TestDelTokenIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.SetToken(ctx, Google, "u1", Token{AccessToken: "a"}))
	require.NoError(t, env.store.DelToken(ctx, Google, "u1"))
	require.NoError(t, env.store.DelToken(ctx, Google, "u1"))
	require.NoError(t, env.store.DelToken(ctx, Google, "never-existed"))
}

// countingStore records reads so tests can assert on storage IO.
type countingStore struct {
	storage.Store
	reads int
}

func (c *countingStore) Read(id string, model storage.Model) error {
	c.reads++
	return c.Store.Read(id, model)
}

func TestTokenEmptyUserNoIO(t *testing.T) {
	env := newTestEnv(t)
	counter := &countingStore{Store: env.storage}
	store := NewStore(env.settings, counter, env.host)

	got := store.Token(context.Background(), Google, "")
	assert.True(t, got.Empty())
	assert.Empty(t, got.UserID)
	assert.Equal(t, 0, counter.reads)
}

func TestTokenPlaceholderForAuthenticatedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.host.current = "u1"

	got := env.store.Token(ctx, Google, "u1")
	assert.True(t, got.Empty())
	assert.Equal(t, "u1", got.UserID)

	// The placeholder was persisted.
	var stored Token
	require.NoError(t, env.storage.Read(Token{Provider: Google, UserID: "u1"}.PK(), &stored))
	assert.Equal(t, got, stored)
}

func TestTokenAbsentUnauthenticated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	got := env.store.Token(ctx, Google, "u1")
	assert.True(t, got.Empty())

	// Nothing was persisted.
	err := env.storage.Read(Token{Provider: Google, UserID: "u1"}.PK(), &Token{})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserSyntheticBinding(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b := env.store.User(ctx, GitHub, "gh-123")
	assert.False(t, b.Linked())
	assert.Equal(t, GitHub, b.Provider)
	assert.Equal(t, "gh-123", b.UID)

	env.host.current = "u1"
	b = env.store.User(ctx, GitHub, "gh-123")
	assert.True(t, b.Linked())
	assert.Equal(t, "u1", b.UserID)
}

func TestSetUserReplacesBindings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.SetUser(ctx, GitHub, Binding{UID: "old-uid"}, "u1"))
	require.NoError(t, env.store.SetUser(ctx, GitHub, Binding{UID: "new-uid"}, "u1"))

	var bindings []Binding
	require.NoError(t, env.storage.List(&bindings, Binding{Provider: GitHub, UserID: "u1"}))
	require.Len(t, bindings, 1)
	assert.Equal(t, "new-uid", bindings[0].UID)
}

func TestDelUserRemovesAllBindings(t *testing.T) {
	bus := eventbus.NewBus()
	env := newTestEnv(t, WithEventBus(bus))
	ctx := context.Background()

	var events []*eventbus.Message
	bus.Subscribe(UnlinkTopic, func(ctx context.Context, m *eventbus.Message) error {
		events = append(events, m)
		return nil
	})

	// Two historical uids for the same user.
	require.NoError(t, env.storage.Create(
		Binding{Provider: GitHub, UID: "uid-1", UserID: "u1"},
		Binding{Provider: GitHub, UID: "uid-2", UserID: "u1"},
		Binding{Provider: Google, UID: "g-1", UserID: "u1"},
	))

	invalidationsBefore := env.host.invalidations
	require.NoError(t, env.store.DelUser(ctx, GitHub, "u1"))
	require.NoError(t, bus.Wait(ctx, time.Second))

	var bindings []Binding
	require.NoError(t, env.storage.List(&bindings, Binding{Provider: GitHub, UserID: "u1"}))
	assert.Empty(t, bindings)

	// Other providers are untouched.
	require.NoError(t, env.storage.List(&bindings, Binding{Provider: Google, UserID: "u1"}))
	assert.Len(t, bindings, 1)

	assert.Equal(t, invalidationsBefore+1, env.host.invalidations)
	require.Len(t, events, 1)
	assert.Equal(t, UnlinkEvent{Provider: GitHub, UserID: "u1"}, events[0].Data)
}

func TestDisabledProvidersRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.Empty(t, env.store.DisabledProviders(ctx))

	require.NoError(t, env.store.SetDisabledProviders(ctx, []ProviderID{GitHub, Slack}))
	assert.Equal(t, []ProviderID{GitHub, Slack}, env.store.DisabledProviders(ctx))
}

func TestDisabledProvidersMalformed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.settings.Put(ctx, "oauth2connect", "disabled_providers", "not-json"))
	assert.Empty(t, env.store.DisabledProviders(ctx))
}
