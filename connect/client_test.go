package connect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func providerIDs(ps []Provider) []ProviderID {
	ids := make([]ProviderID, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func TestFreshInstall(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// All five providers compiled in, none disabled, no consumers configured,
	// nothing offered.
	assert.Len(t, env.client.Providers(), 5)
	assert.Empty(t, env.client.DisabledProviders(ctx))
	for _, p := range env.client.Providers() {
		assert.False(t, env.store.Consumer(ctx, p.ID).Configured())
	}
	assert.Empty(t, env.client.Offered(ctx))
}

func TestOfferedRequiresBothGates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.SetConsumer(ctx, Google, "k", "s", ""))
	require.NoError(t, env.store.SetConsumer(ctx, GitHub, "k", "s", ""))

	assert.Equal(t, []ProviderID{Google, GitHub}, providerIDs(env.client.Offered(ctx)))

	// Enabled but unconfigured providers are never offered.
	assert.NotContains(t, providerIDs(env.client.Offered(ctx)), Slack)
}

func TestDisableHidesFromOffering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.SetConsumer(ctx, GitHub, "k", "s", ""))
	require.NoError(t, env.store.SetConsumer(ctx, Google, "k", "s", ""))

	require.NoError(t, env.client.Disable(ctx, GitHub))
	assert.Equal(t, []ProviderID{Google}, providerIDs(env.client.Offered(ctx)))
	assert.True(t, env.client.Disabled(ctx, GitHub))

	// Credentials survive the disable and are still retrievable.
	assert.True(t, env.store.Consumer(ctx, GitHub).Configured())

	// Re-enable brings the provider back with its stored credentials.
	require.NoError(t, env.client.Enable(ctx, GitHub))
	assert.Equal(t, []ProviderID{Google, GitHub}, providerIDs(env.client.Offered(ctx)))
}

func TestDisableIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.client.Disable(ctx, Slack))
	require.NoError(t, env.client.Disable(ctx, Slack))
	assert.Equal(t, []ProviderID{Slack}, env.client.DisabledProviders(ctx))

	require.NoError(t, env.client.Enable(ctx, Slack))
	require.NoError(t, env.client.Enable(ctx, Slack))
	assert.Empty(t, env.client.DisabledProviders(ctx))
}

func TestOAuthConfig(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("Unconfigured", func(t *testing.T) {
		_, err := env.client.OAuthConfig(ctx, Google)
		assert.ErrorIs(t, err, ErrConfigIncomplete)
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		_, err := env.client.OAuthConfig(ctx, "myspace")
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("Configured", func(t *testing.T) {
		require.NoError(t, env.store.SetConsumer(ctx, Google, "id", "secret", ""))
		cfg, err := env.client.OAuthConfig(ctx, Google)
		require.NoError(t, err)
		assert.Equal(t, "id", cfg.ClientID)
		assert.Equal(t, "https://blog.example.com/oauth2/callback", cfg.RedirectURL)
	})
}

func TestAuthCodeURL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.SetConsumer(ctx, GitHub, "id", "secret", ""))

	url, state, err := env.client.AuthCodeURL(ctx, GitHub)
	require.NoError(t, err)
	assert.NotEmpty(t, state)
	assert.Contains(t, url, "github.com")
	assert.Contains(t, url, "state="+state)
	assert.Contains(t, url, "client_id=id")
}
