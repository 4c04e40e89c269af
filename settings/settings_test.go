package settings

import (
	"context"
	"testing"

	"github.com/dpup/oauthconnect"
	"github.com/dpup/oauthconnect/storage"
	"github.com/dpup/oauthconnect/storage/memorystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSettings(t *testing.T) *SettingsPlugin {
	r := &oauthconnect.Registry{}
	r.Register(storage.Plugin(memorystore.New()))
	p := Plugin()
	r.Register(p)
	require.NoError(t, r.Init(context.Background()))
	return p
}

func TestSettingPK(t *testing.T) {
	s := Setting{Scope: "oauth2connect", Name: "disabled_providers"}
	assert.Equal(t, "oauth2connect:disabled_providers", s.PK())
}

func TestGetMissing(t *testing.T) {
	p := newTestSettings(t)
	v, ok := p.Get(context.Background(), "oauth2connect", "nope")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestPutGetRoundTrip(t *testing.T) {
	p := newTestSettings(t)
	ctx := context.Background()

	require.NoError(t, p.Put(ctx, "oauth2connect", "github_consumer", `{"provider":"github"}`))

	v, ok := p.Get(ctx, "oauth2connect", "github_consumer")
	assert.True(t, ok)
	assert.Equal(t, `{"provider":"github"}`, v)
}

func TestPutOverwrites(t *testing.T) {
	p := newTestSettings(t)
	ctx := context.Background()

	require.NoError(t, p.Put(ctx, "s", "n", "one"))
	require.NoError(t, p.Put(ctx, "s", "n", "two"))

	v, ok := p.Get(ctx, "s", "n")
	assert.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestScopesAreIsolated(t *testing.T) {
	p := newTestSettings(t)
	ctx := context.Background()

	require.NoError(t, p.Put(ctx, "a", "n", "one"))
	require.NoError(t, p.Put(ctx, "b", "n", "two"))

	v, _ := p.Get(ctx, "a", "n")
	assert.Equal(t, "one", v)
	v, _ = p.Get(ctx, "b", "n")
	assert.Equal(t, "two", v)
}

func TestInitWithoutStorage(t *testing.T) {
	r := &oauthconnect.Registry{}
	r.Register(Plugin())
	err := r.Init(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage")
}
