package connect

import (
	"context"
	"testing"
	"time"

	"github.com/dpup/oauthconnect"
	"github.com/dpup/oauthconnect/settings"
	"github.com/dpup/oauthconnect/storage"
	"github.com/dpup/oauthconnect/storage/memorystore"
	"github.com/stretchr/testify/require"
)

// fakeHost is a minimal Host for tests.
type fakeHost struct {
	users         map[string]bool
	current       string
	invalidations int
}

func (h *fakeHost) CheckUser(ctx context.Context, userID string) bool {
	return h.users[userID]
}

func (h *fakeHost) CurrentUserID(ctx context.Context) string {
	return h.current
}

func (h *fakeHost) InvalidateRelatedCaches(ctx context.Context) {
	h.invalidations++
}

type testEnv struct {
	settings settings.Settings
	storage  storage.Store
	host     *fakeHost
	store    *Store
	client   *Client
}

func newTestEnv(t *testing.T, storeOpts ...StoreOption) *testEnv {
	t.Helper()

	r := &oauthconnect.Registry{}
	mem := memorystore.New()
	r.Register(storage.Plugin(mem))
	sp := settings.Plugin()
	r.Register(sp)
	require.NoError(t, r.Init(context.Background()))

	host := &fakeHost{users: map[string]bool{"u1": true}}
	store := NewStore(sp, mem, host, storeOpts...)
	client := NewClient(store, host, "https://blog.example.com/oauth2/callback",
		WithSigningKey([]byte("test-signing-key")),
		WithExpiration(time.Hour))

	return &testEnv{settings: sp, storage: mem, host: host, store: store, client: client}
}

// freshStore returns a second store over the same persistence, with a cold
// consumer cache.
func (e *testEnv) freshStore() *Store {
	return NewStore(e.settings, e.storage, e.host)
}
