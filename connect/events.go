package connect

// Event topics published through the optional eventbus plugin.
const (
	LoginTopic  = "oauth2connect.login"
	UnlinkTopic = "oauth2connect.unlink"
)

// LoginEvent is published after a callback is authorized and a session is
// minted.
type LoginEvent struct {
	Provider ProviderID
	UserID   string
}

// UnlinkEvent is published after a user's provider bindings are removed.
type UnlinkEvent struct {
	Provider ProviderID
	UserID   string
}
