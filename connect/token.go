package connect

import (
	"time"

	"golang.org/x/oauth2"
)

// Token is the stored form of a provider access grant for one local user.
// Tokens are replaced whole on write, never merged.
type Token struct {
	Provider     ProviderID        `json:"provider"`
	UserID       string            `json:"user_id"`
	AccessToken  string            `json:"access_token,omitempty"`
	RefreshToken string            `json:"refresh_token,omitempty"`
	Expiry       time.Time         `json:"expiry,omitzero"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// From storage.Model.
func (t Token) PK() string {
	return string(t.Provider) + "/" + t.UserID
}

// Empty reports whether the token carries no grant. Placeholder tokens
// written before the first exchange are empty.
func (t Token) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// OAuth2 converts the stored token for use with an x/oauth2 client.
func (t Token) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
}
