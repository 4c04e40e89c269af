package connect

import (
	"context"
	"time"

	"github.com/dpup/oauthconnect/errors"
	"github.com/dpup/oauthconnect/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
)

// Callback carries the outcome of the host's code exchange with a provider:
// the external identity and the token the provider granted.
type Callback struct {
	Provider ProviderID
	UID      string
	Attrs    map[string]string
	Token    Token
}

// Session is the result of a successful authorization. Token is a signed JWT
// the host can hand to its own session layer.
type Session struct {
	UserID string
	Token  string
	Expiry time.Time
}

// Authorize decides whether a provider callback signs the visitor in. The
// external identity is resolved to a local user through its binding or the
// current session; the user is validated against the host; on success the
// provider token and binding are persisted and a session token is minted.
//
// Rejections are typed errors carrying a user-visible message. A provider's
// error hook, if installed, may rewrite that message.
func (c *Client) Authorize(ctx context.Context, cb Callback) (Session, error) {
	if _, ok := LookupProvider(cb.Provider); !ok {
		return Session{}, ErrUnknownProvider
	}

	binding := c.store.User(ctx, cb.Provider, cb.UID)
	if !binding.Linked() {
		return Session{}, c.decorate(cb.Provider, ErrUnlinkedIdentity)
	}

	if current := c.host.CurrentUserID(ctx); current != "" && current != binding.UserID {
		return Session{}, c.decorate(cb.Provider, ErrInvalidUser)
	}
	if !c.host.CheckUser(ctx, binding.UserID) {
		return Session{}, c.decorate(cb.Provider, ErrInvalidUser)
	}

	// Only new identities are persisted; a repeat login through a stored
	// binding leaves it, and its attributes, untouched.
	if !c.store.HasUser(ctx, cb.Provider, cb.UID) {
		b := Binding{Provider: cb.Provider, UID: cb.UID, Attrs: cb.Attrs}
		if err := c.store.SetUser(ctx, cb.Provider, b, binding.UserID); err != nil {
			return Session{}, err
		}
	}
	if err := c.store.SetToken(ctx, cb.Provider, binding.UserID, cb.Token); err != nil {
		return Session{}, err
	}

	session, err := c.mintSession(binding.UserID)
	if err != nil {
		return Session{}, err
	}

	logging.Infow(ctx, "connect: authorized callback",
		"provider", cb.Provider, "user_id", binding.UserID)
	c.store.publish(ctx, LoginTopic, LoginEvent{Provider: cb.Provider, UserID: binding.UserID})
	return session, nil
}

func (c *Client) mintSession(userID string) (Session, error) {
	if len(c.signingKey) == 0 {
		return Session{}, errors.NewC("connect: signing key required to mint session tokens", codes.FailedPrecondition)
	}

	now := time.Now()
	expiry := now.Add(c.expiration)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.signingKey)
	if err != nil {
		return Session{}, errors.Wrap(err, 0)
	}
	return Session{UserID: userID, Token: signed, Expiry: expiry}, nil
}

// decorate applies the provider's error hook, if any, to rewrite the public
// message of a rejection.
func (c *Client) decorate(provider ProviderID, err error) error {
	if hook := c.errorHooks[provider]; hook != nil {
		if msg := hook(err); msg != "" {
			// Mark copies the error so the shared sentinel is not mutated.
			return errors.Mark(err, 1).WithPublicMessage(msg)
		}
	}
	return err
}
