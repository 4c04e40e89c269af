package connect

import "context"

// Host is the narrow view of the embedding CMS that the connect plugin needs.
// Implementations should be cheap; CheckUser and CurrentUserID are called on
// every authorization decision.
type Host interface {
	// CheckUser reports whether the user id names a real, active local user.
	CheckUser(ctx context.Context, userID string) bool

	// CurrentUserID returns the user id of the current session, or "" when
	// the request is unauthenticated.
	CurrentUserID(ctx context.Context) string

	// InvalidateRelatedCaches tells the host that link state changed and any
	// derived caches (rendered widgets, user menus) should be dropped.
	InvalidateRelatedCaches(ctx context.Context)
}
