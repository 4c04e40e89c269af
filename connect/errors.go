package connect

import (
	"net/http"

	"github.com/dpup/oauthconnect/errors"
	"google.golang.org/grpc/codes"
)

var (
	// ErrUnlinkedIdentity is returned by Authorize when the external identity
	// has no binding and there is no signed-in session to link it to.
	ErrUnlinkedIdentity = errors.NewC("connect: external identity is not linked to a local user", codes.NotFound).
				WithPublicMessage("This account is not linked to a user on this site.")

	// ErrInvalidUser is returned by Authorize when the resolved user fails
	// the host's user check or conflicts with the signed-in session.
	ErrInvalidUser = errors.NewC("connect: resolved user is not valid on this site", codes.PermissionDenied).
			WithPublicMessage("This user is not registered on this site, please contact the site administrator.")

	// ErrConfigIncomplete is returned when a provider is used before its
	// consumer credentials have been saved.
	ErrConfigIncomplete = errors.NewC("connect: provider credentials are not configured", codes.FailedPrecondition).
				WithHTTPStatusCode(http.StatusConflict)

	// ErrUnknownProvider is returned for provider ids outside the compiled
	// set.
	ErrUnknownProvider = errors.NewC("connect: unknown provider", codes.InvalidArgument)
)
