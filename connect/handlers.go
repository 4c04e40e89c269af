package connect

import (
	"encoding/json"
	"net/http"

	"github.com/dpup/oauthconnect/errors"
	"github.com/dpup/oauthconnect/logging"
	"google.golang.org/grpc/codes"
)

// jsonHandler is a plain HTTP handler that returns a value to encode, or an
// error. Errors are rendered as a JSON body carrying only the public
// message; internals stay in the logs.
type jsonHandler func(req *http.Request) (any, error)

type errorResponse struct {
	Error string `json:"error"`
}

func wrapJSONHandler(fn jsonHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := fn(r)
		if err != nil {
			logging.Warnw(r.Context(), "connect: handler error", "error", err,
				"req.method", r.Method, "req.url", r.URL.String())
			writeJSON(w, errors.HTTPStatusCode(err), errorResponse{Error: errors.PublicMessage(err)})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "error encoding response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

// Link describes one offered provider as rendered by a login widget.
type Link struct {
	ID   ProviderID `json:"id"`
	Name string     `json:"name"`
	Logo string     `json:"logo"`
	URL  string     `json:"url"`
}

// LinksHandler returns a handler that lists the offered providers with their
// consent URLs, for rendering sign-in links to unauthenticated visitors. A
// degraded plugin yields an empty list.
func LinksHandler(p *ConnectPlugin) http.Handler {
	return wrapJSONHandler(func(req *http.Request) (any, error) {
		links := []Link{}
		client := p.Client()
		if client == nil {
			return links, nil
		}

		ctx := req.Context()
		for _, provider := range client.Offered(ctx) {
			url, _, err := client.AuthCodeURL(ctx, provider.ID)
			if err != nil {
				// Offering raced with a credential change; skip the entry.
				logging.Warnw(ctx, "connect: skipping provider link",
					"provider", provider.ID, "error", err)
				continue
			}
			links = append(links, Link{
				ID:   provider.ID,
				Name: provider.Name,
				Logo: provider.Logo,
				URL:  url,
			})
		}
		return links, nil
	})
}

// ProfileLink describes one offered provider as rendered on an authenticated
// user's profile page.
type ProfileLink struct {
	ID     ProviderID `json:"id"`
	Name   string     `json:"name"`
	Logo   string     `json:"logo"`
	Linked bool       `json:"linked"`
	URL    string     `json:"url,omitempty"`
}

// ProfileHandler returns a handler for the signed-in profile surface. GET
// lists offered providers with the user's link state; POST with
// provider=<id>&action=unlink removes the user's binding and token for that
// provider.
func ProfileHandler(p *ConnectPlugin) http.Handler {
	return wrapJSONHandler(func(req *http.Request) (any, error) {
		client := p.Client()
		if client == nil {
			return []ProfileLink{}, nil
		}

		ctx := req.Context()
		userID := client.host.CurrentUserID(ctx)
		if userID == "" {
			return nil, errors.NewC("connect: sign in required", codes.Unauthenticated).
				WithPublicMessage("You need to be signed in to manage linked accounts.")
		}

		if req.Method == http.MethodPost {
			return handleProfileAction(req, client, userID)
		}

		links := []ProfileLink{}
		for _, provider := range client.Offered(ctx) {
			link := ProfileLink{
				ID:     provider.ID,
				Name:   provider.Name,
				Logo:   provider.Logo,
				Linked: !client.store.Token(ctx, provider.ID, userID).Empty(),
			}
			if !link.Linked {
				if url, _, err := client.AuthCodeURL(ctx, provider.ID); err == nil {
					link.URL = url
				}
			}
			links = append(links, link)
		}
		return links, nil
	})
}

func handleProfileAction(req *http.Request, client *Client, userID string) (any, error) {
	ctx := req.Context()
	provider := ProviderID(req.FormValue("provider"))
	if _, ok := LookupProvider(provider); !ok {
		return nil, ErrUnknownProvider
	}

	switch req.FormValue("action") {
	case "unlink":
		if err := client.store.DelToken(ctx, provider, userID); err != nil {
			return nil, err
		}
		if err := client.store.DelUser(ctx, provider, userID); err != nil {
			return nil, err
		}
		return map[string]string{"status": "unlinked"}, nil
	default:
		return nil, errors.NewC("connect: unknown profile action", codes.InvalidArgument)
	}
}
