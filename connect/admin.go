package connect

import (
	"net/http"
	"net/url"

	"github.com/dpup/oauthconnect/errors"
	"google.golang.org/grpc/codes"
)

// ProviderState is the admin view of one provider's configuration.
type ProviderState struct {
	ID          ProviderID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ConsoleURL  string     `json:"consoleUrl"`
	Enabled     bool       `json:"enabled"`
	Configured  bool       `json:"configured"`
	Key         string     `json:"key,omitempty"`
	Domain      string     `json:"domain,omitempty"`
}

// AdminHandler returns the administration surface. GET lists every compiled
// provider with its enabled and configured state; secrets are never echoed
// back. POST takes provider=<id> and action=save|enable|disable, applies the
// change, and redirects back with a notice query parameter.
//
// An enabled but unconfigured provider is a normal state: it shows as
// Configured=false and is simply not offered until credentials are saved.
func AdminHandler(p *ConnectPlugin) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := p.Client()

		switch r.Method {
		case http.MethodGet:
			states := []ProviderState{}
			if client != nil {
				ctx := r.Context()
				for _, provider := range client.Providers() {
					consumer := client.store.Consumer(ctx, provider.ID)
					states = append(states, ProviderState{
						ID:          provider.ID,
						Name:        provider.Name,
						Description: provider.Description,
						ConsoleURL:  provider.ConsoleURL,
						Enabled:     !client.Disabled(ctx, provider.ID),
						Configured:  consumer.Configured(),
						Key:         consumer.Key,
						Domain:      consumer.Domain,
					})
				}
			}
			writeJSON(w, http.StatusOK, states)

		case http.MethodPost:
			if client == nil {
				writeJSON(w, http.StatusServiceUnavailable,
					errorResponse{Error: "Sign in with external accounts is not available."})
				return
			}
			notice, err := handleAdminAction(r, client)
			if err != nil {
				writeJSON(w, errors.HTTPStatusCode(err), errorResponse{Error: errors.PublicMessage(err)})
				return
			}
			redirect := r.URL.Path + "?notice=" + url.QueryEscape(notice)
			http.Redirect(w, r, redirect, http.StatusSeeOther)

		default:
			w.Header().Set("Allow", "GET, POST")
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func handleAdminAction(r *http.Request, client *Client) (string, error) {
	ctx := r.Context()
	provider := ProviderID(r.FormValue("provider"))
	if _, ok := LookupProvider(provider); !ok {
		return "", ErrUnknownProvider
	}

	switch r.FormValue("action") {
	case "save":
		err := client.store.SetConsumer(ctx, provider,
			r.FormValue("key"), r.FormValue("secret"), r.FormValue("domain"))
		if err != nil {
			return "", err
		}
		return "saved", nil
	case "enable":
		if err := client.Enable(ctx, provider); err != nil {
			return "", err
		}
		return "enabled", nil
	case "disable":
		if err := client.Disable(ctx, provider); err != nil {
			return "", err
		}
		return "disabled", nil
	default:
		return "", errors.NewC("connect: unknown admin action", codes.InvalidArgument)
	}
}
