// Package oauth adapts external identity providers to a single Provider interface.
package oauth

import (
	"context"
	"errors"
	"sort"
	"strings"

	"betledger/internal/config"
)

var ErrProfileUnavailable = errors.New("failed to fetch user profile")

// Profile is the identity a provider asserts after a successful exchange.
// Email may be empty when the user declined to share it.
type Profile struct {
	Provider string
	ID       string
	Email    string
	Name     string
}

// Provider is one external identity provider.
type Provider interface {
	Name() string
	Label() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (Profile, error)
}

// Registry holds the configured providers by name.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// NewRegistryFromConfig enables each provider whose client credentials are set.
// Callback URLs are {apiURL}/api/auth/{provider}/callback.
func NewRegistryFromConfig(cfg config.OAuthConfig, apiURL string) *Registry {
	var providers []Provider
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		providers = append(providers, NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, CallbackURL(apiURL, "google")))
	}
	if cfg.FacebookClientID != "" && cfg.FacebookClientSecret != "" {
		providers = append(providers, NewFacebookProvider(cfg.FacebookClientID, cfg.FacebookClientSecret, CallbackURL(apiURL, "facebook")))
	}
	return NewRegistry(providers...)
}

// Get returns the provider registered under name
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names lists the enabled providers in alphabetical order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CallbackURL builds the redirect URI registered with a provider.
func CallbackURL(apiURL, provider string) string {
	return strings.TrimRight(apiURL, "/") + "/api/auth/" + provider + "/callback"
}

// Label returns a display name for a provider key, configured or not.
func Label(name string) string {
	switch name {
	case "google":
		return "Google"
	case "facebook":
		return "Facebook"
	}
	if name == "" {
		return "OAuth"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
