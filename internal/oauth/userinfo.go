package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	facebookUserInfoURL = "https://graph.facebook.com/me?fields=id,name,email"

	exchangeTimeout = 10 * time.Second
)

// userInfoProvider runs the authorization code flow and then reads the
// profile from a JSON userinfo endpoint shaped {id, email, name}.
type userInfoProvider struct {
	name        string
	config      *oauth2.Config
	userInfoURL string
	authParams  map[string]string
}

// NewGoogleProvider configures Google sign-in
func NewGoogleProvider(clientID, clientSecret, redirectURL string) Provider {
	return &userInfoProvider{
		name: "google",
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
		authParams:  map[string]string{"prompt": "select_account"},
	}
}

// NewFacebookProvider configures Facebook login
func NewFacebookProvider(clientID, clientSecret, redirectURL string) Provider {
	return &userInfoProvider{
		name: "facebook",
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		},
		userInfoURL: facebookUserInfoURL,
	}
}

func (p *userInfoProvider) Name() string  { return p.name }
func (p *userInfoProvider) Label() string { return Label(p.name) }

func (p *userInfoProvider) AuthCodeURL(state string) string {
	options := []oauth2.AuthCodeOption{oauth2.AccessTypeOnline}
	for key, value := range p.authParams {
		options = append(options, oauth2.SetAuthURLParam(key, value))
	}
	return p.config.AuthCodeURL(state, options...)
}

func (p *userInfoProvider) Exchange(ctx context.Context, code string) (Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to exchange %s code: %w", p.name, err)
	}

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to build %s userinfo request: %w", p.name, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("%w from %s: %w", ErrProfileUnavailable, Label(p.name), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("%w from %s: status %d", ErrProfileUnavailable, Label(p.name), resp.StatusCode)
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Profile{}, fmt.Errorf("failed to parse %s user info: %w", Label(p.name), err)
	}
	if payload.ID == "" {
		return Profile{}, fmt.Errorf("%w from %s: missing id", ErrProfileUnavailable, Label(p.name))
	}

	return Profile{
		Provider: p.name,
		ID:       payload.ID,
		Email:    payload.Email,
		Name:     payload.Name,
	}, nil
}
