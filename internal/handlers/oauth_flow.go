package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"betledger/internal/oauth"
	"betledger/internal/security"
)

const oauthStateTTL = 10 * time.Minute

// StartOAuth redirects to the provider's consent page
func (h *AuthHandler) StartOAuth(w http.ResponseWriter, r *http.Request) {
	providerKey := r.PathValue("provider")
	provider, ok := h.providers.Get(providerKey)
	if !ok {
		h.redirectLoginError(w, r, oauth.Label(providerKey)+" sign-in is not configured")
		return
	}

	state := security.GenerateState()
	http.SetCookie(w, security.CreateTempCookie(r, OAuthStateCookieName, state, oauthStateTTL))
	http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusFound)
}

// OAuthCallback completes the provider flow and hands a session token to the front end
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	providerKey := r.PathValue("provider")
	provider, ok := h.providers.Get(providerKey)
	if !ok {
		h.redirectLoginError(w, r, oauth.Label(providerKey)+" sign-in is not configured")
		return
	}

	query := r.URL.Query()
	stateCookie, err := r.Cookie(OAuthStateCookieName)
	http.SetCookie(w, security.CreateDeleteCookie(r, OAuthStateCookieName))
	if err != nil || stateCookie.Value == "" || stateCookie.Value != query.Get("state") {
		h.redirectLoginError(w, r, MsgOAuthInvalidState)
		return
	}

	if providerErr := query.Get("error"); providerErr != "" {
		h.log.Info("provider declined sign-in", "provider", providerKey, "reason", providerErr)
		h.redirectLoginError(w, r, MsgOAuthFailed)
		return
	}
	code := query.Get("code")
	if code == "" {
		h.redirectLoginError(w, r, MsgOAuthFailed)
		return
	}

	profile, err := provider.Exchange(r.Context(), code)
	if err != nil {
		h.log.Warn("oauth exchange failed", "provider", providerKey, "error", err)
		msg := MsgOAuthFailed
		if errors.Is(err, oauth.ErrProfileUnavailable) {
			msg = "Failed to fetch " + provider.Label() + " profile"
		}
		h.redirectLoginError(w, r, msg)
		return
	}

	user, err := h.linker.Link(r.Context(), profile)
	if err != nil {
		h.log.Error("failed to link federated identity", "provider", providerKey, "error", err)
		h.redirectLoginError(w, r, MsgOAuthFailed)
		return
	}

	result, err := h.authService.IssueFor(user)
	if err != nil {
		h.log.Error("failed to issue token", "user_id", user.ID, "error", err)
		h.redirectLoginError(w, r, MsgOAuthFailed)
		return
	}

	http.Redirect(w, r, h.frontendURL+"/auth/callback?token="+url.QueryEscape(result.Token), http.StatusFound)
}

func (h *AuthHandler) redirectLoginError(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, h.frontendURL+"/login?error="+url.QueryEscape(message), http.StatusFound)
}
