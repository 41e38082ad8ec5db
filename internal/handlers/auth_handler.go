package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"betledger/internal/oauth"
	"betledger/internal/service"
)

// AuthHandler serves /api/auth
type AuthHandler struct {
	authService  *service.AuthService
	resetService *service.ResetService
	linker       *service.OAuthLinker
	providers    *oauth.Registry
	frontendURL  string
	log          *slog.Logger
}

func NewAuthHandler(
	authService *service.AuthService,
	resetService *service.ResetService,
	linker *service.OAuthLinker,
	providers *oauth.Registry,
	frontendURL string,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		resetService: resetService,
		linker:       linker,
		providers:    providers,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
		log:          logger,
	}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Signup creates a password account and returns {token, user}
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.log, err, "")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		respondWithError(w, h.log, http.StatusBadRequest, MsgSignupFieldsRequired, "", nil)
		return
	}

	result, err := h.authService.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondWithServiceError(w, h.log, err, "signup failed")
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// Login verifies a password and returns {token, user}
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.log, err, "")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondWithError(w, h.log, http.StatusBadRequest, MsgLoginFieldsRequired, "", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, h.log, err, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Me returns the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, h.log, http.StatusUnauthorized, MsgUnauthorized, "", nil)
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, h.log, err, "failed to load current user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ForgotPassword answers the same message whether or not the account exists.
// Only a failed delivery is reported.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.log, err, "")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		respondWithError(w, h.log, http.StatusBadRequest, MsgEmailRequired, "", nil)
		return
	}

	if err := h.resetService.RequestReset(r.Context(), req.Email); err != nil {
		respondWithError(w, h.log, http.StatusInternalServerError, MsgResetEmailFailed, "password reset request failed", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: MsgResetLinkSent})
}

// ResetPassword consumes a reset token and sets the new password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithServiceError(w, h.log, err, "")
		return
	}

	if err := h.resetService.CompleteReset(r.Context(), req.Token, req.Password); err != nil {
		respondWithServiceError(w, h.log, err, "password reset failed")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: MsgPasswordUpdated})
}
