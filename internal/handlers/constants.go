package handlers

const (
	OAuthStateCookieName = "oauth_state"

	maxBodyBytes = 1 << 20

	MsgInvalidBody         = "Invalid request body"
	MsgInvalidID           = "Invalid id"
	MsgUnauthorized        = "Unauthorized"
	MsgForbidden           = "Not a member of this group"
	MsgNotFound            = "Not found"
	MsgInternalServerError = "Internal server error"

	MsgSignupFieldsRequired = "Email, password, and name are required"
	MsgLoginFieldsRequired  = "Email and password are required"
	MsgEmailRequired        = "Email is required"
	MsgEmailRegistered      = "Email already registered"
	MsgInvalidCredentials   = "Invalid email or password"
	MsgWeakPassword         = "Password must be at least 6 characters"
	MsgInvalidResetToken    = "Invalid or expired token"
	MsgResetLinkSent        = "If that email exists, a reset link was sent"
	MsgResetEmailFailed     = "Failed to send email"
	MsgPasswordUpdated      = "Password updated"
	MsgAlreadyMember        = "User already in group"
	MsgWinnerNotMember      = "Winner must be a member of the group"

	MsgOAuthFailed       = "Auth failed"
	MsgOAuthInvalidState = "Invalid OAuth state"
)
