package service

import "errors"

var (
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("not a member of this group")
	ErrNotFound              = errors.New("not found")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
	ErrWeakPassword          = errors.New("password too weak")
	ErrAlreadyMember         = errors.New("user already in group")
	ErrWinnerNotMember       = errors.New("winner is not a member of this group")
)

// NotFoundError names the resource that was missing. It matches ErrNotFound.
type NotFoundError struct {
	Resource string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Resource + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

var (
	ErrUserNotFound   = &NotFoundError{Resource: "User"}
	ErrGroupNotFound  = &NotFoundError{Resource: "Group"}
	ErrGameNotFound   = &NotFoundError{Resource: "Game"}
	ErrBetNotFound    = &NotFoundError{Resource: "Bet"}
	ErrWinNotFound    = &NotFoundError{Resource: "Win"}
	ErrMemberNotFound = &NotFoundError{Resource: "Member", Message: "User not in group"}
	// ErrInviteeNotFound is returned when adding a member whose email has no account.
	ErrInviteeNotFound = &NotFoundError{Resource: "User", Message: "User not found. They need to sign up first."}
)
