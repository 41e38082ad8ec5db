package security

import (
	"golang.org/x/crypto/bcrypt"
)

// OAuthPasswordSentinel is stored as the password hash of accounts bound to a
// federated provider. It is not a valid bcrypt hash, so no password matches it.
const OAuthPasswordSentinel = "!oauth-linked"

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash
func CheckPassword(password, hash string) bool {
	if hash == "" || hash == OAuthPasswordSentinel {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash is compared against when no account matched, so a lookup miss
// costs about the same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)

// BurnPasswordCheck performs a throwaway bcrypt comparison.
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
