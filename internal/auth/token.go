package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 12

// TokenVerifier checks bearer tokens against either a plain secret or a
// bcrypt hash. The zero value accepts every request.
type TokenVerifier struct {
	token string
	hash  string
}

func NewTokenVerifier(token, hash string) TokenVerifier {
	return TokenVerifier{
		token: strings.TrimSpace(token),
		hash:  strings.TrimSpace(hash),
	}
}

// Enabled reports whether requests must present a token.
func (v TokenVerifier) Enabled() bool {
	return v.token != "" || v.hash != ""
}

// Verify reports whether presented matches the configured secret.
func (v TokenVerifier) Verify(presented string) bool {
	if !v.Enabled() {
		return true
	}
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return false
	}
	if v.token != "" {
		return subtle.ConstantTimeCompare([]byte(presented), []byte(v.token)) == 1
	}
	return VerifyToken(presented, v.hash)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// HashToken returns a bcrypt hash suitable for ACCESS_TOKEN_HASH.
func HashToken(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", fmt.Errorf("token is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(trimmed), DefaultBcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash token: %w", err)
	}
	return string(hash), nil
}

func VerifyToken(token, hash string) bool {
	trimmedToken := strings.TrimSpace(token)
	trimmedHash := strings.TrimSpace(hash)
	if trimmedToken == "" || trimmedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(trimmedHash), []byte(trimmedToken)) == nil
}
