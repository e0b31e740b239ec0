// Package credentials issues the bearer tokens and service API keys accepted
// by the HTTP middleware.
package credentials

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// apiKeyBytes gives a 64-character hex key.
const apiKeyBytes = 32

// IssueToken signs an HS256 token whose subject is the acting user.
func IssueToken(userID, secret, issuer string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user ID is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token lifetime must be positive")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// NewAPIKey returns a random service key and the bcrypt hash to configure
// as SERVICE_API_KEY_HASH. Only the hash should be stored.
func NewAPIKey() (key string, hash string, err error) {
	b := make([]byte, apiKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	key = hex.EncodeToString(b)

	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash api key: %w", err)
	}
	return key, string(h), nil
}

// VerifyAPIKey reports whether key matches the bcrypt hash.
func VerifyAPIKey(key, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
