package middleware

import (
	"crypto/subtle"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"logoobjects/internal/core/apperror"
)

// HeaderAPIKey carries the gateway API key.
const HeaderAPIKey = "X-API-Key"

// APIKey rejects requests whose X-API-Key does not match the bcrypt hash.
// An empty hash disables the check.
func APIKey(hash string) gin.HandlerFunc {
	if hash == "" {
		return func(c *gin.Context) { c.Next() }
	}

	// Remember the last verified key so bcrypt runs once per key.
	var (
		mu       sync.RWMutex
		verified []byte
	)
	matches := func(key []byte) bool {
		mu.RLock()
		known := verified
		mu.RUnlock()
		if known != nil && subtle.ConstantTimeCompare(known, key) == 1 {
			return true
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), key) != nil {
			return false
		}
		mu.Lock()
		verified = key
		mu.Unlock()
		return true
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderAPIKey)
		if key == "" {
			abortUnauthorized(c, "missing "+HeaderAPIKey+" header")
			return
		}
		if !matches([]byte(key)) {
			abortUnauthorized(c, "invalid API key")
			return
		}
		c.Next()
	}
}

// HashAPIKey returns the bcrypt hash to configure for key.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
