// Package authz guards the diagnostic HTTP surface with a single static
// API key when one is configured. This daemon has exactly one caller class
// (its own operators probing /healthz, /readyz, /debugz), so the teacher's
// multi-tenant API key store and role set are not needed here.
package authz

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
)

// HeaderName is the header carrying the diagnostic API key.
const HeaderName = "X-API-Key"

// Guard validates a single static key via constant-time comparison of its
// SHA-256 hash, so the configured key is never held in a form a timing
// attack or an accidental log line can recover character-by-character.
type Guard struct {
	keyHash [32]byte
}

// NewGuard creates a Guard for the given plaintext key. An empty key means
// no authentication is required; callers should check this and skip
// wrapping handlers entirely rather than constructing a Guard.
func NewGuard(key string) *Guard {
	return &Guard{keyHash: sha256.Sum256([]byte(key))}
}

// Allow reports whether the supplied key matches.
func (g *Guard) Allow(suppliedKey string) bool {
	h := sha256.Sum256([]byte(suppliedKey))
	return subtle.ConstantTimeCompare(h[:], g.keyHash[:]) == 1
}

// Wrap returns an http.Handler that rejects requests lacking a matching
// X-API-Key header with 401, and otherwise delegates to next.
func (g *Guard) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Allow(r.Header.Get(HeaderName)) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
