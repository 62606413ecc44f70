package session

import (
	"net/http"
	"time"
)

const CookieName = "X-Session-Token"

func SessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
}

var ttl = 12 * time.Hour

// SetTTL overrides the session lifetime; called once at startup from config.
func SetTTL(d time.Duration) {
	if d > 0 {
		ttl = d
	}
}

func DefaultExpiry() time.Time {
	return time.Now().Add(ttl)
}
