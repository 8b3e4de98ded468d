// Package session maps browser cookies to cart session ids.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Config configures the session cookie.
type Config struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Cookies issues and reads the opaque session cookie.
type Cookies struct {
	cfg Config
}

// NewCookies returns Cookies for cfg. The cookie name defaults to "sid".
func NewCookies(cfg Config) *Cookies {
	if cfg.Name == "" {
		cfg.Name = "sid"
	}
	return &Cookies{cfg: cfg}
}

// ID returns the session id carried by r. Malformed ids are ignored.
func (c *Cookies) ID(r *http.Request) (string, bool) {
	ck, err := r.Cookie(c.cfg.Name)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(ck.Value); err != nil {
		return "", false
	}
	return ck.Value, true
}

// Ensure returns the request's session id, issuing a new cookie when the
// request has none. The cookie lifetime is refreshed on every call.
func (c *Cookies) Ensure(w http.ResponseWriter, r *http.Request) string {
	id, ok := c.ID(r)
	if !ok {
		id = uuid.NewString()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.Name,
		Value:    id,
		Path:     "/",
		MaxAge:   int(c.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
