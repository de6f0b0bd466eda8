package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultCookieName is the cookie carrying the session token.
const DefaultCookieName = "token"

// CookieTransport moves the session token between server and client as a
// protected cookie. Clearing the cookie only instructs the client to drop
// it; the token itself stays cryptographically valid until expiry.
type CookieTransport struct {
	name   string
	secure bool
	maxAge time.Duration
}

// NewCookieTransport builds the transport from config. Secure should be on
// in any environment serving HTTPS.
func NewCookieTransport(cfg *Config) *CookieTransport {
	name := cfg.CookieName
	if name == "" {
		name = DefaultCookieName
	}

	maxAge := cfg.SessionTokenTTL
	if maxAge <= 0 {
		maxAge = DefaultSessionTTL
	}

	return &CookieTransport{
		name:   name,
		secure: cfg.SecureCookies,
		maxAge: maxAge,
	}
}

// Name returns the cookie name in use.
func (t *CookieTransport) Name() string {
	return t.name
}

// Attach sets the session cookie on the response.
func (t *CookieTransport) Attach(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     t.name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(t.maxAge.Seconds()),
		Expires:  time.Now().Add(t.maxAge),
		HTTPOnly: true,
		Secure:   t.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// Clear tells the client to discard the session cookie.
func (t *CookieTransport) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     t.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour * 24 * 365),
		HTTPOnly: true,
		Secure:   t.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
