package auth

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the authentication service.
//
// Fields:
//   - SigningKey: HMAC secret for session tokens and the reset-token key
//     derivation (HS256). Loaded once at process start, never rotated at
//     runtime; rotating it out of band invalidates every session.
//   - SessionTokenTTL / ResetTokenTTL: token lifetimes.
//   - SMTP*: credentials for the outbound mail account.
//   - BaseURL: external origin used to build reset links.
type Config struct {
	ListenAddr      string
	BaseURL         string
	SigningKey      string
	SessionTokenTTL time.Duration
	ResetTokenTTL   time.Duration
	CookieName      string
	SecureCookies   bool
	CORSOrigin      string
	DatabaseDSN     string
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPassword    string
	MailFrom        string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the signing key default is insecure and must be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":5000"
	c.BaseURL = "http://localhost:5000"
	c.SigningKey = "dev-signing-key"
	c.SessionTokenTTL = DefaultSessionTTL
	c.ResetTokenTTL = DefaultResetTTL
	c.CookieName = DefaultCookieName
	c.SecureCookies = false
	c.CORSOrigin = "http://localhost:3000"
	c.DatabaseDSN = "file:shopstack.db?cache=shared&mode=rwc"
	c.SMTPHost = "smtp.gmail.com"
	c.SMTPPort = 587
}

// LoadConfig builds a Config by applying defaults and overlaying values
// from the environment.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()

	if port := os.Getenv("PORT"); port != "" {
		cfg.ListenAddr = ":" + port
	}
	cfg.BaseURL = getenv("BASE_URL", cfg.BaseURL)
	cfg.SigningKey = getenv("JWT_SECRET", cfg.SigningKey)
	cfg.CookieName = getenv("COOKIE_NAME", cfg.CookieName)
	cfg.SecureCookies = getenvBool("COOKIE_SECURE", cfg.SecureCookies)
	cfg.CORSOrigin = getenv("CORS_ORIGIN", cfg.CORSOrigin)
	cfg.DatabaseDSN = getenv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.SMTPHost = getenv("EMAIL_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getenvInt("EMAIL_PORT", cfg.SMTPPort)
	cfg.SMTPUser = getenv("EMAIL_USER", cfg.SMTPUser)
	cfg.SMTPPassword = getenv("EMAIL_PASS", cfg.SMTPPassword)
	cfg.MailFrom = getenv("MAIL_FROM", cfg.SMTPUser)
	cfg.SessionTokenTTL = getenvDuration("SESSION_TOKEN_TTL", cfg.SessionTokenTTL)
	cfg.ResetTokenTTL = getenvDuration("RESET_TOKEN_TTL", cfg.ResetTokenTTL)

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return parsed
}
