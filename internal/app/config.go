package app

import (
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the complete application configuration, loadable from
// environment variables (SPITBRAAI_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"HTTP listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL; empty serves the catalog from memory" flag:"database-url"`
	CatalogFile string `usage:"Catalog YAML file; empty uses the built-in catalog" flag:"catalog-file"`
	ContentFile string `usage:"Site copy YAML file; empty uses the built-in copy" flag:"content-file"`
	AssetsDir   string `default:"public" usage:"Directory holding local images (logo, hero)" flag:"assets-dir"`
	Messaging   MessagingConfig
	Session     SessionConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// MessagingConfig selects where orders are handed off.
type MessagingConfig struct {
	LinkBase string `default:"https://wa.me" usage:"Messaging deep-link origin" flag:"link-base"`
	Number   string `default:"27627270654" usage:"Business number receiving orders" flag:"number"`
}

// SessionConfig controls visitor sessions.
type SessionConfig struct {
	CookieName    string        `default:"sid" usage:"Session cookie name" flag:"cookie-name"`
	TTL           time.Duration `default:"24h" usage:"Idle session lifetime"`
	MaxSessions   int           `default:"10000" usage:"Maximum live sessions; zero disables the cap" flag:"max-sessions"`
	Secure        bool          `default:"false" usage:"Mark the session cookie Secure" flag:"secure-cookie"`
	SweepInterval time.Duration `default:"1m" usage:"How often expired sessions are removed" flag:"sweep-interval"`
}

// RateLimitConfig controls the per-client token bucket limiter.
type RateLimitConfig struct {
	RPS   float64 `default:"10" usage:"Sustained requests per second per client"`
	Burst int     `default:"40" usage:"Requests a client may make at once"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers on /api/.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from an optional .env file, environment
// variables, YAML config files and flags, then applies platform defaults.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}
	return loadConfig(aconfig.Config{
		Files: []string{"config.yaml", "/etc/spitbraai/config.yaml"},
	})
}

func loadConfig(base aconfig.Config) (*Config, error) {
	var cfg Config
	base.EnvPrefix = "SPITBRAAI"
	base.FileDecoders = map[string]aconfig.FileDecoder{
		".yaml": aconfigyaml.New(),
	}
	if err := aconfig.LoaderFor(&cfg, base).Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's SPITBRAAI_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Messaging.LinkBase)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return errors.Errorf("messaging link base %q must be an absolute http(s) URL", c.Messaging.LinkBase)
	}
	if strings.IndexFunc(c.Messaging.Number, func(r rune) bool { return r >= '0' && r <= '9' }) < 0 {
		return errors.Errorf("messaging number %q has no digits", c.Messaging.Number)
	}
	if c.Session.TTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return errors.New("session sweep interval must be positive")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate limit RPS and burst must be positive")
	}
	return nil
}
