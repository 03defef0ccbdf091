package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is read once at startup and passed explicitly to every component.
type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`
	Port   string `envconfig:"PORT" default:"8080"`

	// Remote order API
	APIBase      string        `envconfig:"API_BASE" default:"http://127.0.0.1:8000"`
	RestaurantID string        `envconfig:"RESTAURANT_ID"`
	APITimeout   time.Duration `envconfig:"API_TIMEOUT" default:"15s"`

	// Sessions
	SessionSecret      string        `envconfig:"SESSION_SECRET"`
	SessionIdleTimeout time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"2h"`

	// Menu
	MenuCacheTTL          time.Duration `envconfig:"MENU_CACHE_TTL" default:"5m"`
	AllowGeneratedItemIDs bool          `envconfig:"ALLOW_GENERATED_ITEM_IDS" default:"false"`
	AssetBaseURL          string        `envconfig:"ASSET_BASE_URL"`
	AssetDir              string        `envconfig:"ASSET_DIR" default:"./assets"`

	DashboardPollInterval time.Duration `envconfig:"DASHBOARD_POLL_INTERVAL" default:"5s"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	// Optional backends
	DatabaseURL string `envconfig:"DATABASE_URL"`
	RedisURL    string `envconfig:"REDIS_URL"`

	R2 R2Config
}

// R2Config is only needed by the asset sync tool.
type R2Config struct {
	Endpoint      string `envconfig:"R2_ENDPOINT"`
	AccessKey     string `envconfig:"R2_ACCESS_KEY"`
	SecretKey     string `envconfig:"R2_SECRET_KEY"`
	Bucket        string `envconfig:"R2_BUCKET_NAME"`
	PublicBaseURL string `envconfig:"R2_PUBLIC_BASE_URL"`
}

var ErrMissingSessionSecret = errors.New("SESSION_SECRET is not set")

// Load reads .env (outside production) and the process environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	c.APIBase = strings.TrimRight(strings.TrimSpace(c.APIBase), "/")
	c.RestaurantID = strings.TrimSpace(c.RestaurantID)

	if c.AssetBaseURL == "" {
		c.AssetBaseURL = c.R2.PublicBaseURL
	}
	c.AssetBaseURL = strings.TrimRight(c.AssetBaseURL, "/")
}

// ValidateServer checks what the storefront server needs to start.
func (c *Config) ValidateServer() error {
	if c.SessionSecret == "" {
		return ErrMissingSessionSecret
	}
	if c.APIBase == "" {
		return errors.New("API_BASE is empty")
	}
	return nil
}

// ValidateR2 checks the settings used by the asset sync tool.
func (c *Config) ValidateR2() error {
	required := map[string]string{
		"R2_ENDPOINT":        c.R2.Endpoint,
		"R2_ACCESS_KEY":      c.R2.AccessKey,
		"R2_SECRET_KEY":      c.R2.SecretKey,
		"R2_BUCKET_NAME":     c.R2.Bucket,
		"R2_PUBLIC_BASE_URL": c.R2.PublicBaseURL,
	}
	for _, k := range []string{"R2_ENDPOINT", "R2_ACCESS_KEY", "R2_SECRET_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL"} {
		if required[k] == "" {
			return errors.New("missing env var: " + k)
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
