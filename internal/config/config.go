package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Environment represents the deployment environment of the service.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// IsProduction reports whether the environment corresponds to production.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment normalises v into one of the known environments.
// Unknown values fall back to Development.
func ParseEnvironment(v string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(v))) {
	case Production:
		return Production
	case Staging:
		return Staging
	case Testing:
		return Testing
	default:
		return Development
	}
}

// Config holds all application configuration.
type Config struct {
	Environment string `default:"development"`
	HTTPAddr    string `split_words:"true" default:":8081"`

	Storage  StorageConfig
	Auth     AuthConfig
	Identity IdentityConfig
	Redis    RedisConfig
	Admin    AdminConfig
}

// StorageConfig selects the document store backing users, products and sales.
type StorageConfig struct {
	Driver string `default:"memory"` // memory | sqlite | postgres
	DSN    string `default:"zamflow.db"`
}

// AuthConfig contains session token settings.
type AuthConfig struct {
	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `split_words:"true" default:"24h"`
}

// IdentityConfig configures the identity provider. The toolkit fields mirror
// the hosted web app configuration.
type IdentityConfig struct {
	Provider          string `default:"local"` // local | toolkit
	APIKey            string `split_words:"true"`
	AuthDomain        string `split_words:"true"`
	ProjectID         string `split_words:"true"`
	StorageBucket     string `split_words:"true"`
	MessagingSenderID string `split_words:"true"`
	AppID             string `split_words:"true"`
	BaseURL           string `split_words:"true" default:"https://identitytoolkit.googleapis.com/v1"`
	FirestoreURL      string `split_words:"true" default:"https://firestore.googleapis.com/v1"`
}

// RedisConfig enables the Redis event broker when URL is set.
type RedisConfig struct {
	URL          string
	ReadTimeout  int `split_words:"true" default:"3"`
	WriteTimeout int `split_words:"true" default:"3"`
	DialTimeout  int `split_words:"true" default:"5"`
}

// DefaultAdminPassword is the bootstrap password used outside production.
const DefaultAdminPassword = "admin123"

// AdminConfig seeds the initial administrator. An empty Email disables the
// bootstrap.
type AdminConfig struct {
	Email    string `default:"admin@example.com"`
	Password string `default:"admin123"`
}

// Load reads an optional .env file and then the ZAMFLOW_* environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("zamflow", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Env returns the parsed deployment environment.
func (c *Config) Env() Environment {
	return ParseEnvironment(c.Environment)
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		if c.Env().IsProduction() {
			return errors.New("ZAMFLOW_AUTH_JWT_SECRET is not set; required in production")
		}
		c.Auth.JWTSecret = "dev-secret-change-me"
	}

	if c.Env().IsProduction() && c.Admin.Email != "" &&
		(c.Admin.Password == "" || c.Admin.Password == DefaultAdminPassword) {
		return errors.New("ZAMFLOW_ADMIN_PASSWORD must be set to a non-default value in production")
	}

	switch c.Storage.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Identity.Provider {
	case "local":
	case "toolkit":
		if c.Identity.APIKey == "" {
			return errors.New("ZAMFLOW_IDENTITY_API_KEY is required for the toolkit provider")
		}
	default:
		return fmt.Errorf("unknown identity provider %q", c.Identity.Provider)
	}
	return nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, HTTP: %s, Storage: %s, Identity: %s, Redis: %t, Auth: *** (masked) ***}",
		c.Env(), c.HTTPAddr, c.Storage.Driver, c.Identity.Provider, c.Redis.URL != "")
}
