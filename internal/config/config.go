package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Auth      AuthConfig      `yaml:"auth"`
	Cleanup   CleanupConfig   `yaml:"cleanup"`
	Timezone  string          `yaml:"timezone"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RequestTimeout int      `yaml:"request_timeout_seconds"`
}

// DatabaseConfig contains PostgreSQL connection settings for both the
// regular connection and the elevated service-role connection used by the
// counter fallback path.
type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Database        string `yaml:"database"`
	SSLMode         string `yaml:"sslmode"`
	ServiceRoleUser string `yaml:"service_role_user"`
	ServiceRolePass string `yaml:"service_role_password"`
}

// SearchConfig contains Meilisearch settings
type SearchConfig struct {
	Host    string `yaml:"host"`
	APIKey  string `yaml:"api_key"`
	Enabled bool   `yaml:"enabled"`
}

// CacheConfig contains catalog cache TTLs
type CacheConfig struct {
	ProductTTLMinutes    int `yaml:"product_ttl_minutes"`
	CollectionTTLMinutes int `yaml:"collection_ttl_minutes"`
}

// RateLimitConfig contains per-route-class request budgets over a fixed window
type RateLimitConfig struct {
	Enabled       bool `yaml:"enabled"`
	WindowSeconds int  `yaml:"window_seconds"`
	ReadBudget    int  `yaml:"read_budget"`
	WriteBudget   int  `yaml:"write_budget"`
	AdminBudget   int  `yaml:"admin_budget"`
}

// AuthConfig contains session and CSRF settings
type AuthConfig struct {
	JWTSecret      string `yaml:"jwt_secret"`
	CSRFSecret     string `yaml:"csrf_secret"`
	CSRFTTLMinutes int    `yaml:"csrf_ttl_minutes"`
	AdminSecret    string `yaml:"admin_secret"`
}

// CleanupConfig contains retention settings for inactive listings
type CleanupConfig struct {
	RetentionDays  int    `yaml:"retention_days"`
	NightlyRunTime string `yaml:"nightly_run_time"`
	NightlyEnabled bool   `yaml:"nightly_enabled"`
	MaxDeletionRun int    `yaml:"max_deletion_run"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"http://localhost:3000"},
			RequestTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:     "db",
			Port:     5432,
			User:     "roomstay",
			Password: "roomstay",
			Database: "roomstay",
			SSLMode:  "disable",
		},
		Search: SearchConfig{
			Host:    "http://meilisearch:7700",
			Enabled: true,
		},
		Cache: CacheConfig{
			ProductTTLMinutes:    15,
			CollectionTTLMinutes: 30,
		},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			WindowSeconds: 60,
			ReadBudget:    120,
			WriteBudget:   20,
			AdminBudget:   60,
		},
		Auth: AuthConfig{
			CSRFTTLMinutes: 60,
		},
		Cleanup: CleanupConfig{
			RetentionDays:  180,
			NightlyRunTime: "03:00",
			NightlyEnabled: true,
			MaxDeletionRun: 1000,
		},
	}
}

// LoadConfig loads configuration from a YAML file, falling back to defaults
// for anything the file omits. Secrets may also arrive via environment.
func LoadConfig(filepath string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		config.applyEnv()
		return config, nil
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnv()
	return config, nil
}

// applyEnv lets environment variables override file values for secrets and
// connection details, which never belong in a checked-in YAML file.
func (c *Config) applyEnv() {
	setIfEnv(&c.Database.Host, "DB_HOST")
	setIfEnv(&c.Database.User, "DB_USER")
	setIfEnv(&c.Database.Password, "DB_PASSWORD")
	setIfEnv(&c.Database.Database, "DB_NAME")
	setIfEnv(&c.Database.ServiceRoleUser, "DB_SERVICE_ROLE_USER")
	setIfEnv(&c.Database.ServiceRolePass, "DB_SERVICE_ROLE_PASSWORD")
	setIfEnv(&c.Search.Host, "MEILISEARCH_HOST")
	setIfEnv(&c.Search.APIKey, "MEILISEARCH_KEY")
	setIfEnv(&c.Auth.JWTSecret, "JWT_SECRET")
	setIfEnv(&c.Auth.CSRFSecret, "CSRF_SECRET")
	setIfEnv(&c.Auth.AdminSecret, "ADMIN_SECRET")
	setIfEnv(&c.Server.Port, "PORT")
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// ProductTTL returns the single-product cache TTL as a duration.
func (c *CacheConfig) ProductTTL() time.Duration {
	return time.Duration(c.ProductTTLMinutes) * time.Minute
}

// CollectionTTL returns the collection cache TTL as a duration.
func (c *CacheConfig) CollectionTTL() time.Duration {
	return time.Duration(c.CollectionTTLMinutes) * time.Minute
}

// Window returns the rate-limit window as a duration.
func (c *RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// CSRFTTL returns the CSRF token lifetime as a duration.
func (c *AuthConfig) CSRFTTL() time.Duration {
	return time.Duration(c.CSRFTTLMinutes) * time.Minute
}

// RequestTimeoutDuration returns the outbound-call timeout as a duration.
func (c *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}
