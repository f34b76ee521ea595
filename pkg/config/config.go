package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for centra-console.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (database password, Stripe key, webhook secret) must only come from
// environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL, graph store + humans table)
	Database DatabaseConfig `yaml:"database"`

	// Upstream decision service endpoints
	Services ServicesConfig `yaml:"services"`

	// Billing configuration (Stripe)
	Billing BillingConfig `yaml:"billing"`

	// Webhook signing secret for the auth provider's user events.
	// Format: "whsec_<base64>". Server responds 500 on webhook delivery
	// if this is unset.
	WebhookSecret string `yaml:"-" env:"CLERK_WEBHOOK_SECRET"` // Secret - not in YAML
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// EnableVerification controls whether JWT tokens are validated.
	// Set to false for local development without an auth provider.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// JWKSEndpointsStr is a comma-separated list of issuer=jwks_url pairs.
	// Format: "issuer1=url1,issuer2=url2"
	JWKSEndpointsStr string `yaml:"jwks_endpoints" env:"JWKS_ENDPOINTS" env-default:""`

	// JWKSEndpoints is the parsed map from JWKSEndpointsStr (not from config file).
	JWKSEndpoints map[string]string `yaml:"-"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"goliath"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"goliath"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// ServicesConfig holds base URLs for the five upstream decision services.
// Defaults follow the documented local port layout (8001-8005).
type ServicesConfig struct {
	IngestURL   string `yaml:"ingest_url" env:"INGEST_URL" env-default:"http://localhost:8001"`
	DecisionURL string `yaml:"decision_url" env:"DECISION_URL" env-default:"http://localhost:8002"`
	LearnerURL  string `yaml:"learner_url" env:"LEARNER_URL" env-default:"http://localhost:8003"`
	ExecutorURL string `yaml:"executor_url" env:"EXECUTOR_URL" env-default:"http://localhost:8004"`
	ExplainURL  string `yaml:"explain_url" env:"EXPLAIN_URL" env-default:"http://localhost:8005"`
}

// Endpoint is a named upstream service base URL.
type Endpoint struct {
	Name string
	URL  string
}

// Endpoints returns the upstream services in their canonical order.
func (s *ServicesConfig) Endpoints() []Endpoint {
	return []Endpoint{
		{Name: "Ingest", URL: s.IngestURL},
		{Name: "Decision", URL: s.DecisionURL},
		{Name: "Learner", URL: s.LearnerURL},
		{Name: "Executor", URL: s.ExecutorURL},
		{Name: "Explain", URL: s.ExplainURL},
	}
}

// BillingConfig holds payment provider configuration.
type BillingConfig struct {
	// StripeSecretKey enables the checkout endpoint. When empty, checkout
	// responds 503 not_configured instead of failing.
	StripeSecretKey string `yaml:"-" env:"STRIPE_SECRET_KEY"` // Secret - not in YAML
}

// IsConfigured returns true if a payment provider credential is present.
func (b *BillingConfig) IsConfigured() bool {
	return b.StripeSecretKey != ""
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	cfg.Auth.JWKSEndpoints = parseJWKSEndpoints(cfg.Auth.JWKSEndpointsStr)
	cfg.Services.resolveDockerHosts()

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

// parseJWKSEndpoints parses the JWKS endpoints string into a map.
// Format: "issuer1=url1,issuer2=url2"
func parseJWKSEndpoints(value string) map[string]string {
	endpoints := make(map[string]string)
	if value == "" {
		return endpoints
	}

	pairs := strings.Split(value, ",")
	for _, pair := range pairs {
		idx := strings.Index(pair, "=")
		if idx > 0 {
			endpoints[strings.TrimSpace(pair[:idx])] = strings.TrimSpace(pair[idx+1:])
		}
	}
	return endpoints
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		ResolveHostForDocker(c.Host), c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
