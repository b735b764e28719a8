package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	StoreDriver   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	DBMaxConns    int32
	JWTSecret     string
	JWTIssuer     string

	// Ledger unit-of-work tuning
	TxTimeout            time.Duration
	LockTimeout          time.Duration
	ConflictMaxRetries   int
	ConflictRetryBackoff time.Duration

	ReportTimezone string
	RateLimit      string
	CORSOrigins    []string

	AMQPURL      string
	AMQPExchange string

	PosthogAPIKey   string
	PosthogEndpoint string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("STORE_DRIVER", DriverPostgres)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "finance-ledger")
	viper.SetDefault("TX_TIMEOUT", "5s")
	viper.SetDefault("LOCK_TIMEOUT", "2s")
	viper.SetDefault("CONFLICT_MAX_RETRIES", 3)
	viper.SetDefault("CONFLICT_RETRY_BACKOFF", "25ms")
	viper.SetDefault("REPORT_TIMEZONE", "UTC")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_EXCHANGE", "ledger.events")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:          viper.GetString("PGSQL_URL"),
		StoreDriver:          strings.ToLower(viper.GetString("STORE_DRIVER")),
		Port:                 viper.GetString("PORT"),
		IsProduction:         viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:        viper.GetBool("ENABLE_DB_CHECK"),
		DBMaxConns:           viper.GetInt32("DB_MAX_CONNS"),
		JWTSecret:            viper.GetString("JWT_SECRET"),
		JWTIssuer:            viper.GetString("JWT_ISSUER"),
		TxTimeout:            viper.GetDuration("TX_TIMEOUT"),
		LockTimeout:          viper.GetDuration("LOCK_TIMEOUT"),
		ConflictMaxRetries:   viper.GetInt("CONFLICT_MAX_RETRIES"),
		ConflictRetryBackoff: viper.GetDuration("CONFLICT_RETRY_BACKOFF"),
		ReportTimezone:       viper.GetString("REPORT_TIMEZONE"),
		RateLimit:            viper.GetString("RATE_LIMIT"),
		CORSOrigins:          splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		AMQPURL:              viper.GetString("AMQP_URL"),
		AMQPExchange:         viper.GetString("AMQP_EXCHANGE"),
		PosthogAPIKey:        viper.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:      viper.GetString("POSTHOG_ENDPOINT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.StoreDriver == DriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.AMQPURL == "" {
		log.Println("Warning: AMQP_URL not set. Ledger events will not be published.")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("PGSQL_URL is required when STORE_DRIVER=postgres"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.TxTimeout <= 0 {
		errs = append(errs, errors.New("TX_TIMEOUT must be positive"))
	}
	if c.LockTimeout <= 0 {
		errs = append(errs, errors.New("LOCK_TIMEOUT must be positive"))
	}
	if c.ConflictMaxRetries < 0 {
		errs = append(errs, errors.New("CONFLICT_MAX_RETRIES must not be negative"))
	}
	if c.ConflictRetryBackoff < 0 {
		errs = append(errs, errors.New("CONFLICT_RETRY_BACKOFF must not be negative"))
	}
	if c.DBMaxConns <= 0 {
		errs = append(errs, errors.New("DB_MAX_CONNS must be positive"))
	}
	if _, err := time.LoadLocation(c.ReportTimezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", c.ReportTimezone, err))
	}
	if _, err := limiter.NewRateFromFormatted(c.RateLimit); err != nil {
		errs = append(errs, fmt.Errorf("invalid RATE_LIMIT %q: %w", c.RateLimit, err))
	}
	return errors.Join(errs...)
}

// Location returns the report timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
