package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// The Odds API
	OddsAPIKey     string        `envconfig:"ODDS_API_KEY" required:"true"`
	OddsAPIBaseURL string        `envconfig:"ODDS_API_BASE_URL" default:"https://api.the-odds-api.com/v4"`
	OddsAPISport   string        `envconfig:"ODDS_API_SPORT" default:"basketball_nba"`
	OddsAPIRegions string        `envconfig:"ODDS_API_REGIONS" default:"us"`
	OddsAPIMarkets string        `envconfig:"ODDS_API_MARKETS" default:"h2h,spreads,totals"`
	OddsAPIFormat  string        `envconfig:"ODDS_API_FORMAT" default:"american"`
	OddsAPITimeout time.Duration `envconfig:"ODDS_API_TIMEOUT" default:"30s"`

	// balldontlie (history backfill)
	BalldontlieBaseURL string `envconfig:"BALLDONTLIE_BASE_URL" default:"https://api.balldontlie.io/v1"`
	BalldontlieAPIKey  string `envconfig:"BALLDONTLIE_API_KEY" default:""`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"betodds"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"betodds_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// League identity
	SportCode  string `envconfig:"SPORT_CODE" default:"BASKETBALL"`
	SportName  string `envconfig:"SPORT_NAME" default:"Basketball"`
	LeagueCode string `envconfig:"LEAGUE_CODE" default:"NBA"`
	LeagueName string `envconfig:"LEAGUE_NAME" default:"NBA"`

	// Slate time zone fallback chain, tried in order at startup
	SlateTimeZones []string `envconfig:"SLATE_TIME_ZONES" default:"US/Eastern,America/New_York"`

	// Ingestion windows (days relative to the league-local date)
	ScheduleLookbackDays  int `envconfig:"SCHEDULE_LOOKBACK_DAYS" default:"1"`
	ScheduleLookaheadDays int `envconfig:"SCHEDULE_LOOKAHEAD_DAYS" default:"7"`
	ResultsLookbackDays   int `envconfig:"RESULTS_LOOKBACK_DAYS" default:"3"`
	HistoryLookbackDays   int `envconfig:"HISTORY_LOOKBACK_DAYS" default:"30"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Run deadline for a single pipeline invocation (0 = none)
	RunTimeout time.Duration `envconfig:"RUN_TIMEOUT" default:"10m"`

	// Scheduler
	EnableScheduler bool   `envconfig:"ENABLE_SCHEDULER" default:"false"`
	PipelineCron    string `envconfig:"PIPELINE_CRON" default:"*/15 * * * *"`
	HistoryCron     string `envconfig:"HISTORY_CRON" default:"0 4 * * *"`

	// Caching
	CacheTTLOdds time.Duration `envconfig:"CACHE_TTL_ODDS" default:"5m"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.OddsAPIKey == "" {
		return fmt.Errorf("ODDS_API_KEY is required")
	}

	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if len(c.SlateTimeZones) == 0 {
		return fmt.Errorf("SLATE_TIME_ZONES must list at least one zone identifier")
	}

	return nil
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
