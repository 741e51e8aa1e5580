package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration wraps time.Duration so TOML files can carry values like "10m"
// or "200ms". go-toml decodes through encoding.TextUnmarshaler.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Logging     LoggingConfig `toml:"logging"`
	Yelp        YelpConfig    `toml:"yelp"`
	Cache       CacheConfig   `toml:"cache"`
	Ranking     RankingConfig `toml:"ranking"`
	Search      SearchConfig  `toml:"search"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// YelpConfig contains Yelp Fusion API configuration
type YelpConfig struct {
	APIKey         string   `toml:"api_key"`         // Yelp Fusion API key (bearer token)
	BaseURL        string   `toml:"base_url"`        // API base URL, overridable for tests
	RateLimit      Duration `toml:"rate_limit"`      // Minimum time between API requests
	RequestTimeout Duration `toml:"request_timeout"` // HTTP request timeout
}

// CacheConfig contains response cache configuration
type CacheConfig struct {
	Backend    string            `toml:"backend"`     // "memory" (default) or "badger"
	TTL        Duration          `toml:"ttl"`         // Entry time-to-live
	MaxEntries int               `toml:"max_entries"` // Capacity bound, 0 = unbounded
	Badger     CacheBadgerConfig `toml:"badger"`
}

// CacheBadgerConfig represents Badger-specific cache backend configuration
type CacheBadgerConfig struct {
	Path     string `toml:"path"`      // Database directory path (ignored when in_memory)
	InMemory bool   `toml:"in_memory"` // Run Badger without a disk footprint
}

// RankingConfig contains Bayesian score parameters.
// PriorRating is the global average rating assumption (C); DampingFactor is
// the review count at which the upstream rating and the prior weigh equally (m).
type RankingConfig struct {
	PriorRating   float64 `toml:"prior_rating"`
	DampingFactor float64 `toml:"damping_factor"`
}

// SearchConfig contains request bounds and normalization settings
type SearchConfig struct {
	DefaultLimit    int `toml:"default_limit"`     // Results returned when limit is omitted
	MaxLimit        int `toml:"max_limit"`         // Upper bound on requested limit
	MinRadiusMeters int `toml:"min_radius_meters"` // Lower bound on requested radius
	MaxRadiusMeters int `toml:"max_radius_meters"` // Upper bound on requested radius (Yelp caps at 40km)
	CoordPrecision  int `toml:"coord_precision"`   // Decimal places kept when building cache keys
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in locus.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Yelp: YelpConfig{
			APIKey:         "", // User must provide API key in config file or YELP_API_KEY
			BaseURL:        "https://api.yelp.com/v3",
			RateLimit:      Duration{200 * time.Millisecond}, // 5 requests per second, respects Yelp quotas
			RequestTimeout: Duration{10 * time.Second},
		},
		Cache: CacheConfig{
			Backend:    "memory",
			TTL:        Duration{10 * time.Minute},
			MaxEntries: 500,
			Badger: CacheBadgerConfig{
				Path:     "./data/cache",
				InMemory: true,
			},
		},
		Ranking: RankingConfig{
			PriorRating:   3.8,
			DampingFactor: 150,
		},
		Search: SearchConfig{
			DefaultLimit:    10,
			MaxLimit:        50,
			MinRadiusMeters: 100,
			MaxRadiusMeters: 40000,
			CoordPrecision:  4,
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env -> CLI. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: LOCUS_ENV, fallback: GO_ENV)
	if env := os.Getenv("LOCUS_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("LOCUS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LOCUS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("LOCUS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("LOCUS_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("LOCUS_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Yelp configuration (LOCUS_ prefix takes priority over the bare var)
	if apiKey := os.Getenv("YELP_API_KEY"); apiKey != "" {
		config.Yelp.APIKey = apiKey
	}
	if apiKey := os.Getenv("LOCUS_YELP_API_KEY"); apiKey != "" {
		config.Yelp.APIKey = apiKey
	}
	if baseURL := os.Getenv("LOCUS_YELP_BASE_URL"); baseURL != "" {
		config.Yelp.BaseURL = baseURL
	}
	if rateLimit := os.Getenv("LOCUS_YELP_RATE_LIMIT"); rateLimit != "" {
		if rl, err := time.ParseDuration(rateLimit); err == nil {
			config.Yelp.RateLimit = Duration{rl}
		}
	}
	if requestTimeout := os.Getenv("LOCUS_YELP_REQUEST_TIMEOUT"); requestTimeout != "" {
		if rt, err := time.ParseDuration(requestTimeout); err == nil {
			config.Yelp.RequestTimeout = Duration{rt}
		}
	}

	// Cache configuration
	if backend := os.Getenv("LOCUS_CACHE_BACKEND"); backend != "" {
		config.Cache.Backend = backend
	}
	if ttl := os.Getenv("LOCUS_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			config.Cache.TTL = Duration{d}
		}
	}
	if maxEntries := os.Getenv("LOCUS_CACHE_MAX_ENTRIES"); maxEntries != "" {
		if me, err := strconv.Atoi(maxEntries); err == nil {
			config.Cache.MaxEntries = me
		}
	}
	if badgerPath := os.Getenv("LOCUS_CACHE_BADGER_PATH"); badgerPath != "" {
		config.Cache.Badger.Path = badgerPath
		config.Cache.Badger.InMemory = false
	}

	// Ranking configuration
	if prior := os.Getenv("LOCUS_RANKING_PRIOR_RATING"); prior != "" {
		if p, err := strconv.ParseFloat(prior, 64); err == nil {
			config.Ranking.PriorRating = p
		}
	}
	if damping := os.Getenv("LOCUS_RANKING_DAMPING_FACTOR"); damping != "" {
		if d, err := strconv.ParseFloat(damping, 64); err == nil {
			config.Ranking.DampingFactor = d
		}
	}

	// Search configuration
	if defaultLimit := os.Getenv("LOCUS_SEARCH_DEFAULT_LIMIT"); defaultLimit != "" {
		if dl, err := strconv.Atoi(defaultLimit); err == nil {
			config.Search.DefaultLimit = dl
		}
	}
	if maxLimit := os.Getenv("LOCUS_SEARCH_MAX_LIMIT"); maxLimit != "" {
		if ml, err := strconv.Atoi(maxLimit); err == nil {
			config.Search.MaxLimit = ml
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
