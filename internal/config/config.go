package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/company-resolver/internal/company"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Resolve ResolveConfig `yaml:"resolve" mapstructure:"resolve"`
	Merge   MergeConfig   `yaml:"merge" mapstructure:"merge"`
	Events  EventsConfig  `yaml:"events" mapstructure:"events"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ResolveConfig configures matching and the batch job.
type ResolveConfig struct {
	AutoMergeThreshold float64 `yaml:"auto_merge_threshold" mapstructure:"auto_merge_threshold"`
	ReviewThreshold    float64 `yaml:"review_threshold" mapstructure:"review_threshold"`
	CandidateLimit     int     `yaml:"candidate_limit" mapstructure:"candidate_limit"`
	PageSize           int     `yaml:"page_size" mapstructure:"page_size"`
	Concurrency        int     `yaml:"concurrency" mapstructure:"concurrency"`
	RatePerSec         float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RetryAttempts      int     `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	FuzzyNames         bool    `yaml:"fuzzy_names" mapstructure:"fuzzy_names"`
}

// MergeConfig overrides per-field merge strategies (field -> strategy).
type MergeConfig struct {
	Rules map[string]string `yaml:"rules" mapstructure:"rules"`
}

// EventsConfig configures the optional Kafka event stream. Publishing is
// disabled when Brokers is empty.
type EventsConfig struct {
	Brokers      []string `yaml:"brokers" mapstructure:"brokers"`
	CompanyTopic string   `yaml:"company_topic" mapstructure:"company_topic"`
	ReviewTopic  string   `yaml:"review_topic" mapstructure:"review_topic"`
	Compression  string   `yaml:"compression" mapstructure:"compression"`
}

// ServerConfig configures the review API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RESOLVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "resolver.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("resolve.auto_merge_threshold", 0.80)
	v.SetDefault("resolve.review_threshold", 0.50)
	v.SetDefault("resolve.candidate_limit", 20)
	v.SetDefault("resolve.page_size", 100)
	v.SetDefault("resolve.concurrency", 1)
	v.SetDefault("resolve.rate_per_sec", 0)
	v.SetDefault("resolve.retry_attempts", 3)
	v.SetDefault("resolve.fuzzy_names", true)
	v.SetDefault("events.brokers", []string{})
	v.SetDefault("events.company_topic", "companies.golden")
	v.SetDefault("events.review_topic", "companies.review")
	v.SetDefault("events.compression", "snappy")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks value ranges and cross-field constraints.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return eris.Errorf("config: unknown store driver %q (want sqlite or postgres)", c.Store.Driver)
	}
	if c.Store.DatabaseURL == "" {
		return eris.New("config: store.database_url is required")
	}

	r := c.Resolve
	if r.AutoMergeThreshold <= 0 || r.AutoMergeThreshold > 1 {
		return eris.Errorf("config: resolve.auto_merge_threshold %v out of range (0,1]", r.AutoMergeThreshold)
	}
	if r.ReviewThreshold < 0 || r.ReviewThreshold > 1 {
		return eris.Errorf("config: resolve.review_threshold %v out of range [0,1]", r.ReviewThreshold)
	}
	if r.ReviewThreshold > r.AutoMergeThreshold {
		return eris.Errorf("config: resolve.review_threshold %v exceeds auto_merge_threshold %v",
			r.ReviewThreshold, r.AutoMergeThreshold)
	}
	if r.CandidateLimit <= 0 {
		return eris.New("config: resolve.candidate_limit must be positive")
	}
	if r.PageSize <= 0 {
		return eris.New("config: resolve.page_size must be positive")
	}
	if r.Concurrency <= 0 {
		return eris.New("config: resolve.concurrency must be positive")
	}
	if r.RatePerSec < 0 {
		return eris.New("config: resolve.rate_per_sec must not be negative")
	}
	if r.RetryAttempts <= 0 {
		return eris.New("config: resolve.retry_attempts must be positive")
	}

	if _, err := c.MergeRules(); err != nil {
		return err
	}
	return nil
}

// MergeRules returns the default merge rules with configured overrides
// applied.
func (c *Config) MergeRules() (company.MergeRules, error) {
	rules, err := company.ParseRules(c.Merge.Rules)
	if err != nil {
		return nil, eris.Wrap(err, "config: merge.rules")
	}
	return rules, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
