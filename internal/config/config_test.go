package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/company-resolver/internal/company"
	"github.com/sells-group/company-resolver/internal/model"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "resolver.db", cfg.Store.DatabaseURL)
	assert.Equal(t, int32(10), cfg.Store.MaxConns)
	assert.InDelta(t, 0.80, cfg.Resolve.AutoMergeThreshold, 0.001)
	assert.InDelta(t, 0.50, cfg.Resolve.ReviewThreshold, 0.001)
	assert.Equal(t, 20, cfg.Resolve.CandidateLimit)
	assert.Equal(t, 100, cfg.Resolve.PageSize)
	assert.Equal(t, 1, cfg.Resolve.Concurrency)
	assert.Equal(t, 3, cfg.Resolve.RetryAttempts)
	assert.True(t, cfg.Resolve.FuzzyNames)
	assert.Empty(t, cfg.Events.Brokers)
	assert.Equal(t, "companies.golden", cfg.Events.CompanyTopic)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/resolver
resolve:
  concurrency: 4
  fuzzy_names: false
merge:
  rules:
    logo: prefer_a
    Description: longest
events:
  brokers:
    - kafka-1:9092
    - kafka-2:9092
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 4, cfg.Resolve.Concurrency)
	assert.False(t, cfg.Resolve.FuzzyNames)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Brokers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, 100, cfg.Resolve.PageSize)

	rules, err := cfg.MergeRules()
	require.NoError(t, err)
	assert.Equal(t, company.PreferA, rules[model.FieldLogo])
	assert.Equal(t, company.Longest, rules[model.FieldDescription])
	assert.Equal(t, company.PreferB, rules[model.FieldFundingRounds])
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("RESOLVER_STORE_DRIVER", "postgres")
	t.Setenv("RESOLVER_LOG_LEVEL", "warn")
	t.Setenv("RESOLVER_RESOLVE_AUTO_MERGE_THRESHOLD", "0.9")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.InDelta(t, 0.9, cfg.Resolve.AutoMergeThreshold, 0.001)
}

func TestLoadEnvBrokers(t *testing.T) {
	chdirTemp(t)
	t.Setenv("RESOLVER_EVENTS_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Brokers)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unclosed"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func validConfig() *Config {
	return &Config{
		Store: StoreConfig{Driver: "sqlite", DatabaseURL: "resolver.db"},
		Resolve: ResolveConfig{
			AutoMergeThreshold: 0.8,
			ReviewThreshold:    0.5,
			CandidateLimit:     20,
			PageSize:           100,
			Concurrency:        1,
			RetryAttempts:      3,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }, "unknown store driver"},
		{"missing url", func(c *Config) { c.Store.DatabaseURL = "" }, "database_url is required"},
		{"merge above one", func(c *Config) { c.Resolve.AutoMergeThreshold = 1.2 }, "auto_merge_threshold"},
		{"merge zero", func(c *Config) { c.Resolve.AutoMergeThreshold = 0 }, "auto_merge_threshold"},
		{"review negative", func(c *Config) { c.Resolve.ReviewThreshold = -0.1 }, "review_threshold"},
		{"review above merge", func(c *Config) { c.Resolve.ReviewThreshold = 0.9 }, "exceeds auto_merge_threshold"},
		{"equal thresholds", func(c *Config) { c.Resolve.ReviewThreshold = 0.8 }, ""},
		{"candidate limit", func(c *Config) { c.Resolve.CandidateLimit = 0 }, "candidate_limit"},
		{"page size", func(c *Config) { c.Resolve.PageSize = -1 }, "page_size"},
		{"concurrency", func(c *Config) { c.Resolve.Concurrency = 0 }, "concurrency"},
		{"rate", func(c *Config) { c.Resolve.RatePerSec = -5 }, "rate_per_sec"},
		{"retries", func(c *Config) { c.Resolve.RetryAttempts = 0 }, "retry_attempts"},
		{"bad field", func(c *Config) { c.Merge.Rules = map[string]string{"revenue": "prefer_a"} }, "unknown merge field"},
		{"bad strategy", func(c *Config) { c.Merge.Rules = map[string]string{"logo": "newest"} }, "unknown merge strategy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
