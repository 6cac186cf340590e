package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const keyEnv = "ENV"
const envLocal = "local"

const (
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultFuzzyThreshold = 2
	defaultPrefixBoost    = 1.5
	defaultFuzzyIncrement = 0.5
)

type Config struct {
	config *viper.Viper
}

// SearchDefaults are the ranking options used when a request does not set its own.
type SearchDefaults struct {
	FuzzyThreshold int
	PrefixBoost    float64
}

// Load reads config/config.<env>.yaml, where env comes from the ENV variable and defaults to "local".
// Environment variables override file values.
func Load() (*Config, error) {
	env := os.Getenv(keyEnv)
	if len(env) == 0 {
		env = envLocal
	}

	viperConfig := viper.New()
	viperConfig.SetDefault("server.port", defaultPort)
	viperConfig.SetDefault("log.level", defaultLogLevel)
	viperConfig.SetDefault("search.fuzzy_threshold", defaultFuzzyThreshold)
	viperConfig.SetDefault("search.prefix_boost", defaultPrefixBoost)
	viperConfig.SetDefault("search.fuzzy_increment", defaultFuzzyIncrement)

	if configPath, err := getConfigPath(env); err == nil {
		viperConfig.SetConfigFile(configPath)
		if err := viperConfig.ReadInConfig(); err != nil {
			slog.Warn(fmt.Sprintf("error reading config file, %s", err))
		}
	}
	viperConfig.AutomaticEnv()

	cfg := &Config{
		config: viperConfig,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	defaults := c.GetSearchDefaults()
	if defaults.FuzzyThreshold < 0 {
		return fmt.Errorf("search fuzzy threshold must not be negative, got %d", defaults.FuzzyThreshold)
	}
	if !isNonNegativeFinite(defaults.PrefixBoost) {
		return fmt.Errorf("search prefix boost must be a non-negative number, got %g", defaults.PrefixBoost)
	}
	if increment := c.GetFuzzyIncrement(); !isNonNegativeFinite(increment) {
		return fmt.Errorf("search fuzzy increment must be a non-negative number, got %g", increment)
	}
	return nil
}

func isNonNegativeFinite(value float64) bool {
	return value >= 0 && !math.IsInf(value, 1)
}

// getString prefers the environment variable over the nested file key.
func (c *Config) getString(envKey string, fileKey string) string {
	value := c.config.GetString(envKey)
	if len(value) == 0 {
		value = c.config.GetString(fileKey)
	}
	return value
}

func (c *Config) GetPort() string {
	return c.getString("PORT", "server.port")
}

func (c *Config) GetLogLevel() string {
	return c.getString("LOG_LEVEL", "log.level")
}

func (c *Config) GetKVDBPath() string {
	return c.getString("KVDB_PATH", "database.kvdb_path")
}

func (c *Config) GetCatalogIndexPath() string {
	return c.getString("CATALOG_INDEX_PATH", "database.catalog_index_path")
}

func (c *Config) GetStoragePath() string {
	return c.getString("STORAGE_PATH", "database.storage_path")
}

func (c *Config) GetSearchDefaults() SearchDefaults {
	fuzzyThreshold := c.config.GetInt("search.fuzzy_threshold")
	if c.config.IsSet("SEARCH_FUZZY_THRESHOLD") {
		fuzzyThreshold = c.config.GetInt("SEARCH_FUZZY_THRESHOLD")
	}
	prefixBoost := c.config.GetFloat64("search.prefix_boost")
	if c.config.IsSet("SEARCH_PREFIX_BOOST") {
		prefixBoost = c.config.GetFloat64("SEARCH_PREFIX_BOOST")
	}

	return SearchDefaults{
		FuzzyThreshold: fuzzyThreshold,
		PrefixBoost:    prefixBoost,
	}
}

func (c *Config) GetFuzzyIncrement() float64 {
	if c.config.IsSet("SEARCH_FUZZY_INCREMENT") {
		return c.config.GetFloat64("SEARCH_FUZZY_INCREMENT")
	}
	return c.config.GetFloat64("search.fuzzy_increment")
}

func getProjectRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		configDir := filepath.Join(currentDir, "config")
		if info, err := os.Stat(configDir); err == nil && info.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)

		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("could not find project root (directory containing 'config' folder)")
}

func getConfigPath(env string) (string, error) {
	configFile := fmt.Sprintf("config.%s.yaml", env)

	projectRoot, err := getProjectRoot()
	if err != nil {
		slog.Warn("failed to find project root with config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	configPath := filepath.Join(projectRoot, "config", configFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Warn("failed to find config file within config directory, will use environment variables instead", "err", err.Error())
		return "", fmt.Errorf("config file does not exist: %s", configPath)
	}

	return configPath, nil
}
