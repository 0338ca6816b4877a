package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dataengine/internal/logger"
)

// Config represents the application configuration
type Config struct {
	App           AppConfig           `yaml:"app"`
	Logging       logger.Config       `yaml:"logging"`
	Redis         RedisConfig         `yaml:"redis"`
	Anonymization AnonymizationConfig `yaml:"anonymization"`
	Pricing       PricingConfig       `yaml:"pricing"`
	Clustering    ClusteringConfig    `yaml:"clustering"`
}

// AppConfig represents application identity configuration
type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

// RedisConfig represents the quote cache backend configuration
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// AnonymizationConfig holds pipeline defaults and the secret source
type AnonymizationConfig struct {
	DefaultKValue      int     `yaml:"default_k_value"`
	DefaultEpsilon     float64 `yaml:"default_epsilon"`
	MaxSuppressionRate float64 `yaml:"max_suppression_rate"`
	SecretEnvVar       string  `yaml:"secret_env_var"`
}

// PricingConfig holds optional base price overrides per category
type PricingConfig struct {
	BasePrices map[string]float64 `yaml:"base_prices"`
}

// ClusteringConfig holds clustering defaults
type ClusteringConfig struct {
	DefaultClusterCount int `yaml:"default_cluster_count"`
	MaxIterations       int `yaml:"max_iterations"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:    "dataengine",
			Version: "dev",
			Env:     "development",
		},
		Logging: logger.DefaultConfig,
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
		},
		Anonymization: AnonymizationConfig{
			DefaultKValue:      5,
			DefaultEpsilon:     1.0,
			MaxSuppressionRate: 0.2,
			SecretEnvVar:       "DATAENGINE_PSEUDONYM_SECRET",
		},
		Clustering: ClusteringConfig{
			DefaultClusterCount: 4,
			MaxIterations:       100,
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults and
// then applies environment overrides.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv(NewEnvManager(""))
	return cfg, nil
}

// applyEnv overrides fields from the process environment
func (c *Config) applyEnv(env *EnvManager) {
	c.App.Env = env.GetString("env", c.App.Env)
	c.Logging.Level = env.GetString("log_level", c.Logging.Level)
	c.Redis.Enabled = env.GetBool("redis_enabled", c.Redis.Enabled)
	c.Redis.Addr = env.GetString("redis_addr", c.Redis.Addr)
	c.Redis.Password = env.GetString("redis_password", c.Redis.Password)
	c.Anonymization.DefaultKValue = env.GetInt("default_k_value", c.Anonymization.DefaultKValue)
	c.Anonymization.DefaultEpsilon = env.GetFloat("default_epsilon", c.Anonymization.DefaultEpsilon)
	c.Clustering.DefaultClusterCount = env.GetInt("default_cluster_count", c.Clustering.DefaultClusterCount)
}
