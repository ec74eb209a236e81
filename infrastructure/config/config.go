// Package config loads application configuration from an optional YAML file
// overlaid with environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Root of the seed base graph
	RootVirusName string  `yaml:"root_virus_name"`
	RootGenomeKB  float64 `yaml:"root_genome_kb"`

	// Path search guard: requests may not ask for deeper searches than this.
	// Path enumeration is exponential, so the cap is load-bearing.
	MaxPathDepth int `yaml:"max_path_depth"`

	// Corpus file for the retrieval backend (optional; empty corpus if unset)
	CorpusFile string `yaml:"corpus_file"`

	// Feature flags
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableCORS    bool `yaml:"enable_cors"`
}

// LoadConfig builds configuration from defaults, an optional YAML file named
// by CONFIG_FILE, and environment variable overrides, in that order.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: ":8080",
		Environment:   "development",
		LogLevel:      "info",
		RootVirusName: "SARS-CoV-2",
		RootGenomeKB:  30.0,
		MaxPathDepth:  8,
		EnableMetrics: true,
		EnableCORS:    true,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.ServerAddress = getEnv("SERVER_ADDRESS", cfg.ServerAddress)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.RootVirusName = getEnv("ROOT_VIRUS_NAME", cfg.RootVirusName)
	cfg.MaxPathDepth = getEnvInt("MAX_PATH_DEPTH", cfg.MaxPathDepth)
	cfg.CorpusFile = getEnv("CORPUS_FILE", cfg.CorpusFile)
	cfg.EnableMetrics = getEnvBool("ENABLE_METRICS", cfg.EnableMetrics)
	cfg.EnableCORS = getEnvBool("ENABLE_CORS", cfg.EnableCORS)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.MaxPathDepth < 1 {
		return fmt.Errorf("MAX_PATH_DEPTH must be at least 1, got %d", c.MaxPathDepth)
	}
	if c.RootVirusName == "" {
		return fmt.Errorf("ROOT_VIRUS_NAME cannot be empty")
	}
	switch c.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	return nil
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
