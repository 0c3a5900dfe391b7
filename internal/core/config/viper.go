package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	return LoadConfigWith(viper.New(), configPath)
}

// LoadConfigWith is LoadConfig on a caller-provided viper instance, so the
// CLI can bind cobra flags before loading.
func LoadConfigWith(v *viper.Viper, configPath string) (*ServiceConfig, error) {
	// Set defaults matching DefaultServiceConfig
	v.SetDefault("service.host", "0.0.0.0")
	v.SetDefault("service.port", 50051)
	v.SetDefault("service.max_connections", 1000)
	v.SetDefault("service.request_timeout", "30s")
	v.SetDefault("service.max_batch_size", 1000)
	v.SetDefault("service.data_dir", "./data")
	v.SetDefault("db_url", "")
	v.SetDefault("lenient_numbers", false)

	// Bind environment variables with VK_ prefix
	v.SetEnvPrefix("VK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &ServiceConfig{
		Host:           v.GetString("service.host"),
		Port:           v.GetInt("service.port"),
		MaxConnections: v.GetInt("service.max_connections"),
		RequestTimeout: v.GetDuration("service.request_timeout"),
		MaxBatchSize:   v.GetInt("service.max_batch_size"),
		DataDir:        v.GetString("service.data_dir"),
		DBURL:          v.GetString("db_url"),
		LenientNumbers: v.GetBool("lenient_numbers"),
		Schemas:        make(map[string][]string),
	}

	// Keys under schemas are lowercased by viper; schema names are
	// case-insensitive as a result.
	for name := range v.GetStringMap("schemas") {
		cfg.Schemas[name] = v.GetStringSlice("schemas." + name)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks port range, positive values for connections, timeout,
// batch size, and that every schema has at least one rule.
func validateConfig(cfg *ServiceConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.MaxConnections <= 0 {
		return fmt.Errorf("max_connections must be positive, got %d", cfg.MaxConnections)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.MaxBatchSize <= 0 {
		return fmt.Errorf("max_batch_size must be positive, got %d", cfg.MaxBatchSize)
	}
	for name, exprs := range cfg.Schemas {
		if len(exprs) == 0 {
			return fmt.Errorf("schema %q has no rules", name)
		}
	}
	if cfg.DBURL != "" && !hasAnyPrefix(cfg.DBURL, "sqlite://", "postgres://", "postgresql://") {
		return fmt.Errorf("db_url must start with sqlite:// or postgres://, got %q", cfg.DBURL)
	}
	return nil
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
