// Package config provides configuration management for ValKeeper services.
package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/solatis/valkeeper/internal/rules"
)

// ServiceConfig holds configuration for the gRPC validation service and
// the CLI commands that share its schema registry.
type ServiceConfig struct {
	Host           string
	Port           int
	MaxConnections int
	RequestTimeout time.Duration
	MaxBatchSize   int

	// DataDir holds the default sqlite report store used by the CLI when
	// DBURL is empty.
	DataDir string

	// DBURL selects the report store (sqlite://path or postgres://...).
	// Empty disables report persistence.
	DBURL string

	// LenientNumbers compiles every schema with rules.WithLenientNumbers.
	LenientNumbers bool

	// Schemas maps schema name -> rule expressions (see rules.ParseRule).
	Schemas map[string][]string
}

// DefaultServiceConfig returns configuration with default values.
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		Host:           "0.0.0.0",
		Port:           50051,
		MaxConnections: 1000,
		RequestTimeout: 30 * time.Second,
		MaxBatchSize:   1000,
		DataDir:        "./data",
		Schemas:        map[string][]string{},
	}
}

// Address returns host:port for the listener.
func (c *ServiceConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// defaultStoreFile is the sqlite file created under DataDir.
const defaultStoreFile = "reports.db"

// ReportStoreURL returns DBURL, or a sqlite URL under DataDir when DBURL is
// empty. The serve command only persists reports when DBURL is set; commands
// that need a store (check --save, migrate, reports) fall back to this.
func (c *ServiceConfig) ReportStoreURL() string {
	if c.DBURL != "" {
		return c.DBURL
	}
	return "sqlite://" + filepath.Join(c.DataDir, defaultStoreFile)
}

// CompileOptions returns the compile options implied by the configuration.
func (c *ServiceConfig) CompileOptions() []rules.CompileOption {
	if c.LenientNumbers {
		return []rules.CompileOption{rules.WithLenientNumbers()}
	}
	return nil
}

// BuildEngine parses every configured schema and registers it on a new
// engine. Schemas register in name order so errors are deterministic.
func (c *ServiceConfig) BuildEngine() (*rules.Engine, error) {
	engine := rules.NewEngine(c.CompileOptions()...)

	names := make([]string, 0, len(c.Schemas))
	for name := range c.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		schema, err := rules.ParseRules(c.Schemas[name])
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", name, err)
		}
		if err := engine.Register(name, schema); err != nil {
			return nil, err
		}
	}
	return engine, nil
}
