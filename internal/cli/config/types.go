// Package config loads LeapSync configuration from file, environment
// variables, and CLI flags.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapsync/pkg/adapter"
	"github.com/leapstack-labs/leapsync/pkg/core"
)

// SourceConfig holds source database connection configuration.
type SourceConfig struct {
	Driver   string `koanf:"driver"` // postgres, duckdb, sqlite
	DSN      string `koanf:"dsn"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// JobConfig holds the import job configuration. Table and SQL are
// mutually exclusive; the planner enforces this.
type JobConfig struct {
	Table           string `koanf:"table"`
	SQL             string `koanf:"sql"`
	Columns         string `koanf:"columns"`
	PartitionColumn string `koanf:"partition_column"`
	BoundaryQuery   string `koanf:"boundary_query"`
	Partitions      int    `koanf:"partitions"`
}

// OutputConfig holds extraction output configuration.
type OutputConfig struct {
	Dir         string `koanf:"dir"`
	Parallelism int    `koanf:"parallelism"`
}

// Config is the root configuration.
type Config struct {
	Source    SourceConfig `koanf:"source"`
	Job       JobConfig    `koanf:"job"`
	Output    OutputConfig `koanf:"output"`
	StatePath string       `koanf:"state_path"`
	Verbose   bool         `koanf:"verbose"`
}

// ConnectionConfig converts the source section into the planner's
// connection config.
func (c *Config) ConnectionConfig() core.ConnectionConfig {
	return core.ConnectionConfig{
		Driver:   c.Source.Driver,
		DSN:      c.Source.DSN,
		Username: c.Source.Username,
		Password: c.Source.Password,
	}
}

// PlannerJobConfig converts the job section into the planner's job config.
func (c *Config) PlannerJobConfig() core.JobConfig {
	return core.JobConfig{
		TableName:       c.Job.Table,
		SQL:             c.Job.SQL,
		Columns:         c.Job.Columns,
		PartitionColumn: c.Job.PartitionColumn,
		BoundaryQuery:   c.Job.BoundaryQuery,
	}
}

// Validate checks structural configuration errors that do not need a
// database connection. Planning performs the deeper checks.
func (c *Config) Validate() error {
	if c.Source.Driver == "" {
		return fmt.Errorf("source driver is required")
	}
	if !adapter.IsRegistered(strings.ToLower(c.Source.Driver)) {
		return &adapter.UnknownAdapterError{
			Driver:    c.Source.Driver,
			Available: adapter.ListAdapters(),
		}
	}
	if c.Job.Partitions < 1 {
		return fmt.Errorf("job partitions must be at least 1, got %d", c.Job.Partitions)
	}
	return nil
}
