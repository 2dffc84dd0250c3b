package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapsync/pkg/adapter"
	"github.com/leapstack-labs/leapsync/pkg/core"
	"github.com/leapstack-labs/leapsync/pkg/dialect"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leapsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("driver", "", "")
	fs.String("dsn", "", "")
	fs.String("table", "", "")
	fs.String("partition-column", "", "")
	fs.Int("partitions", DefaultPartitions, "")
	fs.Bool("verbose", false, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultPartitions, cfg.Job.Partitions)
	assert.Equal(t, DefaultParallelism, cfg.Output.Parallelism)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Dir)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
source:
  driver: postgres
  dsn: host=localhost dbname=app
job:
  table: orders
  partition_column: id
  partitions: 8
output:
  dir: /tmp/extract
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Source.Driver)
	assert.Equal(t, "host=localhost dbname=app", cfg.Source.DSN)
	assert.Equal(t, "orders", cfg.Job.Table)
	assert.Equal(t, "id", cfg.Job.PartitionColumn)
	assert.Equal(t, 8, cfg.Job.Partitions)
	assert.Equal(t, "/tmp/extract", cfg.Output.Dir)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultParallelism, cfg.Output.Parallelism)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
source:
  driver: postgres
job:
  partition_column: id
`)

	t.Setenv("LEAPSYNC_SOURCE__DRIVER", "duckdb")
	t.Setenv("LEAPSYNC_JOB__PARTITION_COLUMN", "order_id")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", cfg.Source.Driver)
	assert.Equal(t, "order_id", cfg.Job.PartitionColumn)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("LEAPSYNC_SOURCE__DRIVER", "duckdb")

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--driver", "sqlite", "--table", "users", "--partitions", "2"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Source.Driver)
	assert.Equal(t, "users", cfg.Job.Table)
	assert.Equal(t, 2, cfg.Job.Partitions)
}

func TestLoadUnchangedFlagsIgnored(t *testing.T) {
	path := writeConfigFile(t, `
job:
  partitions: 16
`)

	fs := newFlagSet()
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	// The flag default must not clobber the file value.
	assert.Equal(t, 16, cfg.Job.Partitions)
}

func TestValidate(t *testing.T) {
	adapter.Register("fakedb", func(logger *slog.Logger) adapter.Adapter {
		return &fakeValidateAdapter{}
	})

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg: Config{
				Source: SourceConfig{Driver: "fakedb"},
				Job:    JobConfig{Partitions: 4},
			},
		},
		{
			name:    "missing driver",
			cfg:     Config{Job: JobConfig{Partitions: 4}},
			wantErr: "driver is required",
		},
		{
			name: "unknown driver",
			cfg: Config{
				Source: SourceConfig{Driver: "oracle"},
				Job:    JobConfig{Partitions: 4},
			},
			wantErr: "unknown adapter driver",
		},
		{
			name: "zero partitions",
			cfg: Config{
				Source: SourceConfig{Driver: "fakedb"},
			},
			wantErr: "partitions must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigConversions(t *testing.T) {
	cfg := Config{
		Source: SourceConfig{Driver: "postgres", DSN: "host=x", Username: "u", Password: "p"},
		Job: JobConfig{
			Table:           "orders",
			Columns:         "id,total",
			PartitionColumn: "id",
			BoundaryQuery:   "SELECT 1, 2",
		},
	}

	conn := cfg.ConnectionConfig()
	assert.Equal(t, core.ConnectionConfig{Driver: "postgres", DSN: "host=x", Username: "u", Password: "p"}, conn)

	job := cfg.PlannerJobConfig()
	assert.Equal(t, "orders", job.TableName)
	assert.Equal(t, "id,total", job.Columns)
	assert.Equal(t, "id", job.PartitionColumn)
	assert.Equal(t, "SELECT 1, 2", job.BoundaryQuery)
}

type fakeValidateAdapter struct {
	adapter.BaseSQLAdapter
}

func (f *fakeValidateAdapter) Connect(_ context.Context, cfg core.ConnectionConfig) error {
	f.Cfg = cfg
	return nil
}

func (f *fakeValidateAdapter) PrimaryKey(_ context.Context, _ string) (string, error) {
	return "", nil
}

func (f *fakeValidateAdapter) GetTableMetadata(_ context.Context, _ string) (*core.TableMetadata, error) {
	return nil, nil
}

func (f *fakeValidateAdapter) Dialect() *dialect.Dialect {
	return dialect.ANSI()
}
