package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapsync/internal/cli/config"
	"github.com/leapstack-labs/leapsync/internal/planner"
	"github.com/leapstack-labs/leapsync/internal/schema"
	"github.com/leapstack-labs/leapsync/pkg/adapter"
)

// PlanOptions holds options for the plan command.
type PlanOptions struct {
	JSONOutput bool
	ShowSchema bool
}

// NewPlanCommand creates the plan command.
func NewPlanCommand() *cobra.Command {
	opts := &PlanOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan the extraction contract without extracting",
		Long: `Resolve the partition column, value range, and data SQL template for the
configured job, and print the resulting plan. Nothing is extracted.`,
		Example: `  # Plan an import of the orders table
  leapsync plan --driver postgres --dsn "host=localhost dbname=shop" --table orders

  # Plan a free-form query
  leapsync plan --driver duckdb --dsn shop.db \
    --sql 'SELECT id, total FROM orders WHERE ${CONDITIONS}' --partition-column id`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Output the plan as JSON")
	cmd.Flags().BoolVar(&opts.ShowSchema, "schema", false, "Include the source schema (table mode only)")

	return cmd
}

func runPlan(cmd *cobra.Command, opts *PlanOptions) error {
	cfg := config.Current()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	plan, err := planner.New(slog.Default()).Plan(ctx, cfg.ConnectionConfig(), cfg.PlannerJobConfig())
	if err != nil {
		return err
	}

	var sourceSchema *schema.Schema
	if opts.ShowSchema {
		if cfg.Job.Table == "" {
			return fmt.Errorf("--schema requires a table-mode job")
		}
		sourceSchema, err = introspectSchema(ctx, cfg)
		if err != nil {
			return err
		}
	}

	if opts.JSONOutput {
		out := map[string]any{
			"partition_column": plan.PartitionColumn,
			"partition_kind":   string(plan.PartitionKind),
			"min":              plan.MinValue,
			"max":              plan.MaxValue,
			"data_sql":         plan.DataSQL,
			"fields":           plan.FieldNames,
		}
		if sourceSchema != nil {
			out["schema"] = sourceSchema
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Property", "Value"})
	t.AppendRows([]table.Row{
		{"Partition column", plan.PartitionColumn},
		{"Partition kind", string(plan.PartitionKind)},
		{"Min", plan.MinValue},
		{"Max", plan.MaxValue},
		{"Data SQL", plan.DataSQL},
		{"Fields", strings.Join(plan.FieldNames, ", ")},
	})
	t.Render()

	if sourceSchema != nil {
		raw, err := json.MarshalIndent(sourceSchema, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	}
	return nil
}

// introspectSchema connects briefly to read the table's column metadata.
func introspectSchema(ctx context.Context, cfg *config.Config) (*schema.Schema, error) {
	ad, err := adapter.New(cfg.Source.Driver, slog.Default())
	if err != nil {
		return nil, err
	}
	if err := ad.Connect(ctx, cfg.ConnectionConfig()); err != nil {
		return nil, err
	}
	defer func() { _ = ad.Close() }()

	meta, err := ad.GetTableMetadata(ctx, cfg.Job.Table)
	if err != nil {
		return nil, err
	}
	return schema.FromTableMetadata(meta), nil
}
