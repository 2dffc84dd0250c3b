// Package extract streams partitioned row sets out of the source
// database. It instantiates the planner's data SQL template once per
// partition and runs partitions concurrently over the adapter's
// connection pool.
package extract

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapsync/internal/partition"
	"github.com/leapstack-labs/leapsync/pkg/adapter"
	"github.com/leapstack-labs/leapsync/pkg/core"
)

// RecordWriter receives the rows of one partition. Implementations do not
// need to be safe for concurrent use; each partition gets its own writer.
type RecordWriter interface {
	// WriteHeader is called once, before any record, with the plan's
	// field names.
	WriteHeader(fields []string) error
	// WriteRecord is called once per row with values rendered as text;
	// SQL NULL becomes the empty string.
	WriteRecord(values []string) error
	// Close flushes and releases the writer.
	Close() error
}

// WriterFactory creates the RecordWriter for one partition index.
type WriterFactory func(index int) (RecordWriter, error)

// Extractor runs the per-partition extraction queries.
type Extractor struct {
	adapter  adapter.Adapter
	logger   *slog.Logger
	parallel int
}

// New creates an extractor over a connected adapter. parallel bounds the
// number of concurrently running partition queries; values below 1 mean
// one at a time. If logger is nil, a discard logger is used.
func New(ad adapter.Adapter, parallel int, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if parallel < 1 {
		parallel = 1
	}
	return &Extractor{adapter: ad, logger: logger, parallel: parallel}
}

// Run extracts every partition of the plan's row set. It returns the
// total number of rows written. The first failing partition cancels the
// remaining ones.
func (e *Extractor) Run(ctx context.Context, dataSQL string, fields []string, parts []partition.Partition, writers WriterFactory) (int64, error) {
	if !strings.Contains(dataSQL, core.ConditionsToken) {
		return 0, fmt.Errorf("data SQL does not contain the %s token", core.ConditionsToken)
	}

	var total atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallel)

	for i, part := range parts {
		g.Go(func() error {
			rows, err := e.extractPartition(ctx, dataSQL, fields, part, i, writers)
			if err != nil {
				return fmt.Errorf("partition %d: %w", i, err)
			}
			total.Add(rows)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return total.Load(), err
	}
	return total.Load(), nil
}

func (e *Extractor) extractPartition(ctx context.Context, dataSQL string, fields []string, part partition.Partition, index int, writers WriterFactory) (int64, error) {
	partSQL := strings.ReplaceAll(dataSQL, core.ConditionsToken, part.Condition)
	e.logger.Debug("extracting partition",
		slog.Int("partition", index),
		slog.String("condition", part.Condition))

	w, err := writers(index)
	if err != nil {
		return 0, fmt.Errorf("failed to create writer: %w", err)
	}
	defer func() { _ = w.Close() }()

	if err := w.WriteHeader(fields); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	rows, err := e.adapter.Query(ctx, partSQL)
	if err != nil {
		return 0, fmt.Errorf("extraction query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return 0, fmt.Errorf("extraction metadata unavailable: %w", err)
	}

	values := make([]sql.NullString, len(columns))
	scanArgs := make([]any, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	record := make([]string, len(columns))

	var count int64
	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return count, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if v.Valid {
				record[i] = v.String
			} else {
				record[i] = ""
			}
		}
		if err := w.WriteRecord(record); err != nil {
			return count, fmt.Errorf("failed to write record: %w", err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("error iterating rows: %w", err)
	}

	e.logger.Debug("partition complete", slog.Int("partition", index), slog.Int64("rows", count))
	return count, nil
}
