package extract

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapsync/internal/partition"
	"github.com/leapstack-labs/leapsync/pkg/adapter"
	"github.com/leapstack-labs/leapsync/pkg/core"
	"github.com/leapstack-labs/leapsync/pkg/dialect"
)

type stubAdapter struct {
	adapter.BaseSQLAdapter
}

func (s *stubAdapter) Connect(_ context.Context, cfg core.ConnectionConfig) error {
	s.Cfg = cfg
	return nil
}

func (s *stubAdapter) PrimaryKey(_ context.Context, _ string) (string, error) {
	return "", nil
}

func (s *stubAdapter) GetTableMetadata(_ context.Context, _ string) (*core.TableMetadata, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubAdapter) Dialect() *dialect.Dialect {
	return dialect.ANSI()
}

// memoryWriter collects records in memory. Records are copied because the
// extractor reuses its scan buffer between rows.
type memoryWriter struct {
	mu      sync.Mutex
	header  []string
	records [][]string
	closed  bool
}

func (m *memoryWriter) WriteHeader(fields []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.header = append([]string(nil), fields...)
	return nil
}

func (m *memoryWriter) WriteRecord(values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, append([]string(nil), values...))
	return nil
}

func (m *memoryWriter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func newTestExtractor(t *testing.T, parallel int) (*Extractor, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	stub := &stubAdapter{}
	stub.DB = db
	return New(stub, parallel, nil), mock
}

func TestRunSubstitutesConditionPerPartition(t *testing.T) {
	e, mock := newTestExtractor(t, 1)

	mock.ExpectQuery(`SELECT id, name FROM "users" WHERE id >= 1 AND id < 50`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("1", "ada").
			AddRow("2", "brian"))
	mock.ExpectQuery(`SELECT id, name FROM "users" WHERE id >= 50 AND id <= 100`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("99", nil))

	writers := make([]*memoryWriter, 2)
	factory := func(index int) (RecordWriter, error) {
		writers[index] = &memoryWriter{}
		return writers[index], nil
	}

	total, err := e.Run(context.Background(),
		`SELECT id, name FROM "users" WHERE ${CONDITIONS}`,
		[]string{"id", "name"},
		[]partition.Partition{
			{Condition: "id >= 1 AND id < 50"},
			{Condition: "id >= 50 AND id <= 100"},
		},
		factory)
	require.NoError(t, err)

	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"id", "name"}, writers[0].header)
	assert.Equal(t, [][]string{{"1", "ada"}, {"2", "brian"}}, writers[0].records)
	// NULL renders as the empty string.
	assert.Equal(t, [][]string{{"99", ""}}, writers[1].records)
	assert.True(t, writers[0].closed)
	assert.True(t, writers[1].closed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRejectsTemplateWithoutToken(t *testing.T) {
	e, _ := newTestExtractor(t, 1)

	_, err := e.Run(context.Background(), "SELECT * FROM t", nil,
		[]partition.Partition{{Condition: "1 = 1"}},
		func(int) (RecordWriter, error) { return &memoryWriter{}, nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "${CONDITIONS}")
}

func TestRunPartitionFailure(t *testing.T) {
	e, mock := newTestExtractor(t, 1)

	mock.ExpectQuery("SELECT id FROM t WHERE id < 10").
		WillReturnError(fmt.Errorf("relation does not exist"))

	w := &memoryWriter{}
	total, err := e.Run(context.Background(),
		"SELECT id FROM t WHERE ${CONDITIONS}",
		[]string{"id"},
		[]partition.Partition{{Condition: "id < 10"}},
		func(int) (RecordWriter, error) { return w, nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partition 0")
	assert.Zero(t, total)
	assert.True(t, w.closed, "writer must be released on failure")
}

func TestRunConcurrentPartitions(t *testing.T) {
	e, mock := newTestExtractor(t, 4)
	mock.MatchExpectationsInOrder(false)

	for i := 0; i < 4; i++ {
		mock.ExpectQuery(fmt.Sprintf("SELECT id FROM t WHERE bucket = %d", i)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(fmt.Sprint(i)))
	}

	parts := make([]partition.Partition, 4)
	for i := range parts {
		parts[i] = partition.Partition{Condition: fmt.Sprintf("bucket = %d", i)}
	}

	var mu sync.Mutex
	writers := make(map[int]*memoryWriter)
	factory := func(index int) (RecordWriter, error) {
		w := &memoryWriter{}
		mu.Lock()
		writers[index] = w
		mu.Unlock()
		return w, nil
	}

	total, err := e.Run(context.Background(),
		"SELECT id FROM t WHERE ${CONDITIONS}", []string{"id"}, parts, factory)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, writers, 4)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCSVWriter(t *testing.T) {
	dir := t.TempDir()
	factory := CSVWriterFactory(dir)

	w, err := factory(0)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader([]string{"id", "name"}))
	require.NoError(t, w.WriteRecord([]string{"1", "ada"}))
	require.NoError(t, w.WriteRecord([]string{"2", "with,comma"}))
	require.NoError(t, w.Close())

	f, err := os.Open(filepath.Join(dir, "part-00000.csv"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"id", "name"},
		{"1", "ada"},
		{"2", "with,comma"},
	}, records)
}
