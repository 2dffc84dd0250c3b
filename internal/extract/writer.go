package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSVWriter writes one partition's rows to a CSV file.
type CSVWriter struct {
	file *os.File
	w    *csv.Writer
}

// NewCSVWriter creates the file at path, creating parent directories as
// needed.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path) //nolint:gosec // path is derived from user-configured output dir
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &CSVWriter{file: f, w: csv.NewWriter(f)}, nil
}

// WriteHeader writes the field-name header row.
func (c *CSVWriter) WriteHeader(fields []string) error {
	return c.w.Write(fields)
}

// WriteRecord writes one data row.
func (c *CSVWriter) WriteRecord(values []string) error {
	return c.w.Write(values)
}

// Close flushes buffered records and closes the file.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		_ = c.file.Close()
		return err
	}
	return c.file.Close()
}

// CSVWriterFactory returns a WriterFactory producing one numbered CSV
// file per partition under dir (part-00000.csv, part-00001.csv, ...).
func CSVWriterFactory(dir string) WriterFactory {
	return func(index int) (RecordWriter, error) {
		return NewCSVWriter(filepath.Join(dir, fmt.Sprintf("part-%05d.csv", index)))
	}
}
