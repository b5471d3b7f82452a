package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/ikkim/shopstats-backend/internal/storage"
	"github.com/xuri/excelize/v2"
)

// ObjectOpener fetches remote sources; *storage.S3Storage satisfies it.
type ObjectOpener interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Sheet is a header-addressed tabular source. Lines are 1-based and count the header.
type Sheet struct {
	Source  string
	columns map[string]int
	rows    [][]string
}

// Record is one data row of a Sheet.
type Record struct {
	Line   int
	sheet  *Sheet
	values []string
}

func newSheet(source string, records [][]string) (*Sheet, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", source)
	}
	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := columns[name]; dup {
			return nil, fmt.Errorf("%s: duplicate column %q", source, name)
		}
		columns[name] = i
	}
	return &Sheet{Source: source, columns: columns, rows: records[1:]}, nil
}

// Require fails on the first absent column.
func (s *Sheet) Require(names ...string) error {
	for _, name := range names {
		if !s.Has(name) {
			return fmt.Errorf("%s: missing required column %q", s.Source, name)
		}
	}
	return nil
}

func (s *Sheet) Has(name string) bool {
	_, ok := s.columns[name]
	return ok
}

func (s *Sheet) Len() int { return len(s.rows) }

func (s *Sheet) Record(i int) Record {
	return Record{Line: i + 2, sheet: s, values: s.rows[i]}
}

// Get returns the trimmed cell of a column, or "" for absent columns and short rows.
func (r Record) Get(name string) string {
	i, ok := r.sheet.columns[name]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

// SourceReader opens ingestion sources from the local filesystem or S3.
type SourceReader struct {
	objects ObjectOpener
}

// NewSourceReader builds a reader; objects may be nil when no source is remote.
func NewSourceReader(objects ObjectOpener) *SourceReader {
	return &SourceReader{objects: objects}
}

// Read loads a .csv or .xlsx source, addressed by local path or s3://bucket/key.
func (r *SourceReader) Read(ctx context.Context, source string) (*Sheet, error) {
	name := source
	var body io.ReadCloser
	if storage.IsURI(source) {
		bucket, key, err := storage.ParseURI(source)
		if err != nil {
			return nil, err
		}
		if r.objects == nil {
			return nil, fmt.Errorf("%s: s3 source given but no s3 storage is configured", source)
		}
		if body, err = r.objects.Open(ctx, bucket, key); err != nil {
			return nil, err
		}
		name = key
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open source: %w", err)
		}
		body = f
	}
	defer body.Close()

	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".csv":
		return readCSV(source, body)
	case ".xlsx":
		return readXLSX(source, body)
	default:
		return nil, fmt.Errorf("%s: unsupported source format %q", source, ext)
	}
}

func readCSV(source string, body io.Reader) (*Sheet, error) {
	reader := csv.NewReader(body)
	// short rows are padded by Record.Get
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse csv: %w", source, err)
	}
	return newSheet(source, records)
}

func readXLSX(source string, body io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open workbook: %w", source, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%s: workbook has no sheets", source)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read sheet %q: %w", source, sheetName, err)
	}
	return newSheet(source, rows)
}
