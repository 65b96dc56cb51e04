// Package dataset loads the course table and the labeled evaluation cases
// from disk. All engine I/O happens here, once, upstream of fitting.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/studyhub-ai/courserank/internal/domain"
	"github.com/studyhub-ai/courserank/internal/domain/course"
)

// Column headers recognized in the course table.
const (
	colName        = "name"
	colAbout       = "about"
	colDescription = "course description"
	colUniversity  = "university"
	colLink        = "link"
	colCategory    = "category"
)

// CSVSource loads courses from a CSV course table.
type CSVSource struct {
	path   string
	logger *zap.Logger
}

// NewCSVSource creates a loader for the given table path.
func NewCSVSource(path string, logger *zap.Logger) *CSVSource {
	return &CSVSource{path: path, logger: logger}
}

// Load reads the whole course table. Either every row loads or the call
// fails; there are no partial loads. A missing file yields an error wrapping
// domain.ErrDataNotFound. Missing or malformed cells in a row become empty
// strings rather than aborting the load.
func (s *CSVSource) Load(ctx context.Context) ([]course.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	f, err := os.Open(filepath.Clean(s.path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open dataset %s: %w", s.path, domain.ErrDataNotFound)
		}
		return nil, fmt.Errorf("open dataset %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are normalized, not fatal
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", s.path, err)
	}
	if len(records) == 0 {
		s.logger.Warn("Dataset has no header row", zap.String("path", s.path))
		return nil, nil
	}

	cols := resolveColumns(records[0])

	courses := make([]course.Course, 0, len(records)-1)
	for _, rec := range records[1:] {
		courses = append(courses, course.New(
			cell(rec, cols[colName]),
			cell(rec, cols[colUniversity]),
			cell(rec, cols[colLink]),
			cell(rec, cols[colCategory]),
			cell(rec, cols[colAbout]),
			cell(rec, cols[colDescription]),
		))
	}

	s.logger.Info("Dataset loaded",
		zap.String("path", s.path),
		zap.Int("courses", len(courses)),
	)
	return courses, nil
}

// resolveColumns maps recognized header names (case-insensitive) to their
// positions. Unknown headers are ignored; absent headers map to -1.
func resolveColumns(header []string) map[string]int {
	cols := map[string]int{
		colName: -1, colAbout: -1, colDescription: -1,
		colUniversity: -1, colLink: -1, colCategory: -1,
	}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, known := cols[key]; known {
			cols[key] = i
		}
	}
	return cols
}

// cell returns the trimmed value at idx, or "" when the column is absent or
// the row is too short.
func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}
