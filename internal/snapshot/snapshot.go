package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gradecheck/internal/grade"

	"github.com/natefinch/atomic"
)

// ErrNotFound is returned by Load when there is no snapshot yet, it wraps
// fs.ErrNotExist.
var ErrNotFound = fmt.Errorf("snapshot: %w", fs.ErrNotExist)

// Exists reports whether a snapshot file is present at `path`.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads the snapshot at `path`.
func Load(path string) ([]grade.Record, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	}

	var rows []grade.Row
	err = json.Unmarshal(contents, &rows)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", path, err)
	}
	records, err := grade.FromRows(rows, grade.CanonicalFields())
	if err != nil {
		return nil, fmt.Errorf("snapshot: %s: %w", path, err)
	}
	return records, nil
}

// Save replaces the snapshot at `path` with `records`. The file is written
// to a temporary file first and renamed over the old one.
func Save(path string, records []grade.Record) error {
	if records == nil {
		records = []grade.Record{}
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	err = atomic.WriteFile(path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("snapshot: write %s: %w", path, err)
	}
	return nil
}
