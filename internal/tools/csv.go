package tools

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", key)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("argument %q cannot be empty", key)
	}
	return s, nil
}

func optionalStringArg(args map[string]any, key, fallback string) (string, error) {
	v, ok := args[key]
	if !ok {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", key)
	}
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	return strings.TrimSpace(s), nil
}

// resolveConfinedPath joins a model-supplied relative path onto a root
// directory and rejects anything that would escape it.
func resolveConfinedPath(rootDir, input string) (string, error) {
	if strings.TrimSpace(rootDir) == "" {
		return "", errors.New("root directory is required")
	}
	if filepath.IsAbs(input) {
		return "", fmt.Errorf("absolute paths are not allowed: %q", input)
	}
	rootAbs, err := filepath.Abs(rootDir)
	if err != nil {
		return "", fmt.Errorf("resolve root path: %w", err)
	}

	candidate := filepath.Clean(filepath.Join(rootAbs, input))
	rel, err := filepath.Rel(rootAbs, candidate)
	if err != nil {
		return "", fmt.Errorf("resolve relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes the data directory", input)
	}
	return candidate, nil
}

// table is a parsed CSV: a header row plus column-major values.
type table struct {
	columns []string
	values  [][]string
}

func (t *table) rows() int {
	if len(t.values) == 0 {
		return 0
	}
	return len(t.values[0])
}

func (t *table) column(name string) ([]string, bool) {
	for i, col := range t.columns {
		if col == name {
			return t.values[i], true
		}
	}
	return nil, false
}

func loadTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv file %q is empty", filepath.Base(path))
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	t := &table{
		columns: make([]string, len(header)),
		values:  make([][]string, len(header)),
	}
	for i, col := range header {
		t.columns[i] = strings.TrimSpace(col)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		for i := range t.columns {
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			t.values[i] = append(t.values[i], value)
		}
	}
	return t, nil
}

// numericColumn parses every non-missing cell as a float. It reports ok=false
// when the column holds no values or any cell fails to parse.
func numericColumn(cells []string) ([]float64, bool) {
	out := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, len(out) > 0
}
