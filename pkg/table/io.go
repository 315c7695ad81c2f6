package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"news-enricher/pkg/utils"
)

// ReadDir reads every *.csv file in dir (in filename order) and concatenates
// them into a single Table. All files must share an identical header row.
// Structural problems (no files, ragged rows, header mismatch) are fatal.
func ReadDir(dir string, log *logrus.Logger) (*Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading input directory '%s': %w", utils.ErrTable, dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no CSV files found in '%s'", utils.ErrTable, dir)
	}

	var combined *Table
	for _, path := range files {
		t, err := readFile(path)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"file": path, "rows": t.RowCount()}).Info("Read input file")

		if combined == nil {
			combined = t
			continue
		}
		if !headersEqual(combined.Header, t.Header) {
			return nil, fmt.Errorf("%w: header of '%s' does not match earlier files (%v vs %v)",
				utils.ErrTable, path, t.Header, combined.Header)
		}
		combined.Rows = append(combined.Rows, t.Rows...)
	}

	log.WithFields(logrus.Fields{"files": len(files), "rows": combined.RowCount()}).Info("Input table assembled")
	return combined, nil
}

// readFile parses a single CSV file into a Table.
func readFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening '%s': %w", utils.ErrTable, path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: CSV parse error in '%s': %w", utils.ErrTable, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: '%s' is empty (missing header row)", utils.ErrTable, path)
	}

	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// Write saves the table as a timestamped CSV in dir, creating the directory
// if needed, and returns the written path.
func Write(t *Table, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: creating output directory '%s': %w", utils.ErrTable, dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("enriched_data_%d.csv", time.Now().Unix()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: creating '%s': %w", utils.ErrTable, path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return "", fmt.Errorf("%w: writing header to '%s': %w", utils.ErrTable, path, err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return "", fmt.Errorf("%w: writing rows to '%s': %w", utils.ErrTable, path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("%w: flushing '%s': %w", utils.ErrTable, path, err)
	}

	return path, nil
}

func headersEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
