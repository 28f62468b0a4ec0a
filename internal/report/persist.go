package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"example.com/stock-pattern-scanner/internal/scan"
)

// Writer saves scan output to timestamped files.
type Writer struct {
	dir string

	// Now supplies the timestamp embedded in file names.
	Now func() time.Time
}

// NewWriter creates a report writer rooted at dir.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir, Now: time.Now}
}

// document is the persisted JSON shape: results plus summary in one file.
type document struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Results     []scan.Result `json:"results"`
	Summary     scan.Summary  `json:"summary"`
}

// SaveJSON writes results and summary as indented JSON and returns the path.
func (w *Writer) SaveJSON(results []scan.Result, summary scan.Summary) (string, error) {
	doc := document{
		GeneratedAt: w.Now(),
		Results:     results,
		Summary:     summary,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	path := w.path("json")
	if err := w.write(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// SaveCSV writes the result rows as CSV and returns the path.
func (w *Writer) SaveCSV(results []scan.Result) (string, error) {
	path := w.path("csv")
	tempPath := path + ".tmp"

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}
	f, err := os.Create(tempPath)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}

	cw := csv.NewWriter(f)
	header := []string{
		"symbol", "pattern_type", "pattern_date", "pattern_strength",
		"confidence_score", "recommendation", "close_price", "volume",
		"high", "low", "days_ago",
	}
	if err := cw.Write(header); err != nil {
		f.Close()
		return "", fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.Symbol,
			string(r.Pattern),
			r.Date,
			strconv.Itoa(r.Strength),
			strconv.Itoa(r.Confidence),
			r.Recommendation,
			strconv.FormatFloat(r.Close, 'f', 2, 64),
			strconv.FormatInt(r.Volume, 10),
			strconv.FormatFloat(r.High, 'f', 2, 64),
			strconv.FormatFloat(r.Low, 'f', 2, 64),
			strconv.Itoa(r.DaysAgo),
		}
		if err := cw.Write(row); err != nil {
			f.Close()
			return "", fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tempPath, path); err != nil {
		return "", err
	}
	return path, nil
}

func (w *Writer) path(ext string) string {
	name := fmt.Sprintf("scan_results_%s.%s", w.Now().Format("20060102_150405"), ext)
	return filepath.Join(w.dir, name)
}

// write saves data atomically: temp file first, then rename.
func (w *Writer) write(path string, data []byte) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return os.Rename(tempPath, path)
}
