package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimeLayout is the timestamp format used in receipt file names and lines.
const TimeLayout = "20060102-150405"

// Entry is one submitted migration as recorded in the ledger.
type Entry struct {
	VolumeID string
	JobID    string
	Started  string
}

// Writer appends receipts for one migration run. The file is created lazily
// on the first Append, so a run with no confirmed migration leaves no file.
type Writer struct {
	path string
	file *os.File
}

// NewWriter prepares a writer for a run that started at the given time.
func NewWriter(dir, prefix string, start time.Time) *Writer {
	name := prefix + start.UTC().Format(TimeLayout)
	return &Writer{path: filepath.Join(dir, name)}
}

// Path returns the receipt file location for this run.
func (w *Writer) Path() string {
	return w.path
}

// Append records one submitted migration.
func (w *Writer) Append(volumeID, jobID string, submitted time.Time) error {
	if w.file == nil {
		file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open receipt file: %w", err)
		}
		w.file = file
	}
	line := fmt.Sprintf("%s;%s;%s\n", volumeID, jobID, submitted.UTC().Format(TimeLayout))
	if _, err := w.file.WriteString(line); err != nil {
		return fmt.Errorf("append receipt: %w", err)
	}
	return nil
}

// Close releases the underlying file, if one was created.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// Scan reads every receipt file in dir whose name starts with prefix and
// returns all entries. Entries are not deduplicated: a volume migrated in two
// runs appears twice, matching the ledger's append-only nature.
func Scan(dir, prefix string) ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"*"))
	if err != nil {
		return nil, fmt.Errorf("scan receipts: %w", err)
	}

	var entries []Entry
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read receipt %s: %w", path, err)
		}
		for lineNo, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			fields := strings.Split(line, ";")
			if len(fields) != 3 {
				return nil, fmt.Errorf("receipt %s line %d: expected 3 fields, got %d", path, lineNo+1, len(fields))
			}
			entries = append(entries, Entry{
				VolumeID: fields[0],
				JobID:    fields[1],
				Started:  fields[2],
			})
		}
	}
	return entries, nil
}
