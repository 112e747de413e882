package receipt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var runStart = time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)

func TestWriterLazyCreation(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir, "joblist-", runStart)
	defer writer.Close()

	if _, err := os.Stat(writer.Path()); err == nil {
		t.Fatal("receipt file must not exist before the first Append")
	}
	if got, want := filepath.Base(writer.Path()), "joblist-20260829-143000"; got != want {
		t.Errorf("file name: got %q, want %q", got, want)
	}

	if err := writer.Append("v1", "job-1", runStart.Add(time.Minute)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := writer.Append("v2", "job-2", runStart.Add(2*time.Minute)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(writer.Path())
	if err != nil {
		t.Fatalf("read receipt: %v", err)
	}
	want := "v1;job-1;20260829-143100\nv2;job-2;20260829-143200\n"
	if string(data) != want {
		t.Errorf("receipt content:\ngot  %q\nwant %q", data, want)
	}
}

func TestScanMergesFiles(t *testing.T) {
	dir := t.TempDir()

	first := NewWriter(dir, "joblist-", runStart)
	if err := first.Append("v1", "job-1", runStart); err != nil {
		t.Fatalf("Append: %v", err)
	}
	first.Close()

	second := NewWriter(dir, "joblist-", runStart.Add(time.Hour))
	if err := second.Append("v2", "job-2", runStart.Add(time.Hour)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	// Duplicate volume across runs stays duplicated in the ledger.
	if err := second.Append("v1", "job-3", runStart.Add(time.Hour)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	second.Close()

	// A file outside the prefix is not part of the ledger.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x;y;z\n"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	entries, err := Scan(dir, "joblist-")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].VolumeID != "v1" || entries[0].JobID != "job-1" || entries[0].Started != "20260829-143000" {
		t.Errorf("first entry: %+v", entries[0])
	}
}

func TestScanEmptyDir(t *testing.T) {
	entries, err := Scan(t.TempDir(), "joblist-")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %+v", entries)
	}
}

func TestScanRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "joblist-x"), []byte("v1;job-1\n"), 0o644); err != nil {
		t.Fatalf("write receipt: %v", err)
	}
	_, err := Scan(dir, "joblist-")
	if err == nil || !strings.Contains(err.Error(), "expected 3 fields") {
		t.Fatalf("expected malformed-line error, got %v", err)
	}
}
