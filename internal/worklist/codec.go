package worklist

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Header is the literal first line of every worklist file.
const Header = "id;domain;project;vmname;vmstate;name;state;storage;size"

const fieldCount = 9

// Select returns the rows Write would emit: a sorted copy of records with the
// storage filter applied. The filter drops rows at selection time only; the
// caller's slice is left untouched.
func Select(records []Record, storageFilter string) []Record {
	selected := make([]Record, 0, len(records))
	for _, record := range records {
		if storageFilter != "" && record.Storage != storageFilter {
			continue
		}
		selected = append(selected, record)
	}
	sortRecords(selected)
	return selected
}

// Write serializes records to w in worklist format. Records are sorted by
// (domain, project, vmname, name) ascending under case-insensitive collation;
// when storageFilter is non-empty, rows on a different storage pool are
// dropped at serialization time.
func Write(w io.Writer, records []Record, storageFilter string) error {
	out := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(out, Header); err != nil {
		return fmt.Errorf("write worklist header: %w", err)
	}
	for _, record := range Select(records, storageFilter) {
		_, err := fmt.Fprintf(out, "%s;%s;%s;%s;%s;%s;%s;%s;%d\n",
			record.ID, record.Domain, record.Project,
			record.VMName, record.VMState, record.Name,
			record.State, record.Storage, record.Size)
		if err != nil {
			return fmt.Errorf("write worklist row: %w", err)
		}
	}
	return out.Flush()
}

// Read parses a worklist. Any line whose first field is literally "id" is a
// header and is skipped, wherever it appears; blank lines are ignored.
func Read(r io.Reader) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if fields[0] == "id" {
			continue
		}
		if len(fields) != fieldCount {
			return nil, fmt.Errorf("worklist line %d: expected %d fields, got %d", lineNo, fieldCount, len(fields))
		}
		size, err := strconv.ParseInt(fields[8], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("worklist line %d: parse size: %w", lineNo, err)
		}
		records = append(records, Record{
			ID:      fields[0],
			Domain:  fields[1],
			Project: fields[2],
			VMName:  fields[3],
			VMState: fields[4],
			Name:    fields[5],
			State:   fields[6],
			Storage: fields[7],
			Size:    size,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read worklist: %w", err)
	}
	return records, nil
}

func sortRecords(records []Record) {
	collator := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(records, func(a, b Record) int {
		if c := collator.CompareString(a.Domain, b.Domain); c != 0 {
			return c
		}
		if c := collator.CompareString(a.Project, b.Project); c != 0 {
			return c
		}
		if c := collator.CompareString(a.VMName, b.VMName); c != 0 {
			return c
		}
		return collator.CompareString(a.Name, b.Name)
	})
}
