package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"volmigrate/internal/cloudstack"
	"volmigrate/internal/logging"
	"volmigrate/internal/receipt"
	"volmigrate/internal/worklist"
)

// Inventory is the remote capability the monitor depends on.
type Inventory interface {
	VolumeByID(ctx context.Context, id string) (cloudstack.VolumeAttrs, error)
	QueryAsyncJobResult(ctx context.Context, jobID string) (cloudstack.AsyncJobResult, error)
}

// Row is one ledger entry joined with the volume's and job's current state.
type Row struct {
	worklist.Record
	JobID         string
	Started       string
	JobStatus     int
	JobResultCode int
}

// StatusText renders the row's job status for display.
func (r Row) StatusText() string {
	return cloudstack.AsyncJobResult{JobStatus: r.JobStatus}.StatusText()
}

// Monitor re-derives migration status from receipt entries.
type Monitor struct {
	Inventory Inventory
	Logger    *slog.Logger
}

// Collect builds one Row per ledger entry and sorts the result by
// (job status, submission time) ascending. Entries are not deduplicated.
func (m *Monitor) Collect(ctx context.Context, entries []receipt.Entry) ([]Row, error) {
	logger := logging.NewComponentLogger(m.Logger, "monitor")

	rows := make([]Row, 0, len(entries))
	for _, entry := range entries {
		attrs, err := m.Inventory.VolumeByID(ctx, entry.VolumeID)
		if err != nil {
			return nil, fmt.Errorf("resolve volume %s: %w", entry.VolumeID, err)
		}
		record, err := worklist.Normalize(attrs)
		if err != nil {
			return nil, fmt.Errorf("volume %s: %w", entry.VolumeID, err)
		}
		result, err := m.Inventory.QueryAsyncJobResult(ctx, entry.JobID)
		if err != nil {
			return nil, fmt.Errorf("query job %s: %w", entry.JobID, err)
		}
		rows = append(rows, Row{
			Record:        record,
			JobID:         entry.JobID,
			Started:       entry.Started,
			JobStatus:     result.JobStatus,
			JobResultCode: result.JobResultCode,
		})
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		if a.JobStatus != b.JobStatus {
			return a.JobStatus - b.JobStatus
		}
		return strings.Compare(a.Started, b.Started)
	})

	logger.Debug("collected job status", slog.Int("rows", len(rows)))
	return rows, nil
}
