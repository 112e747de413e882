package monitor

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"volmigrate/internal/cloudstack"
	"volmigrate/internal/receipt"
)

type fakeInventory struct {
	volumes map[string]cloudstack.VolumeAttrs
	jobs    map[string]cloudstack.AsyncJobResult
}

func (f *fakeInventory) VolumeByID(_ context.Context, id string) (cloudstack.VolumeAttrs, error) {
	attrs, ok := f.volumes[id]
	if !ok {
		return nil, fmt.Errorf("volume %q not found", id)
	}
	return attrs, nil
}

func (f *fakeInventory) QueryAsyncJobResult(_ context.Context, jobID string) (cloudstack.AsyncJobResult, error) {
	result, ok := f.jobs[jobID]
	if !ok {
		return cloudstack.AsyncJobResult{}, fmt.Errorf("job %q not found", jobID)
	}
	return result, nil
}

func volume(id string) cloudstack.VolumeAttrs {
	return cloudstack.VolumeAttrs{
		"id": id, "domain": "ROOT", "name": "vol-" + id, "state": "Ready",
		"vmname": "vm-" + id, "vmstate": "Running",
		"storage": "dstSR", "size": float64(1 << 30),
	}
}

func TestCollectSortsByStatusThenStart(t *testing.T) {
	inventory := &fakeInventory{
		volumes: map[string]cloudstack.VolumeAttrs{
			"v1": volume("v1"), "v2": volume("v2"), "v3": volume("v3"),
		},
		jobs: map[string]cloudstack.AsyncJobResult{
			"job-1": {JobStatus: cloudstack.JobSuccess},
			"job-2": {JobStatus: cloudstack.JobPending},
			"job-3": {JobStatus: cloudstack.JobSuccess},
		},
	}
	entries := []receipt.Entry{
		{VolumeID: "v1", JobID: "job-1", Started: "20260829-120500"},
		{VolumeID: "v2", JobID: "job-2", Started: "20260829-120000"},
		{VolumeID: "v3", JobID: "job-3", Started: "20260829-120100"},
	}

	mon := &Monitor{Inventory: inventory}
	rows, err := mon.Collect(context.Background(), entries)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(rows) != len(entries) {
		t.Fatalf("got %d rows, want %d", len(rows), len(entries))
	}

	var order []string
	for _, row := range rows {
		order = append(order, row.ID)
	}
	// Pending job first, then the successes in submission order.
	if got := strings.Join(order, " "); got != "v2 v3 v1" {
		t.Errorf("order: got %q", got)
	}
	if rows[0].StatusText() != "pending" || rows[1].StatusText() != "success" {
		t.Errorf("status text: %q %q", rows[0].StatusText(), rows[1].StatusText())
	}
	if rows[0].VMName != "vm-v2" || rows[0].Started != "20260829-120000" {
		t.Errorf("row fields: %+v", rows[0])
	}
}

func TestCollectKeepsDuplicates(t *testing.T) {
	inventory := &fakeInventory{
		volumes: map[string]cloudstack.VolumeAttrs{"v1": volume("v1")},
		jobs: map[string]cloudstack.AsyncJobResult{
			"job-1": {JobStatus: cloudstack.JobSuccess},
			"job-2": {JobStatus: cloudstack.JobFailure, JobResultCode: 530},
		},
	}
	entries := []receipt.Entry{
		{VolumeID: "v1", JobID: "job-1", Started: "20260829-120000"},
		{VolumeID: "v1", JobID: "job-2", Started: "20260829-130000"},
	}

	mon := &Monitor{Inventory: inventory}
	rows, err := mon.Collect(context.Background(), entries)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	// One row per ledger line, even for the same volume.
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[1].JobResultCode != 530 || rows[1].StatusText() != "failure" {
		t.Errorf("failure row: %+v", rows[1])
	}
}

func TestCollectPropagatesLookupErrors(t *testing.T) {
	mon := &Monitor{Inventory: &fakeInventory{}}
	_, err := mon.Collect(context.Background(), []receipt.Entry{{VolumeID: "ghost", JobID: "job-x"}})
	if err == nil {
		t.Fatal("expected error for unknown volume")
	}
}
