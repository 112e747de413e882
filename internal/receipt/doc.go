// Package receipt maintains the job receipt ledger: one append-only file per
// migration run, named with the run's UTC start timestamp, each line recording
// a submitted migration as volume_id;job_id;timestamp. The monitor treats
// every file sharing the configured prefix as one logical ledger. Files are
// never deleted by this tool.
package receipt
