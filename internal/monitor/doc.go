// Package monitor derives a live status view from the job receipt ledger.
// Every invocation re-reads the receipt files and re-queries each tracked
// volume and async job; nothing is cached or persisted, so polling it in a
// loop is safe.
package monitor
