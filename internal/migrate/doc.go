// Package migrate replays a worklist against the platform, one volume at a
// time. Each row is re-resolved to its current state before anything happens:
// the freshly fetched VM power state decides between live and offline
// migration, the operator confirms or skips the row, and every submitted
// migration lands in the run's receipt file.
//
// Rows are processed strictly sequentially with a confirmation gate between
// remote calls. Storage migration is I/O-heavy on the backing array, so
// batching without a per-volume go/no-go is deliberately not offered.
package migrate
