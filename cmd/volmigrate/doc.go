// Package main hosts the volmigrate CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the three phases of a bulk volume
// migration: prepare builds an operator-reviewable worklist, migrate replays a
// worklist with a per-volume confirmation gate, and monitor reports the status
// of submitted migration jobs. Configuration resolution, API client
// construction, and logger setup live in the shared command context so the
// subcommands stay declarative; the heavy lifting sits in the internal
// packages.
package main
