// Package logging assembles the structured slog loggers used across volmigrate.
//
// Commands log to stderr so that worklists, tables, and confirmation prompts on
// stdout stay consumable by pipes and files. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
