// Package testsupport provides shared fixtures for volmigrate tests: an
// in-process fake of the CloudStack query API and helpers for writing
// throwaway configuration files.
package testsupport
