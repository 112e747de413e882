package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"volmigrate/internal/testsupport"
)

type cliEnv struct {
	configPath  string
	receiptsDir string
	fake        *testsupport.FakeCloudStack
}

func setupCLIEnv(t *testing.T, fake *testsupport.FakeCloudStack) *cliEnv {
	t.Helper()
	server := testsupport.NewServer(t, fake)
	configPath := testsupport.WriteConfig(t, server.URL)
	return &cliEnv{
		configPath:  configPath,
		receiptsDir: filepath.Join(filepath.Dir(configPath), "receipts"),
		fake:        fake,
	}
}

func runCLI(t *testing.T, env *cliEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--config", env.configPath))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !bytes.Contains([]byte(haystack), []byte(needle)) {
		t.Fatalf("output missing %q:\n%s", needle, haystack)
	}
}
