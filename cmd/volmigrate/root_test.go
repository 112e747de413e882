package main

import (
	"testing"

	"volmigrate/internal/testsupport"
)

func TestRootShowsHelp(t *testing.T) {
	env := setupCLIEnv(t, &testsupport.FakeCloudStack{})
	stdout, _, err := runCLI(t, env)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	for _, sub := range []string{"prepare", "migrate", "monitor"} {
		requireContains(t, stdout, sub)
	}
}

func TestUnknownSubcommand(t *testing.T) {
	env := setupCLIEnv(t, &testsupport.FakeCloudStack{})
	_, _, err := runCLI(t, env, "teleport")
	if err == nil {
		t.Fatal("expected error for unknown subcommand")
	}
}
