package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestWatchCmdRejectsNonRepository(t *testing.T) {
	cmd := NewWatchCmd()
	cmd.SetArgs([]string{t.TempDir()})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for a directory without .git")
	}
	if !strings.Contains(err.Error(), "not a git repository") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWatchCmdFlags(t *testing.T) {
	cmd := NewWatchCmd()

	for _, name := range []string{"debounce", "json", "regex", "rules", "entropy", "max-depth"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing flag %q", name)
		}
	}
}
