package main

import (
	"testing"

	"github.com/jrenckens/gofuzzer/internal/gofuzzerr"
	_ "github.com/jrenckens/gofuzzer/internal/templates/png"
)

func TestLookupCommandFindsEveryRegisteredName(t *testing.T) {
	want := []string{"fuzz", "parse", "replace", "delete", "insert",
		"mutations", "test", "benchmark", "kpaths", "version", "help"}
	for _, name := range want {
		if lookupCommand(name) == nil {
			t.Errorf("lookupCommand(%q) = nil, want a registered command", name)
		}
	}
}

func TestLookupCommandReturnsNilForUnknownName(t *testing.T) {
	if lookupCommand("no-such-command") != nil {
		t.Fatal("expected nil for an unregistered command name")
	}
}

func TestRunReplaceRejectsMissingTargetArguments(t *testing.T) {
	got := runReplace([]string{"--sourcefile", "x", "--sourcestart", "0", "--sourceend", "1", "out"})
	if got != gofuzzerr.KindUsage.ExitCode() {
		t.Fatalf("runReplace with no --targetfile = %d, want usage exit code", got)
	}
}

func TestRunDeleteRejectsMissingOutputFile(t *testing.T) {
	got := runDelete([]string{"--targetfile", "x", "--targetstart", "0", "--targetend", "1"})
	if got != gofuzzerr.KindUsage.ExitCode() {
		t.Fatalf("runDelete with no output file = %d, want usage exit code", got)
	}
}

func TestRunInsertRejectsMissingSourceArguments(t *testing.T) {
	got := runInsert([]string{"--targetfile", "x", "--targetstart", "0", "out"})
	if got != gofuzzerr.KindUsage.ExitCode() {
		t.Fatalf("runInsert with no --sourcefile = %d, want usage exit code", got)
	}
}

func TestRunKPathsRejectsTooFewArguments(t *testing.T) {
	got := runKPaths([]string{"2"})
	if got != gofuzzerr.KindUsage.ExitCode() {
		t.Fatalf("runKPaths with no input files = %d, want usage exit code", got)
	}
}

func TestRunVersionReturnsZero(t *testing.T) {
	if got := runVersion(nil); got != 0 {
		t.Fatalf("runVersion() = %d, want 0", got)
	}
}
