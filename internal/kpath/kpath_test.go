package kpath

import "testing"

func TestKPathsLengthOneIsJustTheStarts(t *testing.T) {
	g := Graph{"A": {"B"}, "B": {"A", "leaf"}}
	paths := KPaths(1, g)
	if len(paths) != 2 {
		t.Fatalf("len(paths) = %d, want 2", len(paths))
	}
	for _, p := range paths {
		if len(p) != 1 {
			t.Fatalf("path %v has length %d, want 1", p, len(p))
		}
	}
}

func TestKPathsFinalStepAcceptsTerminalsAndNonTerminals(t *testing.T) {
	g := Graph{
		"A": {"B", "leaf1"},
		"B": {"A", "leaf2"},
	}
	paths := KPaths(2, g)

	var sawLeafFromA, sawNonTerminalFromA bool
	for _, p := range paths {
		if len(p) != 2 || p[0] != "A" {
			continue
		}
		switch p[1] {
		case "leaf1":
			sawLeafFromA = true
		case "B":
			sawNonTerminalFromA = true
		}
	}
	if !sawLeafFromA || !sawNonTerminalFromA {
		t.Fatalf("paths = %v, want both a terminal and non-terminal expansion from A", paths)
	}
}

func TestKPathsDedupesWithinAFrontier(t *testing.T) {
	g := Graph{
		"A": {"B", "B"}, // duplicate expansion
		"B": {"leaf"},
	}
	paths := KPaths(2, g)
	count := 0
	for _, p := range paths {
		if len(p) == 2 && p[0] == "A" && p[1] == "B" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("A->B appeared %d times, want exactly 1", count)
	}
}

func TestPathStringMatchesOriginalFormat(t *testing.T) {
	p := Path{"A", "B", "leaf"}
	got := p.String()
	want := "Start: -> A -> B -> leaf :, End"
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
