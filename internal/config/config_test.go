package config

import (
	"strings"
	"testing"
)

func TestParseManifestAppliesDefaults(t *testing.T) {
	r := strings.NewReader(`
[session]
template = "png"
`)
	m, errs := ParseManifest(r)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if m.Session.RandSize != DefaultRandSize {
		t.Fatalf("RandSize = %d, want default %d", m.Session.RandSize, DefaultRandSize)
	}
	if m.Session.Iterations != DefaultIterations {
		t.Fatalf("Iterations = %d, want default %d", m.Session.Iterations, DefaultIterations)
	}
}

func TestParseManifestRejectsMissingTemplate(t *testing.T) {
	r := strings.NewReader(`
[session]
randSize = 128
`)
	_, errs := ParseManifest(r)
	if len(errs) == 0 {
		t.Fatal("expected an error for a manifest with no template")
	}
}

func TestParseManifestHonorsExplicitBudgets(t *testing.T) {
	r := strings.NewReader(`
[session]
template = "png"
randSize = 256
iterations = 50
decisionsFile = "/tmp/seed"
`)
	m, errs := ParseManifest(r)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if m.Session.RandSize != 256 || m.Session.Iterations != 50 {
		t.Fatalf("got %+v, want RandSize=256 Iterations=50", m.Session)
	}
	if m.Session.DecisionsFile != "/tmp/seed" {
		t.Fatalf("DecisionsFile = %q, want /tmp/seed", m.Session.DecisionsFile)
	}
}
