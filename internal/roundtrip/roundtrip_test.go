package roundtrip

import (
	"testing"

	"github.com/jrenckens/gofuzzer/internal/session"
)

// echoTemplate generates/parses a fixed-width 4-byte record; every decision
// byte maps directly to a file byte, so it is trivially invertible and
// exercises Run without depending on another package's template.
type echoTemplate struct{}

func (echoTemplate) Name() string { return "echo-test" }

func (echoTemplate) Run(s *session.Session) error {
	s.Chunk("record", "Record", func() {
		s.Bytes(4)
	})
	return nil
}

func sequentialEntropy() EntropySource {
	counter := byte(0)
	return func(n int) ([]byte, error) {
		out := make([]byte, n)
		for i := range out {
			counter++
			out[i] = counter
		}
		return out, nil
	}
}

func TestRunSucceedsOnInvertibleTemplate(t *testing.T) {
	res, err := Run(echoTemplate{}, 5, 4, sequentialEntropy())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Mismatch != nil {
		t.Fatalf("unexpected mismatch: %+v", res.Mismatch)
	}
	if res.Generated != 5 || res.Attempts != 5 {
		t.Fatalf("Generated=%d Attempts=%d, want 5/5", res.Generated, res.Attempts)
	}
}

// truncatingTemplate handles 4 bytes on odd-numbered calls and 3 on
// even-numbered ones. In Run's first iteration the parse is the second call,
// so it recovers only 3 decision bytes; regeneration then reads past their
// end, fills the fourth file byte with 0, and differs from the original — a
// deliberate mismatch to exercise the debug-artifact path.
type truncatingTemplate struct{ calls int }

func (t *truncatingTemplate) Name() string { return "truncating-test" }

func (t *truncatingTemplate) Run(s *session.Session) error {
	t.calls++
	n := 4
	if t.calls%2 == 0 {
		n = 3
	}
	s.Chunk("record", "Record", func() {
		s.Bytes(n)
	})
	return nil
}

func TestRunReportsMismatch(t *testing.T) {
	tpl := &truncatingTemplate{}
	res, err := Run(tpl, 4, 4, sequentialEntropy())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Mismatch == nil {
		t.Fatal("expected a mismatch from a template whose width varies across calls")
	}
	if len(res.Mismatch.R0) == 0 || len(res.Mismatch.F0) == 0 {
		t.Fatalf("mismatch missing r0/f0: %+v", res.Mismatch)
	}
}

func TestPersistDebugArtifactsWritesExpectedFiles(t *testing.T) {
	m := Mismatch{R0: []byte{1}, F0: []byte{2}, R1: []byte{3}, F1: []byte{4}}
	written := map[string][]byte{}
	err := m.PersistDebugArtifacts("/tmp/roundtrip-debug", func(path string, data []byte) error {
		written[path] = data
		return nil
	})
	if err != nil {
		t.Fatalf("PersistDebugArtifacts: %v", err)
	}
	for _, name := range []string{"r0", "f0", "r1", "f1"} {
		if _, ok := written["/tmp/roundtrip-debug/"+name]; !ok {
			t.Fatalf("expected %s to be written, got %v", name, written)
		}
	}
}
