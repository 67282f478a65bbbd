package splice

import (
	"testing"

	"github.com/jrenckens/gofuzzer/internal/chunkreg"
	"github.com/jrenckens/gofuzzer/internal/decision"
	"github.com/jrenckens/gofuzzer/internal/filebuf"
	"github.com/jrenckens/gofuzzer/internal/session"
)

// tagsTemplate is a minimal synthetic format used only by this test: one
// fixed magic byte followed by zero or more 1-byte "Tag" chunks, each
// guarded by an end-of-stream probe. It exercises exactly the
// probe/optional/appendable machinery splice.Replace and splice.Delete rely
// on, without any of PNG's length/checksum bookkeeping getting in the way.
type tagsTemplate struct{}

func (tagsTemplate) Name() string { return "tags-test" }

func (tagsTemplate) Run(s *session.Session) error {
	s.Chunk("magic", "Magic", func() {
		s.Expect([]byte{0xCA})
	})
	for {
		ran := s.TryOptional("tag", "Tag", func() {
			s.Byte()
		})
		if !ran {
			break
		}
	}
	return nil
}

func generate(t *testing.T, decisions []byte) []byte {
	t.Helper()
	ds := decision.New(decisions)
	fb := filebuf.NewWriter()
	s := session.New(session.ModeGenerate, ds, fb, nil, 0)
	if err := session.Run(tagsTemplate{}, s); err != nil {
		t.Fatalf("generate: %v", err)
	}
	return fb.Bytes()
}

// parseCollect parses file and returns the recorded decision stream plus the
// chunk registry populated under ModeParseCollectChunks.
func parseCollect(t *testing.T, file []byte) ([]byte, *chunkreg.Registry) {
	t.Helper()
	reg := chunkreg.New()
	fb := filebuf.NewReader(file)
	ds := decision.NewEmpty()
	s := session.New(session.ModeParseCollectChunks, ds, fb, reg, 0)
	if err := session.Run(tagsTemplate{}, s); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return ds.Bytes(), reg
}

func findTag(t *testing.T, reg *chunkreg.Registry, name string) *chunkreg.Chunk {
	t.Helper()
	for _, c := range reg.AllChunks(0) {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no chunk named %q in registry", name)
	return nil
}

func TestReplaceTagExactDrift(t *testing.T) {
	fileA := generate(t, []byte{0x00, 0x01, 0x11, 0x01, 0x22, 0x00}) // magic, tag1=0x11, tag2=0x22
	fileB := generate(t, []byte{0x00, 0x01, 0x55, 0x00})             // magic, tag1=0x55

	decA, regA := parseCollect(t, fileA)
	decB, regB := parseCollect(t, fileB)

	if !regA.Coherent(0, len(decA)) {
		t.Fatalf("registry for fileA is not coherent")
	}

	// AllChunks is parse-ordered; fileA has two "tag" chunks, take the second.
	var secondTag *chunkreg.Chunk
	seen := 0
	for _, c := range regA.AllChunks(0) {
		if c.Name == "tag" {
			seen++
			if seen == 2 {
				secondTag = c
			}
		}
	}
	if secondTag == nil {
		t.Fatal("expected two tag chunks in fileA")
	}

	donorTag := findTag(t, regB, "tag")

	target := Target{
		DecisionStream: decA,
		Start:          secondTag.Start,
		End:            secondTag.End,
		Optional:       secondTag.Optional,
		Type:           secondTag.Type,
	}
	donor := Target{
		DecisionStream: decB,
		Start:          donorTag.Start,
		End:            donorTag.End,
		Optional:       donorTag.Optional,
		Type:           donorTag.Type,
	}

	result, err := Replace(tagsTemplate{}, target, donor)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if result.Drift != DriftExact {
		t.Fatalf("Drift = %v, want DriftExact", result.Drift)
	}
	want := []byte{0xCA, 0x11, 0x55}
	if string(result.File) != string(want) {
		t.Fatalf("File = %v, want %v", result.File, want)
	}
}

func TestReplaceRejectsTypeMismatch(t *testing.T) {
	target := Target{DecisionStream: []byte{1, 2, 3}, Start: 1, End: 1, Optional: false, Type: "Tag"}
	donor := Target{DecisionStream: []byte{9, 9}, Start: 0, End: 0, Optional: true, Type: "Tag"}
	if _, err := Replace(tagsTemplate{}, target, donor); err == nil {
		t.Fatal("Replace with mismatched optionality: want error, got nil")
	}
}

func TestDeleteRemovesFollowingOptionalChunk(t *testing.T) {
	fileA := generate(t, []byte{0x00, 0x01, 0x11, 0x01, 0x22, 0x00})
	decA, regA := parseCollect(t, fileA)

	var firstTag *chunkreg.Chunk
	for _, c := range regA.AllChunks(0) {
		if c.Name == "tag" {
			firstTag = c
			break
		}
	}
	if firstTag == nil {
		t.Fatal("expected at least one tag chunk")
	}
	if !firstTag.Optional || !firstTag.FollowingOptional {
		t.Fatalf("first tag = %+v, want Optional=true FollowingOptional=true", firstTag)
	}

	target := Target{
		DecisionStream:    decA,
		Start:             firstTag.Start,
		End:               firstTag.End,
		Optional:          firstTag.Optional,
		FollowingOptional: firstTag.FollowingOptional,
		Type:              firstTag.Type,
	}
	result, err := Delete(tagsTemplate{}, target)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Delete only guarantees the structural invariant (one fewer tag, still a
	// valid file); the survivor's content is re-derived from whatever
	// decision bytes now follow, not byte-identical to either original tag.
	if len(result.File) == 0 || result.File[0] != 0xCA {
		t.Fatalf("File = %v, want magic 0xCA followed by exactly one tag byte", result.File)
	}
	_, regOut := parseCollect(t, result.File)
	tagCount := 0
	for _, c := range regOut.AllChunks(0) {
		if c.Name == "tag" {
			tagCount++
		}
	}
	if tagCount != 1 {
		t.Fatalf("tag count after delete = %d, want 1", tagCount)
	}
}

func TestDeleteRejectsNonDeletable(t *testing.T) {
	fileA := generate(t, []byte{0x00, 0x01, 0x11, 0x00})
	decA, regA := parseCollect(t, fileA)
	tag := findTag(t, regA, "tag")

	target := Target{
		DecisionStream:    decA,
		Start:             tag.Start,
		End:               tag.End,
		Optional:          tag.Optional,
		FollowingOptional: tag.FollowingOptional, // false: no chunk follows
		Type:              tag.Type,
	}
	if _, err := Delete(tagsTemplate{}, target); err == nil {
		t.Fatal("Delete on a final tag with no following optional chunk: want error, got nil")
	}
}
