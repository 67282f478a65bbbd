package session

import (
	"github.com/jrenckens/gofuzzer/internal/chunkreg"
	"github.com/jrenckens/gofuzzer/internal/decision"
	"github.com/jrenckens/gofuzzer/internal/filebuf"
	"testing"
)

// runTags runs a magic byte followed by zero or more 1-byte "tag" chunks,
// enough to exercise Probe/Chunk/TryOptional without depending on a
// registered template package.
func runTags(s *Session) {
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
}

func generateTags(decisions []byte) []byte {
	ds := decision.New(decisions)
	fb := filebuf.NewWriter()
	s := New(ModeGenerate, ds, fb, nil, 0)
	runTags(s)
	return fb.Bytes()
}

func TestLocateChunkSetsFollowingOptionalWhenAnotherTagFollows(t *testing.T) {
	file := generateTags([]byte{0x00, 0x01, 0x11, 0x01, 0x22, 0x00}) // magic, tag 0x11, tag 0x22

	fb := filebuf.NewReader(file)
	ds := decision.NewEmpty()
	s := New(ModeParseLocateChunk, ds, fb, chunkreg.New(), 0)
	s.LocateStart, s.LocateEnd = 1, 1 // file-byte range of the first tag (0x11)
	runTags(s)

	if !s.Found() {
		t.Fatal("expected the first tag to be located")
	}
	if !s.LocatedFollowingOptional {
		t.Fatal("expected LocatedFollowingOptional=true: a second tag follows")
	}
}

func TestLocateChunkLeavesFollowingOptionalFalseAtEnd(t *testing.T) {
	file := generateTags([]byte{0x00, 0x01, 0x11, 0x00}) // magic, one tag, then no more

	fb := filebuf.NewReader(file)
	ds := decision.NewEmpty()
	s := New(ModeParseLocateChunk, ds, fb, chunkreg.New(), 0)
	s.LocateStart, s.LocateEnd = 1, 1
	runTags(s)

	if !s.Found() {
		t.Fatal("expected the tag to be located")
	}
	if s.LocatedFollowingOptional {
		t.Fatal("expected LocatedFollowingOptional=false: no further tag follows")
	}
}

// LocateEnd == -1 asks for a position-only match, used to locate an
// insertion point (the start of an absent optional chunk, or the position
// right after an appendable chunk's end) rather than an existing chunk.
func TestLocatePositionOnlyFindsInsertionPointRightAfterMagic(t *testing.T) {
	file := generateTags([]byte{0x00, 0x00}) // magic only, no tags follow

	fb := filebuf.NewReader(file)
	ds := decision.NewEmpty()
	s := New(ModeParseLocateChunk, ds, fb, chunkreg.New(), 0)
	s.LocateStart, s.LocateEnd = 1, -1
	runTags(s)

	if !s.Found() {
		t.Fatal("expected an insertion point right after the magic chunk")
	}
	if s.LocatedType != "Tag" || s.LocatedName != "tag" {
		t.Fatalf("LocatedType/Name = %q/%q, want Tag/tag", s.LocatedType, s.LocatedName)
	}
}

func TestLocatePositionOnlyFindsInsertionPointAfterATag(t *testing.T) {
	file := generateTags([]byte{0x00, 0x01, 0x11, 0x00}) // magic, one tag, then the slot for a second

	fb := filebuf.NewReader(file)
	ds := decision.NewEmpty()
	s := New(ModeParseLocateChunk, ds, fb, chunkreg.New(), 0)
	s.LocateStart, s.LocateEnd = 2, -1
	runTags(s)

	if !s.Found() {
		t.Fatal("expected an insertion point right after the first tag")
	}
}

func TestLocatePositionOnlyReportsNotFoundForAnUnmatchedPosition(t *testing.T) {
	file := generateTags([]byte{0x00, 0x00})

	fb := filebuf.NewReader(file)
	ds := decision.NewEmpty()
	s := New(ModeParseLocateChunk, ds, fb, chunkreg.New(), 0)
	s.LocateStart, s.LocateEnd = 0, -1 // no insertion point ever sits at position 0
	runTags(s)

	if s.Found() {
		t.Fatal("expected no insertion point to be located at position 0")
	}
}
