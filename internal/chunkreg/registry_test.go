package chunkreg

import "testing"

func TestCoherentAcceptsContiguousCover(t *testing.T) {
	r := New()
	r.AddFile("a-decisions")
	r.Finalize(&Chunk{FileIndex: 0, Start: 0, End: 3, Type: "IHDR", Name: "ihdr"})
	r.Finalize(&Chunk{FileIndex: 0, Start: 4, End: 4, Type: "IDAT", Name: "idat"})
	if !r.Coherent(0, 5) {
		t.Fatal("Coherent(0, 5) = false, want true for contiguous [0,5)")
	}
}

func TestCoherentRejectsGap(t *testing.T) {
	r := New()
	r.AddFile("a-decisions")
	r.Finalize(&Chunk{FileIndex: 0, Start: 0, End: 2, Type: "IHDR", Name: "ihdr"})
	r.Finalize(&Chunk{FileIndex: 0, Start: 4, End: 5, Type: "IDAT", Name: "idat"}) // gap at 3
	if r.Coherent(0, 6) {
		t.Fatal("Coherent(0, 6) = true, want false: chunks leave a gap at offset 3")
	}
}

func TestCoherentRejectsShortCover(t *testing.T) {
	r := New()
	r.AddFile("a-decisions")
	r.Finalize(&Chunk{FileIndex: 0, Start: 0, End: 3, Type: "IHDR", Name: "ihdr"})
	if r.Coherent(0, 10) {
		t.Fatal("Coherent(0, 10) = true, want false: chunk only covers [0,4)")
	}
}

func TestDeletableRequiresOptionalAndFollowingOptional(t *testing.T) {
	r := New()
	r.AddFile("a-decisions")
	r.Finalize(&Chunk{FileIndex: 0, Start: 0, End: 1, Type: "Ancillary", Name: "a1", Optional: true, FollowingOptional: true})
	r.Finalize(&Chunk{FileIndex: 0, Start: 2, End: 3, Type: "Ancillary", Name: "a2", Optional: true, FollowingOptional: false})

	got := r.Deletable(0)
	if len(got) != 1 || got[0].Name != "a1" {
		t.Fatalf("Deletable(0) = %+v, want only a1", got)
	}
}

func TestNotePrecedingProbeBackfillsAppendable(t *testing.T) {
	r := New()
	r.AddFile("a-decisions")
	c := &Chunk{FileIndex: 0, Start: 0, End: 1, Type: "Ancillary", Name: "a1", Optional: true}
	r.Finalize(c)
	r.NotePrecedingProbe(0, true)
	if !c.Appendable || !c.FollowingOptional {
		t.Fatalf("after NotePrecedingProbe(0, true): Appendable=%v FollowingOptional=%v, want true/true", c.Appendable, c.FollowingOptional)
	}
}

func TestNonOptionalRunsGroupsContiguousSameType(t *testing.T) {
	r := New()
	r.AddFile("a-decisions")
	r.Finalize(&Chunk{FileIndex: 0, Start: 0, End: 0, Type: "Row", Name: "row0"})
	r.Finalize(&Chunk{FileIndex: 0, Start: 1, End: 1, Type: "Row", Name: "row1"})
	r.Finalize(&Chunk{FileIndex: 0, Start: 2, End: 2, Type: "Ancillary", Name: "a1", Optional: true})
	r.Finalize(&Chunk{FileIndex: 0, Start: 3, End: 3, Type: "Row", Name: "row2"})

	runs := r.NonOptionalRuns(0)
	if len(runs) != 2 {
		t.Fatalf("NonOptionalRuns(0) = %+v, want 2 runs", runs)
	}
	if runs[0].Type != "Row" || runs[0].Size != 2 {
		t.Fatalf("runs[0] = %+v, want Row size 2", runs[0])
	}
	if runs[1].Type != "Row" || runs[1].Size != 1 {
		t.Fatalf("runs[1] = %+v, want Row size 1", runs[1])
	}
}
