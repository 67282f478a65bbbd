/*******************************************************************************
*
* This file is part of gofuzzer.
*
* gofuzzer is free software: you can redistribute it and/or modify it under
* the terms of the GNU General Public License as published by the Free
* Software Foundation, either version 3 of the License, or (at your option)
* any later version.
*
* gofuzzer is distributed in the hope that it will be useful, but WITHOUT ANY
* WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
* FOR A PARTICULAR PURPOSE. See the GNU General Public License for more
* details.
*
* You should have received a copy of the GNU General Public License along
* with gofuzzer. If not, see <http://www.gnu.org/licenses/>.
*
*******************************************************************************/

package chunkreg

import "sort"

// Registry is the process-wide (spec.md terms) — here, session-scoped —
// bookkeeping built while a template parses one or more input files with
// chunk collection enabled. A reimplementation bundles what the original
// kept as globals into this explicit, owned value (see DESIGN.md, "session
// handle" note).
type Registry struct {
	// OptionalChunks is the ordered sequence of every optional chunk seen
	// across all parsed files.
	OptionalChunks []*Chunk
	// NonOptionalChunks indexes non-optional chunks by type tag.
	NonOptionalChunks map[string][]*Chunk
	// InsertionPoints is a per-file view, keyed by file index. The other
	// per-file views are computed on demand by Deletable and NonOptionalRuns.
	InsertionPoints map[int][]InsertionPoint
	allChunks       map[int][]*Chunk // ordered per file, for FollowingOptional backfill and Deletable()
	// VariableTypes maps a chunk's template variable name to its type tag,
	// used to reject ill-typed replacements.
	VariableTypes map[string]string
	// RandNames holds the sidecar decision-file path recorded for each
	// parsed input, indexed by file index.
	RandNames []string

	lastChunk map[int]*Chunk // last finalized chunk per file, for FollowingOptional/Appendable backfill
	// probeBytes records, per file, the decision-stream position of every
	// presence-probe byte consumed while parsing — the one decision byte a
	// Chunk's own [Start,End] range never covers, since it is written before
	// the chunk it gates even starts sampling its range. Coherent() walks
	// these alongside the chunks themselves to confirm full coverage.
	probeBytes map[int][]int
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		NonOptionalChunks: make(map[string][]*Chunk),
		InsertionPoints:   make(map[int][]InsertionPoint),
		allChunks:         make(map[int][]*Chunk),
		VariableTypes:     make(map[string]string),
		lastChunk:         make(map[int]*Chunk),
		probeBytes:        make(map[int][]int),
	}
}

// AddFile registers a new input file and returns its file index.
func (r *Registry) AddFile(randName string) int {
	idx := len(r.RandNames)
	r.RandNames = append(r.RandNames, randName)
	return idx
}

// NotePrecedingProbe is called when a presence probe is consumed (at the
// start of the chunk it gated, or right after it when it came back absent),
// recording on the previously finalized chunk (if any) that a probe happened
// right after it (Appendable) and whether that probe produced a following
// chunk (FollowingOptional).
func (r *Registry) NotePrecedingProbe(fileIndex int, probedTrue bool) {
	prev := r.lastChunk[fileIndex]
	if prev == nil {
		return
	}
	prev.Appendable = true
	prev.FollowingOptional = probedTrue
}

// RecordProbeByte notes the decision-stream position of a presence-probe
// byte, so Coherent can count it toward full coverage even though it falls
// outside every chunk's own range.
func (r *Registry) RecordProbeByte(fileIndex, pos int) {
	r.probeBytes[fileIndex] = append(r.probeBytes[fileIndex], pos)
}

// Finalize records a completed chunk into all the relevant indices.
func (r *Registry) Finalize(c *Chunk) {
	r.VariableTypes[c.Name] = c.Type
	if c.Optional {
		r.OptionalChunks = append(r.OptionalChunks, c)
	} else {
		r.NonOptionalChunks[c.Type] = append(r.NonOptionalChunks[c.Type], c)
	}
	r.allChunks[c.FileIndex] = append(r.allChunks[c.FileIndex], c)
	r.lastChunk[c.FileIndex] = c
}

// RecordInsertionPoint notes a position where an additional optional chunk
// could have begun, but the parse observed it to be absent.
func (r *Registry) RecordInsertionPoint(fileIndex, pos int, typeTag, name string) {
	r.InsertionPoints[fileIndex] = append(r.InsertionPoints[fileIndex], InsertionPoint{
		FileIndex: fileIndex,
		Pos:       pos,
		Type:      typeTag,
		Name:      name,
	})
}

// AllChunks returns the chunks recorded for one file, in parse order.
func (r *Registry) AllChunks(fileIndex int) []*Chunk {
	return r.allChunks[fileIndex]
}

// Deletable returns the chunks of one file eligible for smart deletion:
// optional chunks immediately followed by another optional chunk.
func (r *Registry) Deletable(fileIndex int) []*Chunk {
	var out []*Chunk
	for _, c := range r.allChunks[fileIndex] {
		if c.Optional && c.FollowingOptional {
			out = append(out, c)
		}
	}
	return out
}

// NonOptionalRuns groups one file's non-optional chunks into contiguous
// same-type runs, mirroring the original's NonOptionalIndex.
func (r *Registry) NonOptionalRuns(fileIndex int) []NonOptionalRun {
	var runs []NonOptionalRun
	var curType string
	var curRun *NonOptionalRun
	for _, c := range r.allChunks[fileIndex] {
		if c.Optional {
			curType = ""
			curRun = nil
			continue
		}
		if c.Type != curType {
			start := 0
			for i, other := range r.NonOptionalChunks[c.Type] {
				if other == c {
					start = i
					break
				}
			}
			runs = append(runs, NonOptionalRun{Type: c.Type, Start: start, Size: 0})
			curRun = &runs[len(runs)-1]
			curType = c.Type
		}
		curRun.Size++
	}
	return runs
}

// Coherent checks invariant (1) from spec.md §3: for a parsed file, the
// chunk decision-stream ranges are contiguous, non-overlapping, and their
// union is exactly [0, consumed). Every presence-probe byte recorded via
// RecordProbeByte is folded in as its own one-byte unit, since it sits
// between chunks rather than inside one.
func (r *Registry) Coherent(fileIndex, consumed int) bool {
	chunks := r.allChunks[fileIndex]
	probes := r.probeBytes[fileIndex]

	type span struct{ start, end int }
	spans := make([]span, 0, len(chunks)+len(probes))
	for _, c := range chunks {
		spans = append(spans, span{c.Start, c.End})
	}
	for _, p := range probes {
		spans = append(spans, span{p, p})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	pos := 0
	for _, sp := range spans {
		if sp.start != pos {
			return false
		}
		pos = sp.end + 1
	}
	return pos == consumed
}
