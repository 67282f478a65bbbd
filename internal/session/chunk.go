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

package session

import "github.com/jrenckens/gofuzzer/internal/chunkreg"

// Probe is the end-of-file check that marks the chunk immediately following
// it (if any) as optional, and the chunk immediately preceding it (if any)
// as appendable. In generate mode it consumes one decision byte as a coin
// flip (odd means present); in parse mode it inspects how much unread input remains and
// records the corresponding decision byte so regeneration reproduces the
// same branch.
//
// Probe only gives the right answer when no mandatory structure follows the
// optional one — otherwise Remaining() > 0 is true regardless, because the
// mandatory trailer is still sitting there unread. When an optional
// structure is itself followed by something mandatory, use ProbeAhead
// instead.
func (s *Session) Probe() bool {
	return s.probe(func() bool { return s.FB.Remaining() > 0 })
}

// ProbeAhead is Probe's lookahead-based sibling: instead of asking whether
// any input remains, it peeks the next n unread bytes and tests them with
// match, matching spec.md's Chunk.optional definition of "end-of-file
// OR lookahead probe." Use this when the optional structure precedes
// mandatory trailing structure, so an EOF check would always read as
// "present."
func (s *Session) ProbeAhead(n int, match func(peeked []byte) bool) bool {
	return s.probe(func() bool { return match(s.FB.Peek(n)) })
}

// probe is the shared core of Probe/ProbeAhead: parsingCheck decides
// presence while parsing; generate mode always reads the decision already
// recorded for that branch.
func (s *Session) probe(parsingCheck func() bool) bool {
	var result bool
	if s.Mode.parsing() {
		result = parsingCheck()
		var b byte
		if result {
			b = 1
		}
		s.DS.WriteByte(b)
	} else {
		result = s.DS.ReadByte()%2 == 1
	}
	s.pendingProbe = true
	s.pendingProbeResult = result
	return result
}

// consumeProbe reports whether a Probe() immediately preceded this call and
// clears the flag, also backfilling the previous chunk's
// Appendable/FollowingOptional per spec.md §4.2.
func (s *Session) consumeProbe() (wasProbed, probeResult bool) {
	if !s.pendingProbe {
		wasProbed, probeResult = false, false
	} else {
		wasProbed, probeResult = true, s.pendingProbeResult
		s.Registry.NotePrecedingProbe(s.FileIndex, probeResult)
		if s.Mode == ModeParseCollectChunks {
			s.Registry.RecordProbeByte(s.FileIndex, s.DS.Consumed()-1)
		}
		s.pendingProbe = false
	}
	if s.Mode == ModeParseLocateChunk && s.locatedAwaitingFollowing {
		s.LocatedFollowingOptional = wasProbed && probeResult
		s.locatedAwaitingFollowing = false
	}
	return
}

// Chunk runs body as one named sub-structure, sampling the decision cursor
// at entry/exit and — when the session's mode asks for it — recording a
// Chunk into the Registry, or comparing this chunk's file-byte range
// against a requested locate window (ModeParseLocateChunk), or measuring
// drift against a requested splice window (ModeGenerateSplice).
func (s *Session) Chunk(name, typeTag string, body func()) {
	wasProbed, probedOptional := s.consumeProbe()
	startDS := s.DS.Consumed()
	startFile := s.fileBytePos

	body()

	endDS := s.DS.Consumed() - 1
	endFile := s.fileBytePos - 1

	switch s.Mode {
	case ModeParseCollectChunks:
		c := &chunkreg.Chunk{
			FileIndex: s.FileIndex,
			Start:     startDS,
			End:       endDS,
			Type:      typeTag,
			Name:      name,
			Optional:  probedOptional || s.ForceOptional,
		}
		s.Registry.Finalize(c)

	case ModeParseLocateChunk:
		if !s.found && startFile == s.LocateStart && endFile == s.LocateEnd {
			s.found = true
			s.LocatedStart = startDS
			s.LocatedEnd = endDS
			s.LocatedOptional = probedOptional || s.ForceOptional
			s.LocatedName = name
			s.LocatedType = typeTag
			s.locatedFileStart = startFile
			s.locatedAwaitingFollowing = true
		}

	case ModeGenerateSplice:
		// An Insert's spliced window starts at the presence-probe byte
		// itself (see splice.Insert), one decision byte before this chunk's
		// own startDS — match either position so drift is still measured
		// when the smart window begins at a probe rather than at a body.
		probeDS := startDS - 1
		if startDS == s.SmartStart || (wasProbed && probeDS == s.SmartStart) {
			s.Drifted = true
			s.ActualEnd = endDS
		}
	}
}

// TryOptional is the loop-friendly form used for zero-or-more / zero-or-one
// sub-structures: it probes first, and if the probe fails, records an
// InsertionPoint at the current decision offset instead of running body.
// Returns whether body ran.
func (s *Session) TryOptional(name, typeTag string, body func()) bool {
	return s.tryOptional(name, typeTag, s.Probe(), body)
}

// TryOptionalAhead is TryOptional for the case where the optional
// sub-structure is followed by mandatory trailing structure, so presence
// must be decided by ProbeAhead's lookahead rather than Probe's
// end-of-file check.
func (s *Session) TryOptionalAhead(name, typeTag string, n int, match func(peeked []byte) bool, body func()) bool {
	return s.tryOptional(name, typeTag, s.ProbeAhead(n, match), body)
}

func (s *Session) tryOptional(name, typeTag string, present bool, body func()) bool {
	if !present {
		s.consumeProbe()
		if s.Mode == ModeParseCollectChunks {
			s.Registry.RecordInsertionPoint(s.FileIndex, s.DS.Consumed(), typeTag, name)
		}
		// A CLI insert targets a file-byte position rather than a chunk
		// range; it asks for this with LocateEnd == -1 (mirroring the
		// original's chunk_end = -1 sentinel), matched against the exact
		// spot a chunk would have started had the probe come back true.
		if s.Mode == ModeParseLocateChunk && !s.found && s.LocateEnd == -1 && s.fileBytePos == s.LocateStart {
			s.found = true
			s.LocatedStart = s.DS.Consumed()
			s.LocatedEnd = s.LocatedStart - 1
			s.LocatedOptional = true
			s.LocatedName = name
			s.LocatedType = typeTag
			s.locatedFileStart = s.fileBytePos
		}
		return false
	}
	s.Chunk(name, typeTag, body)
	return true
}

// Found reports whether ModeParseLocateChunk found its target.
func (s *Session) Found() bool { return s.found }
