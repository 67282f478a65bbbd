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

// Package session bundles everything a Template needs to run in either
// direction: the decision stream, the file buffer, the chunk registry, and
// the mode flags that used to be the original fuzzer's globals (spec.md §9,
// "process-wide mutable state → session handle").
package session

import (
	"fmt"

	"github.com/jrenckens/gofuzzer/internal/chunkreg"
	"github.com/jrenckens/gofuzzer/internal/decision"
	"github.com/jrenckens/gofuzzer/internal/filebuf"
)

// noRequest marks an unset request/result slot (the original used UINT_MAX).
const noRequest = -1

// Session is the explicit handle threaded through a Template's Run method.
// One Session drives exactly one generate-or-parse pass over one file.
type Session struct {
	Mode      Mode
	DS        *decision.Stream
	FB        *filebuf.Buffer
	Registry  *chunkreg.Registry
	FileIndex int

	// Requests, set by the caller before Run.

	// LocateStart/LocateEnd: file-byte range requested under
	// ModeParseLocateChunk (spec.md's get_chunk).
	LocateStart, LocateEnd int
	// SmartStart/SmartEnd: decision-space window treated as an
	// authoritative donor splice under ModeGenerateSplice.
	SmartStart, SmartEnd int
	// ForceOptional hints that a freshly spliced chunk (insert) should be
	// treated as optional regardless of what the template would normally
	// decide, matching the original's is_optional flag during smart
	// mutation.
	ForceOptional bool
	// IsDelete hints that this run is probing a deletion target.
	IsDelete bool

	// Results, valid after Run returns.

	// Located* are filled in when ModeParseLocateChunk finds its target.
	LocatedStart, LocatedEnd int // decision-space range
	LocatedOptional          bool
	LocatedFollowingOptional bool
	LocatedName, LocatedType string
	locatedFileStart         int
	found                    bool
	locatedAwaitingFollowing bool

	// Drifted reports whether the chunk whose decision-space start equals
	// SmartStart (or whose presence-probe byte sits at SmartStart) was
	// regenerated, and ActualEnd holds the decision offset
	// its last byte actually landed on (for drift sign computation).
	Drifted  bool
	ActualEnd int

	pendingProbe       bool
	pendingProbeResult bool
	fileBytePos        int // tracks file-byte position alongside chunk starts, for get_chunk matching
}

// New creates a Session. reg may be nil if chunk tracking is not needed
// (plain fuzz/parse runs).
func New(mode Mode, ds *decision.Stream, fb *filebuf.Buffer, reg *chunkreg.Registry, fileIndex int) *Session {
	if reg == nil {
		reg = chunkreg.New()
	}
	return &Session{
		Mode:         mode,
		DS:           ds,
		FB:           fb,
		Registry:     reg,
		FileIndex:    fileIndex,
		LocateStart:  noRequest,
		LocateEnd:    noRequest,
		SmartStart:   noRequest,
		SmartEnd:     noRequest,
		LocatedStart: noRequest,
		LocatedEnd:   noRequest,
	}
}

// Close releases per-run volatile state. Run calls it via defer,
// guaranteeing teardown regardless of how the template returns — the Go
// counterpart of spec.md §4.1's "all three [termination paths] must release
// interpreter state before control returns."
func (s *Session) Close() error {
	s.pendingProbe = false
	return nil
}

// abortSignal is panicked by primitives that hit a guard violation (a short
// read, a buffer overrun) and recovered at Run's boundary into a plain
// error. This is the internal mechanism behind spec.md §9's "exception-based
// early exit from interpreter → result variant": callers of Run never see a
// panic, only an error.
type abortSignal struct{ err error }

func (s *Session) abort(format string, args ...interface{}) {
	panic(abortSignal{fmt.Errorf(format, args...)})
}

// Run drives tpl.Run(s), recovering any abortSignal into a returned error
// and unconditionally closing s.
func Run(tpl interface{ Run(*Session) error }, s *Session) (err error) {
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			if sig, ok := r.(abortSignal); ok {
				err = sig.err
				return
			}
			panic(r)
		}
	}()
	return tpl.Run(s)
}
