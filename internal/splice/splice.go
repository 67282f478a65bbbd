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

// Package splice implements the Splice & Fixup Engine: replace, insert and
// delete operate entirely in decision space (spec.md §4.3), never touching
// file bytes directly. A target chunk's decision-byte window is cut out (or
// a donor's window spliced in), and the template is re-run in generate mode
// over the edited decision stream so every derived field — lengths,
// checksums, offsets — is recomputed from its actual dependencies instead of
// being patched by hand.
package splice

import (
	"github.com/jrenckens/gofuzzer/internal/chunkreg"
	"github.com/jrenckens/gofuzzer/internal/decision"
	"github.com/jrenckens/gofuzzer/internal/filebuf"
	"github.com/jrenckens/gofuzzer/internal/gofuzzerr"
	"github.com/jrenckens/gofuzzer/internal/session"
	"github.com/jrenckens/gofuzzer/internal/template"
)

// Drift reports how a spliced chunk's actual decision-byte consumption in
// its new context compared to the width it was given.
type Drift int

const (
	// DriftUnder means the chunk consumed fewer decision bytes than it was
	// given — sign -1.
	DriftUnder Drift = -1
	// DriftExact means consumption matched exactly — sign 0.
	DriftExact Drift = 0
	// DriftOver means the chunk consumed more decision bytes than it was
	// given — sign +1.
	DriftOver Drift = 1
)

// Sign returns the drift as {-1, 0, +1}, matching spec.md's drift-sign exit
// code convention.
func (d Drift) Sign() int { return int(d) }

// Target identifies a chunk to operate on: which parsed file it came from,
// its decision-stream range, and the flags recorded when it was parsed.
type Target struct {
	DecisionStream    []byte
	Start, End        int // inclusive decision-space range; End < Start means zero-width (an insertion point)
	Optional          bool
	FollowingOptional bool
	Type              string
}

// Width is the number of decision bytes t occupies (0 for an insertion
// point).
func (t Target) Width() int {
	if t.End < t.Start {
		return 0
	}
	return t.End - t.Start + 1
}

// Result is what a splice operation produces: the regenerated file, the
// decision stream it was generated from (useful for chaining further
// mutations), and the drift observed across the spliced window.
type Result struct {
	File      []byte
	Decisions []byte
	Drift     Drift
}

// Replace implements spec.md §4.3's Replace procedure: target's window in
// target's decision stream is cut out and replaced with donor's window,
// then the template regenerates the file, measuring drift across the
// spliced span.
//
// Precondition (spec.md §4.3): target.Optional == donor.Optional, and if
// both are non-optional, target.Type == donor.Type.
func Replace(tpl template.Template, target, donor Target) (Result, error) {
	if target.Optional != donor.Optional {
		return Result{}, gofuzzerr.New(gofuzzerr.KindTypeMismatch, "splice.Replace",
			"target optional=%v, donor optional=%v", target.Optional, donor.Optional)
	}
	if !target.Optional && target.Type != donor.Type {
		return Result{}, gofuzzerr.New(gofuzzerr.KindTypeMismatch, "splice.Replace",
			"target type %q, donor type %q", target.Type, donor.Type)
	}
	return spliceWindow(tpl, target, donor.DecisionStream[donor.Start:donor.End+1], target.Optional)
}

// Insert implements spec.md §4.3's Insert: equivalent to Replace where
// target is the single decision byte recorded at an InsertionPoint — the
// presence probe that came back "absent" when the file was parsed. donor
// must be optional.
//
// That byte, not the position right after it, is what has to be overwritten:
// regenerating re-reads it as the probe deciding whether this optional
// structure exists at all, so the replacement is the probe's own "present"
// value (1) followed by the donor's body, not the donor's body on its own.
// Splicing after the old byte instead of over it would leave that byte in
// place for the regenerated template to read first, and it would still say
// "absent".
func Insert(tpl template.Template, target chunkreg.InsertionPoint, targetDecisions []byte, donor Target) (Result, error) {
	if !donor.Optional {
		return Result{}, gofuzzerr.New(gofuzzerr.KindTypeMismatch, "splice.Insert",
			"insert donor must be optional, got type %q", donor.Type)
	}
	probeSlot := Target{
		DecisionStream: targetDecisions,
		Start:          target.Pos - 1,
		End:            target.Pos - 1,
		Optional:       true,
	}
	replacement := append([]byte{1}, donor.DecisionStream[donor.Start:donor.End+1]...)
	return spliceWindow(tpl, probeSlot, replacement, true)
}

// Delete implements spec.md §4.3's Delete: requires target.Optional &&
// target.FollowingOptional. Removes the chunk's decision window and
// regenerates in plain generate mode; no drift is measured since nothing
// was spliced in to compare against.
func Delete(tpl template.Template, target Target) (Result, error) {
	if !(target.Optional && target.FollowingOptional) {
		return Result{}, gofuzzerr.New(gofuzzerr.KindPrecondition, "splice.Delete",
			"target is not deletable: optional=%v followingOptional=%v", target.Optional, target.FollowingOptional)
	}
	ds := target.DecisionStream
	edited := make([]byte, 0, len(ds)-target.Width())
	edited = append(edited, ds[:target.Start]...)
	edited = append(edited, ds[target.End+1:]...)

	fb := filebuf.NewWriter()
	dsOut := decision.New(edited)
	s := session.New(session.ModeGenerate, dsOut, fb, nil, 0)
	if err := session.Run(tpl, s); err != nil {
		return Result{}, gofuzzerr.New(gofuzzerr.KindGenerationFailure, "splice.Delete", "regenerate: %v", err)
	}
	return Result{File: fb.Bytes(), Decisions: edited, Drift: DriftExact}, nil
}

// spliceWindow is the shared core of Replace and Insert: cut out
// target's window, splice in replacement, regenerate with
// ModeGenerateSplice over the resulting window, and read off the drift.
func spliceWindow(tpl template.Template, target Target, replacement []byte, forceOptional bool) (Result, error) {
	ds := decision.New(append([]byte(nil), target.DecisionStream...))
	ds.Splice(target.Start, target.End, replacement)

	smartStart := target.Start
	smartEnd := target.Start + len(replacement) - 1

	fb := filebuf.NewWriter()
	s := session.New(session.ModeGenerateSplice, ds, fb, nil, 0)
	s.SmartStart = smartStart
	s.SmartEnd = smartEnd
	s.ForceOptional = forceOptional
	if err := ds.Seek(0); err != nil {
		return Result{}, gofuzzerr.New(gofuzzerr.KindGenerationFailure, "splice", "%v", err)
	}

	if err := session.Run(tpl, s); err != nil {
		return Result{}, gofuzzerr.New(gofuzzerr.KindGenerationFailure, "splice", "regenerate: %v", err)
	}

	expected := smartEnd - smartStart + 1
	actual := expected
	if s.Drifted {
		actual = s.ActualEnd - smartStart + 1
	}
	drift := DriftExact
	switch {
	case actual < expected:
		drift = DriftUnder
	case actual > expected:
		drift = DriftOver
	}

	return Result{
		File:      fb.Bytes(),
		Decisions: ds.Bytes(),
		Drift:     drift,
	}, nil
}
