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

package main

import (
	"fmt"
	"os"

	"github.com/jrenckens/gofuzzer/internal/chunkreg"
	"github.com/jrenckens/gofuzzer/internal/decision"
	"github.com/jrenckens/gofuzzer/internal/filebuf"
	"github.com/jrenckens/gofuzzer/internal/session"
	"github.com/jrenckens/gofuzzer/internal/splice"
	"github.com/jrenckens/gofuzzer/internal/template"
)

// locateChunk translates a CLI-supplied file-byte range into a splice.Target,
// per spec.md §6: "byte ranges on the CLI are always file-byte ranges...
// translated to decision-stream ranges by get_chunk mode."
func locateChunk(tpl template.Template, path string, byteStart, byteEnd int) (splice.Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return splice.Target{}, fmt.Errorf("locate: reading %s: %w", path, err)
	}

	ds := decision.NewEmpty()
	fb := filebuf.NewReader(data)
	s := session.New(session.ModeParseLocateChunk, ds, fb, chunkreg.New(), 0)
	s.LocateStart, s.LocateEnd = byteStart, byteEnd

	if err := session.Run(tpl, s); err != nil {
		return splice.Target{}, fmt.Errorf("locate: parsing %s: %w", path, err)
	}
	if !s.Found() {
		return splice.Target{}, fmt.Errorf("locate: no chunk in %s spans file bytes [%d,%d]", path, byteStart, byteEnd)
	}

	return splice.Target{
		DecisionStream:    ds.Bytes(),
		Start:             s.LocatedStart,
		End:               s.LocatedEnd,
		Optional:          s.LocatedOptional,
		FollowingOptional: s.LocatedFollowingOptional,
		Type:              s.LocatedType,
	}, nil
}

// locateInsertionPoint translates a CLI-supplied file-byte position into a
// chunkreg.InsertionPoint, using LocateEnd == -1 to ask Chunk/TryOptional to
// match on position alone rather than on a located chunk's exact range
// (mirroring the original's chunk_end = -1 sentinel for smart_insert's
// target file).
func locateInsertionPoint(tpl template.Template, path string, byteStart int) (chunkreg.InsertionPoint, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return chunkreg.InsertionPoint{}, nil, fmt.Errorf("locate: reading %s: %w", path, err)
	}

	ds := decision.NewEmpty()
	fb := filebuf.NewReader(data)
	s := session.New(session.ModeParseLocateChunk, ds, fb, chunkreg.New(), 0)
	s.LocateStart, s.LocateEnd = byteStart, -1

	if err := session.Run(tpl, s); err != nil {
		return chunkreg.InsertionPoint{}, nil, fmt.Errorf("locate: parsing %s: %w", path, err)
	}
	if !s.Found() {
		return chunkreg.InsertionPoint{}, nil, fmt.Errorf(
			"locate: no insertion point in %s at file byte %d (must be the start of an absent optional chunk, where the template probed for one and found none)",
			path, byteStart)
	}

	return chunkreg.InsertionPoint{
		FileIndex: 0,
		Pos:       s.LocatedStart,
		Type:      s.LocatedType,
		Name:      s.LocatedName,
	}, ds.Bytes(), nil
}
