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

// Package corpus loads a set of input files into the Chunk Registry ahead of
// a mutation session, and persists the decision stream recovered from each
// one to its sidecar file (spec.md §3's rand_names, §6's "<input>-decisions"
// artifact).
package corpus

import (
	"fmt"
	"os"

	"github.com/jrenckens/gofuzzer/internal/chunkreg"
	"github.com/jrenckens/gofuzzer/internal/decision"
	"github.com/jrenckens/gofuzzer/internal/filebuf"
	"github.com/jrenckens/gofuzzer/internal/session"
	"github.com/jrenckens/gofuzzer/internal/template"
)

// Entry is one input file together with the decision stream a parse pass
// recovered from it.
type Entry struct {
	Path      string
	FileIndex int
	File      []byte
	Decisions []byte
}

// SidecarPath returns the sidecar decision-file path for an input path.
func SidecarPath(path string) string {
	return path + "-decisions"
}

// WriteSidecar persists a recovered decision stream next to its input file.
func WriteSidecar(path string, decisions []byte) error {
	return os.WriteFile(SidecarPath(path), decisions, 0644)
}

// ReadSidecar loads a previously-persisted decision stream, if present.
func ReadSidecar(path string) ([]byte, error) {
	return os.ReadFile(SidecarPath(path))
}

// Load reads each path's raw bytes, without parsing.
func Load(paths []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("corpus: reading %s: %w", p, err)
		}
		entries = append(entries, Entry{Path: p, File: data})
	}
	return entries, nil
}

// Parse runs tpl in ModeParseCollectChunks over every entry, populating a
// shared Registry and recording each entry's recovered decision stream and
// file index. Entries that fail to parse are reported via failed but do not
// stop the remaining entries from being parsed (spec.md §7's "parse
// failure: warn, mark file failed, continue with next file").
func Parse(tpl template.Template, entries []Entry) (reg *chunkreg.Registry, decisions map[int][]byte, failed []string, err error) {
	reg = chunkreg.New()
	decisions = make(map[int][]byte, len(entries))

	for i := range entries {
		e := &entries[i]
		e.FileIndex = reg.AddFile(SidecarPath(e.Path))

		ds := decision.NewEmpty()
		fb := filebuf.NewReader(e.File)
		s := session.New(session.ModeParseCollectChunks, ds, fb, reg, e.FileIndex)

		if runErr := session.Run(tpl, s); runErr != nil {
			failed = append(failed, e.Path)
			continue
		}
		e.Decisions = ds.Bytes()
		decisions[e.FileIndex] = e.Decisions
	}

	return reg, decisions, failed, nil
}

// PersistSidecars writes every successfully-parsed entry's recovered
// decision stream to its sidecar file.
func PersistSidecars(entries []Entry) error {
	for _, e := range entries {
		if e.Decisions == nil {
			continue
		}
		if err := WriteSidecar(e.Path, e.Decisions); err != nil {
			return err
		}
	}
	return nil
}
