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

// Package roundtrip implements the Roundtrip Tester (spec.md §4.5): refresh
// a slice of decision entropy, generate a file, parse it back, regenerate
// from the recovered decisions, and assert the two files are byte-identical.
// A direct port of fuzzer.cpp's test(), replacing its fixed /dev/urandom
// descriptor and global scratch buffers with an injected entropy source and
// ordinary Go values.
package roundtrip

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jrenckens/gofuzzer/internal/decision"
	"github.com/jrenckens/gofuzzer/internal/filebuf"
	"github.com/jrenckens/gofuzzer/internal/session"
	"github.com/jrenckens/gofuzzer/internal/template"
)

// EntropySource returns n fresh random bytes, refreshing the decision
// stream each iteration. Production callers pass a crypto/rand-backed source
// (cmd/gofuzzer's entropySource); tests pass a deterministic stub.
type EntropySource func(n int) ([]byte, error)

// Mismatch describes one roundtrip failure, with enough detail to persist
// the four debug artifacts the original test() writes on break: the
// original entropy (r0), the file generated from it (f0), the decisions
// recovered by parsing that file (r1), and the file regenerated from them
// (f1, empty if regeneration itself failed).
type Mismatch struct {
	Iteration int
	Reason    string
	R0, F0    []byte
	R1, F1    []byte
}

// Result summarizes one roundtrip run, matching fuzzer.cpp's test() report
// line ("Tested %d files from %d attempts ... parsing speed %f / s").
type Result struct {
	Attempts  int
	Generated int
	Elapsed   time.Duration
	ParseTime time.Duration
	Mismatch  *Mismatch // nil on full success
}

// ParseSpeed reports files parsed per second, matching the original's
// "generated / ptime" metric.
func (r Result) ParseSpeed() float64 {
	if r.ParseTime <= 0 {
		return 0
	}
	return float64(r.Generated) / r.ParseTime.Seconds()
}

// Run performs iterations roundtrips of tpl, refreshing randSize bytes of
// decision entropy from entropy each time, and stops at the first mismatch
// (mirroring the original's "break" on first failure, not an exhaustive
// count).
func Run(tpl template.Template, iterations, randSize int, entropy EntropySource) (Result, error) {
	start := time.Now()
	var parseTime time.Duration
	res := Result{}

	for i := 0; i < iterations; i++ {
		res.Attempts = i + 1

		r0, err := entropy(randSize)
		if err != nil {
			return res, fmt.Errorf("roundtrip: entropy: %w", err)
		}

		f0, genErr := generate(tpl, r0)
		if genErr != nil || len(f0) == 0 {
			continue
		}
		res.Generated++

		parseStart := time.Now()
		r1, parsed := parse(tpl, f0)
		parseTime += time.Since(parseStart)
		if !parsed {
			res.Mismatch = &Mismatch{Iteration: i, Reason: "failed to parse generated file", R0: r0, F0: f0, R1: r1}
			break
		}

		f1, regenErr := generate(tpl, r1)
		if regenErr != nil || len(f1) == 0 {
			res.Mismatch = &Mismatch{Iteration: i, Reason: "failed to re-generate", R0: r0, F0: f0, R1: r1}
			break
		}

		if !bytes.Equal(f0, f1) {
			res.Mismatch = &Mismatch{Iteration: i, Reason: "re-generated file differs from original", R0: r0, F0: f0, R1: r1, F1: f1}
			break
		}
	}

	res.Elapsed = time.Since(start)
	res.ParseTime = parseTime
	return res, nil
}

func generate(tpl template.Template, decisions []byte) ([]byte, error) {
	ds := decision.New(decisions)
	fb := filebuf.NewWriter()
	s := session.New(session.ModeGenerate, ds, fb, nil, 0)
	if err := session.Run(tpl, s); err != nil {
		return nil, err
	}
	return fb.Bytes(), nil
}

func parse(tpl template.Template, file []byte) ([]byte, bool) {
	ds := decision.NewEmpty()
	fb := filebuf.NewReader(file)
	s := session.New(session.ModeParse, ds, fb, nil, 0)
	if err := session.Run(tpl, s); err != nil {
		return ds.Bytes(), false
	}
	return ds.Bytes(), true
}

// PersistDebugArtifacts writes a Mismatch's r0/f0/r1/f1 to dir, matching the
// original's write_file("r0", ...) / ("f0", ...) / ("r1", ...) / ("f1", ...)
// convention. F1 is only written if it was captured.
func (m Mismatch) PersistDebugArtifacts(dir string, writeFile func(path string, data []byte) error) error {
	files := map[string][]byte{"r0": m.R0, "f0": m.F0, "r1": m.R1}
	if m.F1 != nil {
		files["f1"] = m.F1
	}
	for name, data := range files {
		if err := writeFile(filepath.Join(dir, name), data); err != nil {
			return fmt.Errorf("roundtrip: writing %s: %w", name, err)
		}
	}
	return nil
}
