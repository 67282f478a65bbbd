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

// Package config parses a session manifest describing which template to
// drive, where to source decision-stream entropy, and the iteration/size
// budgets a run should use. Adapted from the teacher's
// src/holo-build/parser.go: a TOML-decoded struct with exported field names
// chosen for clear error messages, restructured and validated into a plain
// value the rest of the program consumes.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jrenckens/gofuzzer/internal/errutil"
)

// Defaults mirror fuzzer.cpp's built-in constants where the manifest leaves
// a field unset.
const (
	DefaultRandSize   = 4096
	DefaultIterations = 10000
)

// Manifest only needs a nice exported name for the TOML parser to produce
// more meaningful error messages on malformed input data.
type Manifest struct {
	Session SessionSection
}

// SessionSection only needs a nice exported name for the TOML parser to
// produce more meaningful error messages on malformed input data.
type SessionSection struct {
	Template      string
	DecisionsFile string // overrides the default /dev/urandom entropy source
	RandSize      uint
	Iterations    uint
	MaxFileSize   uint
}

// ParseManifest decodes and validates a session manifest from input. The
// operation is successful if the returned []error is empty.
func ParseManifest(input io.Reader) (*Manifest, []error) {
	blob, err := io.ReadAll(input)
	if err != nil {
		return nil, []error{err}
	}

	var m Manifest
	if _, err := toml.Decode(string(blob), &m); err != nil {
		return nil, []error{err}
	}

	ec := &errutil.Collector{}

	m.Session.Template = strings.TrimSpace(m.Session.Template)
	if m.Session.Template == "" {
		ec.Addf("session.template must not be empty")
	}

	if m.Session.RandSize == 0 {
		m.Session.RandSize = DefaultRandSize
	}
	if m.Session.Iterations == 0 {
		m.Session.Iterations = DefaultIterations
	}

	if !ec.Ok() {
		return nil, ec.Errors
	}
	return &m, nil
}

// ParseManifestFile opens path and parses it as a session manifest.
func ParseManifestFile(path string) (*Manifest, []error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, []error{fmt.Errorf("config: opening %s: %w", path, err)}
	}
	defer f.Close()
	return ParseManifest(f)
}
