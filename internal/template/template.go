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

// Package template declares the Format Interpreter contract from spec.md
// §4.1. A Template is the pluggable, per-format black box: the same Run
// implementation must behave as a generator when the session is in a
// generate mode and as a parser when it is in a parse mode, using the
// symmetric primitives on *session.Session to stay invertible.
package template

import "github.com/jrenckens/gofuzzer/internal/session"

// Template is implemented once per binary format (PNG, ZIP, JPEG, ...). Run
// should call session.Session's Byte/Bytes/UintBE/LengthPrefixed/Checksum/
// Chunk/TryOptional primitives exclusively — it should never branch on
// session.Mode itself; the primitives already do that.
type Template interface {
	Name() string
	Run(s *session.Session) error
}

// registry is a process-wide lookup from template name to Template,
// populated by each templates/<format> package's init().
var registry = map[string]Template{}

// Register adds a template under its Name(). Called from templates/<format>
// package init functions.
func Register(t Template) {
	registry[t.Name()] = t
}

// Lookup returns the registered template for name, or nil if none is
// registered — callers (cmd/gofuzzer) turn that into a usage error.
func Lookup(name string) Template {
	return registry[name]
}

// Names lists every registered template name, for the unknown-template
// error message.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}
