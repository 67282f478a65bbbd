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
	"crypto/rand"
	"io"
	"os"

	"github.com/jrenckens/gofuzzer/internal/roundtrip"
)

// entropySource returns the default /dev/urandom-backed source, or a source
// that replays a fixed file's bytes when path is non-empty (spec.md §6:
// "entropy source: /dev/urandom by default; overridable via --decisions").
func entropySource(path string) roundtrip.EntropySource {
	if path == "" {
		return func(n int) ([]byte, error) {
			buf := make([]byte, n)
			if _, err := io.ReadFull(rand.Reader, buf); err != nil {
				return nil, err
			}
			return buf, nil
		}
	}

	data, readErr := os.ReadFile(path)
	return func(n int) ([]byte, error) {
		if readErr != nil {
			return nil, readErr
		}
		if len(data) >= n {
			return data[:n], nil
		}
		out := make([]byte, n)
		copy(out, data)
		return out, nil
	}
}
