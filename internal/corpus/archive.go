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

package corpus

import (
	"bytes"
	"fmt"
	"time"

	"github.com/blakesmith/ar"
)

// WriteArchive bundles a mutation session's output files, plus each one's
// recovered decision-stream sidecar, into a single ar archive: one entry per
// file (named by its base name) followed immediately by its
// "<name>-decisions" entry. Mirrors the teacher's own use of the ar format
// as the outer container for its Debian package output
// (src/dump-package/impl/archive.go's DumpAr reads what common/build.go's
// Debian generator writes).
func WriteArchive(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := ar.NewWriter(&buf)
	if err := w.WriteGlobalHeader(); err != nil {
		return nil, fmt.Errorf("corpus: ar global header: %w", err)
	}

	for _, e := range entries {
		if err := writeArEntry(w, baseName(e.Path), e.File); err != nil {
			return nil, err
		}
		if e.Decisions != nil {
			if err := writeArEntry(w, baseName(SidecarPath(e.Path)), e.Decisions); err != nil {
				return nil, err
			}
		}
	}

	return buf.Bytes(), nil
}

func writeArEntry(w *ar.Writer, name string, data []byte) error {
	hdr := &ar.Header{
		Name:    name,
		ModTime: time.Unix(0, 0),
		Mode:    0644,
		Size:    int64(len(data)),
	}
	if err := w.WriteHeader(hdr); err != nil {
		return fmt.Errorf("corpus: ar header for %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("corpus: ar body for %s: %w", name, err)
	}
	return nil
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
