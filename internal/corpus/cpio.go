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

	"github.com/surma/gocpio"
)

// BenchmarkRecord is one generated file produced during a benchmark run,
// together with the checker script's exit status for it (§SUPPLEMENTED
// FEATURES, benchmark [checker]).
type BenchmarkRecord struct {
	Name       string
	Data       []byte
	ExitStatus int
}

// WriteBenchmarkCPIO archives every benchmark output as a cpio entry named
// "<index>.status<N>", generalizing the teacher's hand-rolled cpio payload
// writer (src/holo-build/rpm/payload.go) into real library use: a benchmark
// run's outputs, together with the checker verdict that scored each one,
// bundled for offline inspection.
func WriteBenchmarkCPIO(records []BenchmarkRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := cpio.NewWriter(&buf)

	for i, r := range records {
		name := fmt.Sprintf("%06d.status%d", i, r.ExitStatus)
		if r.Name != "" {
			name = r.Name
		}
		hdr := &cpio.Header{
			Name: name,
			Mode: 0644,
			Size: int64(len(r.Data)),
			Type: cpio.TYPE_REG,
		}
		if err := w.WriteHeader(hdr); err != nil {
			return nil, fmt.Errorf("corpus: cpio header for %s: %w", name, err)
		}
		if _, err := w.Write(r.Data); err != nil {
			return nil, fmt.Errorf("corpus: cpio body for %s: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("corpus: cpio close: %w", err)
	}
	return buf.Bytes(), nil
}
