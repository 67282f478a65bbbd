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

// Package filebuf holds the bounded output buffer a template emits into (or
// reads from, in parse mode) plus the reservation/patch mechanism that lets a
// template back-patch length fields and checksums once the content they
// describe has actually been written.
package filebuf

import "fmt"

// MaxSize bounds the artifact a single session will produce or consume.
// Mirrors the original fuzzer's MAX_FILE_SIZE budget.
const MaxSize = 64 << 20

// Buffer is the in-memory stand-in for the file being generated or parsed.
// In generate mode Write appends produced bytes; in parse mode the Buffer
// wraps the input file and Read consumes it forward.
type Buffer struct {
	data []byte
	pos  int
}

// NewWriter returns an empty Buffer for generate mode.
func NewWriter() *Buffer {
	return &Buffer{data: make([]byte, 0, 4096)}
}

// NewReader wraps an input file's bytes for parse mode.
func NewReader(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Pos is the current read/write cursor.
func (b *Buffer) Pos() int { return b.pos }

// Len is the number of bytes currently held (written so far, or the full
// input size in reader mode).
func (b *Buffer) Len() int { return len(b.data) }

// Bytes returns the backing slice.
func (b *Buffer) Bytes() []byte { return b.data }

// Write appends p, enforcing MaxSize.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(b.data)+len(p) > MaxSize {
		return 0, fmt.Errorf("filebuf: write would exceed max file size %d", MaxSize)
	}
	b.data = append(b.data, p...)
	b.pos = len(b.data)
	return len(p), nil
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) error {
	_, err := b.Write([]byte{c})
	return err
}

// Read consumes up to len(p) bytes forward from pos. Returns io.EOF-style
// short reads at the tail; callers that need "is there more" semantics
// should use Remaining instead.
func (b *Buffer) Read(p []byte) (int, error) {
	n := copy(p, b.data[b.pos:])
	b.pos += n
	if n < len(p) {
		return n, fmt.Errorf("filebuf: short read, wanted %d got %d", len(p), n)
	}
	return n, nil
}

// ReadByte consumes and returns the next input byte.
func (b *Buffer) ReadByte() (byte, error) {
	if b.pos >= len(b.data) {
		return 0, fmt.Errorf("filebuf: read past end of input")
	}
	c := b.data[b.pos]
	b.pos++
	return c, nil
}

// Remaining reports how many unread bytes are left (parse mode) — the basis
// for a template's end-of-file probe.
func (b *Buffer) Remaining() int {
	return len(b.data) - b.pos
}

// Peek returns up to n unread bytes without advancing pos, for lookahead
// probes that decide whether an optional structure is present.
func (b *Buffer) Peek(n int) []byte {
	end := b.pos + n
	if end > len(b.data) {
		end = len(b.data)
	}
	return b.data[b.pos:end]
}

// Patch is a handle to a reserved-but-not-yet-known span of output bytes,
// such as a length field written before the body whose size it describes.
type Patch struct {
	offset int
	width  int
}

// Reserve appends width zero bytes and returns a Patch identifying them.
func (b *Buffer) Reserve(width int) Patch {
	p := Patch{offset: len(b.data), width: width}
	b.data = append(b.data, make([]byte, width)...)
	b.pos = len(b.data)
	return p
}

// PatchBE overwrites a previously reserved span with value encoded
// big-endian.
func (b *Buffer) PatchBE(p Patch, value uint64) {
	for i := 0; i < p.width; i++ {
		shift := uint(8 * (p.width - 1 - i))
		b.data[p.offset+i] = byte(value >> shift)
	}
}

// PatchLE overwrites a previously reserved span with value encoded
// little-endian.
func (b *Buffer) PatchLE(p Patch, value uint64) {
	for i := 0; i < p.width; i++ {
		b.data[p.offset+i] = byte(value >> uint(8*i))
	}
}
