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

// Package png is the one concrete Template shipped with this repository: a
// PNG-shaped chunked image format. It exists to exercise and test the
// engine end to end (spec.md §8's worked scenarios assume a template like
// this); it is intentionally not a byte-exact or complete PNG
// implementation — see SPEC_FULL.md's DOMAIN section.
//
// Layout: an 8-byte signature, one non-optional IHDR chunk, zero or more
// optional/appendable ancillary chunks, one non-optional IDAT chunk, and a
// terminal non-optional IEND chunk. IHDR, IDAT and IEND are each encoded as
// Length(4,BE) | TypeTag(4) | Data(N) | CRC32(4,BE), where the CRC covers
// Length+TypeTag+Data and the length field covers TypeTag+Data. Ancillary
// chunks are written as bare fields, with no length, type tag or CRC.
package png

import (
	"hash/crc32"

	"github.com/jrenckens/gofuzzer/internal/session"
	"github.com/jrenckens/gofuzzer/internal/template"
)

var signature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func init() {
	template.Register(Template{})
}

// Template implements template.Template for the PNG-shaped format.
type Template struct{}

// Name implements template.Template.
func (Template) Name() string { return "png" }

func crc32IEEE(data []byte) uint64 {
	return uint64(crc32.ChecksumIEEE(data))
}

// lengthChecksummed wraps body in the Length(4)|TypeTag(4)|Data|CRC32(4)
// envelope shared by IHDR, IDAT and IEND.
func lengthChecksummed(s *session.Session, typeTag string, body func()) func() {
	return func() {
		s.Checksum(4, crc32IEEE, func() {
			s.LengthPrefixed(4, func() {
				s.Expect([]byte(typeTag))
				body()
			})
		})
	}
}

// Run implements template.Template. The same sequence of calls serves as a
// generator (session.ModeGenerate/ModeGenerateSplice) or a parser
// (session.ModeParse and friends); the primitives on *session.Session
// decide which direction is actually happening.
func (Template) Run(s *session.Session) error {
	s.Chunk("signature", "Signature", func() {
		s.Expect(signature)
	})

	s.Chunk("ihdr", "IHDR", lengthChecksummed(s, "IHDR", func() {
		writeIHDRBody(s)
	}))

	for {
		ran := s.TryOptionalAhead("ancillary", "Ancillary", 8, isNotIDAT, func() {
			writeAncillaryBody(s)
		})
		if !ran {
			break
		}
	}

	s.Chunk("idat", "IDAT", lengthChecksummed(s, "IDAT", func() {
		writeIDATBody(s)
	}))

	s.Chunk("iend", "IEND", lengthChecksummed(s, "IEND", func() {
		// IEND carries no data.
	}))

	return nil
}

func writeIHDRBody(s *session.Session) {
	s.UintBE(4)      // width
	s.UintBE(4)      // height
	s.Choice(5)      // bit depth, index into {1,2,4,8,16}
	s.Choice(5)      // color type, index into {0,2,3,4,6}
	s.Byte()         // compression method
	s.Byte()         // filter method
	s.Choice(2)      // interlace method
}

// isNotIDAT peeks the next chunk's Length(4)|TypeTag(4) prefix and reports
// whether that chunk is something other than the mandatory IDAT — i.e.
// whether another ancillary chunk follows. An end-of-file check would not
// work here: IDAT and IEND are always still unread at this point in the
// parse, so Remaining() > 0 would always read as "another ancillary chunk
// follows," permanently desyncing the parse on IDAT's own bytes.
func isNotIDAT(peeked []byte) bool {
	if len(peeked) < 8 {
		return false
	}
	return string(peeked[4:8]) != "IDAT"
}

func writeAncillaryBody(s *session.Session) {
	kind := s.Choice(2)
	if kind == 0 {
		// tEXt-shaped: a size byte, then 1 to 32 free-form bytes.
		n := int(s.Byte()%32) + 1
		s.Bytes(n)
	} else {
		// pHYs-shaped: two 4-byte densities and a unit byte.
		s.UintBE(4)
		s.UintBE(4)
		s.Byte()
	}
}

func writeIDATBody(s *session.Session) {
	n := int(s.Byte())
	s.Bytes(n)
}
