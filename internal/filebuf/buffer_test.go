package filebuf

import "testing"

func TestWriterWriteAndBytes(t *testing.T) {
	b := NewWriter()
	b.Write([]byte("abc"))
	b.WriteByte('d')
	if string(b.Bytes()) != "abcd" {
		t.Fatalf("Bytes() = %q, want %q", b.Bytes(), "abcd")
	}
}

func TestReaderReadByteAndRemaining(t *testing.T) {
	b := NewReader([]byte{1, 2, 3})
	if b.Remaining() != 3 {
		t.Fatalf("Remaining() = %d, want 3", b.Remaining())
	}
	got, err := b.ReadByte()
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if got != 1 {
		t.Fatalf("ReadByte() = %d, want 1", got)
	}
	if b.Remaining() != 2 {
		t.Fatalf("Remaining() = %d, want 2", b.Remaining())
	}
}

func TestReaderReadPastEndErrors(t *testing.T) {
	b := NewReader(nil)
	if _, err := b.ReadByte(); err == nil {
		t.Fatal("ReadByte on empty buffer: want error, got nil")
	}
}

func TestReservePatchBE(t *testing.T) {
	b := NewWriter()
	p := b.Reserve(4)
	b.Write([]byte("body"))
	b.PatchBE(p, 0x01020304)
	want := []byte{0x01, 0x02, 0x03, 0x04, 'b', 'o', 'd', 'y'}
	if string(b.Bytes()) != string(want) {
		t.Fatalf("Bytes() = %v, want %v", b.Bytes(), want)
	}
}

func TestReservePatchLE(t *testing.T) {
	b := NewWriter()
	p := b.Reserve(2)
	b.PatchLE(p, 0x0102)
	want := []byte{0x02, 0x01}
	if string(b.Bytes()) != string(want) {
		t.Fatalf("Bytes() = %v, want %v", b.Bytes(), want)
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {
	b := NewReader([]byte{1, 2, 3})
	got := b.Peek(2)
	if string(got) != string([]byte{1, 2}) {
		t.Fatalf("Peek(2) = %v, want [1 2]", got)
	}
	if b.Pos() != 0 {
		t.Fatalf("Pos() after Peek = %d, want 0", b.Pos())
	}
}
