package packet

import (
	"bytes"
	"io"
	"testing"
)

// A partial-body stream is a sequence of chunks: one or more "partial"
// chunks (length byte 224..254) followed by one final chunk using the
// ordinary new-format variable-length encoding. readPartial must hide the
// chunk boundaries and present one continuous logical body.
func TestByteSourcePartialChunkStitching(t *testing.T) {
	// Two 2-byte partial chunks ("AB", "CD") then a final 1-byte chunk ("E").
	stream := []byte{
		0xE1, 'A', 'B', // partial, chunk len 2
		0xE1, 'C', 'D', // partial, chunk len 2
		0x01, 'E', // final, definite length 1
	}
	src := NewByteSource(bytes.NewReader(stream))
	// The first chunk's length byte is part of the packet header, which
	// parseHeader consumes before the dispatcher enables partial mode.
	if b, err := src.Get(); err != nil || b != 0xE1 {
		t.Fatalf("Get() = %#x, %v; want 0xE1", b, err)
	}
	src.SetPartialBlockMode(2)

	got, err := readAllFrom(src)
	if err != nil {
		t.Fatalf("readAllFrom: %v", err)
	}
	if string(got) != "ABCDE" {
		t.Fatalf("got %q, want %q", got, "ABCDE")
	}
}

// Block mode (old-format indeterminate length) reads straight through to
// the underlying stream's own EOF with no chunk framing at all.
func TestByteSourceBlockMode(t *testing.T) {
	stream := []byte("all the bytes, no framing")
	src := NewByteSource(bytes.NewReader(stream))
	src.SetBlockMode(true)
	if !src.InBlockMode() {
		t.Fatal("InBlockMode() = false after SetBlockMode(true)")
	}

	got, err := readAllFrom(src)
	if err != nil {
		t.Fatalf("readAllFrom: %v", err)
	}
	if !bytes.Equal(got, stream) {
		t.Fatalf("got %q, want %q", got, stream)
	}
}

// Get/GetOrFail single-byte reads must track Tell() the same way bulk
// reads do.
func TestByteSourceTellTracksGet(t *testing.T) {
	stream := []byte{1, 2, 3, 4}
	src := NewByteSource(bytes.NewReader(stream))
	for i := 0; i < len(stream); i++ {
		if got := src.Tell(); got != uint64(i) {
			t.Fatalf("Tell() = %d before byte %d, want %d", got, i, i)
		}
		b, err := src.Get()
		if err != nil {
			t.Fatalf("Get() at %d: %v", i, err)
		}
		if b != stream[i] {
			t.Fatalf("Get() = %d, want %d", b, stream[i])
		}
	}
	if _, err := src.Get(); err != io.EOF {
		t.Fatalf("Get() at EOF = %v, want io.EOF", err)
	}
}

// A sink ByteSource accumulates Write calls and tracks Tell(); reading from
// one must panic (it is write-only by contract).
func TestSinkByteSourceWriteOnly(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSinkByteSource(&buf)
	if err := sink.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != "hello" {
		t.Fatalf("buf = %q, want hello", buf.String())
	}
	if sink.Tell() != 5 {
		t.Fatalf("Tell() = %d, want 5", sink.Tell())
	}

	defer func() {
		if recover() == nil {
			t.Fatal("Read on a sink ByteSource did not panic")
		}
	}()
	sink.Read(make([]byte, 1))
}
