package packet

import "io"

// header is what HeaderParser returns: packet type, body-length
// descriptor, and the verbatim header bytes (needed for re-framing, spec
// section 4.1).
type header struct {
	Type    Type
	Length  BodyLength
	Raw     []byte
}

// errNoBytes signals EOF before the CTB itself was read — the "clean end
// of stream" case the dispatcher maps to ErrEOF (spec section 4.2 step 2).
var errNoBytes = io.EOF

// parseHeader reads one packet header (CTB plus length bytes) from src.
func parseHeader(src ByteSource) (header, error) {
	ctb, err := src.Get()
	if err != nil {
		return header{}, errNoBytes
	}
	if ctb&0x80 == 0 {
		return header{}, invalidErr(0, src.Tell(), "invalid CTB: high bit clear")
	}
	raw := []byte{ctb}

	if ctb&0x40 != 0 {
		return parseNewFormat(src, ctb, raw)
	}
	return parseOldFormat(src, ctb, raw)
}

func parseNewFormat(src ByteSource, ctb byte, raw []byte) (header, error) {
	t := Type(ctb & 0x3f)

	c, err := src.Get()
	if err != nil {
		return header{}, readErr(t, src.Tell(), err)
	}
	raw = append(raw, c)

	switch {
	case c < 192:
		return header{Type: t, Length: BodyLength{Kind: LengthDefinite, N: int(c)}, Raw: raw}, nil

	case c < 224:
		c2, err := src.Get()
		if err != nil {
			return header{}, readErr(t, src.Tell(), err)
		}
		raw = append(raw, c2)
		n := (int(c)-192)*256 + int(c2) + 192
		return header{Type: t, Length: BodyLength{Kind: LengthDefinite, N: n}, Raw: raw}, nil

	case c == 255:
		var buf [4]byte
		for i := range buf {
			b, err := src.Get()
			if err != nil {
				return header{}, readErr(t, src.Tell(), err)
			}
			buf[i] = b
			raw = append(raw, b)
		}
		n := int(buf[0])<<24 | int(buf[1])<<16 | int(buf[2])<<8 | int(buf[3])
		return header{Type: t, Length: BodyLength{Kind: LengthDefinite, N: n}, Raw: raw}, nil

	default: // 224..254: partial body length
		first := 1 << (c & 0x1f)
		return header{Type: t, Length: BodyLength{Kind: LengthPartial, N: first}, Raw: raw}, nil
	}
}

func parseOldFormat(src ByteSource, ctb byte, raw []byte) (header, error) {
	t := Type((ctb >> 2) & 0x0f)
	lengthCode := ctb & 0x03

	switch lengthCode {
	case 0:
		b, err := src.Get()
		if err != nil {
			return header{}, readErr(t, src.Tell(), err)
		}
		raw = append(raw, b)
		return header{Type: t, Length: BodyLength{Kind: LengthDefinite, N: int(b)}, Raw: raw}, nil

	case 1:
		var buf [2]byte
		for i := range buf {
			b, err := src.Get()
			if err != nil {
				return header{}, readErr(t, src.Tell(), err)
			}
			buf[i] = b
			raw = append(raw, b)
		}
		n := int(buf[0])<<8 | int(buf[1])
		return header{Type: t, Length: BodyLength{Kind: LengthDefinite, N: n}, Raw: raw}, nil

	case 2:
		var buf [4]byte
		for i := range buf {
			b, err := src.Get()
			if err != nil {
				return header{}, readErr(t, src.Tell(), err)
			}
			buf[i] = b
			raw = append(raw, b)
		}
		n := int(buf[0])<<24 | int(buf[1])<<16 | int(buf[2])<<8 | int(buf[3])
		return header{Type: t, Length: BodyLength{Kind: LengthDefinite, N: n}, Raw: raw}, nil

	default: // 3: indeterminate length
		return header{Type: t, Length: BodyLength{Kind: LengthIndeterminate}, Raw: raw}, nil
	}
}
