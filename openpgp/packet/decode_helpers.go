package packet

import "encoding/binary"

// readByte reads one byte from src, decrementing *remaining. Used by
// every PayloadDecoder to keep to its pktlen budget (spec section 4.3).
func readByte(src ByteSource, remaining *int, t Type, off uint64) (byte, error) {
	if *remaining < 1 {
		return 0, invalidErr(t, off, "packet body too short")
	}
	b, err := src.Get()
	if err != nil {
		return 0, readErr(t, off, err)
	}
	*remaining--
	return b, nil
}

// readBytes reads exactly n bytes from src, decrementing *remaining.
func readBytes(src ByteSource, remaining *int, n int, t Type, off uint64) ([]byte, error) {
	if *remaining < n {
		return nil, invalidErr(t, off, "packet body too short")
	}
	buf := make([]byte, n)
	if err := readFull(src, buf); err != nil {
		return nil, readErr(t, off, err)
	}
	*remaining -= n
	return buf, nil
}

// readUint16 reads a big-endian uint16, decrementing *remaining by 2.
func readUint16(src ByteSource, remaining *int, t Type, off uint64) (uint16, error) {
	buf, err := readBytes(src, remaining, 2, t, off)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

// readUint32 reads a big-endian uint32, decrementing *remaining by 4.
func readUint32(src ByteSource, remaining *int, t Type, off uint64) (uint32, error) {
	buf, err := readBytes(src, remaining, 4, t, off)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

// readS2K reads the common S2K body (hash algo, and for mode 1/4 an
// 8-byte salt, and for mode 4 a 4-byte iteration count) after the mode
// byte has already been consumed by the caller. Only modes 0, 1 and 4 are
// in scope (spec section 3); any other mode is invalid.
func readS2K(src ByteSource, remaining *int, mode byte, t Type, off uint64) (S2K, error) {
	s := S2K{Mode: mode}
	switch mode {
	case 0:
		hashAlgo, err := readByte(src, remaining, t, off)
		if err != nil {
			return s, err
		}
		s.HashAlgo = hashAlgo
	case 1:
		hashAlgo, err := readByte(src, remaining, t, off)
		if err != nil {
			return s, err
		}
		s.HashAlgo = hashAlgo
		salt, err := readBytes(src, remaining, 8, t, off)
		if err != nil {
			return s, err
		}
		copy(s.Salt[:], salt)
	case 4:
		hashAlgo, err := readByte(src, remaining, t, off)
		if err != nil {
			return s, err
		}
		s.HashAlgo = hashAlgo
		salt, err := readBytes(src, remaining, 8, t, off)
		if err != nil {
			return s, err
		}
		copy(s.Salt[:], salt)
		count, err := readUint32(src, remaining, t, off)
		if err != nil {
			return s, err
		}
		s.Count = count
	default:
		return s, invalidErr(t, off, "unsupported S2K mode")
	}
	return s, nil
}
