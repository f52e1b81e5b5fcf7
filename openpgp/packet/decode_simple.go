package packet

// decodeUserID implements spec section 4.9: the entire body is the
// payload. Only meaningful for definite-length bodies.
func decodeUserID(src ByteSource, pktlen int, off uint64) (*UserIDData, error) {
	remaining := pktlen
	buf, err := readBytes(src, &remaining, pktlen, TypeUserID, off)
	if err != nil {
		return nil, err
	}
	return &UserIDData{Bytes: buf}, nil
}

// decodeComment implements spec section 4.9 for both Comment and
// OldComment packets: the entire body is the payload.
func decodeComment(src ByteSource, t Type, pktlen int, off uint64) (*CommentData, error) {
	remaining := pktlen
	buf, err := readBytes(src, &remaining, pktlen, t, off)
	if err != nil {
		return nil, err
	}
	return &CommentData{Bytes: buf}, nil
}

// decodeRingTrust implements spec section 4.9: a single flag byte. The
// dispatcher returns it as a Packet whose RingTrust field holds the flag,
// and list mode prints the flag.
func decodeRingTrust(src ByteSource, pktlen int, off uint64) (*RingTrustData, error) {
	remaining := pktlen
	flag, err := readByte(src, &remaining, TypeRingTrust, off)
	if err != nil {
		return nil, err
	}
	return &RingTrustData{Flag: flag}, nil
}

// decodePlaintext implements spec section 4.9. The remaining body is not
// consumed here: src is handed to the caller positioned at the start of
// the literal content. The dispatcher does not drain streaming packet
// types; the returned remaining budget is always 0.
func decodePlaintext(src ByteSource, length BodyLength, off uint64) (*PlaintextData, int, error) {
	known := length.Known()
	if known && length.N < 6 {
		return nil, 0, invalidErr(TypePlaintext, off, "literal data: body shorter than 6 bytes")
	}

	remaining := length.N // meaningless if !known; readByte/readBytes below only consult it when known
	getByte := func() (byte, error) {
		if known {
			return readByte(src, &remaining, TypePlaintext, off)
		}
		b, err := src.Get()
		if err != nil {
			return 0, readErr(TypePlaintext, off, err)
		}
		return b, nil
	}

	mode, err := getByte()
	if err != nil {
		return nil, 0, err
	}
	nameLen, err := getByte()
	if err != nil {
		return nil, 0, err
	}

	var name []byte
	if known {
		// Never read beyond pktlen-4 (mode, namelen, 4-byte timestamp)
		// when the length is known.
		budget := remaining - 4
		n := int(nameLen)
		if n > budget {
			n = budget
		}
		name, err = readBytes(src, &remaining, n, TypePlaintext, off)
	} else {
		name = make([]byte, nameLen)
		var rerr error
		for i := range name {
			name[i], rerr = getByte()
			if rerr != nil {
				break
			}
		}
		err = rerr
	}
	if err != nil {
		return nil, 0, err
	}

	var timestamp uint32
	if known {
		timestamp, err = readUint32(src, &remaining, TypePlaintext, off)
	} else {
		var buf [4]byte
		var rerr error
		for i := range buf {
			buf[i], rerr = getByte()
			if rerr != nil {
				break
			}
		}
		err = rerr
		if err == nil {
			timestamp = uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
		}
	}
	if err != nil {
		return nil, 0, err
	}

	data := &PlaintextData{
		Mode:      mode,
		Name:      name,
		Timestamp: timestamp,
		Body:      src,
		BodyLen:   length,
	}
	return data, 0, nil
}

// decodeCompressed implements spec section 4.9: one algorithm byte, then
// the ByteSource is handed off as the compressed stream verbatim (this
// package never decompresses; that's the compression layer's job).
// Old-format Compressed packets with indeterminate length (spec section
// 4.1's exception, 4.7's "compressed indeterminate" policy) carry no
// length prefix at all, so the algo byte is read directly from src.
func decodeCompressed(src ByteSource, length BodyLength, off uint64) (*CompressedData, error) {
	if !length.Known() {
		algo, err := src.Get()
		if err != nil {
			return nil, readErr(TypeCompressed, off, err)
		}
		return &CompressedData{Algo: algo, Buf: src}, nil
	}
	remaining := length.N
	algo, err := readByte(src, &remaining, TypeCompressed, off)
	if err != nil {
		return nil, err
	}
	return &CompressedData{Algo: algo, Buf: src}, nil
}

// decodeEncrypted implements spec section 4.9: require room for the
// protocol's MDC prefix when the length is known, then hand off the body.
func decodeEncrypted(src ByteSource, t Type, length BodyLength, off uint64) (*EncryptedData, error) {
	if length.Known() && length.N < 10 {
		return nil, invalidErr(t, off, "encrypted data: body shorter than 10 bytes")
	}
	return &EncryptedData{
		MDC:     t == TypeSymEncryptMDC,
		BodyLen: length,
		Buf:     src,
	}, nil
}
