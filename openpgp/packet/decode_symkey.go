package packet

// decodeSymkeyEnc implements spec section 4.4. Minimum 4 bytes; version
// must be 4; the whole packet is capped at 200 bytes so the trailing
// session key always fits the byte budget.
func decodeSymkeyEnc(src ByteSource, pktlen int, off uint64) (*SymkeyEncData, error) {
	const maxPacketLen = 200
	if pktlen < 4 {
		return nil, invalidErr(TypeSymkeyEnc, off, "symkey-enc: body shorter than 4 bytes")
	}
	if pktlen > maxPacketLen {
		pktlen = maxPacketLen
	}
	remaining := pktlen

	version, err := readByte(src, &remaining, TypeSymkeyEnc, off)
	if err != nil {
		return nil, err
	}
	if version != 4 {
		return nil, invalidErr(TypeSymkeyEnc, off, "symkey-enc: unsupported version")
	}

	cipherAlgo, err := readByte(src, &remaining, TypeSymkeyEnc, off)
	if err != nil {
		return nil, err
	}
	mode, err := readByte(src, &remaining, TypeSymkeyEnc, off)
	if err != nil {
		return nil, err
	}

	s2k, err := readS2K(src, &remaining, mode, TypeSymkeyEnc, off)
	if err != nil {
		return nil, err
	}

	var sessionKey []byte
	if remaining > 0 {
		sessionKey, err = readBytes(src, &remaining, remaining, TypeSymkeyEnc, off)
		if err != nil {
			return nil, err
		}
	}

	return &SymkeyEncData{
		Version:    version,
		CipherAlgo: cipherAlgo,
		S2K:        s2k,
		SessionKey: sessionKey,
	}, nil
}
