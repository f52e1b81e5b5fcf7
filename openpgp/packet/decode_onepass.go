package packet

// decodeOnepassSig implements spec section 4.9: a fixed 13-byte body.
func decodeOnepassSig(src ByteSource, pktlen int, off uint64) (*OnepassSigData, error) {
	if pktlen < 13 {
		return nil, invalidErr(TypeOnepassSig, off, "onepass-sig: body shorter than 13 bytes")
	}
	remaining := pktlen

	version, err := readByte(src, &remaining, TypeOnepassSig, off)
	if err != nil {
		return nil, err
	}
	if version != 3 {
		return nil, invalidErr(TypeOnepassSig, off, "onepass-sig: unsupported version")
	}
	sigClass, err := readByte(src, &remaining, TypeOnepassSig, off)
	if err != nil {
		return nil, err
	}
	digestAlgo, err := readByte(src, &remaining, TypeOnepassSig, off)
	if err != nil {
		return nil, err
	}
	pubkeyAlgo, err := readByte(src, &remaining, TypeOnepassSig, off)
	if err != nil {
		return nil, err
	}
	hi, err := readUint32(src, &remaining, TypeOnepassSig, off)
	if err != nil {
		return nil, err
	}
	lo, err := readUint32(src, &remaining, TypeOnepassSig, off)
	if err != nil {
		return nil, err
	}
	last, err := readByte(src, &remaining, TypeOnepassSig, off)
	if err != nil {
		return nil, err
	}

	return &OnepassSigData{
		Version:    version,
		SigClass:   sigClass,
		DigestAlgo: digestAlgo,
		PubkeyAlgo: pubkeyAlgo,
		KeyID:      [2]uint32{hi, lo},
		Last:       last,
	}, nil
}
