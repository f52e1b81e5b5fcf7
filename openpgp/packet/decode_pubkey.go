package packet

// decodePubkeyEnc implements spec section 4.5. Minimum 12 bytes: version,
// 8-byte key id, pubkey algo, plus at least one MPI header byte pair.
func decodePubkeyEnc(src ByteSource, pktlen int, off uint64) (*PubkeyEncData, error) {
	if pktlen < 12 {
		return nil, invalidErr(TypePubkeyEnc, off, "pubkey-enc: body shorter than 12 bytes")
	}
	remaining := pktlen

	version, err := readByte(src, &remaining, TypePubkeyEnc, off)
	if err != nil {
		return nil, err
	}
	if version != 2 && version != 3 {
		return nil, invalidErr(TypePubkeyEnc, off, "pubkey-enc: unsupported version")
	}

	hi, err := readUint32(src, &remaining, TypePubkeyEnc, off)
	if err != nil {
		return nil, err
	}
	lo, err := readUint32(src, &remaining, TypePubkeyEnc, off)
	if err != nil {
		return nil, err
	}

	algo, err := readByte(src, &remaining, TypePubkeyEnc, off)
	if err != nil {
		return nil, err
	}

	data := &PubkeyEncData{
		Version:    version,
		KeyID:      [2]uint32{hi, lo},
		PubkeyAlgo: algo,
	}

	switch {
	case algo == PubkeyElGamal:
		a, err := readMPI(src, &remaining, TypePubkeyEnc, off)
		if err != nil {
			return data, err
		}
		b, err := readMPI(src, &remaining, TypePubkeyEnc, off)
		if err != nil {
			return data, err
		}
		data.ElGamalA, data.ElGamalB = a.Int, b.Int
	case isRSA(algo):
		c, err := readMPI(src, &remaining, TypePubkeyEnc, off)
		if err != nil {
			return data, err
		}
		data.RSA_C = c.Int
	default:
		// Unknown pubkey algorithm: stop reading payload, dispatcher
		// drains the remainder (spec section 4.5, 9).
	}

	return data, nil
}
