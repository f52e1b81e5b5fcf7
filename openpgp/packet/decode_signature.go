package packet

import "encoding/binary"

const maxSubpacketAreaLen = 10000

// decodeSignature implements spec section 4.6: v2/v3 and v4 signatures.
func decodeSignature(src ByteSource, pktlen int, off uint64) (*SignatureData, error) {
	if pktlen < 16 {
		return nil, invalidErr(TypeSignature, off, "signature: body shorter than 16 bytes")
	}
	remaining := pktlen

	version, err := readByte(src, &remaining, TypeSignature, off)
	if err != nil {
		return nil, err
	}
	if version != 2 && version != 3 && version != 4 {
		return nil, invalidErr(TypeSignature, off, "signature: unsupported version")
	}

	data := &SignatureData{Version: version}

	if version == 2 || version == 3 {
		md5Len, err := readByte(src, &remaining, TypeSignature, off)
		if err != nil {
			return data, err
		}
		sigClass, err := readByte(src, &remaining, TypeSignature, off)
		if err != nil {
			return data, err
		}
		ts, err := readUint32(src, &remaining, TypeSignature, off)
		if err != nil {
			return data, err
		}
		hi, err := readUint32(src, &remaining, TypeSignature, off)
		if err != nil {
			return data, err
		}
		lo, err := readUint32(src, &remaining, TypeSignature, off)
		if err != nil {
			return data, err
		}
		data.MD5Len = md5Len
		data.SigClass = sigClass
		data.Timestamp = ts
		data.KeyID = [2]uint32{hi, lo}
	} else {
		sigClass, err := readByte(src, &remaining, TypeSignature, off)
		if err != nil {
			return data, err
		}
		data.SigClass = sigClass
	}

	pubkeyAlgo, err := readByte(src, &remaining, TypeSignature, off)
	if err != nil {
		return data, err
	}
	digestAlgo, err := readByte(src, &remaining, TypeSignature, off)
	if err != nil {
		return data, err
	}
	data.PubkeyAlgo = pubkeyAlgo
	data.DigestAlgo = digestAlgo

	if version == 4 {
		hashed, err := readSubpacketArea(src, &remaining, off)
		if err != nil {
			return data, err
		}
		unhashed, err := readSubpacketArea(src, &remaining, off)
		if err != nil {
			return data, err
		}
		data.HashedData = hashed
		data.UnhashedData = unhashed
		decorateV4Signature(data)
	}

	digestStart, err := readBytes(src, &remaining, 2, TypeSignature, off)
	if err != nil {
		return data, err
	}
	copy(data.DigestStart[:], digestStart)

	switch {
	case pubkeyAlgo == PubkeyElGamal:
		a, err := readMPI(src, &remaining, TypeSignature, off)
		if err != nil {
			return data, err
		}
		b, err := readMPI(src, &remaining, TypeSignature, off)
		if err != nil {
			return data, err
		}
		data.ElGamalA, data.ElGamalB = a.Int, b.Int
	case pubkeyAlgo == PubkeyDSA:
		r, err := readMPI(src, &remaining, TypeSignature, off)
		if err != nil {
			return data, err
		}
		s, err := readMPI(src, &remaining, TypeSignature, off)
		if err != nil {
			return data, err
		}
		data.DSA_R, data.DSA_S = r.Int, s.Int
	case isRSA(pubkeyAlgo):
		c, err := readMPI(src, &remaining, TypeSignature, off)
		if err != nil {
			return data, err
		}
		data.RSA_C = c.Int
	default:
		// Unknown pubkey algorithm: drained by the dispatcher.
	}

	return data, nil
}

// readSubpacketArea reads a v4 signature's hashed or unhashed subpacket
// area: a 2-byte length prefix followed by that many bytes. The returned
// slice retains the prefix verbatim, since that is the on-wire form later
// needed for signature verification (spec section 4.6).
func readSubpacketArea(src ByteSource, remaining *int, off uint64) ([]byte, error) {
	length, err := readUint16(src, remaining, TypeSignature, off)
	if err != nil {
		return nil, err
	}
	if int(length) > maxSubpacketAreaLen {
		return nil, invalidErr(TypeSignature, off, "signature: subpacket area too large")
	}
	body, err := readBytes(src, remaining, int(length), TypeSignature, off)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 2+len(body))
	binary.BigEndian.PutUint16(out, length)
	copy(out[2:], body)
	return out, nil
}

// decorateV4Signature extracts the creation time and issuer key id from a
// v4 signature's subpacket areas (spec section 4.6). Missing or malformed
// data leaves the field at its zero value; it does not fail the decode and
// nothing is logged. The Issuer subpacket is
// conventionally unhashed, but some signers (including this module's own
// encoder) hash it along with everything else to resist a downgrade
// attack, so both areas are checked, hashed taking priority.
func decorateV4Signature(data *SignatureData) {
	if payload, ok, err := FindSubpacket(data.HashedData, SubSigCreated); err == nil && ok {
		data.SigCreated = binary.BigEndian.Uint32(payload[:4])
	}
	payload, ok, err := FindSubpacket(data.HashedData, SubIssuer)
	if err != nil || !ok {
		payload, ok, err = FindSubpacket(data.UnhashedData, SubIssuer)
	}
	if err == nil && ok {
		data.IssuerKeyID[0] = binary.BigEndian.Uint32(payload[0:4])
		data.IssuerKeyID[1] = binary.BigEndian.Uint32(payload[4:8])
		data.HasIssuer = true
	}
}
