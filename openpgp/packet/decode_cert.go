package packet

// legacyCommentErr signals that a "public subkey" packet's version byte
// was the ASCII '#' (spec section 4.8, 9): the whole body is an RFC 1991
// comment, not a certificate. dispatch.go's decode() special-cases this
// to print (list mode) and skip rather than surfacing it as a decode
// error or a certificate Packet.
type legacyCommentErr struct {
	comment []byte
}

func (e *legacyCommentErr) Error() string { return "certificate: legacy RFC 1991 comment" }

// recognizedPubkeyAlgo reports whether algo is one this decoder knows the
// public/secret material layout for. An unrecognized algorithm leaves the
// body's remaining structure unknowable, so callers must stop reading
// immediately rather than guess at an offset (spec section 9).
func recognizedPubkeyAlgo(algo byte) bool {
	return algo == PubkeyElGamal || algo == PubkeyDSA || isRSA(algo)
}

// decodeCert implements spec section 4.8: the combined public/secret,
// primary/subkey certificate decoder. It is the largest decoder in this
// package, covering the cross-product of {public, secret} x
// {primary, subkey} x {ElGamal, DSA, RSA} x {v2/v3, v4} x (secret only:
// {unprotected, legacy-protected, S2K-protected}).
func decodeCert(src ByteSource, t Type, pktlen int, off uint64) (*CertData, error) {
	remaining := pktlen

	version, err := readByte(src, &remaining, t, off)
	if err != nil {
		return nil, err
	}

	// Early-version quirk (spec section 4.8, 9): a "public subkey"
	// packet whose version byte is the ASCII '#' is actually an entire
	// RFC 1991 comment, not a certificate. No CertData is produced for
	// it — the dispatcher prints (list mode) and skips instead of
	// handing back a Packet for this case.
	if t == TypePublicSubkey && version == '#' {
		rest, err := readBytes(src, &remaining, remaining, t, off)
		if err != nil {
			return nil, err
		}
		comment := make([]byte, 0, 1+len(rest))
		comment = append(comment, version)
		comment = append(comment, rest...)
		return nil, &legacyCommentErr{comment: comment}
	}

	if pktlen < 11 {
		return nil, invalidErr(t, off, "certificate: body shorter than 11 bytes")
	}
	if version != 2 && version != 3 && version != 4 {
		return nil, invalidErr(t, off, "certificate: unsupported version")
	}

	data := &CertData{Version: version}

	created, err := readUint32(src, &remaining, t, off)
	if err != nil {
		return data, err
	}
	data.Created = created

	if version == 2 || version == 3 {
		validDays, err := readUint16(src, &remaining, t, off)
		if err != nil {
			return data, err
		}
		data.ValidDays = validDays
	}

	algo, err := readByte(src, &remaining, t, off)
	if err != nil {
		return data, err
	}
	data.PubkeyAlgo = algo

	if err := readPublicMaterial(src, &remaining, algo, &data.Public, t, off); err != nil {
		return data, err
	}

	isSecret := t == TypeSecretKey || t == TypeSecretSubkey
	if !isSecret {
		return data, nil
	}

	// An unrecognized public-key algorithm already left Public
	// unpopulated above; the secret-material layout that follows is
	// exactly as unknowable, so stop here rather than read a
	// protection byte and IV from a now-meaningless offset (spec
	// section 9: "the source silently leaves algorithm-specific fields
	// absent and drains").
	if !recognizedPubkeyAlgo(algo) {
		return data, nil
	}

	protectAlgo, err := readByte(src, &remaining, t, off)
	if err != nil {
		return data, err
	}

	switch protectAlgo {
	case 0:
		data.Protect = &SecretKeyProtection{IsProtected: false}
		sec, err := readSecretMaterial(src, &remaining, algo, t, off)
		if err != nil {
			return data, err
		}
		data.Secret = sec

	case 255:
		cipherAlgo, err := readByte(src, &remaining, t, off)
		if err != nil {
			return data, err
		}
		mode, err := readByte(src, &remaining, t, off)
		if err != nil {
			return data, err
		}
		if mode != 0 && mode != 1 && mode != 4 {
			return data, invalidErr(t, off, "certificate: unsupported S2K mode")
		}
		// readS2K expects the hash-algo byte to still be unread; feed
		// it the mode we already consumed above.
		s2k, err := readS2K(src, &remaining, mode, t, off)
		if err != nil {
			return data, err
		}
		iv, err := readBytes(src, &remaining, 8, t, off)
		if err != nil {
			return data, err
		}
		data.Protect = &SecretKeyProtection{
			IsProtected: true,
			CipherAlgo:  cipherAlgo,
			S2K:         s2k,
			IV:          iv,
		}
		sec, err := readSecretMaterial(src, &remaining, algo, t, off)
		if err != nil {
			return data, err
		}
		data.Secret = sec

	default:
		// Legacy protection (spec section 4.8, 9): the byte itself is
		// the cipher algo, and the S2K is fabricated as mode 0 with a
		// hash chosen by (cipher, algo). RIPEMD-160 only for
		// Blowfish-160 ElGamal keys; MD5 otherwise.
		cipherAlgo := protectAlgo
		hashAlgo := byte(DigestMD5)
		if cipherAlgo == CipherBlowfish && algo == PubkeyElGamal {
			hashAlgo = DigestRIPEMD160
		}
		iv, err := readBytes(src, &remaining, 8, t, off)
		if err != nil {
			return data, err
		}
		// The IV is always read off the wire to stay byte-aligned, but
		// per the preserved legacy asymmetry it is only actually kept
		// for RSA when the cipher is Blowfish-160; ElGamal and DSA
		// keys always keep it. See DESIGN.md's Open Question entry.
		prot := &SecretKeyProtection{
			IsProtected: true,
			CipherAlgo:  cipherAlgo,
			S2K:         S2K{Mode: 0, HashAlgo: hashAlgo},
			Legacy:      true,
		}
		if !isRSA(algo) || cipherAlgo == CipherBlowfish {
			prot.IV = iv
		}
		data.Protect = prot
		sec, err := readSecretMaterial(src, &remaining, algo, t, off)
		if err != nil {
			return data, err
		}
		data.Secret = sec
	}

	return data, nil
}

// readPublicMaterial reads the algorithm-specific public parameters
// (spec section 4.8). An unrecognized algorithm leaves Public at its zero
// value and is not an error (spec section 9): the dispatcher drains the
// remainder.
func readPublicMaterial(src ByteSource, remaining *int, algo byte, pub *PublicKeyMaterial, t Type, off uint64) error {
	switch {
	case algo == PubkeyElGamal:
		p, err := readMPI(src, remaining, t, off)
		if err != nil {
			return err
		}
		g, err := readMPI(src, remaining, t, off)
		if err != nil {
			return err
		}
		y, err := readMPI(src, remaining, t, off)
		if err != nil {
			return err
		}
		pub.P, pub.G, pub.Y = p.Int, g.Int, y.Int
	case algo == PubkeyDSA:
		p, err := readMPI(src, remaining, t, off)
		if err != nil {
			return err
		}
		q, err := readMPI(src, remaining, t, off)
		if err != nil {
			return err
		}
		g, err := readMPI(src, remaining, t, off)
		if err != nil {
			return err
		}
		y, err := readMPI(src, remaining, t, off)
		if err != nil {
			return err
		}
		pub.P, pub.Q, pub.G, pub.Y = p.Int, q.Int, g.Int, y.Int
	case isRSA(algo):
		n, err := readMPI(src, remaining, t, off)
		if err != nil {
			return err
		}
		e, err := readMPI(src, remaining, t, off)
		if err != nil {
			return err
		}
		pub.N, pub.E = n.Int, e.Int
	default:
		// Unknown algorithm: no public material to read.
	}
	return nil
}

// readSecretMaterial reads the (still possibly encrypted) secret integers
// and trailing 16-bit checksum, in the field order spec section 4.8
// requires: ElGamal x; DSA x; RSA d, p, q, u. decodeCert only reaches here
// for a recognized algo (see recognizedPubkeyAlgo); the default case is
// unreachable in practice but kept so this switch mirrors
// readPublicMaterial's shape.
func readSecretMaterial(src ByteSource, remaining *int, algo byte, t Type, off uint64) (*SecretKeyMaterial, error) {
	sec := &SecretKeyMaterial{}
	switch {
	case algo == PubkeyElGamal || algo == PubkeyDSA:
		x, err := readMPI(src, remaining, t, off)
		if err != nil {
			return sec, err
		}
		sec.X = x.Int
	case isRSA(algo):
		d, err := readMPI(src, remaining, t, off)
		if err != nil {
			return sec, err
		}
		p, err := readMPI(src, remaining, t, off)
		if err != nil {
			return sec, err
		}
		q, err := readMPI(src, remaining, t, off)
		if err != nil {
			return sec, err
		}
		u, err := readMPI(src, remaining, t, off)
		if err != nil {
			return sec, err
		}
		sec.D, sec.RSAP, sec.RSAQ, sec.U = d.Int, p.Int, q.Int, u.Int
	default:
		return sec, nil
	}

	checksum, err := readUint16(src, remaining, t, off)
	if err != nil {
		return sec, err
	}
	sec.Checksum = checksum
	return sec, nil
}
