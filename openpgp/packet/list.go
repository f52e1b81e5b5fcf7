package packet

import (
	"fmt"
	"io"
	"math/big"
)

// printPacket writes one human-readable line (plus any indented detail
// lines) for a decoded packet, matching the ":type_name packet:"-style
// lines gpg --list-packets produces (spec section 6). Detail lines are
// deliberately sparse: this is a debugging aid, not a full dump format.
func (p *Parser) printPacket(pkt *Packet, h header) {
	if p.listOut == nil || pkt == nil {
		return
	}
	fmt.Fprintf(p.listOut, ":%s packet:\n", packetTypeName(pkt.Type))

	switch {
	case pkt.SymkeyEnc != nil:
		d := pkt.SymkeyEnc
		fmt.Fprintf(p.listOut, "\tversion %d, cipher %s, s2k %d\n", d.Version, CipherName(d.CipherAlgo), d.S2K.Mode)

	case pkt.PubkeyEnc != nil:
		d := pkt.PubkeyEnc
		fmt.Fprintf(p.listOut, "\tversion %d, algo %d, keyid %08X%08X\n", d.Version, d.PubkeyAlgo, d.KeyID[0], d.KeyID[1])
		p.printMPIs(pubkeyEncMPIs(d))

	case pkt.Signature != nil:
		d := pkt.Signature
		fmt.Fprintf(p.listOut, "\tversion %d, class 0x%02x, digest %s\n", d.Version, d.SigClass, DigestName(d.DigestAlgo))
		if d.Version == 4 {
			p.printSubpackets("hashed", d.HashedData)
			p.printSubpackets("unhashed", d.UnhashedData)
		}
		p.printMPIs(signatureMPIs(d))

	case pkt.OnepassSig != nil:
		d := pkt.OnepassSig
		fmt.Fprintf(p.listOut, "\tkeyid %08X%08X, digest %s, last=%d\n", d.KeyID[0], d.KeyID[1], DigestName(d.DigestAlgo), d.Last)

	case pkt.Cert != nil:
		d := pkt.Cert
		fmt.Fprintf(p.listOut, "\tversion %d, created %d, algo %d\n", d.Version, d.Created, d.PubkeyAlgo)
		p.printMPIs(publicMaterialMPIs(&d.Public))
		if d.Protect != nil {
			fmt.Fprintf(p.listOut, "\tprotected: cipher %s legacy=%v\n", CipherName(d.Protect.CipherAlgo), d.Protect.Legacy)
		}

	case pkt.UserID != nil:
		fmt.Fprintf(p.listOut, "\t%q\n", pkt.UserID.Bytes)

	case pkt.Comment != nil:
		fmt.Fprintf(p.listOut, "\t%q\n", pkt.Comment.Bytes)

	case pkt.RingTrust != nil:
		fmt.Fprintf(p.listOut, "\tflag %d\n", pkt.RingTrust.Flag)

	case pkt.Plaintext != nil:
		d := pkt.Plaintext
		fmt.Fprintf(p.listOut, "\tmode %c, name %q, timestamp %d\n", d.Mode, d.Name, d.Timestamp)

	case pkt.Compressed != nil:
		fmt.Fprintf(p.listOut, "\talgo %d\n", pkt.Compressed.Algo)

	case pkt.Encrypted != nil:
		fmt.Fprintf(p.listOut, "\tmdc=%v\n", pkt.Encrypted.MDC)
	}
}

func (p *Parser) printMPIs(mpis []namedMPI) {
	if !p.mpiPrintMode {
		return
	}
	for _, m := range mpis {
		if m.v == nil {
			continue
		}
		fmt.Fprintf(p.listOut, "\t%s = %s\n", m.name, m.v.String())
	}
}

// namedMPI pairs a display name with a *big.Int that may be nil (the
// algorithm didn't populate that field). Kept as a concrete pointer
// rather than an interface: wrapping a nil *big.Int in an interface
// value would no longer compare equal to nil.
type namedMPI struct {
	name string
	v    *big.Int
}

func pubkeyEncMPIs(d *PubkeyEncData) []namedMPI {
	return []namedMPI{{"a", d.ElGamalA}, {"b", d.ElGamalB}, {"c", d.RSA_C}}
}

func signatureMPIs(d *SignatureData) []namedMPI {
	return []namedMPI{
		{"a", d.ElGamalA}, {"b", d.ElGamalB},
		{"r", d.DSA_R}, {"s", d.DSA_S},
		{"c", d.RSA_C},
	}
}

func publicMaterialMPIs(m *PublicKeyMaterial) []namedMPI {
	return []namedMPI{
		{"p", m.P}, {"g", m.G}, {"y", m.Y},
		{"q", m.Q}, {"n", m.N}, {"e", m.E},
	}
}

// printSubpackets writes one line per subpacket in a v4 signature area,
// naming each by its RFC 4880 type (spec section 4.10).
func (p *Parser) printSubpackets(area string, buf []byte) {
	subs, err := ListSubpackets(buf)
	if err != nil {
		fmt.Fprintf(p.listOut, "\t%s subpackets: %s\n", area, err)
		return
	}
	for _, sp := range subs {
		crit := ""
		if sp.Critical {
			crit = " (critical)"
		}
		fmt.Fprintf(p.listOut, "\t%s subpacket: %s%s, %d bytes\n", area, subpacketName(sp.Type), crit, len(sp.Data))
	}
}

// printLegacyComment writes the list-mode line for an RFC 1991 comment
// masquerading as a public subkey packet (spec section 4.8, 9). No
// CertData/Packet is ever produced for this case, so printPacket never
// sees it.
func (p *Parser) printLegacyComment(t Type, comment []byte) {
	if p.listOut == nil {
		return
	}
	fmt.Fprintf(p.listOut, ":%s packet: legacy comment, %d bytes\n", packetTypeName(t), len(comment))
}

// dumpHex implements the hex-dump-on-skip behavior spec section 4.7
// requires for list mode over nonzero unknown/filtered packet types:
// 4-digit decimal offset prefix, bytes grouped by 8 with a space between
// groups, a new line every 24 bytes.
func (p *Parser) dumpHex(h header) {
	buf, err := p.collectBody(h)
	fmt.Fprintf(p.listOut, ":%s packet: %d bytes\n", packetTypeName(h.Type), len(buf))
	for i := 0; i < len(buf); i += 24 {
		end := i + 24
		if end > len(buf) {
			end = len(buf)
		}
		line := buf[i:end]
		fmt.Fprintf(p.listOut, "%04d:", i)
		for j := 0; j < len(line); j++ {
			if j%8 == 0 {
				fmt.Fprint(p.listOut, " ")
			}
			fmt.Fprintf(p.listOut, "%02x", line[j])
		}
		fmt.Fprintln(p.listOut)
	}
	if err != nil {
		fmt.Fprintf(p.listOut, "; truncated: %s\n", err)
	}
}

// collectBody reads and returns a skipped packet's body, using the same
// three length policies as drainBody/copyBody, so list mode can render
// exactly what would otherwise have been discarded silently.
func (p *Parser) collectBody(h header) ([]byte, error) {
	switch h.Length.Kind {
	case LengthDefinite:
		buf := make([]byte, h.Length.N)
		err := readFull(p.src, buf)
		return buf, err
	case LengthIndeterminate:
		if h.Type != TypeCompressed {
			p.src.SetBlockMode(true)
		}
		return readAllFrom(p.src)
	case LengthPartial:
		p.src.SetPartialBlockMode(h.Length.N)
		return readAllFrom(p.src)
	}
	return nil, nil
}

func readAllFrom(src ByteSource) ([]byte, error) {
	var out []byte
	buf := make([]byte, 4096)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}

// packetTypeName mirrors the names gpg --list-packets uses, for the ":N
// packet:" line prefix (spec section 6).
func packetTypeName(t Type) string {
	switch t {
	case TypePubkeyEnc:
		return "pubkey enc"
	case TypeSignature:
		return "signature"
	case TypeSymkeyEnc:
		return "symkey enc"
	case TypeOnepassSig:
		return "onepass_sig"
	case TypeSecretKey:
		return "secret key"
	case TypePublicKey:
		return "public key"
	case TypeSecretSubkey:
		return "secret sub key"
	case TypeCompressed:
		return "compressed"
	case TypeSymEncrypted:
		return "encrypted"
	case TypeMarker:
		return "marker"
	case TypePlaintext:
		return "literal data"
	case TypeRingTrust:
		return "ring trust"
	case TypeUserID:
		return "user ID"
	case TypePublicSubkey:
		return "public sub key"
	case TypeOldComment, TypeComment:
		return "comment"
	case TypeUserAttribute:
		return "attribute"
	case TypeSymEncryptMDC:
		return "encrypted mdc"
	case TypeMDC:
		return "mdc"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}
