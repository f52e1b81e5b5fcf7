package packet

import (
	"encoding/binary"
	"fmt"
)

// Signature subpacket type codes this package knows how to name (RFC 4880
// section 5.2.3.1), per the table spec section 4.10 requires.
const (
	SubSigCreated       = 2
	SubSigExpires       = 3
	SubExportable       = 4
	SubTrustSig         = 5
	SubRegex            = 6
	SubRevocable        = 7
	SubKeyExpires       = 9
	SubAddlRecipient    = 10
	SubPreferredSym     = 11
	SubRevocationKey    = 12
	SubIssuer           = 16
	SubNotation         = 20
	SubPreferredHash    = 21
	SubPreferredComp    = 22
	SubKeyServerPrefs   = 23
	SubPreferredKeyserv = 24
	SubPrimaryUserID    = 25
	SubPolicyURL        = 26
	SubKeyFlags         = 27
	SubSignersUserID    = 28
)

var subpacketNames = map[byte]string{
	SubSigCreated:       "signature creation time",
	SubSigExpires:       "signature expiration time",
	SubExportable:       "exportable",
	SubTrustSig:         "trust signature",
	SubRegex:            "regular expression",
	SubRevocable:        "revocable",
	SubKeyExpires:       "key expiration time",
	SubAddlRecipient:    "additional recipient request",
	SubPreferredSym:     "preferred symmetric algorithms",
	SubRevocationKey:    "revocation key",
	SubIssuer:           "issuer",
	SubNotation:         "notation data",
	SubPreferredHash:    "preferred hash",
	SubPreferredComp:    "preferred compression",
	SubKeyServerPrefs:   "key-server preferences",
	SubPreferredKeyserv: "preferred key server",
	SubPrimaryUserID:    "primary user id",
	SubPolicyURL:        "policy URL",
	SubKeyFlags:         "key flags",
	SubSignersUserID:    "signer's user id",
}

// subpacketName returns a display name for a subpacket type, matching
// spec section 4.10's table, or "unknown" otherwise.
func subpacketName(t byte) string {
	if n, ok := subpacketNames[t]; ok {
		return n
	}
	return "unknown"
}

// Subpacket is one decoded entry from a hashed or unhashed subpacket area,
// as enumerated by ListSubpackets.
type Subpacket struct {
	Type     byte
	Critical bool
	Data     []byte
}

// minSubpacketLen enforces the built-in minimum payload sizes spec
// section 4.10 calls out: SIG_CREATED >= 4, ISSUER >= 8.
func minSubpacketLen(t byte) int {
	switch t {
	case SubSigCreated:
		return 4
	case SubIssuer:
		return 8
	default:
		return 0
	}
}

// parseSubpacketLen decodes one subpacket's size field, per RFC 4880
// section 5.2.3.1: a 1, 2 or 5 byte variable-length encoding (unlike
// packet body lengths, subpacket lengths have no partial-body form).
// Returns the decoded length and the number of header bytes it occupied.
func parseSubpacketLen(buf []byte) (length, hdrLen int, ok bool) {
	if len(buf) < 1 {
		return 0, 0, false
	}
	c := buf[0]
	switch {
	case c < 192:
		return int(c), 1, true
	case c < 255:
		if len(buf) < 2 {
			return 0, 0, false
		}
		return (int(c)-192)*256 + int(buf[1]) + 192, 2, true
	default: // c == 255
		if len(buf) < 5 {
			return 0, 0, false
		}
		return int(binary.BigEndian.Uint32(buf[1:5])), 5, true
	}
}

// walkSubpackets iterates the subpacket stream inside buf (which must
// already have its 2-byte total-length prefix stripped), invoking fn for
// each entry. fn returning an error stops the walk.
func walkSubpackets(buf []byte, fn func(Subpacket) error) error {
	for len(buf) > 0 {
		length, hdrLen, ok := parseSubpacketLen(buf)
		if !ok {
			return fmt.Errorf("subpacket: truncated length field")
		}
		buf = buf[hdrLen:]
		if length < 1 || length > len(buf) {
			return fmt.Errorf("subpacket: declared size %d exceeds remaining buffer (%d)", length, len(buf))
		}
		typeByte := buf[0]
		sp := Subpacket{
			Type:     typeByte &^ 0x80,
			Critical: typeByte&0x80 != 0,
			Data:     buf[1:length],
		}
		if err := fn(sp); err != nil {
			return err
		}
		buf = buf[length:]
	}
	return nil
}

// stripPrefix removes the 2-byte big-endian total-length prefix that
// precedes a subpacket stream (used for both the hashed/unhashed areas of
// a v4 signature, spec section 4.6).
func stripPrefix(buf []byte) ([]byte, error) {
	if len(buf) < 2 {
		return nil, fmt.Errorf("subpacket: buffer too short for length prefix")
	}
	total := int(binary.BigEndian.Uint16(buf))
	if total > len(buf)-2 {
		return nil, fmt.Errorf("subpacket: declared total %d exceeds buffer", total)
	}
	return buf[2 : 2+total], nil
}

// FindSubpacket returns the payload of the first subpacket of the given
// type in buf (a length-prefixed subpacket stream, spec section 4.10), or
// ok=false if none matches. A buffer too short for a declared subpacket
// size, or a too-small built-in type, is an error.
func FindSubpacket(buf []byte, subType byte) (payload []byte, ok bool, err error) {
	body, err := stripPrefix(buf)
	if err != nil {
		return nil, false, err
	}
	err = walkSubpackets(body, func(sp Subpacket) error {
		if ok {
			return nil // already found the first match
		}
		if sp.Type == subType {
			if min := minSubpacketLen(subType); len(sp.Data) < min {
				return fmt.Errorf("subpacket: type %d payload too short (%d < %d)", subType, len(sp.Data), min)
			}
			payload = sp.Data
			ok = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return payload, ok, nil
}

// ListSubpackets enumerates every subpacket in buf in order, for use by
// ListPrinter (spec section 4.10).
func ListSubpackets(buf []byte) ([]Subpacket, error) {
	body, err := stripPrefix(buf)
	if err != nil {
		return nil, err
	}
	var out []Subpacket
	err = walkSubpackets(body, func(sp Subpacket) error {
		out = append(out, sp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
