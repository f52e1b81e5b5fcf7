package packet

import (
	"encoding/binary"
	"testing"
)

// subpacketStream builds a length-prefixed subpacket area (the 2-byte
// prefix a v4 signature's hashed/unhashed area carries) out of raw
// subpacket entries, each already including its own type byte.
func subpacketStream(entries ...[]byte) []byte {
	var body []byte
	for _, e := range entries {
		body = append(body, encodeSubLen(len(e))...)
		body = append(body, e...)
	}
	out := make([]byte, 2+len(body))
	binary.BigEndian.PutUint16(out, uint16(len(body)))
	copy(out[2:], body)
	return out
}

// encodeSubLen mirrors parseSubpacketLen's own decoding rule (1-byte for
// c<192, 2-byte for c<255 covering n up to 16319, 5-byte otherwise).
func encodeSubLen(n int) []byte {
	switch {
	case n < 192:
		return []byte{byte(n)}
	case n <= 16319:
		c := n - 192
		return []byte{byte(192 + c/256), byte(c % 256)}
	default:
		b := make([]byte, 5)
		b[0] = 255
		binary.BigEndian.PutUint32(b[1:], uint32(n))
		return b
	}
}

func TestSubpacketLengthEncodingBoundaries(t *testing.T) {
	cases := []struct {
		name string
		n    int
	}{
		{"1-byte-max", 191},
		{"2-byte-min", 192},
		{"2-byte-max", (254-192)*256 + 255 + 192}, // largest length the 2-byte form can carry
		{"5-byte", 20000},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// entry = type byte + (n-1) payload bytes, so the encoded
			// subpacket length equals n.
			entry := make([]byte, c.n)
			entry[0] = SubNotation
			stream := subpacketStream(entry)

			got, err := ListSubpackets(stream)
			if err != nil {
				t.Fatalf("ListSubpackets: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("got %d subpackets, want 1", len(got))
			}
			if got[0].Type != SubNotation {
				t.Fatalf("Type = %d, want %d", got[0].Type, SubNotation)
			}
			if len(got[0].Data) != c.n-1 {
				t.Fatalf("len(Data) = %d, want %d", len(got[0].Data), c.n-1)
			}
		})
	}
}

func TestFindSubpacketAndListSubpacketsOrder(t *testing.T) {
	sigCreated := append([]byte{SubSigCreated}, []byte{0, 0, 0, 1}...)
	issuer := append([]byte{SubIssuer}, make([]byte, 8)...)
	keyFlags := []byte{SubKeyFlags, 0x03}
	stream := subpacketStream(sigCreated, issuer, keyFlags)

	list, err := ListSubpackets(stream)
	if err != nil {
		t.Fatalf("ListSubpackets: %v", err)
	}
	wantTypes := []byte{SubSigCreated, SubIssuer, SubKeyFlags}
	if len(list) != len(wantTypes) {
		t.Fatalf("got %d subpackets, want %d", len(list), len(wantTypes))
	}
	for i, sp := range list {
		if sp.Type != wantTypes[i] {
			t.Fatalf("list[%d].Type = %d, want %d", i, sp.Type, wantTypes[i])
		}
	}

	payload, ok, err := FindSubpacket(stream, SubIssuer)
	if err != nil || !ok {
		t.Fatalf("FindSubpacket(Issuer): ok=%v err=%v", ok, err)
	}
	if len(payload) != 8 {
		t.Fatalf("Issuer payload len = %d, want 8", len(payload))
	}

	if _, ok, err := FindSubpacket(stream, SubPolicyURL); err != nil || ok {
		t.Fatalf("FindSubpacket(PolicyURL): ok=%v err=%v, want ok=false", ok, err)
	}
}

func TestFindSubpacketMinimumLength(t *testing.T) {
	// Issuer subpacket must be >= 8 bytes; a 4-byte one is an error.
	short := append([]byte{SubIssuer}, make([]byte, 4)...)
	stream := subpacketStream(short)
	if _, _, err := FindSubpacket(stream, SubIssuer); err == nil {
		t.Fatal("expected an error for an undersized Issuer subpacket")
	}
}
