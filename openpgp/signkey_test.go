package openpgp

import (
	"bytes"
	"testing"
)

func testKey(t *testing.T) *SignKey {
	t.Helper()
	var key SignKey
	var seed [32]byte
	copy(seed[:], []byte("deterministic test fixture seed"))
	key.Seed(seed[:])
	key.SetCreated(1700000000)
	return &key
}

func TestSignKeyPacketIsNewFormatSecretKey(t *testing.T) {
	key := testKey(t)
	packet := key.Packet()
	if packet[0] != 0xc0|5 {
		t.Fatalf("CTB = %x, want new-format Secret-Key (0xC5)", packet[0])
	}
	if int(packet[1])+2 != len(packet) {
		t.Fatalf("declared length %d, actual body %d", packet[1], len(packet)-2)
	}
	if packet[2] != 4 {
		t.Fatalf("packet version = %d, want 4", packet[2])
	}
	if packet[7] != 22 {
		t.Fatalf("algorithm = %d, want 22 (EdDSA)", packet[7])
	}
}

func TestSignKeyPubPacketMatchesSecretKeyPublicPortion(t *testing.T) {
	key := testKey(t)
	pub := key.PubPacket()
	sec := key.Packet()
	if pub[0] != 0xc0|6 {
		t.Fatalf("CTB = %x, want new-format Public-Key (0xC6)", pub[0])
	}
	if !bytes.Equal(pub[2:], sec[2:SignKeyPubLen]) {
		t.Fatal("PubPacket's public material doesn't match Packet's public portion")
	}
}

func TestSignKeyPacketCaching(t *testing.T) {
	key := testKey(t)
	a := key.Packet()
	b := key.Packet()
	if &a[0] != &b[0] {
		t.Fatal("Packet() should return the same cached slice across calls")
	}
	key.SetExpires(1800000000)
	c := key.Packet()
	if &a[0] == &c[0] {
		t.Fatal("SetExpires should invalidate the cached packet")
	}
}

func TestSignKeyKeyIDLength(t *testing.T) {
	key := testKey(t)
	id := key.KeyID()
	if len(id) != 20 {
		t.Fatalf("KeyID length = %d, want 20 (SHA-1)", len(id))
	}
}

func TestUserIDPacketFraming(t *testing.T) {
	u := UserID{ID: "Test <test@example.invalid>"}
	packet := u.Packet()
	if packet[0] != 0xc0|13 {
		t.Fatalf("CTB = %x, want new-format User ID (0xCD)", packet[0])
	}
	if string(packet[2:]) != u.ID {
		t.Fatalf("body = %q, want %q", packet[2:], u.ID)
	}
}

func TestSelfSignProducesVerifiableLength(t *testing.T) {
	key := testKey(t)
	u := UserID{ID: "Test <test@example.invalid>"}
	sig := key.SelfSign(&u, key.Created(), 0)
	if sig[0] != 0xc0|2 {
		t.Fatalf("CTB = %x, want new-format Signature (0xC2)", sig[0])
	}
	if int(sig[1])+2 != len(sig) {
		t.Fatalf("declared length %d, actual body %d", sig[1], len(sig)-2)
	}
}

func TestParsePacketRoundTrip(t *testing.T) {
	key := testKey(t)
	raw := key.PubPacket()
	pkt, rest, err := ParsePacket(raw)
	if err != nil {
		t.Fatalf("ParsePacket: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("rest = %d bytes, want 0", len(rest))
	}
	if pkt.Tag != 6 {
		t.Fatalf("Tag = %d, want 6 (Public-Key)", pkt.Tag)
	}
	if !bytes.Equal(pkt.Body, raw[2:]) {
		t.Fatal("Body doesn't match the packet's own declared body")
	}
}

func TestCertifyAcceptsRawPackets(t *testing.T) {
	key := testKey(t)
	u := UserID{ID: "Test <test@example.invalid>"}
	sig := key.Certify(key.PubPacket(), u.Packet(), key.Created())
	if sig[0] != 0xc0|2 {
		t.Fatalf("CTB = %x, want new-format Signature", sig[0])
	}
}
