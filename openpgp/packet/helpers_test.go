package packet

import (
	"testing"

	"nullprogram.com/x/pgpparse/openpgp"
)

// testSignKey builds a deterministic Ed25519 sign key for fixture
// construction; tests never depend on its actual secrecy.
func testSignKey(t *testing.T) *openpgp.SignKey {
	t.Helper()
	var key openpgp.SignKey
	var seed [32]byte
	copy(seed[:], []byte("deterministic test fixture seed"))
	key.Seed(seed[:])
	key.SetCreated(1700000000)
	return &key
}

// testKeyring builds a minimal self-signed keyring: Secret-Key, User ID,
// self-signature packets, concatenated.
func testKeyring(t *testing.T) []byte {
	t.Helper()
	key := testSignKey(t)
	userid := openpgp.UserID{ID: "Test User <test@example.invalid>"}

	var buf []byte
	buf = append(buf, key.Packet()...)
	buf = append(buf, userid.Packet()...)
	buf = append(buf, key.SelfSign(&userid, key.Created(), 0)...)
	return buf
}
