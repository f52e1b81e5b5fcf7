package openpgp

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"io"
	"time"

	"golang.org/x/crypto/ed25519"
)

const (
	// SignKeyPubLen is the size of the public part of a SignKey packet.
	SignKeyPubLen = 53
)

// SignKey represents an Ed25519 sign key (EdDSA), matching the OpenPGP
// encoding this package's decoder counterpart reads back (spec sections
// 4.6, 4.8). It exists in this module to build the self-signed test
// fixtures the packet decoder's test suite parses.
type SignKey struct {
	Key     ed25519.PrivateKey
	created int64
	expires int64
	packet  []byte
}

// Seed sets the 32-byte seed for a sign key.
func (k *SignKey) Seed(seed []byte) {
	k.Key = ed25519.NewKeyFromSeed(seed)
	k.packet = nil
}

// Created returns the key's creation date in unix epoch seconds.
func (k *SignKey) Created() int64 {
	return k.created
}

// SetCreated sets the creation date in unix epoch seconds.
func (k *SignKey) SetCreated(when int64) {
	k.created = when
	k.packet = nil
}

// Expires returns the key's expiration time in unix epoch seconds. A
// value of zero means the key doesn't expire.
func (k *SignKey) Expires() int64 {
	return k.expires
}

// SetExpires sets the key's expiration time in unix epoch seconds. A
// value of zero means the key doesn't expire.
func (k *SignKey) SetExpires(when int64) {
	k.expires = when
	k.packet = nil
}

// Seckey returns the secret 32-byte seed of a sign key.
func (k *SignKey) Seckey() []byte {
	return k.Key[:32]
}

// Pubkey returns the 32-byte public part of a sign key.
func (k *SignKey) Pubkey() []byte {
	return k.Key[32:]
}

// Packet returns an unencrypted OpenPGP Secret-Key packet for this key
// (RFC 4880 section 5.5.3, algorithm 22/EdDSA per RFC 8032's Ed25519 OID).
func (k *SignKey) Packet() []byte {
	be := binary.BigEndian

	if k.packet != nil {
		return k.packet
	}

	packet := make([]byte, SignKeyPubLen+1, SignKeyPubLen+32)
	packet[0] = 0xc0 | 5 // packet header, new format, Secret-Key Packet (5)
	packet[2] = 0x04     // packet version, new (4)

	// Public key.
	be.PutUint32(packet[3:], uint32(k.created))
	packet[7] = 22 // algorithm, EdDSA
	packet[8] = 9  // OID length
	oid := []byte{0x2b, 0x06, 0x01, 0x04, 0x01, 0xda, 0x47, 0x0f, 0x01} // 1.3.6.1.4.1.11591.15.1
	copy(packet[9:], oid)
	be.PutUint16(packet[18:], 263) // public key length (always 263 bits for Ed25519)
	packet[20] = 0x40               // MPI prefix byte
	copy(packet[21:53], k.Pubkey())

	// Secret key, unencrypted.
	packet[53] = 0
	mpikey := mpi(k.Seckey())
	packet = append(packet, mpikey...)
	packet = packet[:len(packet)+2]
	be.PutUint16(packet[len(packet)-2:], checksum(mpikey))

	packet[1] = byte(len(packet) - 2) // packet length
	k.packet = packet
	return packet
}

// PubPacket returns a Public-Key packet for this key.
func (k *SignKey) PubPacket() []byte {
	packet := make([]byte, SignKeyPubLen)
	packet[0] = 0xc0 | 6 // packet header, new format, Public-Key packet (6)
	packet[1] = SignKeyPubLen - 2
	copy(packet[2:], k.Packet()[2:])
	return packet
}

// KeyID returns the 20-byte SHA-1 fingerprint of this key.
func (k *SignKey) KeyID() []byte {
	h := sha1.New()
	h.Write([]byte{0x99, 0, 51})         // tag+length prefix, public key body = 51 bytes
	h.Write(k.Packet()[2:SignKeyPubLen]) // public key portion
	return h.Sum(nil)
}

type subpacket struct {
	Type byte
	Data []byte
}

// SelfSign produces a Positive certification (self-signature) binding
// userid to this key.
func (k *SignKey) SelfSign(userid *UserID, when int64, flags int) []byte {
	const sigtype = 0x13 // Positive certification
	h := sha256.New()
	key := k.PubPacket()
	h.Write([]byte{0x99, 0, byte(len(key) - 2)})
	h.Write(key[2:])
	uid := userid.Packet()
	h.Write([]byte{0xb4, 0, 0, 0, byte(len(uid) - 2)})
	h.Write(uid[2:])

	var subpackets []subpacket

	// Key Flags subpacket (type=27): sign and certify.
	subpackets = append(subpackets, subpacket{Type: 27, Data: []byte{0x03}})

	if k.expires != 0 {
		subpackets = append(subpackets, subpacket{
			Type: 9,
			Data: marshal32be(uint32(k.expires - k.created)),
		})
	}

	const flagMDC = 1
	if flags&flagMDC != 0 {
		subpackets = append(subpackets, subpacket{Type: 30, Data: []byte{0x01}})
	}

	return k.sign(sigInput{h, sigtype, when, subpackets})
}

// Certify a pairing of public key and user ID packet, returning the
// signature packet. This accepts raw packet bytes so arbitrary packets
// (not just ones this package emits) can be certified.
func (k *SignKey) Certify(key, uid []byte, when int64) []byte {
	const sigtype = 0x10 // Generic certification
	h := sha256.New()

	prefix := []byte{0x99, 0, 0}
	keypkt, _, err := ParsePacket(key)
	if err == nil {
		binary.BigEndian.PutUint16(prefix[1:], uint16(len(keypkt.Body)))
	}
	h.Write(prefix)
	h.Write(keypkt.Body)

	prefix = []byte{0xb4, 0, 0, 0, 0}
	uidpkt, _, err := ParsePacket(uid)
	if err == nil {
		binary.BigEndian.PutUint32(prefix[1:], uint32(len(uidpkt.Body)))
	}
	h.Write(prefix)
	h.Write(uidpkt.Body)

	subpackets := []subpacket{fingerprint(k.KeyID())}
	return k.sign(sigInput{h, sigtype, when, subpackets})
}

// Sign binary data with this key using a Binary document signature.
func (k *SignKey) Sign(src io.Reader) ([]byte, error) {
	const sigtype = 0x00 // Binary document
	h := sha256.New()
	if _, err := io.Copy(h, src); err != nil {
		return nil, err
	}
	subpackets := []subpacket{fingerprint(k.KeyID())}
	in := sigInput{h, sigtype, time.Now().Unix(), subpackets}
	return k.sign(in), nil
}

func fingerprint(keyid []byte) subpacket {
	// Issuer Fingerprint subpacket (type=33): version + 20-byte fingerprint.
	return subpacket{Type: 33, Data: append([]byte{0x04}, keyid...)}
}

type sigInput struct {
	h          hash.Hash
	sigtype    byte
	when       int64
	subpackets []subpacket
}

// sign builds a v4 Signature packet over in.h, adding the standard
// creation-time and issuer subpackets ahead of in.subpackets.
func (k *SignKey) sign(in sigInput) []byte {
	var subpackets []subpacket

	packet := make([]byte, 8, 257)
	packet[0] = 0xc0 | 2   // packet header, new format, Signature Packet (2)
	packet[2] = 0x04       // packet version, new (4)
	packet[3] = in.sigtype // signature type
	packet[4] = 22         // public-key algorithm, EdDSA
	packet[5] = 8          // hash algorithm, SHA-256

	subpackets = append(subpackets, subpacket{
		Type: 2, // Signature Creation Time
		Data: marshal32be(uint32(in.when)),
	})
	subpackets = append(subpackets, subpacket{
		Type: 16, // Issuer
		Data: k.KeyID()[12:20],
	})
	subpackets = append(subpackets, in.subpackets...)

	for _, sp := range subpackets {
		packet = append(packet, byte(len(sp.Data)+1))
		packet = append(packet, sp.Type)
		packet = append(packet, sp.Data...)
	}

	hashedLen := uint16(len(packet) - 8)
	binary.BigEndian.PutUint16(packet[6:8], hashedLen)

	// Unhashed subpacket area: empty.
	packet = packet[:len(packet)+2]
	binary.BigEndian.PutUint16(packet[len(packet)-2:], 0)

	h := in.h
	h.Write(packet[2 : hashedLen+8])                       // hashed portion
	h.Write([]byte{4, 0xff, 0, 0, 0, byte(hashedLen + 6)}) // v4 trailer

	sigsum := h.Sum(nil)
	sig := ed25519.Sign(k.Key, sigsum)

	packet = append(packet, sigsum[:2]...) // left 16 bits of digest, for a quick mismatch check
	packet = append(packet, mpi(sig[:32])...)
	packet = append(packet, mpi(sig[32:])...)

	packet[1] = byte(len(packet)) - 2 // packet length
	return packet
}
