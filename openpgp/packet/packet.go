package packet

import "math/big"

// Type is an OpenPGP packet-type code (RFC 4880 section 4.3), using the
// numbering the reference GnuPG implementation uses, including its two
// non-standard comment packet types.
type Type int

const (
	TypePubkeyEnc      Type = 1
	TypeSignature      Type = 2
	TypeSymkeyEnc      Type = 3
	TypeOnepassSig     Type = 4
	TypeSecretKey      Type = 5
	TypePublicKey      Type = 6
	TypeSecretSubkey   Type = 7
	TypeCompressed     Type = 8
	TypeSymEncrypted   Type = 9
	TypeMarker         Type = 10
	TypePlaintext      Type = 11
	TypeRingTrust      Type = 12
	TypeUserID         Type = 13
	TypePublicSubkey   Type = 14
	TypeOldComment     Type = 16
	TypeUserAttribute  Type = 17
	TypeSymEncryptMDC  Type = 18
	TypeMDC            Type = 19
	TypeComment        Type = 61
)

// LengthKind distinguishes the three body-length descriptors a header can
// produce (spec section 2/4.1).
type LengthKind int

const (
	LengthDefinite LengthKind = iota
	LengthIndeterminate
	LengthPartial
)

// BodyLength is the outcome of LengthDecoder: either a known byte count, an
// EOF-bounded body, or a partial-body stream whose first chunk is N bytes.
type BodyLength struct {
	Kind LengthKind
	N    int // definite length, or the first partial chunk size
}

func (l BodyLength) Known() bool { return l.Kind == LengthDefinite }

// S2K is a string-to-key specifier (RFC 4880 section 3.7): mode 0
// (simple), 1 (salted) or 4 (iterated+salted) in this parser's scope
// (mode 101 GNU-dummy extensions are out of scope).
type S2K struct {
	Mode     byte
	HashAlgo byte
	Salt     [8]byte
	Count    uint32 // encoded iteration count, mode 4 only
}

// SymkeyEncData is the payload of a Symmetric-Key Encrypted Session Key
// packet (spec section 4.4).
type SymkeyEncData struct {
	Version     byte
	CipherAlgo  byte
	S2K         S2K
	SessionKey  []byte // 0..196 bytes, wrapped
}

// PubkeyEncData is the payload of a Public-Key Encrypted Session Key
// packet (spec section 4.5).
type PubkeyEncData struct {
	Version    byte
	KeyID      [2]uint32
	PubkeyAlgo byte

	// Algorithm-specific integers; only the relevant fields are set.
	ElGamalA, ElGamalB *big.Int
	RSA_C              *big.Int
}

// SignatureData is the payload of a Signature packet, v2/v3 or v4 (spec
// section 4.6).
type SignatureData struct {
	Version    byte
	SigClass   byte
	PubkeyAlgo byte
	DigestAlgo byte

	// v2/v3 only
	MD5Len    byte
	Timestamp uint32
	KeyID     [2]uint32

	// v4 only: retained verbatim, including their own 2-byte length
	// prefix, since that is the on-wire form needed for verification.
	HashedData   []byte
	UnhashedData []byte

	// Derived from subpackets for v4 (spec 4.6); 0/zero-value if absent.
	// Absence is not returned as an error and is not logged.
	SigCreated uint32
	IssuerKeyID [2]uint32
	HasIssuer   bool

	DigestStart [2]byte

	// Algorithm-specific signature integers.
	ElGamalA, ElGamalB *big.Int
	DSA_R, DSA_S       *big.Int
	RSA_C              *big.Int
}

// OnepassSigData is the payload of a One-Pass Signature packet (spec
// section 4.9).
type OnepassSigData struct {
	Version    byte
	SigClass   byte
	DigestAlgo byte
	PubkeyAlgo byte
	KeyID      [2]uint32
	Last       byte
}

// PublicKeyMaterial holds the algorithm-specific public parameters shared
// by public and secret certificates (composition, not inheritance, per
// spec section 9).
type PublicKeyMaterial struct {
	// ElGamal
	P, G, Y *big.Int
	// DSA adds Q
	Q *big.Int
	// RSA
	N, E *big.Int
}

// SecretKeyProtection describes how a secret certificate's private
// parameters are protected (spec section 4.8).
type SecretKeyProtection struct {
	IsProtected bool
	CipherAlgo  byte
	S2K         S2K
	IV          []byte // present per the legacy-storage quirk; see decode_cert.go
	Legacy      bool   // true if this came from the single-byte legacy form, not 255-extended
}

// SecretKeyMaterial holds a secret certificate's (still-encrypted, opaque)
// private integers plus their checksum.
type SecretKeyMaterial struct {
	// ElGamal
	X *big.Int
	// DSA: X (shared field above)
	// RSA
	D, RSAP, RSAQ, U *big.Int
	Checksum         uint16
}

// CertData is the payload shared by PublicKey, PublicSubkey, SecretKey and
// SecretSubkey packets.
type CertData struct {
	Version    byte
	Created    uint32
	ValidDays  uint16 // 0 for v4
	PubkeyAlgo byte

	Public PublicKeyMaterial

	// Secret-only; nil for public certificates.
	Protect *SecretKeyProtection
	Secret  *SecretKeyMaterial
}

// UserIDData is the payload of a User ID packet.
type UserIDData struct {
	Bytes []byte
}

// CommentData is the payload of a Comment or OldComment packet.
type CommentData struct {
	Bytes []byte
}

// RingTrustData is the payload of a Ring Trust packet.
type RingTrustData struct {
	Flag byte
}

// PlaintextData is the payload of a Literal Data packet. Body is a
// borrowed handle to the ByteSource positioned at the start of the
// streamed literal content (spec section 4.9) — the caller must consume
// or discard it before parsing the next packet.
type PlaintextData struct {
	Mode      byte
	Name      []byte
	Timestamp uint32
	Body      ByteSource
	BodyLen   BodyLength
}

// CompressedData is the payload of a Compressed Data packet. Buf is a
// borrowed ByteSource positioned after the algorithm byte.
type CompressedData struct {
	Algo byte
	Buf  ByteSource
}

// EncryptedData is the payload of a Symmetrically Encrypted (optionally
// MDC-protected) Data packet. Buf is a borrowed ByteSource over the
// (still encrypted) body.
type EncryptedData struct {
	MDC     bool // true for type 18 (Sym. Encrypted Integrity Protected Data)
	BodyLen BodyLength
	Buf     ByteSource
}

// Packet is the tagged union produced by the parser (spec section 3).
// Exactly one of the variant pointers is non-nil, selected by Type.
// Unknown/reserved types never produce a Packet (spec invariant 4).
type Packet struct {
	Type       Type
	HeaderLen  int
	BodyLen    BodyLength
	HeaderRaw  []byte // verbatim CTB+length bytes, for re-framing (spec 4.1)

	SymkeyEnc  *SymkeyEncData
	PubkeyEnc  *PubkeyEncData
	Signature  *SignatureData
	OnepassSig *OnepassSigData
	Cert       *CertData
	UserID     *UserIDData
	Comment    *CommentData
	RingTrust  *RingTrustData
	Plaintext  *PlaintextData
	Compressed *CompressedData
	Encrypted  *EncryptedData
}
