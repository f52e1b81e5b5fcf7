package packet

// Digest algorithm IDs, RFC 4880 section 9.4. Only the ones a decoder or
// ListPrinter needs to name are listed; unrecognized IDs still decode
// (they're opaque octets to this package) but print as "unknown".
const (
	DigestMD5       = 1
	DigestSHA1      = 2
	DigestRIPEMD160 = 3
	DigestSHA256    = 8
	DigestSHA384    = 9
	DigestSHA512    = 10
	DigestSHA224    = 11
	DigestSHA3_256  = 14
)

var digestNames = map[byte]string{
	DigestMD5:       "MD5",
	DigestSHA1:      "SHA1",
	DigestRIPEMD160: "RIPEMD160",
	DigestSHA256:    "SHA256",
	DigestSHA384:    "SHA384",
	DigestSHA512:    "SHA512",
	DigestSHA224:    "SHA224",
	DigestSHA3_256:  "SHA3-256",
}

// DigestName returns a human-readable name for a digest-algorithm octet,
// used only by list mode (spec section 4.0.1, added). It never drives
// cryptographic behavior in this package.
func DigestName(algo byte) string {
	if n, ok := digestNames[algo]; ok {
		return n
	}
	return "unknown"
}

// Cipher algorithm IDs, RFC 4880 section 9.2.
const (
	Cipher3DES      = 2
	CipherCAST5     = 3
	CipherBlowfish  = 4
	CipherAES128    = 7
	CipherAES192    = 8
	CipherAES256    = 9
	CipherTwofish   = 10
	CipherCamellia128 = 11
	CipherCamellia192 = 12
	CipherCamellia256 = 13
)

var cipherNames = map[byte]string{
	0:                 "Plaintext",
	1:                 "IDEA",
	Cipher3DES:        "3DES",
	CipherCAST5:       "CAST5",
	CipherBlowfish:    "Blowfish",
	5:                 "SAFER-SK128",
	6:                 "DES/SK",
	CipherAES128:      "AES128",
	CipherAES192:      "AES192",
	CipherAES256:      "AES256",
	CipherTwofish:     "Twofish",
	CipherCamellia128: "Camellia128",
	CipherCamellia192: "Camellia192",
	CipherCamellia256: "Camellia256",
}

// CipherName returns a human-readable name for a cipher-algorithm octet,
// used only by list mode (spec section 4.0.2, added); no cipher is ever
// instantiated by this package.
func CipherName(algo byte) string {
	if n, ok := cipherNames[algo]; ok {
		return n
	}
	return "unknown"
}

// Public-key algorithm IDs, RFC 4880 section 9.1, as referenced in
// spec sections 4.5, 4.6 and 4.8.
const (
	PubkeyRSA        = 1
	PubkeyRSAEncOnly = 2
	PubkeyRSASigOnly = 3
	PubkeyElGamal    = 16
	PubkeyDSA        = 17
)

func isRSA(algo byte) bool {
	return algo == PubkeyRSA || algo == PubkeyRSAEncOnly || algo == PubkeyRSASigOnly
}
