package packet

import (
	"bytes"
	"testing"
)

// The "#"-as-version-byte quirk (spec sections 4.8, 9): a Public Subkey
// packet whose version byte is the ASCII '#' is an entire RFC 1991
// comment, not a certificate.
func TestDecodeCertLegacyCommentQuirk(t *testing.T) {
	body := append([]byte{'#'}, []byte("old gpg comment")...)
	data, err := decodeCert(NewByteSource(bytes.NewReader(body)), TypePublicSubkey, len(body), 0)
	if data != nil {
		t.Fatalf("expected no CertData, got %+v", data)
	}
	lc, ok := err.(*legacyCommentErr)
	if !ok {
		t.Fatalf("err = %v (%T), want *legacyCommentErr", err, err)
	}
	if !bytes.Equal(lc.comment, body) {
		t.Fatalf("comment = %q, want %q", lc.comment, body)
	}
}

// The '#' quirk only applies to Public Subkey packets; a Public Key packet
// with the same first byte is just an (unsupported) version 0x23.
func TestDecodeCertHashQuirkIsSubkeyOnly(t *testing.T) {
	body := []byte{'#', 0, 0, 0, 0, 1, 0, 0, 0, 0, 0} // 11 bytes: past the minimum-length check
	_, err := decodeCert(NewByteSource(bytes.NewReader(body)), TypePublicKey, len(body), 0)
	if err == nil {
		t.Fatal("expected an unsupported-version error for a Public Key packet")
	}
	if _, ok := err.(*legacyCommentErr); ok {
		t.Fatal("'#' comment quirk applied to a Public Key packet")
	}
}

// Legacy (non-255, non-zero) secret-key protection: the protection octet
// itself is the cipher algorithm, and the asymmetry the spec preserves
// (ElGamal/DSA always keep the IV; RSA only for Blowfish) must hold.
func TestDecodeCertLegacyProtectionAsymmetry(t *testing.T) {
	buildBody := func(algo, cipherAlgo byte) []byte {
		var body []byte
		body = append(body, 4)          // version 4
		body = append(body, 0, 0, 0, 1) // created
		body = append(body, algo)       // pubkey algo

		switch algo {
		case PubkeyElGamal:
			body = append(body, mpiBytes(t, 1)...)
			body = append(body, mpiBytes(t, 2)...)
			body = append(body, mpiBytes(t, 3)...)
		case PubkeyRSA:
			body = append(body, mpiBytes(t, 1)...)
			body = append(body, mpiBytes(t, 2)...)
		}

		body = append(body, cipherAlgo) // legacy protection octet
		body = append(body, make([]byte, 8)...) // IV

		switch algo {
		case PubkeyElGamal:
			body = append(body, mpiBytes(t, 4)...) // secret x
		case PubkeyRSA:
			body = append(body, mpiBytes(t, 4)...) // d
			body = append(body, mpiBytes(t, 5)...) // p
			body = append(body, mpiBytes(t, 6)...) // q
			body = append(body, mpiBytes(t, 7)...) // u
		}
		body = append(body, 0, 0) // checksum placeholder
		return body
	}

	t.Run("ElGamal keeps IV regardless of cipher", func(t *testing.T) {
		body := buildBody(PubkeyElGamal, CipherCAST5)
		data, err := decodeCert(NewByteSource(bytes.NewReader(body)), TypeSecretKey, len(body), 0)
		if err != nil {
			t.Fatalf("decodeCert: %v", err)
		}
		if data.Protect == nil || data.Protect.IV == nil {
			t.Fatalf("expected ElGamal to retain the IV, got %+v", data.Protect)
		}
	})

	t.Run("RSA drops IV unless cipher is Blowfish", func(t *testing.T) {
		body := buildBody(PubkeyRSA, CipherCAST5)
		data, err := decodeCert(NewByteSource(bytes.NewReader(body)), TypeSecretKey, len(body), 0)
		if err != nil {
			t.Fatalf("decodeCert: %v", err)
		}
		if data.Protect == nil || data.Protect.IV != nil {
			t.Fatalf("expected RSA+CAST5 to drop the IV, got %+v", data.Protect)
		}
	})

	t.Run("RSA keeps IV for Blowfish", func(t *testing.T) {
		body := buildBody(PubkeyRSA, CipherBlowfish)
		data, err := decodeCert(NewByteSource(bytes.NewReader(body)), TypeSecretKey, len(body), 0)
		if err != nil {
			t.Fatalf("decodeCert: %v", err)
		}
		if data.Protect == nil || data.Protect.IV == nil {
			t.Fatalf("expected RSA+Blowfish to retain the IV, got %+v", data.Protect)
		}
	})
}

// An S2K-protected (255) secret certificate rejects an unsupported S2K
// mode.
func TestDecodeCertRejectsUnsupportedS2KMode(t *testing.T) {
	var body []byte
	body = append(body, 4)          // version
	body = append(body, 0, 0, 0, 1) // created
	body = append(body, PubkeyRSA)  // pubkey algo
	body = append(body, mpiBytes(t, 1)...)
	body = append(body, mpiBytes(t, 2)...)
	body = append(body, 255)  // S2K-protected
	body = append(body, 7)    // cipher: AES128
	body = append(body, 99)   // unsupported S2K mode

	_, err := decodeCert(NewByteSource(bytes.NewReader(body)), TypeSecretKey, len(body), 0)
	if err == nil {
		t.Fatal("expected an error for an unsupported S2K mode")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindInvalid {
		t.Fatalf("err = %v, want *Error{Kind: KindInvalid}", err)
	}
}

// mpiBytes encodes a small positive integer as an MPI, for building
// synthetic certificate bodies.
func mpiBytes(t *testing.T, v byte) []byte {
	t.Helper()
	n := 0
	for b := v; b != 0; b >>= 1 {
		n++
	}
	return []byte{0, byte(n), v}
}
