package packet

import (
	"bytes"
	"strings"
	"testing"
)

// List mode must not panic over a realistic keyring and must emit a
// ":<type> packet:" line per packet (spec section 6).
func TestListModeSmoke(t *testing.T) {
	raw := testKeyring(t)
	var out bytes.Buffer
	p := NewParser(NewByteSource(bytes.NewReader(raw)), &out)
	p.SetListMode(true)
	p.SetMPIPrintMode(true)

	for i := 0; i < 3; i++ {
		if _, err := p.ParseOne(); err != nil {
			t.Fatalf("packet %d: %v", i, err)
		}
	}

	text := out.String()
	for _, want := range []string{":secret key packet:", ":user ID packet:", ":signature packet:"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q; got:\n%s", want, text)
		}
	}
}

// Skipped (unrecognized/reserved) packets still produce a hex dump line in
// list mode (spec section 4.7).
func TestListModeSkipDumpsHex(t *testing.T) {
	// Marker packet (type 10): reserved/unimplemented, new format, 3-byte body.
	raw := []byte{0xCA, 0x03, 'P', 'G', 'P'}
	var out bytes.Buffer
	p := NewParser(NewByteSource(bytes.NewReader(raw)), &out)
	p.SetListMode(true)

	_, err := p.ParseOne()
	if err == nil {
		t.Fatal("expected an unknown-packet error for a Marker packet")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindUnknown {
		t.Fatalf("err = %v, want *Error{Kind: KindUnknown}", err)
	}
	if out.Len() == 0 {
		t.Fatal("expected a hex-dump line in list mode")
	}
}
