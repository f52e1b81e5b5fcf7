package packet

import (
	"errors"
	"io"
)

// Parser is the PacketDispatcher (spec section 4.2): the top-level loop
// over one ByteSource. It owns the process-wide flags as instance fields
// (spec section 5, 9's "parser-instance field" option) rather than true
// globals, since nothing in this module assumes a single parser per
// process.
type Parser struct {
	src          ByteSource
	listMode     bool
	mpiPrintMode bool
	listOut      io.Writer
}

// NewParser wraps src in a Parser. listOut receives list-mode pretty
// printing (spec section 6); it may be nil until list mode is enabled.
func NewParser(src ByteSource, listOut io.Writer) *Parser {
	return &Parser{src: src, listOut: listOut}
}

// SetListMode toggles list-mode pretty printing, returning the prior
// value (spec section 6's single-setter contract).
func (p *Parser) SetListMode(on bool) bool {
	prev := p.listMode
	p.listMode = on
	return prev
}

// SetMPIPrintMode toggles the MPI-printing mirror bit used by the
// external MPI printer when listing (spec section 5).
func (p *Parser) SetMPIPrintMode(on bool) bool {
	prev := p.mpiPrintMode
	p.mpiPrintMode = on
	return prev
}

// decodableType reports whether t is one of the packet types this dispatcher knows how to
// decode (spec sections 4.3-4.9).
func decodableType(t Type) bool {
	switch t {
	case TypePubkeyEnc, TypeSignature, TypeSymkeyEnc, TypeOnepassSig,
		TypeSecretKey, TypePublicKey, TypeSecretSubkey,
		TypeCompressed, TypeSymEncrypted, TypePlaintext, TypeRingTrust,
		TypeUserID, TypePublicSubkey, TypeOldComment, TypeSymEncryptMDC,
		TypeComment:
		return true
	default:
		return false
	}
}

// reservedUnimplemented is the set of packet types RFC 4880 assigns but
// this decoder does not implement (spec section 7: "unknown_packet...
// reserved for future extension"). Distinct from the dispatcher's silent
// skip of genuinely unassigned/private type codes (invariant 4).
func reservedUnimplemented(t Type) bool {
	switch t {
	case TypeMarker, TypeUserAttribute, TypeMDC:
		return true
	default:
		return false
	}
}

// step is the outcome of one dispatchOne call.
type step struct {
	pkt    *Packet
	skip   bool
	copied bool // sink consumed this packet; neither pkt nor skip applies
}

// dispatchOne implements spec section 4.2 in full: one header read
// followed by copy, skip, or decode.
func (p *Parser) dispatchOne(posOut *uint64, requiredType Type, hardSkip bool, sink ByteSource) (step, error) {
	if posOut != nil {
		*posOut = p.src.Tell()
	}

	h, err := parseHeader(p.src)
	if err != nil {
		if err == errNoBytes {
			return step{}, ErrEOF
		}
		return step{}, err
	}

	if sink != nil && h.Type != 0 {
		if werr := sink.Write(h.Raw); werr != nil {
			return step{}, writeErr(h.Type, p.src.Tell(), werr)
		}
		if err := p.copyBody(sink, h); err != nil {
			return step{}, err
		}
		return step{copied: true}, nil
	}

	forceSkip := hardSkip || h.Type == 0 || (requiredType != 0 && h.Type != requiredType)
	if forceSkip {
		p.skipPacket(h)
		return step{skip: true}, nil
	}

	if reservedUnimplemented(h.Type) {
		p.skipPacket(h) // still drain the body
		return step{}, unknownErr(h.Type, p.src.Tell())
	}

	if !decodableType(h.Type) {
		// Genuinely unassigned/private type code: silent skip
		// (invariant 4).
		p.skipPacket(h)
		return step{skip: true}, nil
	}

	pkt, err := p.decode(h)
	if err == errSkipPacket {
		return step{skip: true}, nil
	}
	if err != nil {
		return step{pkt: pkt}, err
	}
	return step{pkt: pkt}, nil
}

// errSkipPacket signals that decode() intentionally produced no Packet
// for an otherwise successfully-drained body (spec section 4.8, 9: a
// legacy RFC 1991 comment disguised as a public subkey packet isn't a
// certificate). dispatchOne treats it like the silent-skip path, not a
// decode failure.
var errSkipPacket = errors.New("packet: no packet produced")

// configureMode puts src into the indicated non-definite mode before a
// decoder or skip/copy routine reads the body. The old-format Compressed
// exception (spec section 4.1) means an indeterminate-length Compressed
// packet never flips block mode.
func (p *Parser) configureMode(h header) {
	switch h.Length.Kind {
	case LengthIndeterminate:
		if h.Type != TypeCompressed {
			p.src.SetBlockMode(true)
		}
	case LengthPartial:
		p.src.SetPartialBlockMode(h.Length.N)
	}
}

// partialBudget stands in for "unknown total" when a budget-counting
// decoder meets an indeterminate- or partial-length body (spec section 9:
// "otherwise treatment is uniform" — chunk-stitching isn't special-cased
// to the three streaming types). The ByteSource itself still enforces the
// real end of the logical body; this merely keeps a decoder's own
// minimum-length checks from rejecting a body it can't size up front.
const partialBudget = 1 << 30

// decode dispatches to the PayloadDecoder matching h.Type.
func (p *Parser) decode(h header) (*Packet, error) {
	off := p.src.Tell()
	pkt := &Packet{Type: h.Type, HeaderLen: len(h.Raw), BodyLen: h.Length, HeaderRaw: h.Raw}

	// Plaintext, Compressed and Encrypted branch on Known()-ness
	// themselves (old-format Compressed exception, unbounded literal-data
	// name field); every other decoder just wants a byte budget, known or
	// not, and lets the ByteSource's own chunk-stitching bound the read.
	budget := h.Length.N
	switch h.Type {
	case TypePlaintext, TypeCompressed, TypeSymEncrypted, TypeSymEncryptMDC:
		p.configureMode(h)
	default:
		if !h.Length.Known() {
			p.configureMode(h)
			budget = partialBudget
		}
	}

	var err error
	switch h.Type {
	case TypeSymkeyEnc:
		pkt.SymkeyEnc, err = decodeSymkeyEnc(p.src, budget, off)
	case TypePubkeyEnc:
		pkt.PubkeyEnc, err = decodePubkeyEnc(p.src, budget, off)
	case TypeSignature:
		pkt.Signature, err = decodeSignature(p.src, budget, off)
	case TypeOnepassSig:
		pkt.OnepassSig, err = decodeOnepassSig(p.src, budget, off)
	case TypeSecretKey, TypePublicKey, TypeSecretSubkey, TypePublicSubkey:
		pkt.Cert, err = decodeCert(p.src, h.Type, budget, off)
		if lc, ok := err.(*legacyCommentErr); ok {
			if p.listMode {
				p.printLegacyComment(h.Type, lc.comment)
			}
			return nil, errSkipPacket
		}
	case TypeUserID:
		pkt.UserID, err = decodeUserID(p.src, budget, off)
	case TypeOldComment, TypeComment:
		pkt.Comment, err = decodeComment(p.src, h.Type, budget, off)
	case TypeRingTrust:
		pkt.RingTrust, err = decodeRingTrust(p.src, budget, off)
	case TypePlaintext:
		var consumed int
		pkt.Plaintext, consumed, err = decodePlaintext(p.src, h.Length, off)
		_ = consumed
	case TypeCompressed:
		pkt.Compressed, err = decodeCompressed(p.src, h.Length, off)
	case TypeSymEncrypted, TypeSymEncryptMDC:
		pkt.Encrypted, err = decodeEncrypted(p.src, h.Type, h.Length, off)
	}

	if p.listMode {
		p.printPacket(pkt, h)
	}

	// Post-pass (spec section 4.2 step 5, 4.3): drain whatever the
	// decoder left unconsumed, so the next packet's framing stays
	// intact even when a decoder bails early on a soft condition.
	// Streaming variants (Plaintext, Compressed, Encrypted) hand the
	// ByteSource to the caller instead, so there is nothing to drain.
	// A drain failure means the declared body ran past the real data
	// (spec section 8, testable property 5: truncation must never read
	// as success), so it takes priority over a decode that otherwise
	// looked clean, but never masks an error the decoder already found.
	switch h.Type {
	case TypePlaintext, TypeCompressed, TypeSymEncrypted, TypeSymEncryptMDC:
	default:
		var derr error
		if h.Length.Known() {
			consumed := int(p.src.Tell() - off)
			if want := h.Length.N - consumed; want > 0 {
				derr = drain(p.src, want)
			}
		} else if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			// A decoder that already hit the end of the logical body
			// has consumed its EOF; draining again would read on into
			// the next packet.
			derr = drainToEOF(p.src)
		}
		if err == nil && derr != nil {
			err = readErr(h.Type, p.src.Tell(), derr)
		}
	}

	return pkt, err
}

// skipPacket implements the skip half of spec section 4.7: drain the
// declared body, and in list mode (for nonzero types) dump it as hex.
func (p *Parser) skipPacket(h header) {
	if p.listMode && h.Type != 0 {
		p.dumpHex(h)
		return
	}
	p.drainBody(h)
}

func (p *Parser) drainBody(h header) {
	switch h.Length.Kind {
	case LengthDefinite:
		_ = drain(p.src, h.Length.N)
	case LengthIndeterminate:
		if h.Type != TypeCompressed {
			p.src.SetBlockMode(true)
		}
		_ = drainToEOF(p.src)
	case LengthPartial:
		p.src.SetPartialBlockMode(h.Length.N)
		_ = drainToEOF(p.src)
	}
}

// copyBody implements the copy half of spec section 4.7: verbatim-copy
// the declared body to sink, honoring the same three length policies.
func (p *Parser) copyBody(sink ByteSource, h header) error {
	switch h.Length.Kind {
	case LengthDefinite:
		return copyN(sink, p.src, h.Length.N)
	case LengthIndeterminate:
		if h.Type != TypeCompressed {
			p.src.SetBlockMode(true)
		}
		return copyToEOF(sink, p.src)
	case LengthPartial:
		p.src.SetPartialBlockMode(h.Length.N)
		return copyToEOF(sink, p.src)
	}
	return nil
}

// ParseOne implements the "parse_one" bulk operation: loop until a
// non-skip result, then return it. err is ErrEOF on clean end of stream.
func (p *Parser) ParseOne() (*Packet, error) {
	for {
		s, err := p.dispatchOne(nil, 0, false, nil)
		if err != nil {
			return s.pkt, err
		}
		if s.skip || s.copied {
			continue
		}
		return s.pkt, nil
	}
}

// SearchFor implements "search_for": like ParseOne but only packets of
// the given type satisfy the loop (spec section 4.2, testable property 3).
func (p *Parser) SearchFor(t Type) (*Packet, error) {
	for {
		s, err := p.dispatchOne(nil, t, false, nil)
		if err != nil {
			return s.pkt, err
		}
		if s.skip || s.copied {
			continue
		}
		return s.pkt, nil
	}
}

// CopyAll implements "copy_all": copy every packet verbatim to sink until
// EOF.
func (p *Parser) CopyAll(sink ByteSource) error {
	for {
		_, err := p.dispatchOne(nil, 0, false, sink)
		if err == ErrEOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// CopySome implements "copy_some(stop_offset)": like CopyAll but breaks
// before any further read once the source offset reaches stopOffset.
func (p *Parser) CopySome(sink ByteSource, stopOffset uint64) error {
	for {
		if p.src.Tell() >= stopOffset {
			return nil
		}
		_, err := p.dispatchOne(nil, 0, false, sink)
		if err == ErrEOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// SkipN implements "skip_n(count)": skip exactly n packets with
// hard_skip set.
func (p *Parser) SkipN(n int) error {
	for i := 0; i < n; i++ {
		_, err := p.dispatchOne(nil, 0, true, nil)
		if err != nil {
			return err
		}
	}
	return nil
}

