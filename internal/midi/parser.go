package midi

// Parser frames a raw MIDI byte stream into channel messages. It follows
// running status, skips system exclusive data and ignores realtime bytes,
// which may appear anywhere in the stream.
type Parser struct {
	status byte
	need   int
	buf    [3]byte
	n      int
	sysex  bool
}

// MessageLength returns the total size of a channel message with the given
// status byte, or 0 for anything that is not a channel message.
func MessageLength(status byte) int {
	switch status & 0xF0 {
	case 0x80, 0x90, 0xA0, 0xB0, 0xE0:
		return 3
	case 0xC0, 0xD0:
		return 2
	}
	return 0
}

// Feed consumes one byte. It returns a complete message when b finishes one;
// the slice is only valid until the next call.
func (p *Parser) Feed(b byte) ([]byte, bool) {
	switch {
	case b >= 0xF8:
		return nil, false
	case b == 0xF0:
		p.sysex = true
		p.status = 0
		return nil, false
	case b >= 0xF0:
		// EOX and system common messages end sysex and cancel running status.
		p.sysex = false
		p.status = 0
		return nil, false
	case b&0x80 != 0:
		p.sysex = false
		p.status = b
		p.need = MessageLength(b)
		p.buf[0] = b
		p.n = 1
		return nil, false
	}

	if p.sysex || p.status == 0 {
		return nil, false
	}
	if p.n == 0 {
		// running status
		p.buf[0] = p.status
		p.n = 1
	}
	p.buf[p.n] = b
	p.n++
	if p.n < p.need {
		return nil, false
	}
	p.n = 0
	return p.buf[:p.need], true
}

// FeedAll runs data through the parser and calls emit for every complete message.
func (p *Parser) FeedAll(data []byte, emit func(msg []byte)) {
	for _, b := range data {
		if msg, ok := p.Feed(b); ok {
			emit(msg)
		}
	}
}
