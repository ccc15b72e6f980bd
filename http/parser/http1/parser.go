package http1

import (
	"fmt"
	"math"

	"github.com/indigo-web/muncher/http/method"
	"github.com/indigo-web/muncher/http/status"
	"github.com/indigo-web/muncher/settings"
)

// Mode tells which kind of messages a parser expects
type Mode uint8

const (
	Request Mode = iota + 1
	Response
	// Both detects the kind of every message by its first bytes
	Both
)

func (m Mode) String() string {
	switch m {
	case Request:
		return "request"
	case Response:
		return "response"
	case Both:
		return "both"
	}

	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode is the reverse of Mode.String
func ParseMode(str string) (Mode, bool) {
	switch str {
	case "request":
		return Request, true
	case "response":
		return Response, true
	case "both":
		return Both, true
	}

	return 0, false
}

const httpLiteral = "HTTP/"

// Parser is a stream-based HTTP/1.x parser. It is fed with chunks of data as they
// are received and reports recognized elements to a handler, which is passed to
// every Feed call and is never retained. The parser doesn't buffer anything except
// a few bytes of framing tokens, so a message of any size is processed in constant
// memory.
//
// A parser is single-message unless settings.Settings.Pipelining is enabled. It must
// be driven by a single goroutine at a time.
type Parser struct {
	settings  settings.Settings
	mode      Mode
	kind      Mode
	state     parserState
	header    headerState
	flags     uint16
	errno     Errno
	errOffset int

	major, minor  uint16
	pendingMajor  uint16
	statusCode    status.Code
	pendingStatus uint16
	method        method.Method
	upgrade       bool

	// flushed is set when a part of the current token was reported at the end of
	// the previous chunk
	flushed bool

	index     uint8
	methodLen uint8
	methodBuf [method.MaxLength]byte

	fieldLen      uint8
	fieldOverflow bool
	field         [len("transfer-encoding")]byte
	tokenLen      uint8
	tokenEnded    bool
	tokenInvalid  bool
	token         [16]byte

	lengthDigits  int
	pendingLength uint64
	contentLength uint64
	remaining     uint64
	chunkLength   uint64
	headersNumber int
	headerBytes   uint32
}

// New returns a parser for messages of the given mode. Zero values of
// the settings are replaced by defaults
func New(mode Mode, s settings.Settings) *Parser {
	p := &Parser{
		mode:     mode,
		settings: settings.Fill(s),
	}
	p.Reset()

	return p
}

// Reset prepares the parser for a new message, forgetting everything about the
// previous one, including a failure
func (p *Parser) Reset() {
	*p = Parser{
		settings: p.settings,
		mode:     p.mode,
		kind:     p.mode,
		state:    sStart,
	}
}

// Feed parses the data, invoking the callbacks of the handler on the way. It returns
// the number of bytes consumed, which is less than len(data) only when:
//   - the data is malformed or a callback returned false (see HasError),
//   - the message requested a protocol upgrade, so the rest of the data belongs to
//     the new protocol (see IsUpgrade),
//   - the message is complete and pipelining is disabled, so the rest belongs to the
//     next message (see Done).
func (p *Parser) Feed(h Handler, data []byte) int {
	mark := -1
	switch p.state {
	case sURL, sReason, sHeaderField, sHeaderValue:
		mark = 0
	}

	for i := 0; i < len(data); i++ {
		char := data[i]

		if p.state > sStart && p.state <= sHeadersAlmostDone {
			if p.headerBytes++; p.headerBytes > p.settings.Headers.Size.Maximal {
				return p.fail(ErrnoHeaderOverflow, i)
			}
		}

	reexecute:
		switch p.state {
		case sDead, sUpgraded, sMessageDone:
			return i
		case sClosed:
			if char != '\r' && char != '\n' {
				return p.fail(ErrnoClosedConnection, i)
			}
		case sStart:
			if char == '\r' || char == '\n' {
				break
			}

			p.Reset()

			switch {
			case p.mode == Response:
				if char != 'H' {
					return p.fail(ErrnoInvalidConstant, i)
				}

				p.index = 1
				p.state = sHTTPLiteral
			case p.mode == Both && char == 'H':
				p.state = sStartH
			default:
				if !isMethodChar(char) {
					return p.fail(ErrnoInvalidMethod, i)
				}

				p.kind = Request
				p.methodBuf[0] = char
				p.methodLen = 1
				p.state = sMethod
			}

			if !h.OnMessageBegin(p) {
				return p.fail(ErrnoCBMessageBegin, i+1)
			}
		case sStartH:
			if char == 'T' {
				p.kind = Response
				p.index = 2
				p.state = sHTTPLiteral
				break
			}

			p.kind = Request
			p.methodBuf[0] = 'H'
			p.methodLen = 1
			p.state = sMethod
			goto reexecute
		case sMethod:
			if char == ' ' {
				p.method = method.ParseBytes(p.methodBuf[:p.methodLen])
				if p.method == method.Unknown {
					return p.fail(ErrnoInvalidMethod, i)
				}

				p.state = sSpacesBeforeURL
				break
			}

			if !isMethodChar(char) || int(p.methodLen) == len(p.methodBuf) {
				return p.fail(ErrnoInvalidMethod, i)
			}

			p.methodBuf[p.methodLen] = char
			p.methodLen++
		case sSpacesBeforeURL:
			switch {
			case char == ' ':
			case char == '/' || char == '*' || char == '[' || isAlnum(char):
				mark = i
				p.state = sURL
			default:
				return p.fail(ErrnoInvalidURL, i)
			}
		case sURL:
			switch {
			case char == ' ':
				p.state = sHTTPStart
				if p.spanEnd(mark, i) && !h.OnURL(p, data[mark:i]) {
					return p.fail(ErrnoCBURL, i+1)
				}

				mark = -1
			case char == '\r' || char == '\n':
				return p.fail(ErrnoInvalidVersion, i)
			case !isURLChar(char):
				return p.fail(ErrnoInvalidURL, i)
			}
		case sHTTPStart:
			switch char {
			case ' ':
			case 'H':
				p.index = 1
				p.state = sHTTPLiteral
			case '\r', '\n':
				return p.fail(ErrnoInvalidVersion, i)
			default:
				return p.fail(ErrnoInvalidConstant, i)
			}
		case sHTTPLiteral:
			if char != httpLiteral[p.index] {
				return p.fail(ErrnoInvalidConstant, i)
			}

			if p.index++; int(p.index) == len(httpLiteral) {
				p.state = sMajor
			}
		case sMajor:
			if char != '0' && char != '1' {
				return p.fail(ErrnoInvalidVersion, i)
			}

			p.pendingMajor = uint16(char - '0')
			p.state = sDot
		case sDot:
			if char != '.' {
				return p.fail(ErrnoInvalidVersion, i)
			}

			p.state = sMinor
		case sMinor:
			if !isDigit(char) {
				return p.fail(ErrnoInvalidVersion, i)
			}

			p.major, p.minor = p.pendingMajor, uint16(char-'0')
			if p.kind == Response {
				p.state = sSpaceBeforeCode
			} else {
				p.state = sRequestLineEnd
			}
		case sRequestLineEnd:
			switch char {
			case '\r':
				p.state = sLineAlmostDone
			case '\n':
				p.state = sHeaderFieldStart
			default:
				return p.fail(ErrnoInvalidVersion, i)
			}
		case sSpaceBeforeCode:
			if char != ' ' {
				return p.fail(ErrnoInvalidVersion, i)
			}

			p.state = sCodeStart
		case sCodeStart:
			switch {
			case char == ' ':
			case isDigit(char):
				p.pendingStatus = uint16(char - '0')
				p.index = 1
				p.state = sCode
			default:
				return p.fail(ErrnoInvalidStatus, i)
			}
		case sCode:
			switch {
			case isDigit(char):
				if p.index == 3 {
					return p.fail(ErrnoInvalidStatus, i)
				}

				p.pendingStatus = p.pendingStatus*10 + uint16(char-'0')
				p.index++
			case char == ' ' || char == '\r' || char == '\n':
				if p.index != 3 || p.pendingStatus < 100 {
					return p.fail(ErrnoInvalidStatus, i)
				}

				p.statusCode = status.Code(p.pendingStatus)

				switch char {
				case ' ':
					mark = i + 1
					p.state = sReason
				case '\r':
					p.state = sLineAlmostDone
				default:
					p.state = sHeaderFieldStart
				}
			default:
				return p.fail(ErrnoInvalidStatus, i)
			}
		case sReason:
			switch {
			case char == '\r' || char == '\n':
				p.state = lineEnd(char, sLineAlmostDone)
				if p.spanEnd(mark, i) && !h.OnStatus(p, data[mark:i]) {
					return p.fail(ErrnoCBStatus, i+1)
				}

				mark = -1
			case !isFieldVChar(char):
				return p.fail(ErrnoInvalidStatus, i)
			}
		case sLineAlmostDone, sHeaderLineAlmostDone:
			if char != '\n' {
				return p.fail(ErrnoLFExpected, i)
			}

			p.state = sHeaderFieldStart
		case sHeaderFieldStart:
			switch {
			case char == '\r':
				p.state = sHeadersAlmostDone
			case char == '\n':
				if n := p.headersDone(h, i); n >= 0 {
					return n
				}
			case isToken(char):
				p.fieldLen = 0
				p.fieldOverflow = false
				p.fieldByte(char)
				mark = i
				p.state = sHeaderField
			default:
				return p.fail(ErrnoInvalidHeaderToken, i)
			}
		case sHeaderField:
			switch {
			case char == ':':
				if errno := p.headerFieldDone(); errno != ErrnoOK {
					return p.fail(errno, i)
				}

				p.state = sHeaderValueStart
				if p.spanEnd(mark, i) && !h.OnHeaderField(p, data[mark:i]) {
					return p.fail(ErrnoCBHeaderField, i+1)
				}

				mark = -1
			case isToken(char):
				p.fieldByte(char)
			default:
				return p.fail(ErrnoInvalidHeaderToken, i)
			}
		case sHeaderValueStart:
			switch char {
			case ' ', '\t':
			case '\r', '\n':
				if errno := p.headerValueDone(); errno != ErrnoOK {
					return p.fail(errno, i)
				}

				p.state = lineEnd(char, sHeaderLineAlmostDone)
				if !h.OnHeaderValue(p, data[i:i]) {
					return p.fail(ErrnoCBHeaderValue, i+1)
				}
			default:
				mark = i
				p.state = sHeaderValue
				goto reexecute
			}
		case sHeaderValue:
			switch {
			case char == '\r' || char == '\n':
				if errno := p.headerValueDone(); errno != ErrnoOK {
					return p.fail(errno, i)
				}

				p.state = lineEnd(char, sHeaderLineAlmostDone)
				if p.spanEnd(mark, i) && !h.OnHeaderValue(p, data[mark:i]) {
					return p.fail(ErrnoCBHeaderValue, i+1)
				}

				mark = -1
			case !isFieldVChar(char):
				return p.fail(ErrnoInvalidHeaderToken, i)
			case p.header != hGeneral:
				if errno := p.headerValueByte(char); errno != ErrnoOK {
					return p.fail(errno, i)
				}
			}
		case sHeadersAlmostDone:
			if char != '\n' {
				return p.fail(ErrnoLFExpected, i)
			}

			if n := p.headersDone(h, i); n >= 0 {
				return n
			}
		case sBodyIdentity:
			end := i + int(min(p.remaining, uint64(len(data)-i)))
			p.remaining -= uint64(end - i)
			if !h.OnBody(p, data[i:end]) {
				return p.fail(ErrnoCBBody, end)
			}

			i = end - 1
			if p.remaining == 0 && !p.messageComplete(h) {
				return p.fail(ErrnoCBMessageComplete, end)
			}
		case sBodyIdentityEOF:
			if !h.OnBody(p, data[i:]) {
				return p.fail(ErrnoCBBody, len(data))
			}

			i = len(data) - 1
		case sChunkSizeStart:
			value, ok := unHex(char)
			if !ok || value > p.settings.Body.ChunkSize.Maximal {
				return p.fail(ErrnoInvalidChunkSize, i)
			}

			p.chunkLength = value
			p.state = sChunkSize
		case sChunkSize:
			switch char {
			case '\r':
				p.state = sChunkSizeAlmostDone
			case '\n':
				if n := p.chunkHeaderDone(h, i); n >= 0 {
					return n
				}
			case ';', ' ', '\t':
				p.state = sChunkExtension
			default:
				value, ok := unHex(char)
				if !ok || p.chunkLength > math.MaxUint64>>4 {
					return p.fail(ErrnoInvalidChunkSize, i)
				}

				p.chunkLength = p.chunkLength<<4 | value
				if p.chunkLength > p.settings.Body.ChunkSize.Maximal {
					return p.fail(ErrnoInvalidChunkSize, i)
				}
			}
		case sChunkExtension:
			switch {
			case char == '\r':
				p.state = sChunkSizeAlmostDone
			case char == '\n':
				if n := p.chunkHeaderDone(h, i); n >= 0 {
					return n
				}
			case !isFieldVChar(char):
				return p.fail(ErrnoInvalidChunkSize, i)
			}
		case sChunkSizeAlmostDone:
			if char != '\n' {
				return p.fail(ErrnoLFExpected, i)
			}

			if n := p.chunkHeaderDone(h, i); n >= 0 {
				return n
			}
		case sChunkData:
			end := i + int(min(p.remaining, uint64(len(data)-i)))
			p.remaining -= uint64(end - i)
			if p.remaining == 0 {
				p.state = sChunkDataEnd
			}

			if !h.OnBody(p, data[i:end]) {
				return p.fail(ErrnoCBBody, end)
			}

			i = end - 1
		case sChunkDataEnd:
			switch char {
			case '\r':
				p.state = sChunkDataCR
			case '\n':
				p.state = sChunkSizeStart
				if !h.OnChunkComplete(p) {
					return p.fail(ErrnoCBChunkComplete, i+1)
				}
			default:
				return p.fail(ErrnoLFExpected, i)
			}
		case sChunkDataCR:
			if char != '\n' {
				return p.fail(ErrnoLFExpected, i)
			}

			p.state = sChunkSizeStart
			if !h.OnChunkComplete(p) {
				return p.fail(ErrnoCBChunkComplete, i+1)
			}
		default:
			panic(fmt.Sprintf("BUG: unexpected state: %v", p.state))
		}
	}

	if mark >= 0 && mark < len(data) {
		fragment := data[mark:]
		p.flushed = true

		switch p.state {
		case sURL:
			if !h.OnURL(p, fragment) {
				return p.fail(ErrnoCBURL, len(data))
			}
		case sReason:
			if !h.OnStatus(p, fragment) {
				return p.fail(ErrnoCBStatus, len(data))
			}
		case sHeaderField:
			if !h.OnHeaderField(p, fragment) {
				return p.fail(ErrnoCBHeaderField, len(data))
			}
		case sHeaderValue:
			if !h.OnHeaderValue(p, fragment) {
				return p.fail(ErrnoCBHeaderValue, len(data))
			}
		}
	}

	return len(data)
}

// Finish notifies the parser that the stream is over. A response whose body is
// delimited by the end of the connection completes here; an incomplete message
// fails with ErrnoInvalidEOFState
func (p *Parser) Finish(h Handler) {
	switch p.state {
	case sDead, sUpgraded, sMessageDone, sClosed, sStart:
	case sBodyIdentityEOF:
		if !p.messageComplete(h) {
			p.fail(ErrnoCBMessageComplete, 0)
		}
	default:
		p.fail(ErrnoInvalidEOFState, 0)
	}
}

// SkipBody makes the parser treat the current message as bodyless. It's meant to be
// called from Handler.OnHeadersComplete, e.g. for responses to HEAD requests
func (p *Parser) SkipBody() {
	p.flags |= fSkipBody
}

// spanEnd reports whether the token ending at i must be reported. An empty rest is
// skipped if the token was already partially reported
func (p *Parser) spanEnd(mark, i int) bool {
	report := i > mark || !p.flushed
	p.flushed = false

	return report
}

func (p *Parser) fail(errno Errno, offset int) int {
	p.state = sDead
	p.errno = errno
	p.errOffset = offset

	return offset
}

// lineEnd picks the state after a line terminating character: LF alone ends the line
// immediately, CR needs to be followed by LF
func lineEnd(char byte, afterCR parserState) parserState {
	if char == '\r' {
		return afterCR
	}

	return sHeaderFieldStart
}

// headersDone is called at the empty line ending either headers or trailers. It
// returns a non-negative number when Feed must return it
func (p *Parser) headersDone(h Handler, i int) int {
	if p.flags&fTrailing != 0 {
		if !h.OnChunkComplete(p) {
			return p.fail(ErrnoCBChunkComplete, i+1)
		}

		if !p.messageComplete(h) {
			return p.fail(ErrnoCBMessageComplete, i+1)
		}

		return -1
	}

	if p.flags&fTransferEncoding != 0 {
		if p.flags&fContentLength != 0 {
			return p.fail(ErrnoUnexpectedContentLength, i)
		}

		if p.kind == Request && p.flags&fChunked == 0 {
			return p.fail(ErrnoInvalidTransferEncoding, i)
		}
	}

	const upgradeFlags = fUpgrade | fConnectionUpgrade
	p.upgrade = (p.kind == Request && p.method == method.CONNECT) ||
		(p.flags&upgradeFlags == upgradeFlags &&
			(p.kind == Request || p.statusCode == status.SwitchingProtocols))

	if !h.OnHeadersComplete(p) {
		return p.fail(ErrnoCBHeadersComplete, i+1)
	}

	switch {
	case p.flags&fSkipBody != 0 || p.bodyless(),
		p.upgrade && p.method == method.CONNECT:
		if !p.messageComplete(h) {
			return p.fail(ErrnoCBMessageComplete, i+1)
		}
	case p.flags&fChunked != 0:
		p.state = sChunkSizeStart
	case p.flags&fContentLength != 0:
		p.remaining = p.contentLength
		p.state = sBodyIdentity
	default:
		p.state = sBodyIdentityEOF
	}

	return -1
}

func (p *Parser) bodyless() bool {
	switch {
	case p.kind == Response && status.Bodyless(p.statusCode):
		return true
	case p.flags&fChunked != 0:
		return false
	case p.flags&fContentLength != 0:
		return p.contentLength == 0
	default:
		return p.kind == Request
	}
}

func (p *Parser) chunkHeaderDone(h Handler, i int) int {
	p.remaining = p.chunkLength

	if p.chunkLength == 0 {
		p.flags |= fFinalChunk | fTrailing
		p.state = sHeaderFieldStart
	} else {
		p.state = sChunkData
	}

	if !h.OnChunkHeader(p) {
		return p.fail(ErrnoCBChunkHeader, i+1)
	}

	return -1
}

// messageComplete moves the parser past the message and notifies the handler. An
// upgrading message with a body hands the stream over only after the body
func (p *Parser) messageComplete(h Handler) bool {
	switch {
	case p.upgrade:
		p.state = sUpgraded
	case !p.settings.Pipelining:
		p.state = sMessageDone
	case p.ShouldKeepAlive():
		p.state = sStart
	default:
		p.state = sClosed
	}

	return h.OnMessageComplete(p)
}

func (p *Parser) fieldByte(char byte) {
	if int(p.fieldLen) == len(p.field) {
		p.fieldOverflow = true
		return
	}

	p.field[p.fieldLen] = lower(char)
	p.fieldLen++
}

// headerFieldDone recognizes framing headers. The name is compared by its lowercased
// copy, so it doesn't matter how it was split among Feed calls
func (p *Parser) headerFieldDone() Errno {
	if p.headersNumber++; p.headersNumber > int(p.settings.Headers.Number.Maximal) {
		return ErrnoHeaderOverflow
	}

	p.header = hGeneral
	p.tokenLen, p.tokenEnded, p.tokenInvalid = 0, false, false

	if p.fieldOverflow || p.flags&fTrailing != 0 {
		return ErrnoOK
	}

	switch string(p.field[:p.fieldLen]) {
	case "content-length":
		if p.flags&fContentLength != 0 {
			return ErrnoUnexpectedContentLength
		}

		p.header = hContentLength
		p.pendingLength = 0
		p.lengthDigits = 0
	case "transfer-encoding":
		p.flags |= fTransferEncoding
		p.header = hTransferEncoding
	case "connection", "proxy-connection":
		p.header = hConnection
	case "upgrade":
		p.flags |= fUpgrade
	}

	return ErrnoOK
}

func (p *Parser) headerValueByte(char byte) Errno {
	switch p.header {
	case hContentLength:
		switch {
		case char == ' ' || char == '\t':
			if p.lengthDigits > 0 {
				p.tokenEnded = true
			}
		case isDigit(char) && !p.tokenEnded:
			digit := uint64(char - '0')
			if p.pendingLength > (math.MaxUint64-digit)/10 {
				return ErrnoInvalidContentLength
			}

			p.pendingLength = p.pendingLength*10 + digit
			p.lengthDigits++
		default:
			return ErrnoInvalidContentLength
		}
	case hTransferEncoding, hConnection:
		p.tokenByte(char)
	}

	return ErrnoOK
}

func (p *Parser) headerValueDone() Errno {
	switch p.header {
	case hContentLength:
		if p.lengthDigits == 0 {
			return ErrnoInvalidContentLength
		}

		p.contentLength = p.pendingLength
		p.flags |= fContentLength
	case hTransferEncoding, hConnection:
		p.tokenDone()
	}

	return ErrnoOK
}

// tokenByte collects a single element of a comma-separated list. Elements which
// don't fit into the buffer or contain inner whitespace can't be any of the
// recognized ones, so they're only marked invalid
func (p *Parser) tokenByte(char byte) {
	switch char {
	case ',':
		p.tokenDone()
	case ' ', '\t':
		if p.tokenLen > 0 {
			p.tokenEnded = true
		}
	default:
		if p.tokenEnded || int(p.tokenLen) == len(p.token) {
			p.tokenInvalid = true
			return
		}

		p.token[p.tokenLen] = lower(char)
		p.tokenLen++
	}
}

func (p *Parser) tokenDone() {
	if p.tokenLen == 0 && !p.tokenInvalid {
		return
	}

	token := p.token[:p.tokenLen]
	if p.tokenInvalid {
		token = nil
	}

	switch p.header {
	case hTransferEncoding:
		// only the last coding decides whether the body is chunked
		if string(token) == "chunked" {
			p.flags |= fChunked
		} else {
			p.flags &^= fChunked
		}
	case hConnection:
		switch string(token) {
		case "keep-alive":
			p.flags |= fConnectionKeepAlive
		case "close":
			p.flags |= fConnectionClose
		case "upgrade":
			p.flags |= fConnectionUpgrade
		}
	}

	p.tokenLen, p.tokenEnded, p.tokenInvalid = 0, false, false
}
