package http1

import (
	"github.com/indigo-web/muncher/http/method"
	"github.com/indigo-web/muncher/http/proto"
	"github.com/indigo-web/muncher/http/status"
	"github.com/indigo-web/muncher/settings"
)

// Mode returns the mode the parser was created with
func (p *Parser) Mode() Mode {
	return p.mode
}

// Settings returns the settings the parser works with, defaults filled in
func (p *Parser) Settings() settings.Settings {
	return p.settings
}

// Kind returns the kind of the current message. In Both mode, it stays Both until
// the first bytes of the message are seen
func (p *Parser) Kind() Mode {
	return p.kind
}

// HTTPVersion returns major and minor numbers of the protocol version. Both are
// zeroes until the version is parsed
func (p *Parser) HTTPVersion() (major, minor uint16) {
	return p.major, p.minor
}

// Proto returns the protocol version as a proto.Proto
func (p *Parser) Proto() proto.Proto {
	return proto.Parse(p.major, p.minor)
}

// StatusCode is meaningful for responses only, once the status line is parsed
func (p *Parser) StatusCode() status.Code {
	return p.statusCode
}

// Method is meaningful for requests only, once the request line is parsed
func (p *Parser) Method() method.Method {
	return p.method
}

func (p *Parser) MethodName() string {
	return p.method.String()
}

func (p *Parser) HasError() bool {
	return p.errno != ErrnoOK
}

func (p *Parser) Errno() Errno {
	return p.errno
}

func (p *Parser) ErrorName() string {
	return p.errno.Name()
}

func (p *Parser) ErrorDescription() string {
	return p.errno.Description()
}

// Err returns nil if the parser didn't fail, otherwise *Error carrying the offset
// of the offending byte within the Feed call it happened in
func (p *Parser) Err() error {
	if p.errno == ErrnoOK {
		return nil
	}

	return &Error{
		Errno:  p.errno,
		Offset: p.errOffset,
	}
}

// IsUpgrade reports whether the message requested a protocol switch. When it did,
// the parser stops after the message and the rest of the data must be handled by
// the caller. CONNECT requests and messages without a body stop right after the
// headers, others have their body parsed first
func (p *Parser) IsUpgrade() bool {
	return p.upgrade
}

// Upgraded reports whether the upgrading message is over, so the following bytes
// belong to the new protocol
func (p *Parser) Upgraded() bool {
	return p.state == sUpgraded
}

// IsFinalChunk reports whether the last chunk header was the zero-length one
func (p *Parser) IsFinalChunk() bool {
	return p.flags&fFinalChunk != 0
}

// ChunkLength returns the size of the last chunk header
func (p *Parser) ChunkLength() uint64 {
	return p.chunkLength
}

func (p *Parser) ContentLength() (length uint64, ok bool) {
	return p.contentLength, p.flags&fContentLength != 0
}

func (p *Parser) IsChunked() bool {
	return p.flags&fChunked != 0
}

// ShouldKeepAlive reports whether the connection may be used for another message
// after the current one.
//
// The result is meaningful since Handler.OnHeadersComplete
func (p *Parser) ShouldKeepAlive() bool {
	if proto.KeepAliveByDefault(p.major, p.minor) {
		if p.flags&fConnectionClose != 0 {
			return false
		}
	} else if p.flags&fConnectionKeepAlive == 0 {
		return false
	}

	return !p.needsEOF()
}

// needsEOF reports whether the body of the message lasts until the connection
// is closed
func (p *Parser) needsEOF() bool {
	if p.kind != Response || p.flags&fSkipBody != 0 || status.Bodyless(p.statusCode) {
		return false
	}

	return p.flags&(fChunked|fContentLength) == 0
}

// Done reports whether the message is completed and pipelining is disabled, so
// the parser won't consume anything until Reset
func (p *Parser) Done() bool {
	return p.state == sMessageDone
}

// Snapshot returns the status summary of the parser
func (p *Parser) Snapshot() Snapshot {
	return Snapshot{
		StatusCode: p.statusCode,
		Method:     p.method,
		Errno:      p.errno,
		Upgrade:    p.upgrade,
	}
}
