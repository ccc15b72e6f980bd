package message

import (
	"github.com/indigo-web/muncher/http/parser/http1"
)

var _ http1.Handler = new(Collector)

// Collector is a handler that buffers every message entirely. It is intended for
// tests and tools rather than servers, as the memory it takes grows with the input
type Collector struct {
	// MaxBodySize makes the parser fail with http1.ErrnoCBBody as soon as a body
	// exceeds it. Zero means no limit
	MaxBodySize int
	// Messages are completed messages in order of appearance
	Messages []Message

	current       Message
	url, reason   []byte
	field, value  []byte
	valueReceived bool
	trailing      bool
}

func NewCollector() *Collector {
	return new(Collector)
}

// Collect feeds the whole data into the parser and signals the end of the stream
// afterwards. Messages completed before a failure are returned along with the error
func Collect(p *http1.Parser, data []byte) ([]Message, error) {
	c := NewCollector()
	p.Feed(c, data)
	p.Finish(c)

	return c.Messages, p.Err()
}

func (c *Collector) OnMessageBegin(p *http1.Parser) bool {
	c.current = Message{
		Headers: make([][2]string, 0, p.Settings().Headers.Number.Default),
	}
	c.url, c.reason = c.url[:0], c.reason[:0]
	c.field, c.value = c.field[:0], c.value[:0]
	c.valueReceived, c.trailing = false, false

	return true
}

func (c *Collector) OnURL(_ *http1.Parser, data []byte) bool {
	c.url = append(c.url, data...)
	return true
}

func (c *Collector) OnStatus(_ *http1.Parser, data []byte) bool {
	c.reason = append(c.reason, data...)
	return true
}

func (c *Collector) OnHeaderField(_ *http1.Parser, data []byte) bool {
	if c.valueReceived {
		c.flushHeader()
	}

	c.field = append(c.field, data...)
	return true
}

func (c *Collector) OnHeaderValue(_ *http1.Parser, data []byte) bool {
	c.valueReceived = true
	c.value = append(c.value, data...)
	return true
}

func (c *Collector) OnHeadersComplete(p *http1.Parser) bool {
	c.flushHeader()

	c.current.Kind = p.Kind()
	c.current.Method = p.Method()
	c.current.Code = p.StatusCode()
	c.current.Major, c.current.Minor = p.HTTPVersion()
	c.current.Chunked = p.IsChunked()
	c.current.Upgrade = p.IsUpgrade()
	c.current.URL = string(c.url)
	c.current.Reason = string(c.reason)

	return true
}

func (c *Collector) OnBody(_ *http1.Parser, data []byte) bool {
	if c.MaxBodySize > 0 && len(c.current.Body)+len(data) > c.MaxBodySize {
		return false
	}

	c.current.Body = append(c.current.Body, data...)
	return true
}

func (c *Collector) OnChunkHeader(p *http1.Parser) bool {
	if p.IsFinalChunk() {
		c.trailing = true
	}

	return true
}

func (c *Collector) OnChunkComplete(*http1.Parser) bool {
	return true
}

func (c *Collector) OnMessageComplete(p *http1.Parser) bool {
	c.flushHeader()
	c.current.KeepAlive = p.ShouldKeepAlive()
	c.Messages = append(c.Messages, c.current)

	return true
}

func (c *Collector) flushHeader() {
	if !c.valueReceived {
		return
	}

	pair := [2]string{string(c.field), string(c.value)}
	if c.trailing {
		c.current.Trailers = append(c.current.Trailers, pair)
	} else {
		c.current.Headers = append(c.current.Headers, pair)
	}

	c.field, c.value = c.field[:0], c.value[:0]
	c.valueReceived = false
}
