package http1

// Handler receives the elements of a message as the parser recognizes them. Every
// callback returns whether the parser should go on: returning false stops the
// current Feed immediately and leaves the parser in a terminal state with one of
// the ErrnoCB* errnos.
//
// Data callbacks receive a view into the slice passed to Feed. It is valid only
// during the call, so it must be copied in order to be retained. A single
// element may be delivered in several fragments, even within a single Feed call
// when it does not fit into a chunk.
//
// Handlers must not call Feed or Finish on the parser they were called from.
type Handler interface {
	OnMessageBegin(p *Parser) bool
	OnURL(p *Parser, data []byte) bool
	OnStatus(p *Parser, data []byte) bool
	OnHeaderField(p *Parser, data []byte) bool
	OnHeaderValue(p *Parser, data []byte) bool
	OnHeadersComplete(p *Parser) bool
	OnBody(p *Parser, data []byte) bool
	OnMessageComplete(p *Parser) bool
	OnChunkHeader(p *Parser) bool
	OnChunkComplete(p *Parser) bool
}

var _ Handler = NopHandler{}

// NopHandler implements every callback as a no-op which continues parsing. Embed it
// to implement only the callbacks of interest
type NopHandler struct{}

func (NopHandler) OnMessageBegin(*Parser) bool        { return true }
func (NopHandler) OnURL(*Parser, []byte) bool         { return true }
func (NopHandler) OnStatus(*Parser, []byte) bool      { return true }
func (NopHandler) OnHeaderField(*Parser, []byte) bool { return true }
func (NopHandler) OnHeaderValue(*Parser, []byte) bool { return true }
func (NopHandler) OnHeadersComplete(*Parser) bool     { return true }
func (NopHandler) OnBody(*Parser, []byte) bool        { return true }
func (NopHandler) OnMessageComplete(*Parser) bool     { return true }
func (NopHandler) OnChunkHeader(*Parser) bool         { return true }
func (NopHandler) OnChunkComplete(*Parser) bool       { return true }
