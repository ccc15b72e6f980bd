package http1

import (
	"strconv"
	"testing"

	"github.com/indigo-web/muncher/settings"
	"github.com/stretchr/testify/require"
)

type event struct {
	kind, data string
}

// recorder collects every callback as an event. Consecutive data fragments of the
// same kind are merged, so the result doesn't depend on how the stream was split
type recorder struct {
	events    []event
	fragments map[string]int
	empty     map[string]int
	// abortOn makes the first callback of the kind return false
	abortOn           string
	onHeadersComplete func(p *Parser)
}

func newRecorder() *recorder {
	return &recorder{
		fragments: make(map[string]int),
		empty:     make(map[string]int),
	}
}

func (r *recorder) data(kind string, data []byte) bool {
	r.fragments[kind]++
	if len(data) == 0 {
		r.empty[kind]++
	}

	if n := len(r.events); n > 0 && r.events[n-1].kind == kind {
		r.events[n-1].data += string(data)
	} else {
		r.events = append(r.events, event{kind, string(data)})
	}

	return r.abortOn != kind
}

func (r *recorder) notify(kind, data string) bool {
	r.events = append(r.events, event{kind, data})
	return r.abortOn != kind
}

func (r *recorder) OnMessageBegin(*Parser) bool {
	return r.notify("begin", "")
}

func (r *recorder) OnURL(_ *Parser, data []byte) bool {
	return r.data("url", data)
}

func (r *recorder) OnStatus(_ *Parser, data []byte) bool {
	return r.data("status", data)
}

func (r *recorder) OnHeaderField(_ *Parser, data []byte) bool {
	return r.data("field", data)
}

func (r *recorder) OnHeaderValue(_ *Parser, data []byte) bool {
	return r.data("value", data)
}

func (r *recorder) OnHeadersComplete(p *Parser) bool {
	if r.onHeadersComplete != nil {
		r.onHeadersComplete(p)
	}

	return r.notify("headers", "")
}

func (r *recorder) OnBody(_ *Parser, data []byte) bool {
	return r.data("body", data)
}

func (r *recorder) OnMessageComplete(*Parser) bool {
	return r.notify("complete", "")
}

func (r *recorder) OnChunkHeader(p *Parser) bool {
	return r.notify("chunk", strconv.FormatUint(p.ChunkLength(), 10))
}

func (r *recorder) OnChunkComplete(*Parser) bool {
	return r.notify("chunk_complete", "")
}

func (r *recorder) of(kind string) (values []string) {
	for _, e := range r.events {
		if e.kind == kind {
			values = append(values, e.data)
		}
	}

	return values
}

func (r *recorder) headers() (pairs [][2]string) {
	for i, e := range r.events {
		if e.kind == "field" && i+1 < len(r.events) {
			pairs = append(pairs, [2]string{e.data, r.events[i+1].data})
		}
	}

	return pairs
}

func getParser(mode Mode) *Parser {
	return New(mode, settings.Default())
}

func pipelined(mode Mode) *Parser {
	s := settings.Default()
	s.Pipelining = true
	return New(mode, s)
}

func copySlice(src []byte) (copied []byte) {
	return append(copied, src...)
}

func splitIntoParts(data []byte, n int) (parts [][]byte) {
	for i := 0; i < len(data); i += n {
		end := min(i+n, len(data))
		parts = append(parts, copySlice(data[i:end]))
	}

	return parts
}

// feedPartially feeds the data by parts of n bytes, requiring each of them to be
// consumed entirely
func feedPartially(t *testing.T, p *Parser, h Handler, data []byte, n int) {
	for _, part := range splitIntoParts(data, n) {
		consumed := p.Feed(h, part)
		require.NoErrorf(t, p.Err(), "part size: %d", n)
		require.Equalf(t, len(part), consumed, "part size: %d", n)
	}
}
