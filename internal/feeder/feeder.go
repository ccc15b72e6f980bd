package feeder

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/indigo-web/muncher/http/parser/http1"
	"github.com/indigo-web/muncher/settings"
)

// ErrUpgraded is returned when a message switched the stream to another protocol.
// Bytes already read past the message are returned in Result.Rest
var ErrUpgraded = errors.New("connection upgraded")

type Result struct {
	// Consumed is the total number of bytes consumed by the parser so far
	Consumed int64
	Rest     []byte
	Upgraded bool
}

// Feeder drives a parser by data read from a stream. Bytes left after a completed
// message in single-message mode are kept and fed first on the next call
type Feeder struct {
	reader   io.Reader
	parser   *http1.Parser
	buff     []byte
	pending  []byte
	consumed int64
}

// New returns a feeder reading by at most readSize bytes. Non-positive readSize
// falls back to the default read size
func New(r io.Reader, p *http1.Parser, readSize int) *Feeder {
	if readSize <= 0 {
		readSize = int(settings.Default().Feed.ReadSize.Default)
	}

	return &Feeder{
		reader: r,
		parser: p,
		buff:   make([]byte, readSize),
	}
}

// Feed is a shortcut for a single Feeder.Next call
func Feed(ctx context.Context, p *http1.Parser, h http1.Handler, r io.Reader, readSize int) (Result, error) {
	return New(r, p, readSize).Next(ctx, h)
}

// Next feeds the parser until one of the following happens:
//   - the message is done and pipelining is disabled. Returns nil error,
//   - the message upgraded the connection. Returns ErrUpgraded,
//   - the parser failed. Returns the *http1.Error wrapped,
//   - the stream is over. Returns io.EOF after the parser is notified about it.
//
// The parser is reset automatically once there is data after a done message, so it
// keeps describing the last message if the stream ends right after it.
func (f *Feeder) Next(ctx context.Context, h http1.Handler) (Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return f.result(nil), err
		}

		data, err := f.read()
		if len(data) > 0 {
			if f.parser.Done() {
				f.parser.Reset()
			}

			n := f.parser.Feed(h, data)
			f.consumed += int64(n)

			switch {
			case f.parser.HasError():
				return f.result(nil), fmt.Errorf("parse: %w", f.parser.Err())
			case f.parser.Upgraded():
				return f.result(data[n:]), ErrUpgraded
			case f.parser.Done():
				f.pending = data[n:]
				if len(f.pending) > 0 || err == nil {
					return f.result(nil), nil
				}
			}
		}

		switch {
		case errors.Is(err, io.EOF):
			f.parser.Finish(h)
			if f.parser.HasError() {
				return f.result(nil), fmt.Errorf("parse: %w", f.parser.Err())
			}

			return f.result(nil), io.EOF
		case err != nil:
			return f.result(nil), fmt.Errorf("read: %w", err)
		}
	}
}

func (f *Feeder) read() ([]byte, error) {
	if len(f.pending) > 0 {
		data := f.pending
		f.pending = nil
		return data, nil
	}

	n, err := f.reader.Read(f.buff)
	return f.buff[:n], err
}

func (f *Feeder) result(rest []byte) Result {
	res := Result{
		Consumed: f.consumed,
		Upgraded: f.parser.IsUpgrade(),
	}

	if len(rest) > 0 {
		res.Rest = append([]byte(nil), rest...)
	}

	return res
}
