package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/indigo-web/muncher/http/parser/http1"
	"github.com/indigo-web/muncher/internal/feeder"
	"github.com/sirupsen/logrus"
)

const stdinName = "-"

// summary describes the parsing of a single input
type summary struct {
	Source      string `json:"source"`
	Messages    int    `json:"messages"`
	Consumed    int64  `json:"consumed"`
	Version     string `json:"version,omitempty"`
	Method      string `json:"method,omitempty"`
	Status      uint16 `json:"status,omitempty"`
	KeepAlive   bool   `json:"keep_alive"`
	Upgrade     bool   `json:"upgrade"`
	Errno       string `json:"errno"`
	Error       string `json:"error,omitempty"`
	Unprocessed int    `json:"unprocessed,omitempty"`
}

// inputs returns the names of files to parse. No arguments mean stdin
func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{stdinName}
	}

	return args
}

func open(name string, stdin io.Reader) (io.ReadCloser, error) {
	if name == stdinName {
		return io.NopCloser(stdin), nil
	}

	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	return file, nil
}

// parse runs the parser over the whole input. Counting messages is up to the handler
func parse(ctx context.Context, cfg Config, logger *logrus.Logger, name string, r io.Reader, h http1.Handler) (summary, error) {
	p := http1.New(cfg.mode(), cfg.Parser)
	f := feeder.New(r, p, cfg.Chunk)
	sum := summary{Source: name}
	entry := logger.WithField("source", name)
	entry.Debugf("parsing as %s by chunks of %d bytes", cfg.mode(), cfg.Chunk)

	var err error
	for {
		var res feeder.Result
		res, err = f.Next(ctx, h)
		sum.Consumed = res.Consumed
		sum.Unprocessed = len(res.Rest)

		if err != nil {
			break
		}
	}

	major, minor := p.HTTPVersion()
	if major > 0 || minor > 0 {
		sum.Version = fmt.Sprintf("%d.%d", major, minor)
	}

	switch p.Kind() {
	case http1.Request:
		sum.Method = p.MethodName()
	case http1.Response:
		sum.Status = uint16(p.StatusCode())
	}

	sum.KeepAlive = p.ShouldKeepAlive()
	sum.Upgrade = p.IsUpgrade()
	sum.Errno = p.ErrorName()

	switch {
	case errors.Is(err, io.EOF):
		entry.Debugf("reached the end after %d bytes", sum.Consumed)
		return sum, nil
	case errors.Is(err, feeder.ErrUpgraded):
		entry.Infof("connection upgraded, %d bytes of the new protocol left", sum.Unprocessed)
		return sum, nil
	}

	sum.Error = err.Error()
	var perr *http1.Error
	if errors.As(err, &perr) {
		entry.WithFields(logrus.Fields{
			"errno":  perr.Errno.Name(),
			"offset": perr.Offset,
		}).Error("malformed input")
	} else {
		entry.WithError(err).Error("failed to read input")
	}

	return sum, err
}

// runInputs parses every input, continuing after failures
func runInputs(
	ctx context.Context, cfg Config, logger *logrus.Logger, args []string, stdin io.Reader,
	each func(name string, r io.Reader) error,
) error {
	var failed int

	for _, name := range inputs(args) {
		rc, err := open(name, stdin)
		if err != nil {
			logger.WithField("source", name).WithError(err).Error("skipping input")
			failed++
			continue
		}

		err = each(name, rc)
		_ = rc.Close()
		if err != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d: %w", failed, len(inputs(args)), ErrParseFailed)
	}

	return nil
}
