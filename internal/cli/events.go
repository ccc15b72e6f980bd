package cli

import (
	"io"

	"github.com/indigo-web/muncher/http/parser/http1"
	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

type eventRecord struct {
	Event  string `json:"event"`
	Data   string `json:"data,omitempty"`
	Length uint64 `json:"length,omitempty"`
}

// eventPrinter prints every callback as a JSON line. Data fragments are printed as
// they arrive, so a token split among reads produces several records
type eventPrinter struct {
	enc      *json.Encoder
	err      error
	messages int
}

var _ http1.Handler = new(eventPrinter)

func newEventPrinter(w io.Writer) *eventPrinter {
	return &eventPrinter{enc: json.NewEncoder(w)}
}

// emit stops the parser once the output is broken
func (e *eventPrinter) emit(record eventRecord) bool {
	if e.err == nil {
		e.err = e.enc.Encode(record)
	}

	return e.err == nil
}

func (e *eventPrinter) OnMessageBegin(*http1.Parser) bool {
	return e.emit(eventRecord{Event: "message_begin"})
}

func (e *eventPrinter) OnURL(_ *http1.Parser, data []byte) bool {
	return e.emit(eventRecord{Event: "url", Data: string(data)})
}

func (e *eventPrinter) OnStatus(_ *http1.Parser, data []byte) bool {
	return e.emit(eventRecord{Event: "status", Data: string(data)})
}

func (e *eventPrinter) OnHeaderField(_ *http1.Parser, data []byte) bool {
	return e.emit(eventRecord{Event: "header_field", Data: string(data)})
}

func (e *eventPrinter) OnHeaderValue(_ *http1.Parser, data []byte) bool {
	return e.emit(eventRecord{Event: "header_value", Data: string(data)})
}

func (e *eventPrinter) OnHeadersComplete(*http1.Parser) bool {
	return e.emit(eventRecord{Event: "headers_complete"})
}

func (e *eventPrinter) OnBody(_ *http1.Parser, data []byte) bool {
	return e.emit(eventRecord{Event: "body", Data: string(data)})
}

func (e *eventPrinter) OnMessageComplete(*http1.Parser) bool {
	e.messages++
	return e.emit(eventRecord{Event: "message_complete"})
}

func (e *eventPrinter) OnChunkHeader(p *http1.Parser) bool {
	return e.emit(eventRecord{Event: "chunk_header", Length: p.ChunkLength()})
}

func (e *eventPrinter) OnChunkComplete(*http1.Parser) bool {
	return e.emit(eventRecord{Event: "chunk_complete"})
}

func newEventsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "events [file...]",
		Short: "Print every parsed element as a JSON line",
		Long: `Parse each file (or stdin, when none given) and print one JSON object per
parser event, followed by a summary of the input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closeLog, err := prepare(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)

			return runInputs(cmd.Context(), cfg, logger, args, cmd.InOrStdin(), func(name string, r io.Reader) error {
				printer := newEventPrinter(out)
				sum, parseErr := parse(cmd.Context(), cfg, logger, name, r, printer)
				sum.Messages = printer.messages
				if printer.err != nil {
					return printer.err
				}

				if err := enc.Encode(sum); err != nil {
					return err
				}

				return parseErr
			})
		},
	}
}
