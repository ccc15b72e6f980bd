package cli

import (
	"fmt"
	"io"

	"github.com/indigo-web/muncher/http/parser/http1"
	"github.com/indigo-web/muncher/http/proto"
	"github.com/indigo-web/muncher/http/status"
	"github.com/indigo-web/muncher/message"
	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

type messageRecord struct {
	Source    string      `json:"source"`
	Kind      string      `json:"kind"`
	Method    string      `json:"method,omitempty"`
	URL       string      `json:"url,omitempty"`
	Status    uint16      `json:"status,omitempty"`
	Reason    string      `json:"reason,omitempty"`
	Known     string      `json:"known_reason,omitempty"`
	Version   string      `json:"version"`
	Headers   [][2]string `json:"headers"`
	Trailers  [][2]string `json:"trailers,omitempty"`
	Body      string      `json:"body,omitempty"`
	Chunked   bool        `json:"chunked"`
	KeepAlive bool        `json:"keep_alive"`
	Upgrade   bool        `json:"upgrade"`
	UpgradeTo string      `json:"upgrade_to,omitempty"`
}

func newMessageRecord(source string, msg message.Message) messageRecord {
	record := messageRecord{
		Source:    source,
		Kind:      msg.Kind.String(),
		Version:   fmt.Sprintf("%d.%d", msg.Major, msg.Minor),
		Headers:   msg.Headers,
		Trailers:  msg.Trailers,
		Body:      string(msg.Body),
		Chunked:   msg.Chunked,
		KeepAlive: msg.KeepAlive,
		Upgrade:   msg.Upgrade,
	}

	if to := msg.UpgradeTo(); to != proto.Unknown {
		record.UpgradeTo = to.String()
	}

	if msg.Kind == http1.Request {
		record.Method = msg.Method.String()
		record.URL = msg.URL
	} else {
		record.Status = uint16(msg.Code)
		record.Reason = msg.Reason
		record.Known = status.Text(msg.Code)
	}

	return record
}

func newMessageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message [file...]",
		Short: "Print every assembled message as a JSON line",
		Long: `Parse each file (or stdin, when none given), assemble complete messages and
print them as JSON objects. Malformed inputs are reported in logs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closeLog, err := prepare(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			enc := json.NewEncoder(cmd.OutOrStdout())

			return runInputs(cmd.Context(), cfg, logger, args, cmd.InOrStdin(), func(name string, r io.Reader) error {
				collector := message.NewCollector()
				collector.MaxBodySize = cfg.MaxBody
				_, parseErr := parse(cmd.Context(), cfg, logger, name, r, collector)

				for _, msg := range collector.Messages {
					if err := enc.Encode(newMessageRecord(name, msg)); err != nil {
						return err
					}
				}

				return parseErr
			})
		},
	}

	cmd.Flags().Int("max-body", 0, "fail on bodies larger than this (0 means no limit)")

	return cmd
}
