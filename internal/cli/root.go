// Package cli implements the muncher command line tool using cobra.
package cli

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ErrParseFailed is returned when at least one of the inputs is malformed
var ErrParseFailed = errors.New("some inputs failed to parse")

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "muncher",
		Short: "muncher - incremental HTTP/1.x parser",
		Long: `muncher reads raw HTTP/1.x messages from files or stdin and parses them
incrementally, by chunks of a fixed size. Every parsed element, or every
assembled message, is printed as a JSON line.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file path")
	flags.StringP("mode", "m", "request", "kind of messages: request, response or both")
	flags.IntP("chunk", "n", 0, "feed the parser by chunks of this size (0 means the default read size)")
	flags.Bool("pipelining", false, "parse consecutive messages of a persistent connection")
	flags.String("log-level", "info", "log level: trace, debug, info, warn or error")
	flags.String("log-file", "", "duplicate logs into a rotated file")

	root.AddCommand(newEventsCommand(), newMessageCommand())

	return root
}

// Execute runs the command line tool with os.Args
func Execute() error {
	return NewRootCommand().Execute()
}

// prepare loads the configuration and the logger for a subcommand. The returned func
// releases the logger
func prepare(cmd *cobra.Command) (Config, *logrus.Logger, func() error, error) {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return Config{}, nil, nil, err
	}

	logger, closeLog, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return Config{}, nil, nil, err
	}

	return cfg, logger, closeLog, nil
}
