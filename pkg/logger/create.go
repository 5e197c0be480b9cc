package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

const (
	EnableTerminalLog  = false
	DisableTerminalLog = true

	VerboseFlag = "verbose"
)

// CreateLoggerFromContext builds the bootstrap logger used before the
// configured run logger exists.
func CreateLoggerFromContext(c *cli.Context, disableTerminal bool) *zerolog.Logger {
	level := zerolog.InfoLevel
	if c != nil && c.Bool(VerboseFlag) {
		level = zerolog.DebugLevel
	}
	if disableTerminal {
		l := zerolog.Nop()
		return &l
	}
	return createLogger(os.Stderr, level)
}

func createLogger(out *os.File, level zerolog.Level) *zerolog.Logger {
	var w io.Writer = out
	if term.IsTerminal(int(out.Fd())) {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(w).With().Timestamp().Logger().Level(level)
	return &l
}
