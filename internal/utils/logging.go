package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Log formats accepted by NewLogger.
const (
	LogFormatAuto = "auto"
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// NewLogger builds a slog logger writing to w. The "auto" format picks the
// text handler when w is a terminal and JSON otherwise.
func NewLogger(w io.Writer, format string, level slog.Leveler) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}

	if format == LogFormatAuto {
		format = LogFormatJSON
		if isTerminal(w) {
			format = LogFormatText
		}
	}

	switch format {
	case LogFormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q: must be %s, %s or %s", format, LogFormatAuto, LogFormatText, LogFormatJSON)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
