// Package logging builds the logfmt loggers used by the command line tools
// and the sweep runner.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New returns a leveled logfmt logger writing to w. lvl is one of debug,
// info, warn, error or none.
func New(w io.Writer, lvl string) (log.Logger, error) {
	opt, err := allow(lvl)
	if err != nil {
		return nil, err
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(logger, opt), nil
}

// NewNop discards everything.
func NewNop() log.Logger {
	return log.NewNopLogger()
}

func allow(lvl string) (level.Option, error) {
	switch strings.ToLower(lvl) {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	case "none", "off":
		return level.AllowNone(), nil
	}
	return nil, fmt.Errorf("unknown log level %q", lvl)
}
