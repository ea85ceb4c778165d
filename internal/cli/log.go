// Package cli implements the pkgcheck command-line interface.
//
// This package wires the analysis pipeline to cobra commands: running the
// analysis, validating its inputs, printing the stored problem report,
// querying the dependents of a package and rendering its dependency
// subgraph. Configuration comes from [config] and is overridable with
// persistent flags.
//
// # Commands
//
// The main commands are:
//   - data run: Ingest the catalogs and components, detect problems, persist both artifacts
//   - data update-assets: Check that every configured input is readable
//   - print-problems: Print the problem report of the last run
//   - check-fmri: List the components depending on a package
//   - graph dot: Write the dependents subgraph of a package as DOT or SVG
//   - config init: Write the default configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// [config]: github.com/matzehuels/pkgcheck/pkg/config
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the command logger. Timestamps are "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress reports the elapsed time of one long-running command.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time and any extra key/value pairs, e.g.
// "Analysis complete elapsed=1.234s problems=12".
func (p *progress) done(msg string, keyvals ...any) {
	kv := append([]any{"elapsed", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, kv...)
}

// fail logs that the command stopped at err after the elapsed time.
func (p *progress) fail(err error) {
	p.logger.Debug("failed", "elapsed", time.Since(p.start).Round(time.Millisecond), "err", err)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
