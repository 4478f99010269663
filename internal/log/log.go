package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// NewHandler returns a slog handler that writes prefixed, human readable
// lines to stderr.
func NewHandler(name string) slog.Handler {
	return NewHandlerWithWriter(os.Stderr, name, log.InfoLevel)
}

// NewHandlerWithWriter is NewHandler with an explicit destination and level.
func NewHandlerWithWriter(w io.Writer, name string, level log.Level) slog.Handler {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          name,
		Level:           level,
	})
}

func New(name string) *slog.Logger {
	return slog.New(NewHandler(name))
}

// NewWithLevel builds a logger from a textual level such as "debug" or "warn".
// Unknown levels fall back to info.
func NewWithLevel(name, level string) *slog.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	return slog.New(NewHandlerWithWriter(os.Stderr, name, lvl))
}

func NewContext(ctx context.Context, name string) context.Context {
	return IntoContext(ctx, New(name))
}

type ctxKey struct{}

// IntoContext adds a logger to a context. Use FromContext to
// pull the logger out.
func IntoContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns a logger from a context.Context;
// if the passed context is nil, we return the default slog
// logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		v := ctx.Value(ctxKey{})
		if v == nil {
			return slog.Default()
		}
		return v.(*slog.Logger)
	}

	return slog.Default()
}

// SubLogger derives a new logger from an existing one by appending a suffix to its prefix.
func SubLogger(base *slog.Logger, suffix string) *slog.Logger {
	if cl, ok := base.Handler().(*log.Logger); ok {
		prefix := cl.GetPrefix()
		if prefix != "" {
			prefix = prefix + "/" + suffix
		} else {
			prefix = suffix
		}
		return slog.New(cl.WithPrefix(prefix))
	}

	return slog.New(NewHandler(suffix))
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *slog.Logger {
	return slog.New(NewHandlerWithWriter(io.Discard, "", log.FatalLevel))
}
