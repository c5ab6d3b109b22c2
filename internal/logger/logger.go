package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ctxKey string

const RequestIDKey ctxKey = "requestId"

// SlowThreshold marks tracked operations that took suspiciously long.
const SlowThreshold = 2 * time.Second

// Options controls where and how verbosely the standard logrus logger writes.
type Options struct {
	Level string
	Debug bool
	File  string
	// Quiet discards output when no file is given, for the alt-screen TUI.
	Quiet bool
}

// Setup configures the standard logrus logger. The returned closer releases
// the log file, if one was opened.
func Setup(opts Options) (io.Closer, error) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
		DisableColors:   opts.File != "",
	})

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if opts.Debug {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logrus.SetOutput(f)
		return f, nil
	case opts.Quiet:
		logrus.SetOutput(io.Discard)
	default:
		logrus.SetOutput(os.Stderr)
	}
	return nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func For(ctx context.Context) *logrus.Entry {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logrus.WithField("request_id", id)
}

func ContextWithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// WithNewID tags ctx with a fresh request id.
func WithNewID(ctx context.Context) context.Context {
	return ContextWithID(ctx, uuid.NewString())
}

func Track(ctx context.Context, msg string) func() {
	start := time.Now()
	return func() {
		dur := time.Since(start)
		entry := For(ctx).WithField("duration", dur.String())

		if dur > SlowThreshold {
			entry.Warnf("%s completed (SLOW)", msg)
		} else {
			entry.Debugf("%s completed", msg)
		}
	}
}
