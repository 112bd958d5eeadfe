package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root zerolog logger. Debug level in dev, info otherwise.
func New(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	l := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if env == "development" || env == "dev" {
		l = l.Level(zerolog.DebugLevel)
	} else {
		l = l.Level(zerolog.InfoLevel)
	}
	return l
}

// Named wraps a zerolog logger behind the message + key/value pairs
// interface the auth and api packages expect at construction.
func Named(l zerolog.Logger, name string) *Adapter {
	return &Adapter{l: l.With().Str("component", name).Logger()}
}

// Adapter satisfies the Logger interface used across internal packages.
type Adapter struct {
	l zerolog.Logger
}

func (a *Adapter) Debug(msg string, args ...any) { emit(a.l.Debug(), msg, args) }
func (a *Adapter) Info(msg string, args ...any)  { emit(a.l.Info(), msg, args) }
func (a *Adapter) Warn(msg string, args ...any)  { emit(a.l.Warn(), msg, args) }
func (a *Adapter) Error(msg string, args ...any) { emit(a.l.Error(), msg, args) }

func emit(ev *zerolog.Event, msg string, args []any) {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		switch val := args[i+1].(type) {
		case error:
			ev = ev.AnErr(key, val)
		case string:
			ev = ev.Str(key, val)
		case int:
			ev = ev.Int(key, val)
		case bool:
			ev = ev.Bool(key, val)
		default:
			ev = ev.Interface(key, val)
		}
	}
	ev.Msg(msg)
}
