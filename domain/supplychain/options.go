package supplychain

import (
	"io"
	"log/slog"
	"time"
)

type settings struct {
	now func() time.Time
	log *slog.Logger
}

type option func(settings) settings

// WithClock replaces the source of history timestamps. A nil clock is ignored.
func WithClock(now func() time.Time) option {
	return func(s settings) settings {
		if now != nil {
			s.now = now
		}
		return s
	}
}

// WithLogger sets the logger used to report registrations and transitions. A
// nil logger is ignored.
func WithLogger(log *slog.Logger) option {
	return func(s settings) settings {
		if log != nil {
			s.log = log
		}
		return s
	}
}

func defaultSettings() settings {
	return settings{
		now: time.Now,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
