package ledger

import (
	"io"
	"log/slog"
	"time"
)

// DefaultGenesisMessage is the message carried by the genesis payload.
const DefaultGenesisMessage = "Genesis block - start of the supply chain"

type settings struct {
	now            func() time.Time
	log            *slog.Logger
	genesisMessage string
}

func defaultSettings() settings {
	return settings{
		now:            time.Now,
		log:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		genesisMessage: DefaultGenesisMessage,
	}
}

// withDefaults fills in the fields left unset, as in a zero-value Blockchain.
func (s settings) withDefaults() settings {
	defaults := defaultSettings()
	if s.now == nil {
		s.now = defaults.now
	}
	if s.log == nil {
		s.log = defaults.log
	}
	if s.genesisMessage == "" {
		s.genesisMessage = defaults.genesisMessage
	}
	return s
}

type option func(settings) settings

// WithClock replaces the source of block timestamps. A nil clock is ignored.
func WithClock(now func() time.Time) option {
	return func(s settings) settings {
		if now != nil {
			s.now = now
		}
		return s
	}
}

// WithLogger sets the logger used to report appends and integrity faults. A
// nil logger is ignored.
func WithLogger(log *slog.Logger) option {
	return func(s settings) settings {
		if log != nil {
			s.log = log
		}
		return s
	}
}

// WithGenesisMessage overrides the message stored in the genesis block. An
// empty message keeps the default.
func WithGenesisMessage(message string) option {
	return func(s settings) settings {
		if message != "" {
			s.genesisMessage = message
		}
		return s
	}
}
