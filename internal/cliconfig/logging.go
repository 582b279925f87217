package cliconfig

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/tplmigrate/internal/domain"
)

// NewLogger returns a console logger writing to out at the given level.
func NewLogger(out io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("%w: --log-level: %w", domain.ErrConfiguration, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger(), nil
}
