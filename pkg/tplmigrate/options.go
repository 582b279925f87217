package tplmigrate

import (
	"time"

	"github.com/bft-labs/tplmigrate/internal/ports"
)

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// Approver decides whether a live push may start. signer and target are
// checksummed hex addresses.
type Approver func(signer, target string, selected []CleanItem) error

// Option configures optional behavior of a Migrator.
type Option func(*options)

type options struct {
	logger           Logger
	approver         Approver
	confirmationPoll time.Duration
}

func defaultOptions() options {
	return options{
		logger: noopLogger{},
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithApprover gates live pushes. It is not consulted for dry runs.
func WithApprover(approve Approver) Option {
	return func(o *options) {
		o.approver = approve
	}
}

// WithConfirmationPoll sets how often the chain head is polled while waiting
// for confirmations beyond the first.
func WithConfirmationPoll(d time.Duration) Option {
	return func(o *options) {
		o.confirmationPoll = d
	}
}

// noopLogger discards all log messages.
type noopLogger struct{}

func (noopLogger) Debug(msg string, fields ...ports.Field) {}
func (noopLogger) Info(msg string, fields ...ports.Field)  {}
func (noopLogger) Warn(msg string, fields ...ports.Field)  {}
func (noopLogger) Error(msg string, fields ...ports.Field) {}
