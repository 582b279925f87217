package cliconfig

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bft-labs/tplmigrate/internal/adapters/evm"
	"github.com/bft-labs/tplmigrate/internal/app"
	"github.com/bft-labs/tplmigrate/internal/domain"
)

// Default interchange file names.
const (
	DefaultFetchOutput = "templates.json"
	DefaultCleanOutput = "templates.cleaned.json"
)

// Config holds CLI configuration for every tplmigrate command.
type Config struct {
	RPC     string
	Address string
	Input   string
	Output  string

	// Start and End stay textual so a missing bound can be told apart from zero.
	Start string
	End   string

	Batch   int
	Timeout time.Duration

	Confirm  bool
	Yes      bool
	Continue bool

	Key      string
	Keyfile  string
	Password string

	GasLimit             uint64
	GasPrice             string
	MaxFeePerGas         string
	MaxPriorityFeePerGas string

	WaitConf   uint64
	Delay      time.Duration
	SimRetries int

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Batch:    app.DefaultBatchSize,
		Timeout:  app.DefaultCallTimeout,
		WaitConf: app.DefaultConfirmations,
		LogLevel: "info",
	}
}

// Masked returns a copy safe to log.
func (c Config) Masked() Config {
	if c.Key != "" {
		c.Key = "*****"
	}
	if c.Password != "" {
		c.Password = "*****"
	}
	return c
}

// ValidateFetch checks the fetch flags and returns the index range to read.
func (c *Config) ValidateFetch() (domain.Range, error) {
	if err := c.requireEndpoint(); err != nil {
		return domain.Range{}, err
	}
	r, err := domain.ParseRange(c.Start, c.End)
	if err != nil {
		return domain.Range{}, err
	}
	if c.Batch < 1 {
		c.Batch = 1
	}
	if c.Timeout < 0 {
		return domain.Range{}, fmt.Errorf("%w: timeout must not be negative", domain.ErrConfiguration)
	}
	if c.Output == "" {
		c.Output = DefaultFetchOutput
	}
	return r, nil
}

// ValidateClean checks the clean flags.
func (c *Config) ValidateClean() error {
	if c.Input == "" {
		return fmt.Errorf("%w: --input is required", domain.ErrConfiguration)
	}
	if c.Output == "" {
		c.Output = DefaultCleanOutput
	}
	return nil
}

// PushSettings are the validated, typed values of the push flags.
type PushSettings struct {
	Pusher    app.PusherConfig
	Overrides evm.Overrides
}

// ValidatePush checks the push flags. Credentials are resolved separately.
func (c *Config) ValidatePush() (PushSettings, error) {
	var ps PushSettings
	if err := c.requireEndpoint(); err != nil {
		return ps, err
	}
	if c.Input == "" {
		return ps, fmt.Errorf("%w: --input is required", domain.ErrConfiguration)
	}

	filter, err := domain.ParseIndexFilter(c.Start, c.End)
	if err != nil {
		return ps, err
	}
	if c.WaitConf < 1 {
		return ps, fmt.Errorf("%w: --wait-conf must be at least 1", domain.ErrConfiguration)
	}
	if c.Delay < 0 {
		return ps, fmt.Errorf("%w: --delay must not be negative", domain.ErrConfiguration)
	}
	if c.SimRetries < 0 {
		return ps, fmt.Errorf("%w: --sim-retries must not be negative", domain.ErrConfiguration)
	}
	if c.Timeout < 0 {
		return ps, fmt.Errorf("%w: --timeout must not be negative", domain.ErrConfiguration)
	}

	o := evm.Overrides{GasLimit: c.GasLimit}
	if o.GasPrice, err = parseGwei("gas-price", c.GasPrice); err != nil {
		return ps, err
	}
	if o.MaxFeePerGas, err = parseGwei("max-fee-per-gas", c.MaxFeePerGas); err != nil {
		return ps, err
	}
	if o.MaxPriorityFeePerGas, err = parseGwei("max-priority-fee-per-gas", c.MaxPriorityFeePerGas); err != nil {
		return ps, err
	}
	if err := o.Validate(); err != nil {
		return ps, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	ps.Overrides = o
	ps.Pusher = app.PusherConfig{
		Filter:            filter,
		Live:              c.Confirm,
		ContinueOnError:   c.Continue,
		Delay:             c.Delay,
		Confirmations:     c.WaitConf,
		SimulationRetries: c.SimRetries,
	}
	return ps, nil
}

func (c *Config) requireEndpoint() error {
	if strings.TrimSpace(c.RPC) == "" {
		return fmt.Errorf("%w: --rpc is required", domain.ErrConfiguration)
	}
	if c.Address == "" {
		return fmt.Errorf("%w: --address is required", domain.ErrConfiguration)
	}
	if !common.IsHexAddress(c.Address) {
		return fmt.Errorf("%w: --address %q is not a hex address", domain.ErrConfiguration, c.Address)
	}
	return nil
}

func parseGwei(flag, v string) (*big.Int, error) {
	wei, err := evm.ParseGwei(v)
	if err != nil {
		return nil, fmt.Errorf("%w: --%s: %w", domain.ErrConfiguration, flag, err)
	}
	return wei, nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setUint64 sets a uint64 value if positive and flag not changed.
func (s *configSetter) setUint64(flag string, value uint64, dst *uint64) {
	if value == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: parse %s: %w", domain.ErrConfiguration, flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: parse %s: %w", domain.ErrConfiguration, flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setUint64FromString parses a string to uint64 and sets the destination if valid.
func (s *configSetter) setUint64FromString(flag, value string, dst *uint64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: parse %s: %w", domain.ErrConfiguration, flag, err)
	}
	s.setUint64(flag, u, dst)
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
