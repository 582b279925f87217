package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/tplmigrate/internal/domain"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
// Live mode is deliberately absent: it can only be enabled on the command line.
type FileConfig struct {
	RPC                  string `toml:"rpc"`
	Address              string `toml:"address"`
	Input                string `toml:"input"`
	Output               string `toml:"out"`
	Start                string `toml:"start"`
	End                  string `toml:"end"`
	Batch                int    `toml:"batch"`
	Timeout              string `toml:"timeout"`
	Continue             *bool  `toml:"continue"`
	Keyfile              string `toml:"keyfile"`
	GasLimit             uint64 `toml:"gas_limit"`
	GasPrice             string `toml:"gas_price"`
	MaxFeePerGas         string `toml:"max_fee_per_gas"`
	MaxPriorityFeePerGas string `toml:"max_priority_fee_per_gas"`
	WaitConf             uint64 `toml:"wait_conf"`
	Delay                string `toml:"delay"`
	SimRetries           int    `toml:"sim_retries"`
	LogLevel             string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("%w: read config %s: %w", domain.ErrIO, path, err)
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("%w: parse config %s: %w", domain.ErrConfiguration, path, err)
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.tplmigrate/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".tplmigrate", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("rpc", fc.RPC, &cfg.RPC)
	s.setString("address", fc.Address, &cfg.Address)
	s.setString("input", fc.Input, &cfg.Input)
	s.setString("out", fc.Output, &cfg.Output)
	s.setString("start", fc.Start, &cfg.Start)
	s.setString("end", fc.End, &cfg.End)
	s.setString("keyfile", fc.Keyfile, &cfg.Keyfile)
	s.setString("gas-price", fc.GasPrice, &cfg.GasPrice)
	s.setString("max-fee-per-gas", fc.MaxFeePerGas, &cfg.MaxFeePerGas)
	s.setString("max-priority-fee-per-gas", fc.MaxPriorityFeePerGas, &cfg.MaxPriorityFeePerGas)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("timeout", fc.Timeout, &cfg.Timeout); err != nil {
		return err
	}
	if err := s.setDuration("delay", fc.Delay, &cfg.Delay); err != nil {
		return err
	}

	s.setInt("batch", fc.Batch, &cfg.Batch)
	s.setInt("sim-retries", fc.SimRetries, &cfg.SimRetries)
	s.setUint64("gas-limit", fc.GasLimit, &cfg.GasLimit)
	s.setUint64("wait-conf", fc.WaitConf, &cfg.WaitConf)

	s.setBool("continue", fc.Continue, &cfg.Continue)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
