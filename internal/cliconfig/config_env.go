package cliconfig

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/bft-labs/tplmigrate/internal/domain"
)

// DefaultEnvFile is loaded when present in the working directory.
const DefaultEnvFile = ".env"

// LoadEnvFile loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error unless required is true.
func LoadEnvFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	if !FileExists(path) {
		if required {
			return fmt.Errorf("%w: env file not found: %s", domain.ErrIO, path)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w: load env file %s: %w", domain.ErrConfiguration, path, err)
	}
	return nil
}

// ApplyEnvConfig applies configuration from environment variables (TPLMIGRATE_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	return applyEnv(cfg, changed, os.Getenv)
}

func applyEnv(cfg *Config, changed map[string]bool, getenv func(string) string) error {
	s := newConfigSetter(changed)

	s.setString("rpc", getenv("TPLMIGRATE_RPC"), &cfg.RPC)
	s.setString("address", getenv("TPLMIGRATE_ADDRESS"), &cfg.Address)
	s.setString("input", getenv("TPLMIGRATE_INPUT"), &cfg.Input)
	s.setString("out", getenv("TPLMIGRATE_OUT"), &cfg.Output)
	s.setString("start", getenv("TPLMIGRATE_START"), &cfg.Start)
	s.setString("end", getenv("TPLMIGRATE_END"), &cfg.End)
	s.setString("key", getenv("TPLMIGRATE_KEY"), &cfg.Key)
	s.setString("keyfile", getenv("TPLMIGRATE_KEYFILE"), &cfg.Keyfile)
	s.setString("password", getenv("TPLMIGRATE_PASSWORD"), &cfg.Password)
	s.setString("gas-price", getenv("TPLMIGRATE_GAS_PRICE"), &cfg.GasPrice)
	s.setString("max-fee-per-gas", getenv("TPLMIGRATE_MAX_FEE_PER_GAS"), &cfg.MaxFeePerGas)
	s.setString("max-priority-fee-per-gas", getenv("TPLMIGRATE_MAX_PRIORITY_FEE_PER_GAS"), &cfg.MaxPriorityFeePerGas)
	s.setString("log-level", getenv("TPLMIGRATE_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("timeout", getenv("TPLMIGRATE_TIMEOUT"), &cfg.Timeout); err != nil {
		return err
	}
	if err := s.setDuration("delay", getenv("TPLMIGRATE_DELAY"), &cfg.Delay); err != nil {
		return err
	}

	if err := s.setIntFromString("batch", getenv("TPLMIGRATE_BATCH"), &cfg.Batch); err != nil {
		return err
	}
	if err := s.setIntFromString("sim-retries", getenv("TPLMIGRATE_SIM_RETRIES"), &cfg.SimRetries); err != nil {
		return err
	}
	if err := s.setUint64FromString("gas-limit", getenv("TPLMIGRATE_GAS_LIMIT"), &cfg.GasLimit); err != nil {
		return err
	}
	if err := s.setUint64FromString("wait-conf", getenv("TPLMIGRATE_WAIT_CONF"), &cfg.WaitConf); err != nil {
		return err
	}

	s.setBoolFromString("continue", getenv("TPLMIGRATE_CONTINUE"), &cfg.Continue)

	return nil
}
