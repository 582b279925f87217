package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bft-labs/tplmigrate/internal/adapters/prompt"
	"github.com/bft-labs/tplmigrate/internal/domain"
	"github.com/bft-labs/tplmigrate/pkg/tplmigrate"
)

func (c *cli) pushCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Replay cleaned templates as addTemplateId transactions",
		Long: "Replay cleaned templates as addTemplateId transactions.\n\n" +
			"Without --confirm every call is only printed. With --confirm each item is\n" +
			"simulated, sent and awaited before the next one starts.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.prepare(cmd); err != nil {
				return err
			}
			return c.runPush()
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&c.cfg.RPC, "rpc", c.cfg.RPC, "JSON-RPC endpoint of the target chain")
	fl.StringVar(&c.cfg.Address, "address", c.cfg.Address, "target contract address")
	fl.StringVar(&c.cfg.Input, "input", c.cfg.Input, "cleaned templates file")
	fl.StringVar(&c.cfg.Start, "start", c.cfg.Start, "only push indexes >= start")
	fl.StringVar(&c.cfg.End, "end", c.cfg.End, "only push indexes <= end")

	fl.BoolVar(&c.cfg.Confirm, "confirm", false, "send transactions (default is a dry run)")
	fl.BoolVar(&c.cfg.Yes, "yes", false, "skip the interactive confirmation of a live run")
	fl.BoolVar(&c.cfg.Continue, "continue", c.cfg.Continue, "keep going after an item fails")

	fl.StringVar(&c.cfg.Key, "key", c.cfg.Key, "hex private key")
	fl.StringVar(&c.cfg.Keyfile, "keyfile", c.cfg.Keyfile, "encrypted JSON keystore file")
	fl.StringVar(&c.cfg.Password, "password", c.cfg.Password, "keystore passphrase (prompted when omitted on a terminal)")

	fl.Uint64Var(&c.cfg.GasLimit, "gas-limit", c.cfg.GasLimit, "gas limit per transaction (default: estimated)")
	fl.StringVar(&c.cfg.GasPrice, "gas-price", c.cfg.GasPrice, "legacy gas price in gwei")
	fl.StringVar(&c.cfg.MaxFeePerGas, "max-fee-per-gas", c.cfg.MaxFeePerGas, "EIP-1559 fee cap in gwei")
	fl.StringVar(&c.cfg.MaxPriorityFeePerGas, "max-priority-fee-per-gas", c.cfg.MaxPriorityFeePerGas, "EIP-1559 tip cap in gwei")

	fl.Uint64Var(&c.cfg.WaitConf, "wait-conf", c.cfg.WaitConf, "confirmations to wait for per transaction")
	fl.DurationVar(&c.cfg.Delay, "delay", c.cfg.Delay, "pause after each confirmed transaction")
	fl.IntVar(&c.cfg.SimRetries, "sim-retries", c.cfg.SimRetries, "retries of a simulation that failed on a transient RPC error")
	fl.DurationVar(&c.cfg.Timeout, "timeout", c.cfg.Timeout, "per-request RPC timeout")
	return cmd
}

func (c *cli) runPush() error {
	settings, err := c.cfg.ValidatePush()
	if err != nil {
		return err
	}
	c.logConfig()

	if c.cfg.Key == "" && c.cfg.Keyfile != "" && c.cfg.Password == "" && prompt.Interactive() {
		pass, err := prompt.Passphrase(c.cfg.Keyfile)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrCredential, err)
		}
		c.cfg.Password = pass
	}

	cred, err := tplmigrate.SelectCredential(c.cfg.Key, c.cfg.Keyfile, c.cfg.Password)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := c.migrator(tplmigrate.WithApprover(c.approveLive))
	summary, err := m.Push(ctx, tplmigrate.PushConfig{
		RPC:        c.cfg.RPC,
		Address:    c.cfg.Address,
		Input:      c.cfg.Input,
		Credential: cred,
		Policy:     settings.Pusher,
		Overrides:  settings.Overrides,

		CallTimeout: c.cfg.Timeout,
	})
	c.log.Info().
		Int("sent", summary.SentCount).
		Uints64("failed", summary.FailedIndexes).
		Msg("summary")
	return err
}

func (c *cli) approveLive(signer, target string, selected []tplmigrate.CleanItem) error {
	if c.cfg.Yes {
		return nil
	}
	if !prompt.Interactive() {
		return fmt.Errorf("%w: live run needs --yes when not attached to a terminal", domain.ErrConfiguration)
	}
	ok, err := prompt.ConfirmLive(signer, target, len(selected))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAborted, err)
	}
	if !ok {
		return fmt.Errorf("%w: live run declined", domain.ErrAborted)
	}
	return nil
}
