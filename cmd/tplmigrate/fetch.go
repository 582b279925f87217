package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bft-labs/tplmigrate/internal/cliconfig"
	"github.com/bft-labs/tplmigrate/pkg/tplmigrate"
)

func (c *cli) fetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Read templates from the source contract into a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.prepare(cmd); err != nil {
				return err
			}
			r, err := c.cfg.ValidateFetch()
			if err != nil {
				return err
			}
			c.logConfig()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, err = c.migrator().Fetch(ctx, tplmigrate.FetchConfig{
				RPC:         c.cfg.RPC,
				Address:     c.cfg.Address,
				Range:       r,
				Output:      c.cfg.Output,
				BatchSize:   c.cfg.Batch,
				CallTimeout: c.cfg.Timeout,
			})
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&c.cfg.RPC, "rpc", c.cfg.RPC, "JSON-RPC endpoint of the source chain")
	fl.StringVar(&c.cfg.Address, "address", c.cfg.Address, "source contract address")
	fl.StringVar(&c.cfg.Start, "start", c.cfg.Start, "first template index (inclusive)")
	fl.StringVar(&c.cfg.End, "end", c.cfg.End, "last template index (inclusive)")
	fl.StringVar(&c.cfg.Output, "out", "", "output file (default: "+cliconfig.DefaultFetchOutput+")")
	fl.IntVar(&c.cfg.Batch, "batch", c.cfg.Batch, "concurrent reads per chunk")
	fl.DurationVar(&c.cfg.Timeout, "timeout", c.cfg.Timeout, "per-call RPC timeout")
	return cmd
}
