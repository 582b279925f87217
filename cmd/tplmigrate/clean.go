package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bft-labs/tplmigrate/internal/cliconfig"
)

func (c *cli) cleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Reduce a fetched file to the push schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.prepare(cmd); err != nil {
				return err
			}
			if err := c.cfg.ValidateClean(); err != nil {
				return err
			}
			c.logConfig()

			_, err := c.migrator().Clean(context.Background(), c.cfg.Input, c.cfg.Output)
			return err
		},
	}

	cmd.Flags().StringVar(&c.cfg.Input, "input", c.cfg.Input, "fetched templates file")
	cmd.Flags().StringVar(&c.cfg.Output, "out", "", "output file (default: "+cliconfig.DefaultCleanOutput+")")
	return cmd
}
