package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/bft-labs/tplmigrate/internal/adapters/log"
	"github.com/bft-labs/tplmigrate/internal/cliconfig"
	"github.com/bft-labs/tplmigrate/pkg/tplmigrate"
)

const longHelp = `
Copy the template table of one deployed contract into another.

Stages:
  fetch  read template(uint256) for an index range into a JSON file
  clean  reduce the fetched file to the addTemplateId schema
  push   replay the cleaned file as addTemplateId transactions

push is a dry run unless --confirm is given. Configure via file, env
(TPLMIGRATE_*, .env), or flags.
`

var exampleUsage = strings.TrimSpace(`
  tplmigrate fetch --rpc https://old.node --address 0xOld --start 0 --end 199
  tplmigrate clean --input templates.json
  tplmigrate push --rpc https://new.node --address 0xNew --input templates.cleaned.json --keyfile wallet.json
  tplmigrate push --rpc https://new.node --address 0xNew --input templates.cleaned.json --key $KEY --confirm --continue
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli holds the state shared by every subcommand of one invocation.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	envFile string

	log    zerolog.Logger
	logger *logAdapter.ZerologAdapter
}

func main() {
	c := &cli{cfg: cliconfig.DefaultConfig()}
	c.log, _ = cliconfig.NewLogger(os.Stderr, c.cfg.LogLevel)

	root := &cobra.Command{
		Use:           "tplmigrate",
		Short:         "Migrate contract templates between deployments",
		Long:          strings.TrimSpace(longHelp),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.tplmigrate/config.toml)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", cliconfig.DefaultEnvFile, "env file loaded before reading TPLMIGRATE_* variables")
	root.PersistentFlags().StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(c.fetchCommand(), c.cleanCommand(), c.pushCommand())

	if err := root.Execute(); err != nil {
		c.log.Error().Err(err).Msg("tplmigrate")
		os.Exit(1)
	}
}

// prepare layers the env file, config file and environment under the flags
// explicitly set on cmd, then builds the run logger.
func (c *cli) prepare(cmd *cobra.Command) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if err := cliconfig.LoadEnvFile(c.envFile, changed["env-file"]); err != nil {
		return err
	}

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if changed["config"] || (cfgFile != "" && cliconfig.FileExists(cfgFile)) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	// Environment overrides the file but not explicit flags.
	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}

	log, err := cliconfig.NewLogger(os.Stderr, c.cfg.LogLevel)
	if err != nil {
		return err
	}
	c.log = log.With().
		Str("run_id", uuid.NewString()).
		Str("command", cmd.Name()).
		Logger()
	c.logger = logAdapter.NewZerologAdapter(c.log)
	return nil
}

func (c *cli) migrator(opts ...tplmigrate.Option) *tplmigrate.Migrator {
	return tplmigrate.New(append([]tplmigrate.Option{tplmigrate.WithLogger(c.logger)}, opts...)...)
}

func (c *cli) logConfig() {
	c.log.Debug().Interface("config", c.cfg.Masked()).Msg("configuration")
}
