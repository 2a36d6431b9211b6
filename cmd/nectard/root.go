package main

import (
	"fmt"
	"os"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nectar-dex/nectar/api"
	"github.com/nectar-dex/nectar/x/amm/keeper"
	"github.com/nectar-dex/nectar/x/amm/types"
	"github.com/nectar-dex/nectar/x/ledger"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

// NewRootCmd creates the root command for nectard.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "nectard",
		Short: "Nectar liquidity pool engine",
		Long: `Nectar runs a constant-product liquidity pool engine with an HTTP API:
pool registration, proportional share accounting, fee-bearing swaps and
reserve synchronization against its balance ledgers.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v, cmd.Flags())
		},
	}

	rootCmd.PersistentFlags().String("config", "", "path to config file (TOML/YAML/JSON)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")

	rootCmd.AddCommand(
		newStartCmd(v),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig binds flags, NECTAR_* environment variables and an optional
// config file into one viper instance, in ascending precedence.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	v.SetEnvPrefix("NECTAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}
	return nil
}

func newLogger(v *viper.Viper) log.Logger {
	level, err := zerolog.ParseLevel(v.GetString("log-level"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return log.NewLogger(os.Stderr, log.LevelOption(level))
}

func newStartCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the pool engine and its HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(v)

			bank := ledger.New()
			native := ledger.New()
			k := keeper.NewKeeper(logger, bank,
				ledger.NativeAdapter{L: native, Denom: types.NativeDenom})

			if v.GetBool("seed-demo") {
				if err := seedDemoState(logger, k, bank, native); err != nil {
					return fmt.Errorf("seed demo state: %w", err)
				}
			}

			server := api.NewServer(logger, k, api.LoadConfig(v))
			return server.Start()
		},
	}
	cmd.Flags().Bool("seed-demo", false, "seed demo pools and funded accounts")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the nectard version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
