package cmd

import (
	"os"
	"time"

	"github.com/encodeous/weft/core"
	"github.com/encodeous/weft/state"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	host    string
	timeout time.Duration
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weft",
	Short: "Weft Link-State Network Diagnostics CLI",
	Long: `Weft inspects a distributed link-state routed network from the outside.
It traces the data-plane path packets would take between two endpoints, and
cross-checks independently maintained copies of the link-state database
against each other.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "diag",
		Title: "Diagnostics",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "show",
		Title: "Database Inspection",
	})
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", state.DefaultConfigPath, "path to the weft config file")
	rootCmd.PersistentFlags().StringVarP(&host, "host", "H", "", "routing daemon host, overrides the config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "remote query timeout, overrides the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// setup builds the environment and service client shared by every
// subcommand. Flags beat config file values.
func setup() (*state.Env, state.RoutingClient, error) {
	env, err := core.Bootstrap(cfgPath, verbose, func(cfg *state.Cfg) {
		if host != "" {
			cfg.Host = host
		}
		if timeout != 0 {
			cfg.Timeout = timeout
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return env, core.NewClient(env.Cfg), nil
}
