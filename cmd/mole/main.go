// mole is a terminal whack-a-mole game: click the mole as often as you can
// before the 60 second clock runs out.
//
// Usage:
//
//	mole                     - Play (same as "mole play")
//	mole play                - Play in the terminal (mouse required)
//	mole simulate            - Run a headless session with a scripted player
//	mole config              - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Custom config YAML
//	--seed <value>      - RNG seed for mole placement
//	--log-file <path>   - Write logs to a file
//	--log-level <lvl>   - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mole",
	Short: "Whack-a-mole in your terminal",
	Long: `Whack-a-mole in your terminal.

A mole pops up at random places and moves on its own every 0.7 seconds.
Click it to score a point; it jumps somewhere else right away.
The session ends after 60 seconds.

Examples:
  mole
  mole play --seed 42
  mole simulate --speed 20
  mole config > ~/.mole/configs/mole.yaml`,
	Args:          cobra.NoArgs,
	RunE:          runPlay,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(configCmd)
}
