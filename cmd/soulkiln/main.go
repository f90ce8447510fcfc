// Package main implements the soulkiln CLI — the command surface of the
// alignment engine.
//
// Command implementations are split across cmd_*.go files:
//
//   - main.go       - entry point, rootCmd, global flags, exit-code mapping
//   - engine.go     - engine wiring, store hydration and persistence
//   - cmd_init.go   - initCmd, resetCmd
//   - cmd_status.go - statusCmd, healthCmd, warningsCmd
//   - cmd_agent.go  - spawnCmd, testCmd, spreadCmd, dissolveCmd
//   - cmd_kiln.go   - kilnCmd (batch loop and --daemon cron mode)
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags.
	flagConfig    string
	flagStoreAddr string
	flagGraphName string
	flagSeed      int64
	flagVerbose   bool
)

// exitError carries a specific process exit code through RunE. Fatal
// conditions only — evaluation failures are normal outputs.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "soulkiln",
	Short: "Soul Kiln — agent moral alignment as a dynamical system on a labeled property graph",
	Long: `Soul Kiln models agent alignment as activation dynamics over a graph of
19 fixed virtue anchors. Candidate agents are weighted edge topologies;
an evolutionary loop selects topologies whose trajectories reliably
capture into a well-distributed set of virtues.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to TOML engine configuration (defaults built in)")
	rootCmd.PersistentFlags().StringVar(&flagStoreAddr, "store-addr", "localhost:6379", "FalkorDB address (host:port)")
	rootCmd.PersistentFlags().StringVar(&flagGraphName, "graph", "soulkiln", "graph name inside the store")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 1, "RNG seed for spawn/kiln variation")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug-level logging")

	rootCmd.AddCommand(initCmd, resetCmd, statusCmd, healthCmd,
		spawnCmd, testCmd, spreadCmd, kilnCmd, dissolveCmd, warningsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "soulkiln:", err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}
