// Package cli implements the youdao command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the CLI version, stamped at build time.
var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "youdao",
	Short: "YOU.DAO governance node",
	Long: `YOU.DAO runs the governance core of a founder-led DAO: stake-weighted
proposals, founder liveness with AI-oracle handoff, a multisig treasury,
IP licensing, and successor certification. 'youdao serve' starts a node
with the read-only dashboard API; 'youdao status' queries a running one.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
