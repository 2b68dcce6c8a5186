// Package cmd implements the CLI commands for the oramstore client.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base "oramstore" command when called without any
// subcommands.
var RootCmd = &cobra.Command{
	Use:   "oramstore",
	Short: "Oblivious block store client",
	Long: `oramstore keeps fixed-size data blocks in a local database through a
Path ORAM client, so the database never learns which blocks are read or
written. Run "oramstore init" once to set up a store, then put/get/del.`,
}

func init() {
	RootCmd.PersistentFlags().StringP("config", "c", "config.toml", "Path to the configuration file")
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
