package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the current release of the oramstore client.
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of oramstore",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("oramstore", Version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
