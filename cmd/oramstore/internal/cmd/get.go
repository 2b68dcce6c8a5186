package cmd

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	oram "github.com/etclab/oramstore"
	"github.com/etclab/oramstore/internal/logger"
)

var getCmd = &cobra.Command{
	Use:   "get <block-id>",
	Short: "Read a block and print its contents",
	Args:  cobra.ExactArgs(1),
	RunE:  getRunFunc,
}

func init() {
	RootCmd.AddCommand(getCmd)
}

func getRunFunc(cmd *cobra.Command, args []string) error {
	blockID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("block ID must be an integer: %w", err)
	}
	return withInstance(cmd, func(o *oram.ORAM, log *logger.Logger) error {
		data, err := o.Read(blockID)
		if err != nil {
			return err
		}
		log.Debug("read block", "id", blockID, "stash", o.StashSize())
		fmt.Printf("%s\n", bytes.TrimRight(data, "\x00"))
		return nil
	})
}
