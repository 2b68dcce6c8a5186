package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	oram "github.com/etclab/oramstore"
	"github.com/etclab/oramstore/internal/logger"
)

var putCmd = &cobra.Command{
	Use:   "put <block-id> <data>",
	Short: "Store data in a block",
	Args:  cobra.ExactArgs(2),
	RunE:  putRunFunc,
}

func init() {
	RootCmd.AddCommand(putCmd)
}

func putRunFunc(cmd *cobra.Command, args []string) error {
	blockID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("block ID must be an integer: %w", err)
	}
	return withInstance(cmd, func(o *oram.ORAM, log *logger.Logger) error {
		data := []byte(args[1])
		if len(data) > o.BlockSize() {
			return fmt.Errorf("data is %d bytes, block size is %d", len(data), o.BlockSize())
		}
		padded := make([]byte, o.BlockSize())
		copy(padded, data)

		if _, err := o.Write(blockID, padded); err != nil {
			return err
		}
		log.Info("stored block", "id", blockID, "bytes", len(data), "stash", o.StashSize())
		return nil
	})
}
