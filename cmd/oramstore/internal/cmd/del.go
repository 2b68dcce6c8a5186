package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	oram "github.com/etclab/oramstore"
	"github.com/etclab/oramstore/internal/logger"
)

var delCmd = &cobra.Command{
	Use:   "del <block-id>",
	Short: "Remove a block's contents from the store",
	Args:  cobra.ExactArgs(1),
	RunE:  delRunFunc,
}

func init() {
	RootCmd.AddCommand(delCmd)
}

func delRunFunc(cmd *cobra.Command, args []string) error {
	blockID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("block ID must be an integer: %w", err)
	}
	return withInstance(cmd, func(o *oram.ORAM, log *logger.Logger) error {
		if _, err := o.Remove(blockID); err != nil {
			return err
		}
		log.Info("removed block", "id", blockID)
		return nil
	})
}
