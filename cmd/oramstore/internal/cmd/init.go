package cmd

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	oram "github.com/etclab/oramstore"
	"github.com/etclab/oramstore/storage"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new store: config file, master key, database, and client state",
	RunE:  initRunFunc,
}

func init() {
	RootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("dir", "d", ".", "Directory for the generated files")
	initCmd.Flags().Int("capacity", 1024, "Number of logical blocks")
	initCmd.Flags().Int("block-size", 256, "Block payload size in bytes")
}

func initRunFunc(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	capacity, _ := cmd.Flags().GetInt("capacity")
	blockSize, _ := cmd.Flags().GetInt("block-size")

	conf := &appConfig{
		Capacity:   capacity,
		BlockSize:  blockSize,
		BucketSize: 4,
		StashLimit: 100,
		StorePath:  filepath.Join(dir, "store.db"),
		KeyPath:    filepath.Join(dir, "master.key"),
		StatePath:  filepath.Join(dir, "client.state"),
	}
	conf.Logger.Environment = "production"

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("generate master key: %w", err)
	}
	if err := os.WriteFile(conf.KeyPath, key, 0600); err != nil {
		return fmt.Errorf("write master key: %w", err)
	}

	cfg := conf.oramConfig()
	numBuckets, err := oram.NumBuckets(cfg)
	if err != nil {
		return err
	}
	bucketBytes, err := oram.BucketBytes(cfg)
	if err != nil {
		return err
	}
	store, err := storage.OpenLevelDB(conf.StorePath, numBuckets, bucketBytes)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()

	o, err := oram.New(cfg, store, key)
	if err != nil {
		return err
	}
	var state bytes.Buffer
	if err := o.SaveState(&state); err != nil {
		return err
	}
	if err := writeFileAtomic(conf.StatePath, state.Bytes(), 0600); err != nil {
		return err
	}

	confPath := filepath.Join(dir, "config.toml")
	if err := saveConfig(confPath, conf); err != nil {
		return err
	}
	fmt.Printf("initialized store for %d blocks of %d bytes; config written to %s\n",
		capacity, blockSize, confPath)
	return nil
}
