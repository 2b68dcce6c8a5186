package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	oram "github.com/etclab/oramstore"
	"github.com/etclab/oramstore/internal/logger"
	"github.com/etclab/oramstore/storage"
)

// appConfig is the on-disk configuration of one oramstore client.
type appConfig struct {
	Capacity   int    `toml:"capacity"`
	BlockSize  int    `toml:"block_size"`
	BucketSize int    `toml:"bucket_size"`
	StashLimit int    `toml:"stash_limit"`

	StorePath string `toml:"store"`
	KeyPath   string `toml:"key"`
	StatePath string `toml:"state"`

	Logger logger.Config `toml:"logger"`
}

func (c *appConfig) oramConfig() oram.Config {
	return oram.Config{
		Capacity:   c.Capacity,
		BlockSize:  c.BlockSize,
		BucketSize: c.BucketSize,
		StashLimit: c.StashLimit,
	}
}

func loadConfig(path string) (*appConfig, error) {
	var conf appConfig
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &conf, nil
}

func saveConfig(path string, conf *appConfig) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(conf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// writeFileAtomic writes data next to path and renames it into place, so a
// crash mid-write never leaves a truncated state file behind.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	return os.Rename(name, path)
}

// withInstance loads the configuration, opens the store and the saved
// client state, runs fn on the instance, and persists the updated state.
func withInstance(cmd *cobra.Command, fn func(o *oram.ORAM, log *logger.Logger) error) error {
	confPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	conf, err := loadConfig(confPath)
	if err != nil {
		return err
	}
	log, err := logger.New(conf.Logger)
	if err != nil {
		return err
	}
	defer log.Sync()

	key, err := os.ReadFile(conf.KeyPath)
	if err != nil {
		return fmt.Errorf("read master key: %w", err)
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
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	state, err := os.Open(conf.StatePath)
	if err != nil {
		return fmt.Errorf("open client state (did you run init?): %w", err)
	}
	o, err := oram.Open(cfg, store, key, state)
	state.Close()
	if err != nil {
		return err
	}

	if err := fn(o, log); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := o.SaveState(&buf); err != nil {
		return err
	}
	return writeFileAtomic(conf.StatePath, buf.Bytes(), 0600)
}
