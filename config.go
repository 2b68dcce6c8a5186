package oram

// Config holds the parameters of one ORAM instance.
type Config struct {
	Capacity   int // number of logical blocks (valid IDs: 0 to Capacity-1)
	BlockSize  int // bytes of user data per block
	BucketSize int // block slots per tree node (Z parameter)
	StashLimit int // stash high-water mark; exceeding it is fatal
}

// Validate checks the configuration for errors and applies defaults.
// Returns a copy of the config with defaults applied.
func (c Config) Validate() (Config, error) {
	if c.Capacity <= 0 || c.BlockSize <= 0 {
		return c, ErrInvalidConfig
	}
	if c.BucketSize < 0 || c.StashLimit < 0 {
		return c, ErrInvalidConfig
	}
	if c.BucketSize == 0 {
		c.BucketSize = 4
	}
	if c.StashLimit == 0 {
		c.StashLimit = 100
	}
	return c, nil
}

// NumBuckets returns the node count of the tree implied by cfg, which is the
// number of buckets a BucketStore must address.
func NumBuckets(cfg Config) (int, error) {
	cfg, err := cfg.Validate()
	if err != nil {
		return 0, err
	}
	return 2<<treeHeight(cfg.Capacity) - 1, nil
}

// BucketBytes returns the encoded size of one bucket for cfg, which is the
// fixed buffer length a BucketStore must carry: BucketSize slots of
// ciphertext, each the block payload plus the slot header, nonce and tag.
func BucketBytes(cfg Config) (int, error) {
	cfg, err := cfg.Validate()
	if err != nil {
		return 0, err
	}
	return cfg.BucketSize * slotCipherLen(cfg.BlockSize), nil
}
