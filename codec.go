package oram

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	keySize   = 32 // AES-256
	nonceSize = 12 // standard GCM nonce size
	tagSize   = 16 // GCM tag size

	slotHeaderSize = 16 // block ID and leaf, both int64 little-endian

	blockKeyLabel = "oramstore/block"
	stateKeyLabel = "oramstore/state"
)

// slotCipherLen returns the ciphertext length of one slot for the given
// block payload size. Real and dummy slots encode to exactly this length.
func slotCipherLen(blockSize int) int {
	return nonceSize + slotHeaderSize + blockSize + tagSize
}

// codec turns blocks into fixed-length authenticated ciphertext slots and
// back. Every encode draws a fresh nonce, so two encodings of the same
// plaintext are never byte-identical and dummy slots cannot be told apart
// from real ones.
type codec struct {
	aead      cipher.AEAD
	blockSize int
}

// deriveKey expands masterKey into an independent subkey for the given
// label via HKDF-SHA256.
func deriveKey(masterKey []byte, label string) ([]byte, error) {
	key := make([]byte, keySize)
	r := hkdf.New(sha256.New, masterKey, nil, []byte(label))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("oram: derive %s key: %w", label, err)
	}
	return key, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("oram: create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(blk)
	if err != nil {
		return nil, fmt.Errorf("oram: create GCM: %w", err)
	}
	return aead, nil
}

// newCodec derives the block-encryption key from masterKey and builds the
// AES-GCM codec for blocks of blockSize bytes.
func newCodec(masterKey []byte, blockSize int) (*codec, error) {
	if len(masterKey) == 0 {
		return nil, ErrInvalidConfig
	}
	key, err := deriveKey(masterKey, blockKeyLabel)
	if err != nil {
		return nil, err
	}
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	return &codec{aead: aead, blockSize: blockSize}, nil
}

func (c *codec) slotLen() int {
	return slotCipherLen(c.blockSize)
}

// encodeSlot encrypts one block, real or dummy, into a fixed-length slot.
// Output layout: nonce || AEAD(id || leaf || data) including the tag.
func (c *codec) encodeSlot(b block) ([]byte, error) {
	plain := make([]byte, slotHeaderSize+c.blockSize)
	binary.LittleEndian.PutUint64(plain[0:8], uint64(int64(b.id)))
	binary.LittleEndian.PutUint64(plain[8:16], uint64(int64(b.leaf)))
	copy(plain[slotHeaderSize:], b.data)

	buf := make([]byte, nonceSize, c.slotLen())
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("oram: read nonce: %w", err)
	}
	return c.aead.Seal(buf, buf[:nonceSize], plain, nil), nil
}

// decodeSlot authenticates and decrypts one slot. Dummy slots come back
// with id == EmptyBlockID. Any length or authentication failure is
// ErrIntegrity; the two are indistinguishable tampering from this side.
func (c *codec) decodeSlot(buf []byte) (block, error) {
	if len(buf) != c.slotLen() {
		return block{}, ErrIntegrity
	}
	plain, err := c.aead.Open(nil, buf[:nonceSize], buf[nonceSize:], nil)
	if err != nil {
		return block{}, ErrIntegrity
	}
	return block{
		id:   int(int64(binary.LittleEndian.Uint64(plain[0:8]))),
		leaf: int(int64(binary.LittleEndian.Uint64(plain[8:16]))),
		data: plain[slotHeaderSize:],
	}, nil
}

func (c *codec) dummySlot() ([]byte, error) {
	return c.encodeSlot(block{
		id:   EmptyBlockID,
		leaf: EmptyBlockID,
		data: make([]byte, c.blockSize),
	})
}

// encodeBucket encrypts up to bucketSize real blocks into one bucket
// buffer, padding the remaining slots with fresh dummies so the buffer
// length never depends on occupancy.
func (c *codec) encodeBucket(blocks []block, bucketSize int) ([]byte, error) {
	if len(blocks) > bucketSize {
		return nil, fmt.Errorf("%w: %d blocks for a %d-slot bucket", ErrProtocol, len(blocks), bucketSize)
	}
	buf := make([]byte, 0, bucketSize*c.slotLen())
	for _, b := range blocks {
		slot, err := c.encodeSlot(b)
		if err != nil {
			return nil, err
		}
		buf = append(buf, slot...)
	}
	for i := len(blocks); i < bucketSize; i++ {
		slot, err := c.dummySlot()
		if err != nil {
			return nil, err
		}
		buf = append(buf, slot...)
	}
	return buf, nil
}

// decodeBucket decrypts a bucket buffer and returns only the real blocks.
func (c *codec) decodeBucket(buf []byte, bucketSize int) ([]block, error) {
	if len(buf) != bucketSize*c.slotLen() {
		return nil, ErrIntegrity
	}
	var out []block
	for i := 0; i < bucketSize; i++ {
		b, err := c.decodeSlot(buf[i*c.slotLen() : (i+1)*c.slotLen()])
		if err != nil {
			return nil, err
		}
		if b.id != EmptyBlockID {
			out = append(out, b)
		}
	}
	return out, nil
}
