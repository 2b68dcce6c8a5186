package oram

import (
	"bytes"
	"crypto/rand"
	"encoding/gob"
	"fmt"
	"io"
)

// clientState is the serialized image of the private client-side state.
// Everything in it must stay hidden from the server, so the encoded form is
// sealed under a key derived from the master key before leaving the process.
type clientState struct {
	Capacity   int
	BlockSize  int
	BucketSize int
	Positions  map[int]int
	Stash      []stateBlock
}

type stateBlock struct {
	ID   int
	Leaf int
	Data []byte
}

// SaveState writes the encrypted client state (position map and stash) to w.
// Together with the bucket store contents this is sufficient to resume the
// instance later via Open. The blob is authenticated; a tampered or
// truncated state fails to load with ErrIntegrity.
func (o *ORAM) SaveState(w io.Writer) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failure != nil {
		return fmt.Errorf("%w: %v", ErrInstanceFailed, o.failure)
	}

	st := clientState{
		Capacity:   o.cfg.Capacity,
		BlockSize:  o.cfg.BlockSize,
		BucketSize: o.cfg.BucketSize,
		Positions:  o.posMap.Snapshot(),
		Stash:      make([]stateBlock, 0, o.stash.size()),
	}
	for _, b := range o.stash.blocks {
		data := make([]byte, len(b.data))
		copy(data, b.data)
		st.Stash = append(st.Stash, stateBlock{ID: b.id, Leaf: b.leaf, Data: data})
	}

	var plain bytes.Buffer
	if err := gob.NewEncoder(&plain).Encode(&st); err != nil {
		return fmt.Errorf("oram: encode state: %w", err)
	}

	aead, err := newAEAD(o.stateKey)
	if err != nil {
		return err
	}
	buf := make([]byte, nonceSize, nonceSize+plain.Len()+tagSize)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("oram: read nonce: %w", err)
	}
	buf = aead.Seal(buf, buf[:nonceSize], plain.Bytes(), nil)

	_, err = w.Write(buf)
	return err
}

// loadState restores the position map and stash from a blob written by
// SaveState. The instance must have been prepared with the same geometry
// and master key.
func (o *ORAM) loadState(r io.Reader) error {
	blob, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("oram: read state: %w", err)
	}
	if len(blob) < nonceSize+tagSize {
		return ErrIntegrity
	}
	aead, err := newAEAD(o.stateKey)
	if err != nil {
		return err
	}
	plain, err := aead.Open(nil, blob[:nonceSize], blob[nonceSize:], nil)
	if err != nil {
		return ErrIntegrity
	}

	var st clientState
	if err := gob.NewDecoder(bytes.NewReader(plain)).Decode(&st); err != nil {
		return fmt.Errorf("%w: state decode: %v", ErrIntegrity, err)
	}
	if st.Capacity != o.cfg.Capacity || st.BlockSize != o.cfg.BlockSize || st.BucketSize != o.cfg.BucketSize {
		return fmt.Errorf("%w: state was saved for a different geometry", ErrInvalidConfig)
	}

	for id, leaf := range st.Positions {
		o.posMap.Set(id, leaf)
	}
	for _, sb := range st.Stash {
		o.stash.put(block{id: sb.ID, leaf: sb.Leaf, data: sb.Data})
	}
	return nil
}
