package oram

import "errors"

// EmptyBlockID marks a slot or stash entry as a dummy.
const EmptyBlockID = -1

var (
	ErrInvalidConfig   = errors.New("oram: invalid configuration")
	ErrInvalidBlockID  = errors.New("oram: invalid block ID")
	ErrInvalidDataSize = errors.New("oram: data size doesn't match block size")

	// ErrIntegrity reports an authentication failure while decoding a
	// slot: either storage corruption or active tampering by the server.
	// Fatal to the in-flight access and to the instance.
	ErrIntegrity = errors.New("oram: block authentication failed")

	// ErrProtocol reports a broken internal invariant, such as one block
	// ID surfacing twice during a single path fetch. It indicates an
	// implementation bug, never a recoverable runtime condition.
	ErrProtocol = errors.New("oram: protocol invariant violated")

	// ErrStashOverflow reports that the stash grew past its configured
	// limit, which means the tree was parameterized too small for the
	// workload. Fatal to the instance.
	ErrStashOverflow = errors.New("oram: stash overflow")

	// ErrInstanceFailed is returned by every operation after a fatal
	// error has poisoned the instance. The original cause is included.
	ErrInstanceFailed = errors.New("oram: instance unusable after fatal error")
)
