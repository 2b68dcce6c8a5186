package storage

// OpKind distinguishes recorded store operations.
type OpKind int

const (
	OpRead OpKind = iota
	OpWrite
)

// TraceOp is one observed store operation: exactly what an untrusted server
// learns from one client request.
type TraceOp struct {
	Kind OpKind
	Node int
	Len  int
}

// Recorder wraps a BucketStore and records the sequence of reads and writes
// the client issues. Used to audit that the access pattern keeps its fixed
// per-access shape independent of which blocks are requested.
type Recorder struct {
	inner BucketStore
	ops   []TraceOp
}

// NewRecorder wraps inner.
func NewRecorder(inner BucketStore) *Recorder {
	return &Recorder{inner: inner}
}

// ReadBucket delegates to the wrapped store and records the observation.
func (r *Recorder) ReadBucket(node int) ([]byte, error) {
	buf, err := r.inner.ReadBucket(node)
	if err == nil {
		r.ops = append(r.ops, TraceOp{Kind: OpRead, Node: node, Len: len(buf)})
	}
	return buf, err
}

// WriteBucket delegates to the wrapped store and records the observation.
func (r *Recorder) WriteBucket(node int, buf []byte) error {
	err := r.inner.WriteBucket(node, buf)
	if err == nil {
		r.ops = append(r.ops, TraceOp{Kind: OpWrite, Node: node, Len: len(buf)})
	}
	return err
}

// NumBuckets delegates to the wrapped store.
func (r *Recorder) NumBuckets() int {
	return r.inner.NumBuckets()
}

// BucketBytes delegates to the wrapped store.
func (r *Recorder) BucketBytes() int {
	return r.inner.BucketBytes()
}

// Close closes the wrapped store.
func (r *Recorder) Close() error {
	return r.inner.Close()
}

// Ops returns the recorded trace.
func (r *Recorder) Ops() []TraceOp {
	return r.ops
}

// Reset clears the recorded trace.
func (r *Recorder) Reset() {
	r.ops = nil
}
