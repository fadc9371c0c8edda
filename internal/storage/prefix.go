package storage

// PrefixDB wraps a DB and prepends a fixed prefix to all keys.
// It isolates one record family (seeds, dedup index) inside a shared store.
type PrefixDB struct {
	inner  DB
	prefix []byte
}

// NewPrefixDB creates a new PrefixDB wrapping inner with the given prefix.
func NewPrefixDB(inner DB, prefix []byte) *PrefixDB {
	return &PrefixDB{inner: inner, prefix: clone(prefix)}
}

// prefixed returns key with the prefix prepended.
func (p *PrefixDB) prefixed(key []byte) []byte {
	out := make([]byte, len(p.prefix)+len(key))
	copy(out, p.prefix)
	copy(out[len(p.prefix):], key)
	return out
}

// Get retrieves a value by key.
func (p *PrefixDB) Get(key []byte) ([]byte, error) {
	return p.inner.Get(p.prefixed(key))
}

// Put stores a key-value pair.
func (p *PrefixDB) Put(key, value []byte) error {
	return p.inner.Put(p.prefixed(key), value)
}

// Delete removes a key.
func (p *PrefixDB) Delete(key []byte) error {
	return p.inner.Delete(p.prefixed(key))
}

// Has checks if a key exists.
func (p *PrefixDB) Has(key []byte) (bool, error) {
	return p.inner.Has(p.prefixed(key))
}

// ForEach iterates over all keys with the given prefix inside the namespace.
// The callback receives keys with the namespace prefix stripped.
func (p *PrefixDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return p.inner.ForEach(p.prefixed(prefix), func(key, value []byte) error {
		return fn(key[len(p.prefix):], value)
	})
}

// DeleteAll removes all keys under this namespace from the inner DB.
func (p *PrefixDB) DeleteAll() error {
	// Collect first so the inner store is not modified during iteration.
	var keys [][]byte
	err := p.inner.ForEach(p.prefix, func(key, _ []byte) error {
		keys = append(keys, clone(key))
		return nil
	})
	if err != nil {
		return err
	}

	if batcher, ok := p.inner.(Batcher); ok {
		batch := batcher.NewBatch()
		for _, key := range keys {
			if err := batch.Delete(key); err != nil {
				return err
			}
		}
		return batch.Commit()
	}
	for _, key := range keys {
		if err := p.inner.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op. The inner DB manages its own lifecycle.
func (p *PrefixDB) Close() error {
	return nil
}

// NewBatch creates a batch that prepends the prefix to all keys, delegating
// to the inner DB's batch for atomic commits.
func (p *PrefixDB) NewBatch() Batch {
	batcher, ok := p.inner.(Batcher)
	if !ok {
		return &fallbackBatch{db: p}
	}
	return &prefixBatch{db: p, inner: batcher.NewBatch()}
}

type prefixBatch struct {
	db    *PrefixDB
	inner Batch
}

func (pb *prefixBatch) Put(key, value []byte) error {
	return pb.inner.Put(pb.db.prefixed(key), value)
}

func (pb *prefixBatch) Delete(key []byte) error {
	return pb.inner.Delete(pb.db.prefixed(key))
}

func (pb *prefixBatch) Commit() error {
	return pb.inner.Commit()
}

// fallbackBatch buffers writes and applies them one by one when the
// wrapped DB has no batch support.
type fallbackBatch struct {
	db  DB
	ops []batchOp
}

func (fb *fallbackBatch) Put(key, value []byte) error {
	v := clone(value)
	if v == nil {
		v = []byte{}
	}
	fb.ops = append(fb.ops, batchOp{key: clone(key), value: v})
	return nil
}

func (fb *fallbackBatch) Delete(key []byte) error {
	fb.ops = append(fb.ops, batchOp{key: clone(key)})
	return nil
}

func (fb *fallbackBatch) Commit() error {
	for _, op := range fb.ops {
		if op.value == nil {
			if err := fb.db.Delete(op.key); err != nil {
				return err
			}
		} else {
			if err := fb.db.Put(op.key, op.value); err != nil {
				return err
			}
		}
	}
	fb.ops = nil
	return nil
}
