package cas

import "github.com/ipfs/go-cid"

// Memory is an in-process Store, used by the test suites and by mock mode
// plumbing. Not safe for concurrent use; the engine is single-actor.
type Memory struct {
	blobs map[cid.Cid][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[cid.Cid][]byte)}
}

func (m *Memory) Put(data []byte) (cid.Cid, error) {
	id, err := Sum(data)
	if err != nil {
		return cid.Undef, err
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.blobs[id] = cp
	return id, nil
}

func (m *Memory) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCid
	}
	b, ok := m.blobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

func (m *Memory) Has(id cid.Cid) bool {
	_, ok := m.blobs[id]
	return ok
}

// Corrupt replaces the blob stored under id without changing its key. Only
// tests use this, to exercise the hash verification paths.
func (m *Memory) Corrupt(id cid.Cid, data []byte) {
	m.blobs[id] = data
}
