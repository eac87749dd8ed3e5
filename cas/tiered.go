package cas

import "github.com/ipfs/go-cid"

// Tiered layers a fast local Store in front of a remote one. Reads are served
// from the local tier when possible, falling back to the remote tier and
// re-warming the cache. Writes land in the local tier first so that staged
// content is durable on disk before the slower remote write begins.
type Tiered struct {
	local  Store
	remote Store
}

func NewTiered(local, remote Store) *Tiered {
	return &Tiered{local: local, remote: remote}
}

func (t *Tiered) Put(data []byte) (cid.Cid, error) {
	id, err := t.local.Put(data)
	if err != nil {
		return cid.Undef, err
	}
	if _, err = t.remote.Put(data); err != nil {
		return cid.Undef, err
	}
	return id, nil
}

func (t *Tiered) Get(id cid.Cid) ([]byte, error) {
	b, err := t.local.Get(id)
	if err == nil {
		return b, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	b, err = t.remote.Get(id)
	if err != nil {
		return nil, err
	}
	// Ignore cache-warming failures; the authoritative copy was retrieved
	t.local.Put(b)
	return b, nil
}

func (t *Tiered) Has(id cid.Cid) bool {
	return t.local.Has(id) || t.remote.Has(id)
}
