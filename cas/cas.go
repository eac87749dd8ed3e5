package cas

import "github.com/ipfs/go-cid"

// Store is content-addressed blob storage.
//
// Contract:
// - Put is idempotent: identical bytes always yield the identical CID.
// - Stored blobs are immutable.
// - Get returns ErrNotFound for a CID the store has never seen, and
//   ErrNetwork when a remote backend could not be reached.
type Store interface {
	Put(data []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
