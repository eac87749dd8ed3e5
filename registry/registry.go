// Package registry is the client side of the append-only provenance ledger.
// The ledger binds an asset's permanent CID to an ordered list of commit
// CIDs; ordering and finality come from the ledger itself, never from this
// package.
package registry

import (
	"context"

	"github.com/ipfs/go-cid"
)

// Entry is one anchored commit reference. Seq is the ledger-assigned
// position (block order) and is authoritative for history ordering.
type Entry struct {
	CommitCid cid.Cid
	Seq       uint64
}

// Receipt describes a successfully landed append. TxID is whatever handle
// the backing ledger issues for the write; callers wanting confirmation
// depth inspect it out of band.
type Receipt struct {
	TxID string
	Seq  uint64
}

// Registry is the append-only ledger contract.
//
// Append is irrevocable and, from this client's point of view, atomic: it
// either lands or fails with an error. The client never retries on its own.
// Query returns history in ledger order, newest last; an empty slice means
// the asset has never been registered.
type Registry interface {
	Append(ctx context.Context, assetCid, commitCid cid.Cid) (Receipt, error)
	Query(ctx context.Context, assetCid cid.Cid) ([]Entry, error)
}
