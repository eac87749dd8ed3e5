package cas

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Sum derives the CIDv1 (raw codec, sha2-256 multihash) for data. This is
// the only CID form the tool ever produces, so a blob's identity can always
// be recomputed locally without asking any store.
func Sum(data []byte) (cid.Cid, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}
