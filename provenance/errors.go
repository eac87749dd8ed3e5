package provenance

import "errors"

var (
	// ErrHashMismatch means the stored AssetTree bytes do not hash to the
	// value recorded in the commit that anchors them. Reconstruction aborts;
	// unverified data is never handed to the caller.
	ErrHashMismatch = errors.New("provenance: asset tree hash mismatch")

	// ErrNoStagedAsset means commit was attempted with an empty staging
	// slot. The operation is a no-op.
	ErrNoStagedAsset = errors.New("provenance: no staged asset")
)
