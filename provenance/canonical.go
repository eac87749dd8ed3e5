package provenance

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/gowebpki/jcs"
)

// MarshalCanonical serializes v to RFC 8785 canonical JSON. Every hash and
// CID over an AssetTree or Commit is computed on this form, so two
// implementations serializing the same value always agree byte for byte.
func MarshalCanonical(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jcs.Transform(raw)
}

// TreeDigest returns the canonical bytes of an AssetTree together with the
// hex sha256 recorded in its commit envelope.
func TreeDigest(tree AssetTree) (data []byte, shaHex string, err error) {
	data, err = MarshalCanonical(tree)
	if err != nil {
		return nil, "", err
	}
	sum := sha256.Sum256(data)
	return data, hex.EncodeToString(sum[:]), nil
}

// BytesDigest is the hex sha256 of raw bytes, used when re-verifying stored
// trees against a commit's recorded hash.
func BytesDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
