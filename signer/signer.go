// Package signer wraps the secp256k1 signing key used to seal commits.
// Signatures are recoverable: Verify derives the signer's address from the
// (digest, signature) pair alone, which is what lets third parties audit a
// commit found in the registry without any key distribution.
package signer

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

var ErrInvalidSignature = errors.New("signer: invalid signature")

// Service signs sha256 digests and recovers signer addresses. The engine
// never touches key material directly; it only sees this interface.
type Service interface {
	Sign(digest []byte) ([]byte, error)
	Verify(digest, sig []byte) (common.Address, error)
	Address() common.Address
}

// KeySigner is a Service backed by a locally held private key.
type KeySigner struct {
	key *ecdsa.PrivateKey
}

// NewFromKeyfile loads a hex-encoded secp256k1 private key from path, the
// format written by geth's account export and by `prov init`.
func NewFromKeyfile(path string) (*KeySigner, error) {
	key, err := crypto.LoadECDSA(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load signing key from '%s'", path)
	}
	return &KeySigner{key: key}, nil
}

// NewFromKey wraps an already-parsed private key. Used by the test suites.
func NewFromKey(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{key: key}
}

// Sign produces a 65-byte recoverable signature over a 32-byte digest.
func (s *KeySigner) Sign(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, errors.Errorf("digest must be 32 bytes, got %d", len(digest))
	}
	return crypto.Sign(digest, s.key)
}

// Verify recovers the address that produced sig over digest. It fails with
// ErrInvalidSignature when recovery is impossible or the signature is
// malformed; it never guesses.
func (s *KeySigner) Verify(digest, sig []byte) (common.Address, error) {
	return Recover(digest, sig)
}

// Address returns the address this signer's signatures will recover to.
func (s *KeySigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// Recover is the standalone verification primitive: it needs no key
// material, only the digest and the claimed signature.
func Recover(digest, sig []byte) (common.Address, error) {
	if len(digest) != 32 {
		return common.Address{}, errors.Wrapf(ErrInvalidSignature,
			"digest must be 32 bytes, got %d", len(digest))
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, errors.Wrapf(ErrInvalidSignature,
			"signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}
	pub, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return common.Address{}, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return crypto.PubkeyToAddress(*pub), nil
}
