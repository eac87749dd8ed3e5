package signer

import (
	"crypto/sha256"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndRecover(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	s := NewFromKey(key)

	digest := sha256.Sum256([]byte("the serialized asset tree"))
	sig, err := s.Sign(digest[:])
	require.NoError(t, err)

	addr, err := s.Verify(digest[:], sig)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), addr)
}

func TestRecoverTamperedDigest(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	s := NewFromKey(key)

	digest := sha256.Sum256([]byte("original"))
	sig, err := s.Sign(digest[:])
	require.NoError(t, err)

	// A different digest must not recover to the signer's address
	tampered := sha256.Sum256([]byte("tampered"))
	addr, err := Recover(tampered[:], sig)
	if err == nil {
		assert.NotEqual(t, s.Address(), addr)
	}
}

func TestRecoverMalformedSignature(t *testing.T) {
	digest := sha256.Sum256([]byte("anything"))

	_, err := Recover(digest[:], []byte("way too short"))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = Recover([]byte("short digest"), make([]byte, crypto.SignatureLength))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestSignRejectsBadDigestLength(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	s := NewFromKey(key)

	_, err = s.Sign([]byte("not 32 bytes"))
	assert.Error(t, err)
}

func TestKeyfileRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	path := t.TempDir() + "/signing.key"
	require.NoError(t, crypto.SaveECDSA(path, key))

	s, err := NewFromKeyfile(path)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), s.Address())
}
