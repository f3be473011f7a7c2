package signature

import (
	"math/big"
	"testing"

	"github.com/ZilDuck/lazy-marketplace/internal/entity"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSigner(t *testing.T) *Signer {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	return NewSigner(key)
}

func TestVerify_AcceptsBackendSignature(t *testing.T) {
	backend := newSigner(t)
	authority := NewAuthority(nil, backend.Address())
	digest := crypto.Keccak256Hash([]byte("order"))

	sig, err := backend.Sign(digest)
	require.NoError(t, err)
	assert.Contains(t, []byte{27, 28}, sig[64])
	require.NoError(t, authority.Verify(digest, sig))

	sig[64] -= 27
	assert.NoError(t, authority.Verify(digest, sig), "V in {0,1} is accepted as well")
}

func TestVerify_RejectsOtherSigner(t *testing.T) {
	backend := newSigner(t)
	intruder := newSigner(t)
	authority := NewAuthority(nil, backend.Address())
	digest := crypto.Keccak256Hash([]byte("order"))

	sig, err := intruder.Sign(digest)
	require.NoError(t, err)
	assert.ErrorIs(t, authority.Verify(digest, sig), entity.ErrBadSignature)

	other, err := backend.Sign(crypto.Keccak256Hash([]byte("tampered")))
	require.NoError(t, err)
	assert.ErrorIs(t, authority.Verify(digest, other), entity.ErrBadSignature)

	authority.SetSigner(intruder.Address())
	assert.NoError(t, authority.Verify(digest, sig))
}

func TestVerify_RejectsMalformedSignatures(t *testing.T) {
	backend := newSigner(t)
	authority := NewAuthority(nil, backend.Address())
	digest := crypto.Keccak256Hash([]byte("order"))
	sig, err := backend.Sign(digest)
	require.NoError(t, err)

	short := sig[:64]
	assert.ErrorIs(t, authority.Verify(digest, short), entity.ErrInvalidSignature)

	badV := append([]byte(nil), sig...)
	badV[64] = 5
	assert.ErrorIs(t, authority.Verify(digest, badV), entity.ErrInvalidSignature)

	// s' = n - s recovers the same key but is non-canonical.
	highS := append([]byte(nil), sig...)
	s := new(big.Int).SetBytes(sig[32:64])
	flipped := new(big.Int).Sub(crypto.S256().Params().N, s)
	flipped.FillBytes(highS[32:64])
	highS[64] ^= 1
	assert.ErrorIs(t, authority.Verify(digest, highS), entity.ErrInvalidSignature)

	assert.ErrorIs(t, authority.Verify(digest, make([]byte, Length)), entity.ErrInvalidSignature)
}

func TestSignerFromHex(t *testing.T) {
	// Well known development key 0.
	signer, err := NewSignerFromHex("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", signer.Address().Hex())

	_, err = NewSignerFromHex("not-a-key")
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	backend := newSigner(t)
	sig, err := backend.Sign(crypto.Keccak256Hash([]byte("x")))
	require.NoError(t, err)

	decoded, err := Decode(Encode(sig))
	require.NoError(t, err)
	assert.Equal(t, sig, decoded)

	_, err = Decode("zz")
	assert.ErrorIs(t, err, entity.ErrInvalidSignature)
}
