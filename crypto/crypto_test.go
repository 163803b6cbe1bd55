package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSha256HexIsStable(t *testing.T) {
	h1 := Sha256Hex([]byte("hello"))
	h2 := Sha256Hex([]byte("hello"))
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, Sha256Hex([]byte("world")))
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	key, err := NewPrivateKey()
	require.NoError(t, err)

	hash := Sha256Hex([]byte("tx payload"))
	sig := key.SignHex(hash)

	assert.True(t, Verify(key.PublicKeyHex(), hash, sig))
}

func TestVerifyRejectsWrongSigner(t *testing.T) {
	key, err := NewPrivateKey()
	require.NoError(t, err)
	other, err := NewPrivateKey()
	require.NoError(t, err)

	hash := Sha256Hex([]byte("tx payload"))
	sig := key.SignHex(hash)

	assert.False(t, Verify(other.PublicKeyHex(), hash, sig))
}

func TestVerifyRejectsTamperedHash(t *testing.T) {
	key, err := NewPrivateKey()
	require.NoError(t, err)

	hash := Sha256Hex([]byte("tx payload"))
	sig := key.SignHex(hash)

	assert.False(t, Verify(key.PublicKeyHex(), Sha256Hex([]byte("different payload")), sig))
}

func TestPrivateKeyHexRoundTrip(t *testing.T) {
	key, err := NewPrivateKey()
	require.NoError(t, err)

	restored, err := PrivateKeyFromHex(key.Hex())
	require.NoError(t, err)

	assert.Equal(t, key.PublicKeyHex(), restored.PublicKeyHex())
}
