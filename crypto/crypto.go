// Package crypto provides the two primitives spec.md §4.1 requires: a SHA-256
// hex digest, and secp256k1 ECDSA sign/verify with deterministic (RFC 6979)
// signatures. secp256k1 is the curve the teacher pulls in via
// decred/dcrd/dcrec/secp256k1 (present in its dependency graph, promoted here
// to a direct import since chainnode signs/verifies with it directly rather
// than through a UTXO transaction library).
package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Sha256Hex returns the lowercase hex-encoded SHA-256 digest of data.
func Sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// PrivateKey is a secp256k1 signing key.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PublicKeyHex returns the hex-encoded uncompressed public key, the format
// spec.md §3 uses for `sender`.
func (p *PrivateKey) PublicKeyHex() string {
	return hex.EncodeToString(p.key.PubKey().SerializeUncompressed())
}

// NewPrivateKey generates a fresh signing key.
func NewPrivateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate private key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// Hex returns the hex-encoded private scalar, for persisting a node's
// identity across restarts.
func (p *PrivateKey) Hex() string {
	return hex.EncodeToString(p.key.Serialize())
}

// PrivateKeyFromHex parses a hex-encoded private scalar produced by Hex.
func PrivateKeyFromHex(keyHex string) (*PrivateKey, error) {
	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("decode private key hex: %w", err)
	}
	key := secp256k1.PrivKeyFromBytes(raw)
	return &PrivateKey{key: key}, nil
}

// SignHex deterministically signs the hex bytes of a tx_hash (spec.md §4.1:
// "signing covers the hex tx_hash bytes") and returns the hex-encoded
// signature.
func (p *PrivateKey) SignHex(txHashHex string) string {
	digest := sha256.Sum256([]byte(txHashHex))
	sig := ecdsa.Sign(p.key, digest[:])
	return hex.EncodeToString(sig.Serialize())
}

// Verify reports whether sigHex is a valid signature over txHashHex by the
// holder of the public key senderHex.
func Verify(senderHex, txHashHex, sigHex string) bool {
	pubBytes, err := hex.DecodeString(senderHex)
	if err != nil {
		return false
	}
	pubKey, err := secp256k1.ParsePubKey(pubBytes)
	if err != nil {
		return false
	}

	sigBytes, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return false
	}

	digest := sha256.Sum256([]byte(txHashHex))
	return sig.Verify(digest[:], pubKey)
}
