/*
Package crypto provides the key material of pool identities. Owners
and depositors are addressed by the hash of their ed25519 public key,
the keys themselves never enter the pool state.
*/
package crypto

import (
	"golang.org/x/crypto/ed25519"

	"github.com/EricInMarkham/fundpool"
	"github.com/EricInMarkham/fundpool/errors"
)

// PublicKey identifies one pool participant.
type PublicKey struct {
	data ed25519.PublicKey
}

// Verify verifies the signature was created with this message and
// public key.
func (p *PublicKey) Verify(message, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(p.data, message, sig)
}

// Address derives the pool address of this key.
func (p *PublicKey) Address() fundpool.Address {
	return fundpool.NewAddress(p.data)
}

// Bytes returns the raw public key material.
func (p *PublicKey) Bytes() []byte {
	out := make([]byte, len(p.data))
	copy(out, p.data)
	return out
}

// ParsePublicKey restores a public key from its raw representation.
func ParsePublicKey(raw []byte) (*PublicKey, error) {
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(errors.ErrInput,
			"public key must be %d bytes", ed25519.PublicKeySize)
	}
	data := make([]byte, len(raw))
	copy(data, raw)
	return &PublicKey{data: data}, nil
}

// PrivateKey is the signing half of a participant identity.
type PrivateKey struct {
	data ed25519.PrivateKey
}

// Sign returns a matching signature for this private key.
func (p *PrivateKey) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(p.data, message), nil
}

// PublicKey returns the corresponding PublicKey.
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := p.data.Public().(ed25519.PublicKey)
	return &PublicKey{data: pub}
}

// GenPrivKey returns a random new private key.
func GenPrivKey() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{data: priv}
}

// PrivKeyFromSeed will deterministically generate a private key from a
// given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyFromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{data: ed25519.NewKeyFromSeed(seed)}
}
