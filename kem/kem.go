// Package kem turns a CPA-secure encryption layer into a CCA-secure key
// encapsulation mechanism by the Fujisaki-Okamoto transform with implicit
// rejection: a tampered ciphertext decapsulates to a pseudorandom key
// instead of an error, so the caller's behavior leaks nothing about why
// decapsulation went wrong.
package kem

import (
	"crypto/subtle"
	"fmt"
	"io"

	"pqlattice/mlwe"
	"pqlattice/ring"
	"pqlattice/xof"
)

// SharedSecretSize is the byte length of an established shared secret.
const SharedSecretSize = xof.SeedLen

// CPA is the capability the transform needs from the underlying encryption
// scheme: deterministic encryption under caller-supplied coins, and fixed
// artifact sizes. mlwe.Scheme satisfies it.
type CPA interface {
	GenerateKeyPair(rand io.Reader) (pk, sk []byte, err error)
	Encrypt(pk, m, coins []byte) ([]byte, error)
	DecryptBytes(sk, ct []byte) ([]byte, error)
	PublicKeySize() int
	SecretKeySize() int
	CiphertextSize() int
	MessageSize() int
}

// KEM wraps one CPA scheme.
type KEM struct {
	inner CPA
}

// New builds a KEM over the module-LWE scheme with the given parameters.
func New(p mlwe.Params) (*KEM, error) {
	pke, err := mlwe.NewScheme(p)
	if err != nil {
		return nil, err
	}
	return FromCPA(pke), nil
}

// FromCPA builds a KEM over any CPA capability.
func FromCPA(inner CPA) *KEM {
	return &KEM{inner: inner}
}

// PublicKeySize returns the byte length of an encapsulation key.
func (k *KEM) PublicKeySize() int { return k.inner.PublicKeySize() }

// SecretKeySize returns the byte length of a decapsulation key: the inner
// secret key, a copy of the public key, its digest, and the implicit
// rejection secret z.
func (k *KEM) SecretKeySize() int {
	return k.inner.SecretKeySize() + k.inner.PublicKeySize() + 2*xof.SeedLen
}

// CiphertextSize returns the byte length of an encapsulation.
func (k *KEM) CiphertextSize() int { return k.inner.CiphertextSize() }

// GenerateKeyPair draws key material from rand and returns the encoded
// encapsulation and decapsulation keys.
func (k *KEM) GenerateKeyPair(rand io.Reader) (pk, sk []byte, err error) {
	pk, innerSK, err := k.inner.GenerateKeyPair(rand)
	if err != nil {
		return nil, nil, err
	}
	z := make([]byte, xof.SeedLen)
	if _, err := io.ReadFull(rand, z); err != nil {
		return nil, nil, fmt.Errorf("kem: reading randomness: %w", err)
	}

	h := xof.HashH(pk)
	sk = make([]byte, 0, k.SecretKeySize())
	sk = append(sk, innerSK...)
	sk = append(sk, pk...)
	sk = append(sk, h[:]...)
	sk = append(sk, z...)
	return pk, sk, nil
}

// Encapsulate derives a fresh shared secret for the holder of pk and the
// ciphertext that transports it. The message m is hashed together with the
// public-key digest, binding the secret to this exact key.
func (k *KEM) Encapsulate(pk []byte, rand io.Reader) (ct, ss []byte, err error) {
	if len(pk) != k.PublicKeySize() {
		return nil, nil, fmt.Errorf("%w: encapsulation key must be %d bytes, got %d",
			ring.ErrMalformedInput, k.PublicKeySize(), len(pk))
	}
	m := make([]byte, k.inner.MessageSize())
	if _, err := io.ReadFull(rand, m); err != nil {
		return nil, nil, fmt.Errorf("kem: reading randomness: %w", err)
	}

	h := xof.HashH(pk)
	kBar, coins := xof.HashG(m, h[:])
	ct, err = k.inner.Encrypt(pk, m, coins[:])
	if err != nil {
		return nil, nil, err
	}
	return ct, kBar[:], nil
}

// Decapsulate recovers the shared secret from ct. The decrypted message is
// re-encrypted with the same derived coins; only a byte-identical
// ciphertext releases the real secret. Anything else yields the implicit
// rejection key H(z || ct), selected without a data-dependent branch.
func (k *KEM) Decapsulate(sk, ct []byte) ([]byte, error) {
	if len(sk) != k.SecretKeySize() {
		return nil, fmt.Errorf("%w: decapsulation key must be %d bytes, got %d",
			ring.ErrMalformedInput, k.SecretKeySize(), len(sk))
	}
	if len(ct) != k.CiphertextSize() {
		return nil, fmt.Errorf("%w: ciphertext must be %d bytes, got %d",
			ring.ErrMalformedInput, k.CiphertextSize(), len(ct))
	}

	skLen := k.inner.SecretKeySize()
	pkLen := k.inner.PublicKeySize()
	innerSK := sk[:skLen]
	pk := sk[skLen : skLen+pkLen]
	h := sk[skLen+pkLen : skLen+pkLen+xof.SeedLen]
	z := sk[skLen+pkLen+xof.SeedLen:]

	m, err := k.inner.DecryptBytes(innerSK, ct)
	if err != nil {
		return nil, err
	}
	kBar, coins := xof.HashG(m, h)
	ct2, err := k.inner.Encrypt(pk, m, coins[:])
	if err != nil {
		return nil, err
	}

	reject := xof.Sum256(z, ct)
	ok := subtle.ConstantTimeCompare(ct, ct2)
	ss := make([]byte, SharedSecretSize)
	subtle.ConstantTimeCopy(1, ss, reject[:])
	subtle.ConstantTimeCopy(ok, ss, kBar[:])
	return ss, nil
}
