package kem

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"pqlattice/mlwe"
	"pqlattice/ring"
	"pqlattice/xof"
)

var toyParams = mlwe.Params{N: 256, Q: 3329, K: 2, Eta1: 2, Eta2: 2, Du: 10, Dv: 4}

func seededReader(t *testing.T, b byte) io.Reader {
	t.Helper()
	r, err := xof.NewKeyedPRNG(bytes.Repeat([]byte{b}, 32))
	require.NoError(t, err)
	return r
}

func TestEncapsulateDecapsulateAgree(t *testing.T) {
	k, err := New(toyParams)
	require.NoError(t, err)

	pk, sk, err := k.GenerateKeyPair(seededReader(t, 0x10))
	require.NoError(t, err)
	require.Len(t, pk, k.PublicKeySize())
	require.Len(t, sk, k.SecretKeySize())

	ct, ssA, err := k.Encapsulate(pk, seededReader(t, 0x20))
	require.NoError(t, err)
	require.Len(t, ct, k.CiphertextSize())
	require.Len(t, ssA, SharedSecretSize)

	ssB, err := k.Decapsulate(sk, ct)
	require.NoError(t, err)
	require.Equal(t, ssA, ssB)
}

// Implicit rejection: a single flipped bit anywhere in the ciphertext must
// produce a different shared secret without surfacing an error.
func TestTamperedCiphertextRejectsImplicitly(t *testing.T) {
	k, err := New(toyParams)
	require.NoError(t, err)

	pk, sk, err := k.GenerateKeyPair(seededReader(t, 0x30))
	require.NoError(t, err)
	ct, ss, err := k.Encapsulate(pk, seededReader(t, 0x40))
	require.NoError(t, err)

	for _, pos := range []int{0, len(ct) / 2, len(ct) - 1} {
		tampered := append([]byte(nil), ct...)
		tampered[pos] ^= 1
		got, err := k.Decapsulate(sk, tampered)
		require.NoError(t, err)
		require.NotEqual(t, ss, got, "flip at byte %d", pos)
	}
}

// The rejection key is a deterministic function of the secret key and the
// ciphertext, so an attacker probing the same bad ciphertext twice learns
// nothing new.
func TestRejectionKeyDeterministic(t *testing.T) {
	k, err := New(toyParams)
	require.NoError(t, err)

	pk, sk, err := k.GenerateKeyPair(seededReader(t, 0x50))
	require.NoError(t, err)
	ct, _, err := k.Encapsulate(pk, seededReader(t, 0x60))
	require.NoError(t, err)

	tampered := append([]byte(nil), ct...)
	tampered[3] ^= 0x80
	first, err := k.Decapsulate(sk, tampered)
	require.NoError(t, err)
	second, err := k.Decapsulate(sk, tampered)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDistinctEncapsulationsDiffer(t *testing.T) {
	k, err := New(toyParams)
	require.NoError(t, err)

	pk, _, err := k.GenerateKeyPair(seededReader(t, 0x70))
	require.NoError(t, err)
	ct1, ss1, err := k.Encapsulate(pk, seededReader(t, 0x71))
	require.NoError(t, err)
	ct2, ss2, err := k.Encapsulate(pk, seededReader(t, 0x72))
	require.NoError(t, err)
	require.NotEqual(t, ct1, ct2)
	require.NotEqual(t, ss1, ss2)
}

func TestDecapsulateWithWrongKey(t *testing.T) {
	k, err := New(toyParams)
	require.NoError(t, err)

	pkA, _, err := k.GenerateKeyPair(seededReader(t, 0x80))
	require.NoError(t, err)
	_, skB, err := k.GenerateKeyPair(seededReader(t, 0x81))
	require.NoError(t, err)

	ct, ss, err := k.Encapsulate(pkA, seededReader(t, 0x82))
	require.NoError(t, err)
	got, err := k.Decapsulate(skB, ct)
	require.NoError(t, err)
	require.NotEqual(t, ss, got)
}

func TestFromCPA(t *testing.T) {
	pke, err := mlwe.NewScheme(toyParams)
	require.NoError(t, err)
	k := FromCPA(pke)

	pk, sk, err := k.GenerateKeyPair(seededReader(t, 0xA0))
	require.NoError(t, err)
	ct, ss, err := k.Encapsulate(pk, seededReader(t, 0xA1))
	require.NoError(t, err)
	got, err := k.Decapsulate(sk, ct)
	require.NoError(t, err)
	require.Equal(t, ss, got)
}

func TestLengthChecks(t *testing.T) {
	k, err := New(toyParams)
	require.NoError(t, err)

	pk, sk, err := k.GenerateKeyPair(seededReader(t, 0x90))
	require.NoError(t, err)
	ct, _, err := k.Encapsulate(pk, seededReader(t, 0x91))
	require.NoError(t, err)

	_, _, err = k.Encapsulate(pk[:len(pk)-1], seededReader(t, 0x92))
	require.ErrorIs(t, err, ring.ErrMalformedInput)
	_, err = k.Decapsulate(sk[:len(sk)-1], ct)
	require.ErrorIs(t, err, ring.ErrMalformedInput)
	_, err = k.Decapsulate(sk, ct[:len(ct)-1])
	require.ErrorIs(t, err, ring.ErrMalformedInput)
}
