// Package xof wraps the extendable-output and hash functions the lattice
// schemes are built on. Everything here is deterministic in its inputs so
// that key generation, encryption and signing can be replayed from seeds.
package xof

import (
	"encoding/binary"
	"io"

	"github.com/tuneinsight/lattigo/v4/utils"
	"golang.org/x/crypto/sha3"
)

// SeedLen is the byte length of every seed and hash output used across the
// schemes.
const SeedLen = 32

// Shake128 returns a SHAKE128 stream absorbed over the concatenation of the
// given inputs.
func Shake128(inputs ...[]byte) io.Reader {
	h := sha3.NewShake128()
	for _, in := range inputs {
		h.Write(in)
	}
	return h
}

// Shake256 returns a SHAKE256 stream absorbed over the concatenation of the
// given inputs.
func Shake256(inputs ...[]byte) io.Reader {
	h := sha3.NewShake256()
	for _, in := range inputs {
		h.Write(in)
	}
	return h
}

// Sum256 returns the SHA3-256 digest of the concatenation of the inputs.
func Sum256(inputs ...[]byte) [SeedLen]byte {
	h := sha3.New256()
	for _, in := range inputs {
		h.Write(in)
	}
	var out [SeedLen]byte
	h.Sum(out[:0])
	return out
}

// Sum512 returns the SHA3-512 digest of the concatenation of the inputs.
func Sum512(inputs ...[]byte) [2 * SeedLen]byte {
	h := sha3.New512()
	for _, in := range inputs {
		h.Write(in)
	}
	var out [2 * SeedLen]byte
	h.Sum(out[:0])
	return out
}

// PRF returns a SHAKE256 stream keyed by seed and a 16-bit little-endian
// nonce. Distinct nonces give independent streams under one seed.
func PRF(seed []byte, nonce uint16) io.Reader {
	var n [2]byte
	binary.LittleEndian.PutUint16(n[:], nonce)
	return Shake256(seed, n[:])
}

// HashG hashes m together with a public-key digest into two 32-byte values,
// the shared-secret precursor and an encryption seed, the two halves of a
// SHA3-512 digest.
func HashG(m, pkDigest []byte) (kBar, coins [SeedLen]byte) {
	d := Sum512(m, pkDigest)
	copy(kBar[:], d[:SeedLen])
	copy(coins[:], d[SeedLen:])
	return
}

// HashH is the public-key and ciphertext digest.
func HashH(inputs ...[]byte) [SeedLen]byte {
	return Sum256(inputs...)
}

// NewKeyedPRNG returns a deterministic cryptographic PRNG seeded by key.
// Callers that want fresh system randomness pass crypto/rand.Reader instead.
func NewKeyedPRNG(key []byte) (io.Reader, error) {
	return utils.NewKeyedPRNG(key)
}
