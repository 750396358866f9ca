// Package sample draws the random ring elements the lattice schemes need:
// uniform public matrices, small secrets, and sparse signing challenges. All
// samplers read from an io.Reader so they run equally off a keyed stream or
// system randomness.
package sample

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/bits"

	"pqlattice/ring"
	"pqlattice/xof"
)

// Uniform draws a uniform value in [0, bound) by 64-bit word rejection: any
// word at or above the largest multiple of bound is discarded, so the
// accepted residues carry no modulo bias.
func Uniform(prng io.Reader, bound uint64) (uint64, error) {
	if bound == 0 {
		return 0, fmt.Errorf("sample: bound must be positive")
	}
	threshold := (math.MaxUint64 / bound) * bound
	var buf [8]byte
	for {
		if _, err := io.ReadFull(prng, buf[:]); err != nil {
			return 0, err
		}
		w := binary.LittleEndian.Uint64(buf[:])
		if w < threshold {
			return w % bound, nil
		}
	}
}

// UniformPoly fills a coefficient-domain polynomial with independent uniform
// coefficients in [0, q).
func UniformPoly(r *ring.Ring, prng io.Reader) (*ring.Poly, error) {
	p := ring.NewPoly(r.N())
	q := uint64(r.Field().Q())
	for i := range p.Coeffs {
		v, err := Uniform(prng, q)
		if err != nil {
			return nil, err
		}
		p.Coeffs[i] = uint32(v)
	}
	return p, nil
}

// BoundedPoly fills a coefficient-domain polynomial with independent uniform
// coefficients in the centered interval [-bound, bound], stored canonically.
func BoundedPoly(r *ring.Ring, prng io.Reader, bound uint32) (*ring.Poly, error) {
	width := 2*uint64(bound) + 1
	if width > uint64(r.Field().Q()) {
		return nil, fmt.Errorf("sample: bound %d too large for q=%d", bound, r.Field().Q())
	}
	p := ring.NewPoly(r.N())
	for i := range p.Coeffs {
		v, err := Uniform(prng, width)
		if err != nil {
			return nil, err
		}
		p.Coeffs[i] = r.Field().Reduce(int64(v) - int64(bound))
	}
	return p, nil
}

// CenteredBinomial draws each coefficient as a difference of two eta-bit
// popcounts, giving the centered binomial distribution over [-eta, eta].
// eta must be at most 8 so one byte covers each half.
func CenteredBinomial(r *ring.Ring, prng io.Reader, eta int) (*ring.Poly, error) {
	if eta < 1 || eta > 8 {
		return nil, fmt.Errorf("sample: eta=%d out of range", eta)
	}
	p := ring.NewPoly(r.N())
	mask := byte(1)<<uint(eta) - 1
	var buf [2]byte
	for i := range p.Coeffs {
		if _, err := io.ReadFull(prng, buf[:]); err != nil {
			return nil, err
		}
		a := bits.OnesCount8(uint8(buf[0] & mask))
		b := bits.OnesCount8(uint8(buf[1] & mask))
		p.Coeffs[i] = r.Field().Reduce(int64(a) - int64(b))
	}
	return p, nil
}

// ChallengeInBall derives a sparse polynomial with exactly tau coefficients
// in {-1, +1} and the rest zero, by an in-place Fisher-Yates shuffle driven
// by SHAKE256(seed). tau must not exceed 64 so one 8-byte block supplies all
// sign bits.
func ChallengeInBall(r *ring.Ring, seed []byte, tau int) (*ring.Poly, error) {
	n := r.N()
	if tau < 1 || tau > 64 || tau > n {
		return nil, fmt.Errorf("sample: tau=%d out of range", tau)
	}
	// Shuffle positions are drawn from single bytes.
	if n > 256 {
		return nil, fmt.Errorf("sample: degree %d exceeds the byte-indexed shuffle range", n)
	}
	stream := xof.Shake256(seed)
	var signBuf [8]byte
	if _, err := io.ReadFull(stream, signBuf[:]); err != nil {
		return nil, err
	}
	signs := binary.LittleEndian.Uint64(signBuf[:])

	p := ring.NewPoly(n)
	var b [1]byte
	for i := n - tau; i < n; i++ {
		var j int
		for {
			if _, err := io.ReadFull(stream, b[:]); err != nil {
				return nil, err
			}
			j = int(b[0])
			if j <= i {
				break
			}
		}
		p.Coeffs[i] = p.Coeffs[j]
		if signs&1 == 1 {
			p.Coeffs[j] = r.Field().Q() - 1
		} else {
			p.Coeffs[j] = 1
		}
		signs >>= 1
	}
	return p, nil
}

// ExpandMatrix derives the public k x l matrix in the evaluation domain from
// a 32-byte seed. Entry (i, j) is expanded from SHAKE128(seed || i || j), so
// the whole matrix is recomputable from the seed alone.
func ExpandMatrix(r *ring.Ring, seed []byte, k, l int) (*ring.PolyMatrix, error) {
	m := &ring.PolyMatrix{Rows: make([]*ring.PolyVec, k)}
	for i := 0; i < k; i++ {
		row := &ring.PolyVec{Polys: make([]*ring.Poly, l)}
		for j := 0; j < l; j++ {
			stream := xof.Shake128(seed, []byte{byte(i), byte(j)})
			p, err := UniformPoly(r, stream)
			if err != nil {
				return nil, err
			}
			p.Domain = ring.Eval
			row.Polys[j] = p
		}
		m.Rows[i] = row
	}
	return m, nil
}

// ExpandMatrixT returns the transpose of ExpandMatrix under the same seed,
// so encryptor and key generator agree on A without sharing it.
func ExpandMatrixT(r *ring.Ring, seed []byte, k, l int) (*ring.PolyMatrix, error) {
	m, err := ExpandMatrix(r, seed, k, l)
	if err != nil {
		return nil, err
	}
	return m.Transpose(), nil
}

// SecretVec draws a length-k vector of centered binomial secrets, advancing
// nonce once per entry so repeated calls under one seed stay independent.
func SecretVec(r *ring.Ring, seed []byte, nonce *uint16, k, eta int) (*ring.PolyVec, error) {
	v := &ring.PolyVec{Polys: make([]*ring.Poly, k)}
	for i := 0; i < k; i++ {
		p, err := CenteredBinomial(r, xof.PRF(seed, *nonce), eta)
		if err != nil {
			return nil, err
		}
		*nonce++
		v.Polys[i] = p
	}
	return v, nil
}

// BoundedVec draws a length-k vector of uniform bounded secrets under the
// same nonce discipline as SecretVec.
func BoundedVec(r *ring.Ring, seed []byte, nonce *uint16, k int, bound uint32) (*ring.PolyVec, error) {
	v := &ring.PolyVec{Polys: make([]*ring.Poly, k)}
	for i := 0; i < k; i++ {
		p, err := BoundedPoly(r, xof.PRF(seed, *nonce), bound)
		if err != nil {
			return nil, err
		}
		*nonce++
		v.Polys[i] = p
	}
	return v, nil
}
