// Package mlwe implements CPA-secure public-key encryption from the
// module learning-with-errors problem. Keys and ciphertexts have fixed
// byte encodings so they can cross a wire; the kem package builds its
// CCA-secure wrapper on top of this layer.
package mlwe

import (
	"fmt"

	"pqlattice/ring"
	"pqlattice/xof"
)

// Params fixes one instantiation of the encryption scheme.
type Params struct {
	// N is the polynomial degree bound, a power of two.
	N int
	// Q is the coefficient modulus.
	Q uint32
	// K is the module rank: the public matrix is K x K.
	K int
	// Eta1 is the centered binomial parameter for secrets and the
	// encryption vector.
	Eta1 int
	// Eta2 is the centered binomial parameter for the remaining noise.
	Eta2 int
	// Du and Dv are the ciphertext compression widths for the vector and
	// scalar components.
	Du, Dv int
}

// Standard toy instantiations at the three usual module ranks.
var (
	Kyber512  = Params{N: 256, Q: 3329, K: 2, Eta1: 3, Eta2: 2, Du: 10, Dv: 4}
	Kyber768  = Params{N: 256, Q: 3329, K: 3, Eta1: 2, Eta2: 2, Du: 10, Dv: 4}
	Kyber1024 = Params{N: 256, Q: 3329, K: 4, Eta1: 2, Eta2: 2, Du: 11, Dv: 5}
)

// tWidth is the bit width used to serialize uncompressed ring elements in
// keys. 12 bits covers any q below 4096.
const tWidth = 12

func (p Params) validate() error {
	if p.N < 4 || p.N&(p.N-1) != 0 {
		return fmt.Errorf("mlwe: N=%d must be a power of two >= 4", p.N)
	}
	if p.K < 1 {
		return fmt.Errorf("mlwe: K=%d must be positive", p.K)
	}
	if p.Q >= 1<<tWidth {
		return fmt.Errorf("mlwe: Q=%d exceeds the %d-bit key encoding", p.Q, tWidth)
	}
	if p.Du < 1 || p.Dv < 1 || uint32(1)<<uint(p.Du) > p.Q || uint32(1)<<uint(p.Dv) > p.Q {
		return fmt.Errorf("mlwe: compression widths du=%d dv=%d invalid for Q=%d", p.Du, p.Dv, p.Q)
	}
	if p.N/8 != xof.SeedLen {
		return fmt.Errorf("mlwe: N=%d does not carry a %d-byte message", p.N, xof.SeedLen)
	}
	return nil
}

// polyBytes is the byte length of one ring element at width bits.
func (p Params) polyBytes(width int) int { return (p.N*width + 7) / 8 }

// PublicKeySize returns the byte length of an encoded public key.
func (p Params) PublicKeySize() int { return p.K*p.polyBytes(tWidth) + xof.SeedLen }

// SecretKeySize returns the byte length of an encoded secret key.
func (p Params) SecretKeySize() int { return p.K * p.polyBytes(tWidth) }

// CiphertextSize returns the byte length of an encoded ciphertext.
func (p Params) CiphertextSize() int { return p.K*p.polyBytes(p.Du) + p.polyBytes(p.Dv) }

// MessageSize returns the byte length of a plaintext, one bit per ring
// coefficient.
func (p Params) MessageSize() int { return p.N / 8 }

// Scheme is an instantiated encryption scheme over one ring.
type Scheme struct {
	params Params
	ring   *ring.Ring
}

// NewScheme validates p and builds the underlying ring.
func NewScheme(p Params) (*Scheme, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	r, err := ring.NewRing(p.N, p.Q)
	if err != nil {
		return nil, err
	}
	return &Scheme{params: p, ring: r}, nil
}

// Params returns the scheme parameters.
func (s *Scheme) Params() Params { return s.params }

// Ring returns the underlying polynomial ring.
func (s *Scheme) Ring() *ring.Ring { return s.ring }

// Size accessors, mirrored from Params so the scheme satisfies the kem
// capability interface.

func (s *Scheme) PublicKeySize() int  { return s.params.PublicKeySize() }
func (s *Scheme) SecretKeySize() int  { return s.params.SecretKeySize() }
func (s *Scheme) CiphertextSize() int { return s.params.CiphertextSize() }
func (s *Scheme) MessageSize() int    { return s.params.MessageSize() }
