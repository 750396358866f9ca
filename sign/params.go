// Package sign implements a Fiat-Shamir-with-aborts lattice signature.
// Signing is a rejection loop: candidate signatures whose components would
// leak the secret are discarded and the loop retried, so the distribution of
// released signatures is independent of the key.
package sign

import (
	"errors"
	"fmt"
	"math/bits"

	"pqlattice/ring"
	"pqlattice/xof"
)

// ErrRejectionOverflow is returned when signing exhausts MaxAttempts
// rejection iterations. With sound parameters this is astronomically
// unlikely; hitting it means the parameter set is broken.
var ErrRejectionOverflow = errors.New("sign: rejection sampling did not terminate")

// Params fixes one instantiation of the signature scheme.
type Params struct {
	// N is the polynomial degree bound and Q the modulus.
	N int
	Q uint32
	// K and L are the module dimensions: the public matrix is K x L.
	K, L int
	// Eta bounds the secret key coefficients, drawn from the centered
	// binomial distribution.
	Eta uint32
	// Tau is the challenge weight: the number of nonzero coefficients.
	Tau int
	// Gamma1 bounds the masking vector; Gamma2 is the low-order rounding
	// range. Beta = Tau * Eta is the rejection margin.
	Gamma1, Gamma2 uint32
	// Omega caps the total hint weight.
	Omega int
	// D is the Power2Round split used on the public vector t.
	D int
	// MaxAttempts caps the rejection loop.
	MaxAttempts int
}

// Standard instantiations at the three usual security levels.
var (
	Dilithium2 = Params{
		N: 256, Q: 8380417, K: 4, L: 4,
		Eta: 2, Tau: 39,
		Gamma1: 1 << 17, Gamma2: (8380417 - 1) / 88,
		Omega: 80, D: 13, MaxAttempts: 512,
	}
	Dilithium3 = Params{
		N: 256, Q: 8380417, K: 6, L: 5,
		Eta: 4, Tau: 49,
		Gamma1: 1 << 19, Gamma2: (8380417 - 1) / 32,
		Omega: 55, D: 13, MaxAttempts: 512,
	}
	Dilithium5 = Params{
		N: 256, Q: 8380417, K: 8, L: 7,
		Eta: 2, Tau: 60,
		Gamma1: 1 << 19, Gamma2: (8380417 - 1) / 32,
		Omega: 75, D: 13, MaxAttempts: 512,
	}
)

// Beta returns the rejection margin Tau * Eta.
func (p Params) Beta() uint32 { return uint32(p.Tau) * p.Eta }

func (p Params) validate() error {
	// Challenge and hint positions are byte-indexed, so N caps at 256.
	if p.N < 4 || p.N > 256 || p.N&(p.N-1) != 0 {
		return fmt.Errorf("sign: N=%d must be a power of two in [4, 256]", p.N)
	}
	if p.K < 1 || p.L < 1 || p.K > 255 || p.L > 255 {
		return fmt.Errorf("sign: dimensions K=%d L=%d out of range", p.K, p.L)
	}
	if p.Eta < 1 || p.Eta > 8 {
		return fmt.Errorf("sign: Eta=%d out of range", p.Eta)
	}
	if p.Tau < 1 || p.Tau > 64 || p.Tau > p.N {
		return fmt.Errorf("sign: Tau=%d out of range", p.Tau)
	}
	if p.Gamma2 == 0 || (p.Q-1)%(2*p.Gamma2) != 0 {
		return fmt.Errorf("sign: Gamma2=%d must divide (Q-1)/2", p.Gamma2)
	}
	if p.Gamma1 <= p.Beta() {
		return fmt.Errorf("sign: Gamma1=%d must exceed Beta=%d", p.Gamma1, p.Beta())
	}
	if p.Gamma2 <= p.Beta() {
		return fmt.Errorf("sign: Gamma2=%d must exceed Beta=%d", p.Gamma2, p.Beta())
	}
	if p.D < 1 || p.D > 31 {
		return fmt.Errorf("sign: D=%d out of range", p.D)
	}
	if p.Omega < 1 || p.MaxAttempts < 1 {
		return fmt.Errorf("sign: Omega=%d MaxAttempts=%d must be positive", p.Omega, p.MaxAttempts)
	}
	return nil
}

// Bit widths of the packed encodings, all derived from the parameters.

// t1Width is the per-coefficient width of the rounded public vector.
func (p Params) t1Width() int { return bits.Len(uint((p.Q - 1) >> uint(p.D))) }

// t0Width covers the centered Power2Round remainder.
func (p Params) t0Width() int { return p.D }

// etaWidth covers a centered coefficient in [-Eta, Eta].
func (p Params) etaWidth() int { return bits.Len(uint(2 * p.Eta)) }

// zWidth covers a centered coefficient in [-(Gamma1-1), Gamma1-1].
func (p Params) zWidth() int { return bits.Len(uint(2*p.Gamma1 - 2)) }

// w1Width covers a high-bits residue in [0, (Q-1)/(2*Gamma2)).
func (p Params) w1Width() int { return bits.Len(uint((p.Q-1)/(2*p.Gamma2) - 1)) }

func (p Params) polyBytes(width int) int { return (p.N*width + 7) / 8 }

// PublicKeySize returns the byte length of an encoded public key.
func (p Params) PublicKeySize() int {
	return xof.SeedLen + p.K*p.polyBytes(p.t1Width())
}

// SecretKeySize returns the byte length of an encoded secret key.
func (p Params) SecretKeySize() int {
	return 3*xof.SeedLen +
		p.L*p.polyBytes(p.etaWidth()) +
		p.K*p.polyBytes(p.etaWidth()) +
		p.K*p.polyBytes(p.t0Width())
}

// SignatureSize returns the byte length of an encoded signature.
func (p Params) SignatureSize() int {
	return xof.SeedLen + p.L*p.polyBytes(p.zWidth()) + p.Omega + p.K
}

// Scheme is an instantiated signature scheme over one ring.
type Scheme struct {
	params Params
	ring   *ring.Ring
}

// NewScheme validates p and builds the underlying ring. The modulus must
// support a complete transform so challenge multiplication stays exact.
func NewScheme(p Params) (*Scheme, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	r, err := ring.NewRing(p.N, p.Q)
	if err != nil {
		return nil, err
	}
	if r.BlockLen() != 1 {
		return nil, fmt.Errorf("sign: Q=%d does not admit a complete transform at N=%d", p.Q, p.N)
	}
	return &Scheme{params: p, ring: r}, nil
}

// Params returns the scheme parameters.
func (s *Scheme) Params() Params { return s.params }

// Ring returns the underlying polynomial ring.
func (s *Scheme) Ring() *ring.Ring { return s.ring }
