package ring

import (
	"fmt"
	"math/bits"
)

// Ring carries the transform machinery for R_q = Z_q[X]/(X^n + 1).
//
// When q = 1 mod 2n a primitive 2n-th root of unity exists and the transform
// is complete: the evaluation domain holds n independent scalars. When q is
// only 1 mod n the last butterfly layer is skipped and the evaluation domain
// holds n/2 degree-one residues, each modulo X^2 - gamma_i. blockLen is 1 in
// the first case and 2 in the second; all loops below branch on nothing else.
type Ring struct {
	n        int
	logN     int
	field    Field
	blockLen int

	zetas    []uint32 // brv-ordered powers of the 2n-th (or n-th) root
	invZetas []uint32
	gammas   []uint32 // blockLen=2 only: gamma_i for the residue moduli
	nInv     uint32   // (n/blockLen)^-1 mod q
}

// NewRing builds the ring for degree bound n (a power of two, at least 4)
// and odd prime modulus q. q must satisfy at least q = 1 mod n; when it also
// satisfies q = 1 mod 2n the complete transform is used.
func NewRing(n int, q uint32) (*Ring, error) {
	if n < 4 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: n=%d must be a power of two >= 4", ErrInvalidParameter, n)
	}
	field, err := NewField(q)
	if err != nil {
		return nil, err
	}
	r := &Ring{
		n:     n,
		logN:  bits.Len(uint(n)) - 1,
		field: field,
	}

	switch {
	case uint64(q-1)%uint64(2*n) == 0:
		r.blockLen = 1
	case uint64(q-1)%uint64(n) == 0:
		r.blockLen = 2
	default:
		return nil, fmt.Errorf("%w: q=%d admits no order-%d root of unity", ErrInvalidParameter, q, n)
	}

	root, err := r.findRoot()
	if err != nil {
		return nil, err
	}
	if err := r.buildTables(root); err != nil {
		return nil, err
	}
	return r, nil
}

// N returns the degree bound.
func (r *Ring) N() int { return r.n }

// Field returns the coefficient field.
func (r *Ring) Field() Field { return r.field }

// BlockLen reports the residue size of the evaluation domain: 1 for a
// complete transform, 2 for the paired layout.
func (r *Ring) BlockLen() int { return r.blockLen }

// findRoot searches for a primitive root of the order the transform needs:
// 2n for blockLen 1, n for blockLen 2 (the latter is still a 2(n/2)-th root
// for the negacyclic halved transform).
func (r *Ring) findRoot() (uint32, error) {
	order := uint64(2 * r.n / r.blockLen)
	q := r.field.Q()
	exp := uint64(q-1) / order
	for g := uint32(2); g < q; g++ {
		cand := r.field.Pow(g, exp)
		// Primitive iff cand^(order/2) = -1.
		if r.field.Pow(cand, order/2) == q-1 {
			return cand, nil
		}
	}
	return 0, fmt.Errorf("%w: no primitive root found for q=%d", ErrInvalidParameter, q)
}

// brv reverses the low `bits` bits of v.
func brv(v, b int) int {
	out := 0
	for i := 0; i < b; i++ {
		out = out<<1 | (v>>i)&1
	}
	return out
}

func (r *Ring) buildTables(root uint32) error {
	m := r.n / r.blockLen
	logM := bits.Len(uint(m)) - 1

	r.zetas = make([]uint32, m)
	r.invZetas = make([]uint32, m)
	pow := uint32(1)
	powers := make([]uint32, m)
	for i := 0; i < m; i++ {
		powers[i] = pow
		pow = r.field.Mul(pow, root)
	}
	for i := 0; i < m; i++ {
		r.zetas[i] = powers[brv(i, logM)]
		inv, err := r.field.Inv(r.zetas[i])
		if err != nil {
			return err
		}
		r.invZetas[i] = inv
	}

	if r.blockLen == 2 {
		// Residue i is taken modulo X^2 - gamma_i with
		// gamma_i = root^(2*brv(i)+1), matching the butterfly ordering.
		r.gammas = make([]uint32, m)
		for i := 0; i < m; i++ {
			r.gammas[i] = r.field.Pow(root, uint64(2*brv(i, logM)+1))
		}
	}

	nInv, err := r.field.Inv(uint32(m))
	if err != nil {
		return err
	}
	r.nInv = nInv
	return nil
}

// NTT maps a from the coefficient domain to the evaluation domain.
func (r *Ring) NTT(a *Poly) (*Poly, error) {
	if a.N() != r.n {
		return nil, fmt.Errorf("%w: degree mismatch", ErrInvalidParameter)
	}
	if a.Domain != Coeff {
		return nil, fmt.Errorf("%w: forward transform needs %s input", ErrWrongDomain, Coeff)
	}
	out := a.Copy()
	out.Domain = Eval
	c := out.Coeffs

	k := 1
	for length := r.n / 2; length >= r.blockLen; length >>= 1 {
		for start := 0; start < r.n; start += 2 * length {
			zeta := r.zetas[k]
			k++
			for j := start; j < start+length; j++ {
				t := r.field.Mul(zeta, c[j+length])
				c[j+length] = r.field.Sub(c[j], t)
				c[j] = r.field.Add(c[j], t)
			}
		}
	}
	return out, nil
}

// InvNTT maps a from the evaluation domain back to the coefficient domain.
func (r *Ring) InvNTT(a *Poly) (*Poly, error) {
	if a.N() != r.n {
		return nil, fmt.Errorf("%w: degree mismatch", ErrInvalidParameter)
	}
	if a.Domain != Eval {
		return nil, fmt.Errorf("%w: inverse transform needs %s input", ErrWrongDomain, Eval)
	}
	out := a.Copy()
	out.Domain = Coeff
	c := out.Coeffs

	k := r.n/r.blockLen - 1
	for length := r.blockLen; length <= r.n/2; length <<= 1 {
		for start := r.n - 2*length; start >= 0; start -= 2 * length {
			zeta := r.invZetas[k]
			k--
			for j := start; j < start+length; j++ {
				t := c[j]
				c[j] = r.field.Add(t, c[j+length])
				c[j+length] = r.field.Mul(zeta, r.field.Sub(t, c[j+length]))
			}
		}
	}
	for i := range c {
		c[i] = r.field.Mul(c[i], r.nInv)
	}
	return out, nil
}

// MulEval multiplies two evaluation-domain polynomials. For the complete
// transform this is coefficient-wise; for the paired layout each residue
// pair (a0 + a1 X)(b0 + b1 X) is reduced modulo X^2 - gamma_i.
func (r *Ring) MulEval(a, b *Poly) (*Poly, error) {
	if err := r.checkPair(a, b); err != nil {
		return nil, err
	}
	if a.Domain != Eval {
		return nil, fmt.Errorf("%w: evaluation-domain product needs %s operands", ErrWrongDomain, Eval)
	}
	out := &Poly{Coeffs: make([]uint32, r.n), Domain: Eval}
	if r.blockLen == 1 {
		for i := range out.Coeffs {
			out.Coeffs[i] = r.field.Mul(a.Coeffs[i], b.Coeffs[i])
		}
		return out, nil
	}
	for i := 0; i < r.n/2; i++ {
		a0, a1 := a.Coeffs[2*i], a.Coeffs[2*i+1]
		b0, b1 := b.Coeffs[2*i], b.Coeffs[2*i+1]
		g := r.gammas[i]
		out.Coeffs[2*i] = r.field.Add(r.field.Mul(a0, b0), r.field.Mul(g, r.field.Mul(a1, b1)))
		out.Coeffs[2*i+1] = r.field.Add(r.field.Mul(a0, b1), r.field.Mul(a1, b0))
	}
	return out, nil
}

// MulPoly multiplies two coefficient-domain polynomials through the
// transform and returns the product in the coefficient domain.
func (r *Ring) MulPoly(a, b *Poly) (*Poly, error) {
	ah, err := r.NTT(a)
	if err != nil {
		return nil, err
	}
	bh, err := r.NTT(b)
	if err != nil {
		return nil, err
	}
	ch, err := r.MulEval(ah, bh)
	if err != nil {
		return nil, err
	}
	return r.InvNTT(ch)
}
