package ring

import "fmt"

// Domain records which basis a polynomial's coefficient slice is expressed
// in. Mixing domains in an arithmetic call is a programming error and is
// reported as ErrWrongDomain rather than silently producing garbage.
type Domain uint8

const (
	// Coeff is the standard power basis.
	Coeff Domain = iota
	// Eval is the number-theoretic transform basis.
	Eval
)

func (d Domain) String() string {
	switch d {
	case Coeff:
		return "coeff"
	case Eval:
		return "eval"
	default:
		return fmt.Sprintf("domain(%d)", uint8(d))
	}
}

// Poly is an element of R_q = Z_q[X]/(X^n + 1). Coefficients are always
// canonical in [0, q).
type Poly struct {
	Coeffs []uint32
	Domain Domain
}

// NewPoly allocates the zero polynomial of degree bound n in the coefficient
// domain.
func NewPoly(n int) *Poly {
	return &Poly{Coeffs: make([]uint32, n)}
}

// N returns the degree bound.
func (p *Poly) N() int { return len(p.Coeffs) }

// Copy returns a deep copy of p.
func (p *Poly) Copy() *Poly {
	out := &Poly{Coeffs: make([]uint32, len(p.Coeffs)), Domain: p.Domain}
	copy(out.Coeffs, p.Coeffs)
	return out
}

// Zero resets all coefficients to zero, keeping the domain tag.
func (p *Poly) Zero() {
	for i := range p.Coeffs {
		p.Coeffs[i] = 0
	}
}

// Equal reports whether p and other have the same domain and coefficients.
func (p *Poly) Equal(other *Poly) bool {
	if p.Domain != other.Domain || len(p.Coeffs) != len(other.Coeffs) {
		return false
	}
	for i := range p.Coeffs {
		if p.Coeffs[i] != other.Coeffs[i] {
			return false
		}
	}
	return true
}

func (r *Ring) checkPair(a, b *Poly) error {
	if a.N() != r.n || b.N() != r.n {
		return fmt.Errorf("%w: degree mismatch (ring n=%d, got %d and %d)",
			ErrInvalidParameter, r.n, a.N(), b.N())
	}
	if a.Domain != b.Domain {
		return fmt.Errorf("%w: %s vs %s", ErrWrongDomain, a.Domain, b.Domain)
	}
	return nil
}

// Add returns a+b. Both operands must share a domain; the result inherits it.
func (r *Ring) Add(a, b *Poly) (*Poly, error) {
	if err := r.checkPair(a, b); err != nil {
		return nil, err
	}
	out := &Poly{Coeffs: make([]uint32, r.n), Domain: a.Domain}
	for i := range out.Coeffs {
		out.Coeffs[i] = r.field.Add(a.Coeffs[i], b.Coeffs[i])
	}
	return out, nil
}

// Sub returns a-b under the same rules as Add.
func (r *Ring) Sub(a, b *Poly) (*Poly, error) {
	if err := r.checkPair(a, b); err != nil {
		return nil, err
	}
	out := &Poly{Coeffs: make([]uint32, r.n), Domain: a.Domain}
	for i := range out.Coeffs {
		out.Coeffs[i] = r.field.Sub(a.Coeffs[i], b.Coeffs[i])
	}
	return out, nil
}

// Neg returns -a in a's domain.
func (r *Ring) Neg(a *Poly) (*Poly, error) {
	if a.N() != r.n {
		return nil, fmt.Errorf("%w: degree mismatch", ErrInvalidParameter)
	}
	out := &Poly{Coeffs: make([]uint32, r.n), Domain: a.Domain}
	for i := range out.Coeffs {
		out.Coeffs[i] = r.field.Neg(a.Coeffs[i])
	}
	return out, nil
}

// MulScalar returns c*a with c canonical.
func (r *Ring) MulScalar(a *Poly, c uint32) (*Poly, error) {
	if a.N() != r.n {
		return nil, fmt.Errorf("%w: degree mismatch", ErrInvalidParameter)
	}
	out := &Poly{Coeffs: make([]uint32, r.n), Domain: a.Domain}
	for i := range out.Coeffs {
		out.Coeffs[i] = r.field.Mul(a.Coeffs[i], c)
	}
	return out, nil
}

// InfNorm returns the infinity norm of a over centered representatives.
// Defined only in the coefficient domain.
func (r *Ring) InfNorm(a *Poly) (uint32, error) {
	if a.Domain != Coeff {
		return 0, fmt.Errorf("%w: infinity norm needs %s, got %s",
			ErrWrongDomain, Coeff, a.Domain)
	}
	var max uint32
	for _, c := range a.Coeffs {
		v := r.field.Center(c)
		if v < 0 {
			v = -v
		}
		if uint32(v) > max {
			max = uint32(v)
		}
	}
	return max, nil
}

// SchoolbookMul multiplies a and b by the quadratic negacyclic convolution.
// It exists for cross-checking the transform path and for rings of toy size.
func (r *Ring) SchoolbookMul(a, b *Poly) (*Poly, error) {
	if err := r.checkPair(a, b); err != nil {
		return nil, err
	}
	if a.Domain != Coeff {
		return nil, fmt.Errorf("%w: schoolbook needs %s operands", ErrWrongDomain, Coeff)
	}
	out := NewPoly(r.n)
	q := int64(r.field.Q())
	for i := 0; i < r.n; i++ {
		ai := int64(a.Coeffs[i])
		if ai == 0 {
			continue
		}
		for j := 0; j < r.n; j++ {
			prod := ai * int64(b.Coeffs[j]) % q
			k := i + j
			if k < r.n {
				out.Coeffs[k] = r.field.Add(out.Coeffs[k], uint32(prod))
			} else {
				out.Coeffs[k-r.n] = r.field.Sub(out.Coeffs[k-r.n], uint32(prod))
			}
		}
	}
	return out, nil
}
