package ring

import "fmt"

// PolyVec is a column vector of ring elements sharing one domain.
type PolyVec struct {
	Polys []*Poly
}

// NewPolyVec allocates a zero vector of k coefficient-domain polynomials.
func NewPolyVec(k, n int) *PolyVec {
	v := &PolyVec{Polys: make([]*Poly, k)}
	for i := range v.Polys {
		v.Polys[i] = NewPoly(n)
	}
	return v
}

// K returns the vector length.
func (v *PolyVec) K() int { return len(v.Polys) }

// Copy returns a deep copy of v.
func (v *PolyVec) Copy() *PolyVec {
	out := &PolyVec{Polys: make([]*Poly, len(v.Polys))}
	for i, p := range v.Polys {
		out.Polys[i] = p.Copy()
	}
	return out
}

// Equal reports entry-wise equality.
func (v *PolyVec) Equal(other *PolyVec) bool {
	if len(v.Polys) != len(other.Polys) {
		return false
	}
	for i := range v.Polys {
		if !v.Polys[i].Equal(other.Polys[i]) {
			return false
		}
	}
	return true
}

// AddVec returns a+b entry-wise.
func (r *Ring) AddVec(a, b *PolyVec) (*PolyVec, error) {
	if a.K() != b.K() {
		return nil, fmt.Errorf("%w: vector length %d vs %d", ErrInvalidParameter, a.K(), b.K())
	}
	out := &PolyVec{Polys: make([]*Poly, a.K())}
	for i := range out.Polys {
		p, err := r.Add(a.Polys[i], b.Polys[i])
		if err != nil {
			return nil, err
		}
		out.Polys[i] = p
	}
	return out, nil
}

// SubVec returns a-b entry-wise.
func (r *Ring) SubVec(a, b *PolyVec) (*PolyVec, error) {
	if a.K() != b.K() {
		return nil, fmt.Errorf("%w: vector length %d vs %d", ErrInvalidParameter, a.K(), b.K())
	}
	out := &PolyVec{Polys: make([]*Poly, a.K())}
	for i := range out.Polys {
		p, err := r.Sub(a.Polys[i], b.Polys[i])
		if err != nil {
			return nil, err
		}
		out.Polys[i] = p
	}
	return out, nil
}

// NTTVec transforms every entry forward.
func (r *Ring) NTTVec(v *PolyVec) (*PolyVec, error) {
	out := &PolyVec{Polys: make([]*Poly, v.K())}
	for i, p := range v.Polys {
		t, err := r.NTT(p)
		if err != nil {
			return nil, err
		}
		out.Polys[i] = t
	}
	return out, nil
}

// InvNTTVec transforms every entry back.
func (r *Ring) InvNTTVec(v *PolyVec) (*PolyVec, error) {
	out := &PolyVec{Polys: make([]*Poly, v.K())}
	for i, p := range v.Polys {
		t, err := r.InvNTT(p)
		if err != nil {
			return nil, err
		}
		out.Polys[i] = t
	}
	return out, nil
}

// DotEval returns the inner product <a, b> of two evaluation-domain vectors.
func (r *Ring) DotEval(a, b *PolyVec) (*Poly, error) {
	if a.K() != b.K() {
		return nil, fmt.Errorf("%w: vector length %d vs %d", ErrInvalidParameter, a.K(), b.K())
	}
	acc := &Poly{Coeffs: make([]uint32, r.n), Domain: Eval}
	for i := range a.Polys {
		t, err := r.MulEval(a.Polys[i], b.Polys[i])
		if err != nil {
			return nil, err
		}
		acc, err = r.Add(acc, t)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// MulEvalScalarVec multiplies every entry of an evaluation-domain vector by
// the evaluation-domain polynomial c.
func (r *Ring) MulEvalScalarVec(c *Poly, v *PolyVec) (*PolyVec, error) {
	out := &PolyVec{Polys: make([]*Poly, v.K())}
	for i, p := range v.Polys {
		t, err := r.MulEval(c, p)
		if err != nil {
			return nil, err
		}
		out.Polys[i] = t
	}
	return out, nil
}

// InfNormVec returns the largest entry norm of a coefficient-domain vector.
func (r *Ring) InfNormVec(v *PolyVec) (uint32, error) {
	var max uint32
	for _, p := range v.Polys {
		nrm, err := r.InfNorm(p)
		if err != nil {
			return 0, err
		}
		if nrm > max {
			max = nrm
		}
	}
	return max, nil
}

// PolyMatrix is a k x l matrix of ring elements, row major.
type PolyMatrix struct {
	Rows []*PolyVec
}

// NewPolyMatrix allocates a zero k x l matrix.
func NewPolyMatrix(k, l, n int) *PolyMatrix {
	m := &PolyMatrix{Rows: make([]*PolyVec, k)}
	for i := range m.Rows {
		m.Rows[i] = NewPolyVec(l, n)
	}
	return m
}

// K returns the row count.
func (m *PolyMatrix) K() int { return len(m.Rows) }

// L returns the column count.
func (m *PolyMatrix) L() int {
	if len(m.Rows) == 0 {
		return 0
	}
	return m.Rows[0].K()
}

// Transpose returns the l x k transpose of m.
func (m *PolyMatrix) Transpose() *PolyMatrix {
	out := &PolyMatrix{Rows: make([]*PolyVec, m.L())}
	for j := 0; j < m.L(); j++ {
		row := &PolyVec{Polys: make([]*Poly, m.K())}
		for i := 0; i < m.K(); i++ {
			row.Polys[i] = m.Rows[i].Polys[j]
		}
		out.Rows[j] = row
	}
	return out
}

// MulMatVec computes m * v for an evaluation-domain matrix and vector,
// returning an evaluation-domain vector of length K.
func (r *Ring) MulMatVec(m *PolyMatrix, v *PolyVec) (*PolyVec, error) {
	if m.L() != v.K() {
		return nil, fmt.Errorf("%w: matrix is %dx%d, vector has %d entries",
			ErrInvalidParameter, m.K(), m.L(), v.K())
	}
	out := &PolyVec{Polys: make([]*Poly, m.K())}
	for i, row := range m.Rows {
		p, err := r.DotEval(row, v)
		if err != nil {
			return nil, err
		}
		out.Polys[i] = p
	}
	return out, nil
}
