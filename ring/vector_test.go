package ring

import (
	"math/rand"
	"testing"
)

func TestMulMatVecMatchesSchoolbook(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for _, q := range []uint32{3329, 8380417} {
		r, err := NewRing(64, q)
		if err != nil {
			t.Fatalf("NewRing: %v", err)
		}
		const k, l = 3, 2
		m := &PolyMatrix{Rows: make([]*PolyVec, k)}
		for i := range m.Rows {
			row := &PolyVec{Polys: make([]*Poly, l)}
			for j := range row.Polys {
				row.Polys[j] = randomPoly(t, r, rng)
			}
			m.Rows[i] = row
		}
		v := &PolyVec{Polys: make([]*Poly, l)}
		for j := range v.Polys {
			v.Polys[j] = randomPoly(t, r, rng)
		}

		// Reference: schoolbook products accumulated per row.
		want := NewPolyVec(k, 64)
		for i := 0; i < k; i++ {
			for j := 0; j < l; j++ {
				prod, err := r.SchoolbookMul(m.Rows[i].Polys[j], v.Polys[j])
				if err != nil {
					t.Fatalf("SchoolbookMul: %v", err)
				}
				want.Polys[i], err = r.Add(want.Polys[i], prod)
				if err != nil {
					t.Fatalf("Add: %v", err)
				}
			}
		}

		mHat := &PolyMatrix{Rows: make([]*PolyVec, k)}
		for i := range m.Rows {
			row, err := r.NTTVec(m.Rows[i])
			if err != nil {
				t.Fatalf("NTTVec: %v", err)
			}
			mHat.Rows[i] = row
		}
		vHat, err := r.NTTVec(v)
		if err != nil {
			t.Fatalf("NTTVec: %v", err)
		}
		outHat, err := r.MulMatVec(mHat, vHat)
		if err != nil {
			t.Fatalf("MulMatVec: %v", err)
		}
		got, err := r.InvNTTVec(outHat)
		if err != nil {
			t.Fatalf("InvNTTVec: %v", err)
		}
		if !got.Equal(want) {
			t.Fatalf("q=%d: matrix product disagrees with schoolbook", q)
		}
	}
}

func TestTranspose(t *testing.T) {
	m := NewPolyMatrix(2, 3, 8)
	m.Rows[0].Polys[2].Coeffs[0] = 5
	mt := m.Transpose()
	if mt.K() != 3 || mt.L() != 2 {
		t.Fatalf("transpose is %dx%d, want 3x2", mt.K(), mt.L())
	}
	if mt.Rows[2].Polys[0].Coeffs[0] != 5 {
		t.Fatal("transpose misplaced an entry")
	}
}

func TestVecDimensionChecks(t *testing.T) {
	r, err := NewRing(8, 97)
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}
	a := NewPolyVec(2, 8)
	b := NewPolyVec(3, 8)
	if _, err := r.AddVec(a, b); err == nil {
		t.Fatal("length mismatch should fail")
	}
	m := NewPolyMatrix(2, 2, 8)
	if _, err := r.MulMatVec(m, b); err == nil {
		t.Fatal("matrix-vector mismatch should fail")
	}
}
