package ring

import (
	"math/rand"
	"testing"
)

func randomPoly(t *testing.T, r *Ring, rng *rand.Rand) *Poly {
	t.Helper()
	p := NewPoly(r.N())
	for i := range p.Coeffs {
		p.Coeffs[i] = uint32(rng.Int63n(int64(r.Field().Q())))
	}
	return p
}

func TestNewRingBlockLen(t *testing.T) {
	r, err := NewRing(256, 8380417)
	if err != nil {
		t.Fatalf("NewRing(256, 8380417): %v", err)
	}
	if r.BlockLen() != 1 {
		t.Fatalf("blockLen=%d, want 1 for q=1 mod 2n", r.BlockLen())
	}

	r, err = NewRing(256, 3329)
	if err != nil {
		t.Fatalf("NewRing(256, 3329): %v", err)
	}
	if r.BlockLen() != 2 {
		t.Fatalf("blockLen=%d, want 2 for q=1 mod n only", r.BlockLen())
	}

	// 23 = 1 mod 2 but not mod 8.
	if _, err := NewRing(8, 23); err == nil {
		t.Fatal("NewRing(8, 23) should fail")
	}
	if _, err := NewRing(100, 3329); err == nil {
		t.Fatal("non-power-of-two degree should fail")
	}
}

func TestNTTRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, q := range []uint32{3329, 8380417} {
		r, err := NewRing(256, q)
		if err != nil {
			t.Fatalf("NewRing: %v", err)
		}
		for i := 0; i < 10; i++ {
			a := randomPoly(t, r, rng)
			ah, err := r.NTT(a)
			if err != nil {
				t.Fatalf("NTT: %v", err)
			}
			if ah.Domain != Eval {
				t.Fatal("forward transform did not tag Eval")
			}
			back, err := r.InvNTT(ah)
			if err != nil {
				t.Fatalf("InvNTT: %v", err)
			}
			if !back.Equal(a) {
				t.Fatalf("q=%d: transform round trip changed the polynomial", q)
			}
		}
	}
}

func TestMulPolyMatchesSchoolbook(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, tc := range []struct {
		n int
		q uint32
	}{
		{16, 97},       // 97 = 1 mod 32, complete
		{16, 113},      // 113 = 1 mod 16 only, paired
		{256, 3329},    // paired
		{256, 8380417}, // complete
	} {
		r, err := NewRing(tc.n, tc.q)
		if err != nil {
			t.Fatalf("NewRing(%d, %d): %v", tc.n, tc.q, err)
		}
		for i := 0; i < 5; i++ {
			a := randomPoly(t, r, rng)
			b := randomPoly(t, r, rng)
			want, err := r.SchoolbookMul(a, b)
			if err != nil {
				t.Fatalf("SchoolbookMul: %v", err)
			}
			got, err := r.MulPoly(a, b)
			if err != nil {
				t.Fatalf("MulPoly: %v", err)
			}
			if !got.Equal(want) {
				t.Fatalf("n=%d q=%d: transform product disagrees with schoolbook", tc.n, tc.q)
			}
		}
	}
}

func TestDomainEnforcement(t *testing.T) {
	r, err := NewRing(16, 97)
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}
	a := NewPoly(16)
	ah, err := r.NTT(a)
	if err != nil {
		t.Fatalf("NTT: %v", err)
	}

	if _, err := r.NTT(ah); err == nil {
		t.Fatal("double forward transform should fail")
	}
	if _, err := r.InvNTT(a); err == nil {
		t.Fatal("inverse transform of coefficient input should fail")
	}
	if _, err := r.Add(a, ah); err == nil {
		t.Fatal("mixed-domain addition should fail")
	}
	if _, err := r.MulEval(a, a); err == nil {
		t.Fatal("coefficient-domain pointwise product should fail")
	}
	if _, err := r.InfNorm(ah); err == nil {
		t.Fatal("infinity norm in evaluation domain should fail")
	}
}

func TestInfNorm(t *testing.T) {
	r, err := NewRing(16, 97)
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}
	p := NewPoly(16)
	p.Coeffs[3] = 96 // centered -1
	p.Coeffs[7] = 40
	nrm, err := r.InfNorm(p)
	if err != nil {
		t.Fatalf("InfNorm: %v", err)
	}
	if nrm != 40 {
		t.Fatalf("InfNorm=%d want 40", nrm)
	}
}

func TestAddSubNeg(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	r, err := NewRing(64, 3329)
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}
	a := randomPoly(t, r, rng)
	b := randomPoly(t, r, rng)
	sum, err := r.Add(a, b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	diff, err := r.Sub(sum, b)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if !diff.Equal(a) {
		t.Fatal("a + b - b != a")
	}
	neg, err := r.Neg(a)
	if err != nil {
		t.Fatalf("Neg: %v", err)
	}
	zero, err := r.Add(a, neg)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	for _, c := range zero.Coeffs {
		if c != 0 {
			t.Fatal("a + (-a) != 0")
		}
	}
}
