package sample

import (
	"bytes"
	"testing"

	"pqlattice/ring"
	"pqlattice/xof"
)

func testRing(t *testing.T, n int, q uint32) *ring.Ring {
	t.Helper()
	r, err := ring.NewRing(n, q)
	if err != nil {
		t.Fatalf("NewRing(%d, %d): %v", n, q, err)
	}
	return r
}

func TestUniformPolyRangeAndDeterminism(t *testing.T) {
	r := testRing(t, 256, 3329)
	seed := bytes.Repeat([]byte{0xAB}, 32)
	a, err := UniformPoly(r, xof.Shake128(seed))
	if err != nil {
		t.Fatalf("UniformPoly: %v", err)
	}
	b, err := UniformPoly(r, xof.Shake128(seed))
	if err != nil {
		t.Fatalf("UniformPoly: %v", err)
	}
	if !a.Equal(b) {
		t.Fatal("same stream should give the same polynomial")
	}
	for _, c := range a.Coeffs {
		if c >= 3329 {
			t.Fatalf("coefficient %d out of range", c)
		}
	}
}

func TestUniformRejectsZeroBound(t *testing.T) {
	if _, err := Uniform(xof.Shake128([]byte("zero")), 0); err == nil {
		t.Fatal("bound 0 should fail")
	}
}

func TestBoundedPoly(t *testing.T) {
	r := testRing(t, 256, 8380417)
	const bound = 131071
	p, err := BoundedPoly(r, xof.Shake256([]byte("bounded")), bound)
	if err != nil {
		t.Fatalf("BoundedPoly: %v", err)
	}
	sawNeg := false
	for _, c := range p.Coeffs {
		v := r.Field().Center(c)
		if v < -bound || v > bound {
			t.Fatalf("centered coefficient %d outside [-%d, %d]", v, bound, bound)
		}
		if v < 0 {
			sawNeg = true
		}
	}
	if !sawNeg {
		t.Fatal("256 draws produced no negative coefficient")
	}

	if _, err := BoundedPoly(testRing(t, 16, 97), xof.Shake256(nil), 50); err == nil {
		t.Fatal("bound wider than the field should fail")
	}
}

func TestCenteredBinomial(t *testing.T) {
	r := testRing(t, 256, 3329)
	for _, eta := range []int{2, 3} {
		p, err := CenteredBinomial(r, xof.PRF([]byte("cbd-seed"), 0), eta)
		if err != nil {
			t.Fatalf("CenteredBinomial(eta=%d): %v", eta, err)
		}
		for _, c := range p.Coeffs {
			v := r.Field().Center(c)
			if v < -int32(eta) || v > int32(eta) {
				t.Fatalf("eta=%d: coefficient %d out of range", eta, v)
			}
		}
	}
	if _, err := CenteredBinomial(r, xof.PRF([]byte("x"), 0), 9); err == nil {
		t.Fatal("eta above 8 should fail")
	}
}

func TestPRFNoncesIndependent(t *testing.T) {
	r := testRing(t, 256, 3329)
	seed := []byte("nonce-separation")
	a, err := CenteredBinomial(r, xof.PRF(seed, 0), 2)
	if err != nil {
		t.Fatalf("CenteredBinomial: %v", err)
	}
	b, err := CenteredBinomial(r, xof.PRF(seed, 1), 2)
	if err != nil {
		t.Fatalf("CenteredBinomial: %v", err)
	}
	if a.Equal(b) {
		t.Fatal("distinct nonces gave identical polynomials")
	}
}

func TestChallengeInBall(t *testing.T) {
	r := testRing(t, 256, 8380417)
	q := r.Field().Q()
	seed := bytes.Repeat([]byte{0x42}, 32)
	for _, tau := range []int{39, 49, 60} {
		c, err := ChallengeInBall(r, seed, tau)
		if err != nil {
			t.Fatalf("ChallengeInBall(tau=%d): %v", tau, err)
		}
		nonzero := 0
		for _, v := range c.Coeffs {
			switch v {
			case 0:
			case 1, q - 1:
				nonzero++
			default:
				t.Fatalf("coefficient %d is not in {-1, 0, 1}", v)
			}
		}
		if nonzero != tau {
			t.Fatalf("tau=%d: got %d nonzero coefficients", tau, nonzero)
		}
	}

	again, err := ChallengeInBall(r, seed, 39)
	if err != nil {
		t.Fatalf("ChallengeInBall: %v", err)
	}
	first, _ := ChallengeInBall(r, seed, 39)
	if !again.Equal(first) {
		t.Fatal("same seed gave different challenges")
	}
	other, err := ChallengeInBall(r, bytes.Repeat([]byte{0x43}, 32), 39)
	if err != nil {
		t.Fatalf("ChallengeInBall: %v", err)
	}
	if other.Equal(first) {
		t.Fatal("different seeds gave the same challenge")
	}

	if _, err := ChallengeInBall(r, seed, 65); err == nil {
		t.Fatal("tau above 64 should fail")
	}
	if _, err := ChallengeInBall(testRing(t, 512, 12289), seed, 39); err == nil {
		t.Fatal("degree above 256 should fail")
	}
}

func TestExpandMatrix(t *testing.T) {
	r := testRing(t, 256, 3329)
	seed := bytes.Repeat([]byte{0x01}, 32)
	m, err := ExpandMatrix(r, seed, 2, 3)
	if err != nil {
		t.Fatalf("ExpandMatrix: %v", err)
	}
	if m.K() != 2 || m.L() != 3 {
		t.Fatalf("matrix is %dx%d, want 2x3", m.K(), m.L())
	}
	for _, row := range m.Rows {
		for _, p := range row.Polys {
			if p.Domain != ring.Eval {
				t.Fatal("matrix entries should be in the evaluation domain")
			}
		}
	}
	if m.Rows[0].Polys[1].Equal(m.Rows[1].Polys[0]) {
		t.Fatal("entries (0,1) and (1,0) should differ")
	}

	m2, err := ExpandMatrix(r, seed, 2, 3)
	if err != nil {
		t.Fatalf("ExpandMatrix: %v", err)
	}
	for i := range m.Rows {
		if !m.Rows[i].Equal(m2.Rows[i]) {
			t.Fatal("same seed gave a different matrix")
		}
	}
}

func TestSecretVecAdvancesNonce(t *testing.T) {
	r := testRing(t, 256, 3329)
	seed := []byte("secret-seed")
	var nonce uint16
	v, err := SecretVec(r, seed, &nonce, 3, 2)
	if err != nil {
		t.Fatalf("SecretVec: %v", err)
	}
	if nonce != 3 {
		t.Fatalf("nonce=%d after 3 draws, want 3", nonce)
	}
	if v.Polys[0].Equal(v.Polys[1]) {
		t.Fatal("consecutive entries should differ")
	}
}
