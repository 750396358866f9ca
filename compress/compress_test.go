package compress

import (
	"math/rand"
	"testing"

	"pqlattice/ring"
)

// Exhaustive over the small modulus: the decompression error never exceeds
// the rounding radius ceil(q / 2^(d+1)).
func TestCompressErrorBound(t *testing.T) {
	const q = 3329
	for _, d := range []int{1, 4, 10, 12} {
		radius := (q + (1 << uint(d+1)) - 1) / (1 << uint(d+1))
		for x := uint32(0); x < q; x++ {
			y := Compress(x, q, d)
			if y >= 1<<uint(d) {
				t.Fatalf("d=%d: Compress(%d)=%d does not fit", d, x, y)
			}
			back := Decompress(y, q, d)
			diff := int64(x) - int64(back)
			if diff < 0 {
				diff = -diff
			}
			if diff > int64(q)-diff {
				diff = int64(q) - diff
			}
			if diff > int64(radius) {
				t.Fatalf("d=%d x=%d: error %d exceeds radius %d", d, x, diff, radius)
			}
		}
	}
}

func TestPower2RoundReconstructs(t *testing.T) {
	const (
		q = 8380417
		d = 13
	)
	rng := rand.New(rand.NewSource(31))
	half := int64(1) << (d - 1)
	for i := 0; i < 100000; i++ {
		x := uint32(rng.Int63n(q))
		hi, lo := Power2Round(x, q, d)
		centered := int64(lo)
		if lo > q/2 {
			centered -= q
		}
		if centered <= -half || centered > half {
			t.Fatalf("x=%d: low part %d outside (-%d, %d]", x, centered, half, half)
		}
		recon := (int64(hi)<<d + centered) % q
		if recon < 0 {
			recon += q
		}
		if uint32(recon) != x {
			t.Fatalf("x=%d: hi=%d lo=%d does not reconstruct", x, hi, centered)
		}
	}
}

// Exhaustive decomposition check over q=3329 with gamma2=104, which divides
// (q-1)/2. Every value must reconstruct, keep its low part in range and its
// high part below (q-1)/(2*gamma2).
func TestDecomposeExhaustive(t *testing.T) {
	const (
		q      = 3329
		gamma2 = 104
	)
	m := (q - 1) / (2 * gamma2)
	for x := uint32(0); x < q; x++ {
		hi, lo := Decompose(x, q, gamma2)
		if hi >= uint32(m) {
			t.Fatalf("x=%d: hi=%d not below %d", x, hi, m)
		}
		centered := int64(lo)
		if lo > q/2 {
			centered -= q
		}
		if centered < -int64(gamma2) || centered > int64(gamma2) {
			t.Fatalf("x=%d: low part %d outside [-%d, %d]", x, centered, gamma2, gamma2)
		}
		recon := (int64(hi)*2*gamma2 + centered) % q
		if recon < 0 {
			recon += q
		}
		if uint32(recon) != x {
			t.Fatalf("x=%d: hi=%d lo=%d does not reconstruct", x, hi, centered)
		}
	}
}

// The hint property the signature verifier relies on: for any r and any
// correction z with |z| <= gamma2, UseHint(MakeHint(z, r), r) equals the
// high bits of r+z.
func TestHintRecoversHighBits(t *testing.T) {
	const (
		q      = 8380417
		gamma2 = (q - 1) / 88
	)
	rng := rand.New(rand.NewSource(32))
	for i := 0; i < 100000; i++ {
		r := uint32(rng.Int63n(q))
		zc := rng.Int63n(2*gamma2+1) - gamma2
		z := uint32((zc + q) % q)
		hint := MakeHint(z, r, q, gamma2)
		want := HighBits(addMod(r, z, q), q, gamma2)
		got := UseHint(hint, r, q, gamma2)
		if got != want {
			t.Fatalf("r=%d z=%d: UseHint=%d want %d", r, zc, got, want)
		}
	}
}

func TestWeight(t *testing.T) {
	v := ring.NewPolyVec(2, 8)
	v.Polys[0].Coeffs[1] = 1
	v.Polys[1].Coeffs[0] = 1
	v.Polys[1].Coeffs[7] = 1
	if w := Weight(v); w != 3 {
		t.Fatalf("Weight=%d want 3", w)
	}
}

func TestPolyWrappersNeedCoeffDomain(t *testing.T) {
	r, err := ring.NewRing(16, 97)
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}
	p := ring.NewPoly(16)
	ph, err := r.NTT(p)
	if err != nil {
		t.Fatalf("NTT: %v", err)
	}
	if _, err := CompressPoly(r, ph, 4); err == nil {
		t.Fatal("evaluation-domain compression should fail")
	}
}

func TestCompressVecRoundTripWithinRadius(t *testing.T) {
	r, err := ring.NewRing(64, 3329)
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}
	rng := rand.New(rand.NewSource(33))
	v := ring.NewPolyVec(2, 64)
	for _, p := range v.Polys {
		for i := range p.Coeffs {
			p.Coeffs[i] = uint32(rng.Int63n(3329))
		}
	}
	const d = 10
	cv, err := CompressVec(r, v, d)
	if err != nil {
		t.Fatalf("CompressVec: %v", err)
	}
	back := DecompressVec(r, cv, d)
	radius := int64((3329 + (1 << (d + 1)) - 1) / (1 << (d + 1)))
	for i, p := range back.Polys {
		for j := range p.Coeffs {
			diff := int64(v.Polys[i].Coeffs[j]) - int64(p.Coeffs[j])
			if diff < 0 {
				diff = -diff
			}
			if diff > 3329-diff {
				diff = 3329 - diff
			}
			if diff > radius {
				t.Fatalf("entry (%d,%d): error %d exceeds %d", i, j, diff, radius)
			}
		}
	}
}
