// Package compress implements lossy coefficient compression and the
// high/low-bits decompositions with hints that let a verifier reconstruct
// rounded values it never saw exactly.
package compress

import (
	"fmt"

	"pqlattice/ring"
)

// Compress maps a canonical coefficient x in [0, q) to d bits by scaled
// rounding: round(2^d * x / q) mod 2^d. The induced error after Decompress
// is at most ceil(q / 2^(d+1)).
func Compress(x, q uint32, d int) uint32 {
	num := (uint64(x)<<uint(d) + uint64(q)/2) / uint64(q)
	return uint32(num) & (1<<uint(d) - 1)
}

// Decompress maps a d-bit value back to the canonical representative
// round(q * y / 2^d).
func Decompress(y, q uint32, d int) uint32 {
	return uint32((uint64(y)*uint64(q) + 1<<uint(d-1)) >> uint(d))
}

// Power2Round splits canonical x into (hi, lo) with x = hi*2^d + lo and lo
// the centered remainder in (-2^(d-1), 2^(d-1)]. lo is returned canonically
// modulo q.
func Power2Round(x, q uint32, d int) (hi, lo uint32) {
	half := uint32(1) << uint(d-1)
	mask := uint32(1)<<uint(d) - 1
	r := x & mask
	hiPart := x >> uint(d)
	if r > half {
		// Centered remainder goes negative, carry into the high part.
		hiPart++
		return hiPart, q - (1<<uint(d) - r)
	}
	return hiPart, r
}

// Decompose splits canonical x into (hi, lo) with x = hi*2*gamma2 + lo and
// lo the centered remainder in (-gamma2, gamma2]. The wrap-around residue
// hi = (q-1)/(2*gamma2) is folded to zero with lo adjusted down by one, so
// hi always lies in [0, (q-1)/(2*gamma2)). lo is returned canonically.
func Decompose(x, q, gamma2 uint32) (hi, lo uint32) {
	alpha := 2 * gamma2
	r := x % alpha
	hiPart := x / alpha
	var centered int64
	if r > gamma2 {
		centered = int64(r) - int64(alpha)
		hiPart++
	} else {
		centered = int64(r)
	}
	// x - centered == q-1 only at the top residue, which wraps to zero.
	if int64(x)-centered == int64(q)-1 {
		hiPart = 0
		centered--
	}
	if centered < 0 {
		centered += int64(q)
	}
	return hiPart, uint32(centered)
}

// HighBits returns the hi part of Decompose.
func HighBits(x, q, gamma2 uint32) uint32 {
	hi, _ := Decompose(x, q, gamma2)
	return hi
}

// LowBits returns the lo part of Decompose.
func LowBits(x, q, gamma2 uint32) uint32 {
	_, lo := Decompose(x, q, gamma2)
	return lo
}

// MakeHint records whether adding the small correction z to r changes the
// high bits of r. The verifier replays the change with UseHint.
func MakeHint(z, r, q, gamma2 uint32) uint32 {
	r1 := HighBits(r, q, gamma2)
	v1 := HighBits(addMod(r, z, q), q, gamma2)
	if r1 != v1 {
		return 1
	}
	return 0
}

// UseHint recovers the corrected high bits of r from a one-bit hint. The
// hint bumps the high part up or down by one step depending on the sign of
// the low part, modulo the m = (q-1)/(2*gamma2) residues.
func UseHint(hint, r, q, gamma2 uint32) uint32 {
	m := (q - 1) / (2 * gamma2)
	hi, lo := Decompose(r, q, gamma2)
	if hint == 0 {
		return hi
	}
	loCentered := int64(lo)
	if lo > q/2 {
		loCentered = int64(lo) - int64(q)
	}
	if loCentered > 0 {
		return (hi + 1) % m
	}
	return (hi + m - 1) % m
}

func addMod(a, b, q uint32) uint32 {
	v := a + b
	if v >= q {
		v -= q
	}
	return v
}

// CompressPoly applies Compress coefficient-wise. Coefficient domain only.
func CompressPoly(r *ring.Ring, p *ring.Poly, d int) (*ring.Poly, error) {
	if p.Domain != ring.Coeff {
		return nil, fmt.Errorf("%w: compression needs %s input", ring.ErrWrongDomain, ring.Coeff)
	}
	q := r.Field().Q()
	out := ring.NewPoly(p.N())
	for i, c := range p.Coeffs {
		out.Coeffs[i] = Compress(c, q, d)
	}
	return out, nil
}

// DecompressPoly applies Decompress coefficient-wise.
func DecompressPoly(r *ring.Ring, p *ring.Poly, d int) *ring.Poly {
	q := r.Field().Q()
	out := ring.NewPoly(p.N())
	for i, c := range p.Coeffs {
		out.Coeffs[i] = Decompress(c, q, d)
	}
	return out
}

// CompressVec applies CompressPoly entry-wise.
func CompressVec(r *ring.Ring, v *ring.PolyVec, d int) (*ring.PolyVec, error) {
	out := &ring.PolyVec{Polys: make([]*ring.Poly, v.K())}
	for i, p := range v.Polys {
		c, err := CompressPoly(r, p, d)
		if err != nil {
			return nil, err
		}
		out.Polys[i] = c
	}
	return out, nil
}

// DecompressVec applies DecompressPoly entry-wise.
func DecompressVec(r *ring.Ring, v *ring.PolyVec, d int) *ring.PolyVec {
	out := &ring.PolyVec{Polys: make([]*ring.Poly, v.K())}
	for i, p := range v.Polys {
		out.Polys[i] = DecompressPoly(r, p, d)
	}
	return out
}

// Power2RoundVec splits every coefficient of v, returning the high and low
// vectors.
func Power2RoundVec(r *ring.Ring, v *ring.PolyVec, d int) (hi, lo *ring.PolyVec) {
	q := r.Field().Q()
	hi = &ring.PolyVec{Polys: make([]*ring.Poly, v.K())}
	lo = &ring.PolyVec{Polys: make([]*ring.Poly, v.K())}
	for i, p := range v.Polys {
		h := ring.NewPoly(p.N())
		l := ring.NewPoly(p.N())
		for j, c := range p.Coeffs {
			h.Coeffs[j], l.Coeffs[j] = Power2Round(c, q, d)
		}
		hi.Polys[i] = h
		lo.Polys[i] = l
	}
	return hi, lo
}

// DecomposeVec splits every coefficient of v by Decompose.
func DecomposeVec(r *ring.Ring, v *ring.PolyVec, gamma2 uint32) (hi, lo *ring.PolyVec) {
	q := r.Field().Q()
	hi = &ring.PolyVec{Polys: make([]*ring.Poly, v.K())}
	lo = &ring.PolyVec{Polys: make([]*ring.Poly, v.K())}
	for i, p := range v.Polys {
		h := ring.NewPoly(p.N())
		l := ring.NewPoly(p.N())
		for j, c := range p.Coeffs {
			h.Coeffs[j], l.Coeffs[j] = Decompose(c, q, gamma2)
		}
		hi.Polys[i] = h
		lo.Polys[i] = l
	}
	return hi, lo
}

// HighBitsVec returns the high parts of DecomposeVec.
func HighBitsVec(r *ring.Ring, v *ring.PolyVec, gamma2 uint32) *ring.PolyVec {
	hi, _ := DecomposeVec(r, v, gamma2)
	return hi
}

// MakeHintVec builds the hint vector for corrections z against r.
func MakeHintVec(rg *ring.Ring, z, r *ring.PolyVec, gamma2 uint32) *ring.PolyVec {
	q := rg.Field().Q()
	out := &ring.PolyVec{Polys: make([]*ring.Poly, r.K())}
	for i := range r.Polys {
		h := ring.NewPoly(r.Polys[i].N())
		for j := range h.Coeffs {
			h.Coeffs[j] = MakeHint(z.Polys[i].Coeffs[j], r.Polys[i].Coeffs[j], q, gamma2)
		}
		out.Polys[i] = h
	}
	return out
}

// UseHintVec applies the hint vector to r entry-wise.
func UseHintVec(rg *ring.Ring, hint, r *ring.PolyVec, gamma2 uint32) *ring.PolyVec {
	q := rg.Field().Q()
	out := &ring.PolyVec{Polys: make([]*ring.Poly, r.K())}
	for i := range r.Polys {
		h := ring.NewPoly(r.Polys[i].N())
		for j := range h.Coeffs {
			h.Coeffs[j] = UseHint(hint.Polys[i].Coeffs[j], r.Polys[i].Coeffs[j], q, gamma2)
		}
		out.Polys[i] = h
	}
	return out
}

// Weight counts the nonzero coefficients across a hint vector.
func Weight(v *ring.PolyVec) int {
	w := 0
	for _, p := range v.Polys {
		for _, c := range p.Coeffs {
			if c != 0 {
				w++
			}
		}
	}
	return w
}
