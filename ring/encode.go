package ring

import "fmt"

// Encode packs the coefficients of p into bytes at `width` bits per
// coefficient, little endian within the bit stream. Every coefficient must
// already fit in width bits; the caller compresses or reduces first.
func Encode(p *Poly, width int) ([]byte, error) {
	if width < 1 || width > 32 {
		return nil, fmt.Errorf("%w: width=%d", ErrInvalidParameter, width)
	}
	limit := uint64(1) << uint(width)
	out := make([]byte, (p.N()*width+7)/8)
	var acc uint64
	accBits := 0
	pos := 0
	for _, c := range p.Coeffs {
		if uint64(c) >= limit {
			return nil, fmt.Errorf("%w: coefficient %d exceeds %d bits", ErrInvalidParameter, c, width)
		}
		acc |= uint64(c) << uint(accBits)
		accBits += width
		for accBits >= 8 {
			out[pos] = byte(acc)
			acc >>= 8
			accBits -= 8
			pos++
		}
	}
	if accBits > 0 {
		out[pos] = byte(acc)
	}
	return out, nil
}

// Decode is the inverse of Encode for a polynomial of degree bound n.
func Decode(data []byte, n, width int) (*Poly, error) {
	if width < 1 || width > 32 {
		return nil, fmt.Errorf("%w: width=%d", ErrInvalidParameter, width)
	}
	want := (n*width + 7) / 8
	if len(data) != want {
		return nil, fmt.Errorf("%w: need %d bytes for n=%d width=%d, got %d",
			ErrMalformedInput, want, n, width, len(data))
	}
	p := NewPoly(n)
	mask := uint64(1)<<uint(width) - 1
	var acc uint64
	accBits := 0
	pos := 0
	for i := 0; i < n; i++ {
		for accBits < width {
			acc |= uint64(data[pos]) << uint(accBits)
			accBits += 8
			pos++
		}
		p.Coeffs[i] = uint32(acc & mask)
		acc >>= uint(width)
		accBits -= width
	}
	return p, nil
}

// EncodeVec concatenates the per-entry encodings of v.
func EncodeVec(v *PolyVec, width int) ([]byte, error) {
	var out []byte
	for _, p := range v.Polys {
		b, err := Encode(p, width)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// DecodeVec splits data into k polynomials of degree bound n at the given
// width.
func DecodeVec(data []byte, k, n, width int) (*PolyVec, error) {
	per := (n*width + 7) / 8
	if len(data) != k*per {
		return nil, fmt.Errorf("%w: need %d bytes for k=%d, got %d",
			ErrMalformedInput, k*per, k, len(data))
	}
	v := &PolyVec{Polys: make([]*Poly, k)}
	for i := 0; i < k; i++ {
		p, err := Decode(data[i*per:(i+1)*per], n, width)
		if err != nil {
			return nil, err
		}
		v.Polys[i] = p
	}
	return v, nil
}
