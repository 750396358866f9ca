package sign

import (
	"fmt"

	"pqlattice/ring"
	"pqlattice/xof"
)

// packCentered encodes a coefficient-domain vector whose centered
// coefficients lie in [-offset, bound-offset] as offset-shifted values at
// the given width.
func (s *Scheme) packCentered(v *ring.PolyVec, offset uint32, width int) ([]byte, error) {
	shifted := &ring.PolyVec{Polys: make([]*ring.Poly, v.K())}
	f := s.ring.Field()
	for i, p := range v.Polys {
		sp := ring.NewPoly(p.N())
		for j, c := range p.Coeffs {
			sp.Coeffs[j] = uint32(int64(f.Center(c)) + int64(offset))
		}
		shifted.Polys[i] = sp
	}
	return ring.EncodeVec(shifted, width)
}

// unpackCentered is the inverse of packCentered. Shifted values above max
// are rejected as malformed.
func (s *Scheme) unpackCentered(data []byte, k int, offset, max uint32, width int) (*ring.PolyVec, error) {
	v, err := ring.DecodeVec(data, k, s.params.N, width)
	if err != nil {
		return nil, err
	}
	f := s.ring.Field()
	for _, p := range v.Polys {
		for j, c := range p.Coeffs {
			if c > max {
				return nil, fmt.Errorf("%w: shifted coefficient %d exceeds %d",
					ring.ErrMalformedInput, c, max)
			}
			p.Coeffs[j] = f.Reduce(int64(c) - int64(offset))
		}
	}
	return v, nil
}

// MarshalPublicKey encodes pk as rho followed by t1.
func (s *Scheme) MarshalPublicKey(pk *PublicKey) ([]byte, error) {
	t1, err := ring.EncodeVec(pk.T1, s.params.t1Width())
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, s.params.PublicKeySize())
	out = append(out, pk.Rho[:]...)
	return append(out, t1...), nil
}

// UnmarshalPublicKey is the inverse of MarshalPublicKey.
func (s *Scheme) UnmarshalPublicKey(data []byte) (*PublicKey, error) {
	if len(data) != s.params.PublicKeySize() {
		return nil, fmt.Errorf("%w: public key must be %d bytes, got %d",
			ring.ErrMalformedInput, s.params.PublicKeySize(), len(data))
	}
	pk := &PublicKey{}
	copy(pk.Rho[:], data[:xof.SeedLen])
	t1, err := ring.DecodeVec(data[xof.SeedLen:], s.params.K, s.params.N, s.params.t1Width())
	if err != nil {
		return nil, err
	}
	pk.T1 = t1
	return pk, nil
}

// MarshalSecretKey encodes sk as rho, key, tr, then s1, s2 and t0.
func (s *Scheme) MarshalSecretKey(sk *SecretKey) ([]byte, error) {
	out := make([]byte, 0, s.params.SecretKeySize())
	out = append(out, sk.Rho[:]...)
	out = append(out, sk.Key[:]...)
	out = append(out, sk.Tr[:]...)
	s1, err := s.packCentered(sk.S1, s.params.Eta, s.params.etaWidth())
	if err != nil {
		return nil, err
	}
	s2, err := s.packCentered(sk.S2, s.params.Eta, s.params.etaWidth())
	if err != nil {
		return nil, err
	}
	t0Offset := uint32(1)<<uint(s.params.D-1) - 1
	t0, err := s.packCentered(sk.T0, t0Offset, s.params.t0Width())
	if err != nil {
		return nil, err
	}
	out = append(out, s1...)
	out = append(out, s2...)
	return append(out, t0...), nil
}

// UnmarshalSecretKey is the inverse of MarshalSecretKey.
func (s *Scheme) UnmarshalSecretKey(data []byte) (*SecretKey, error) {
	if len(data) != s.params.SecretKeySize() {
		return nil, fmt.Errorf("%w: secret key must be %d bytes, got %d",
			ring.ErrMalformedInput, s.params.SecretKeySize(), len(data))
	}
	sk := &SecretKey{}
	copy(sk.Rho[:], data[:xof.SeedLen])
	copy(sk.Key[:], data[xof.SeedLen:2*xof.SeedLen])
	copy(sk.Tr[:], data[2*xof.SeedLen:3*xof.SeedLen])
	rest := data[3*xof.SeedLen:]

	s1Len := s.params.L * s.params.polyBytes(s.params.etaWidth())
	s2Len := s.params.K * s.params.polyBytes(s.params.etaWidth())
	s1, err := s.unpackCentered(rest[:s1Len], s.params.L, s.params.Eta, 2*s.params.Eta, s.params.etaWidth())
	if err != nil {
		return nil, err
	}
	s2, err := s.unpackCentered(rest[s1Len:s1Len+s2Len], s.params.K, s.params.Eta, 2*s.params.Eta, s.params.etaWidth())
	if err != nil {
		return nil, err
	}
	t0Offset := uint32(1)<<uint(s.params.D-1) - 1
	t0Max := uint32(1)<<uint(s.params.D) - 1
	t0, err := s.unpackCentered(rest[s1Len+s2Len:], s.params.K, t0Offset, t0Max, s.params.t0Width())
	if err != nil {
		return nil, err
	}
	sk.S1, sk.S2, sk.T0 = s1, s2, t0
	return sk, nil
}

// MarshalSignature encodes sig as the challenge seed, the packed response z
// and the hint. The Attempts counter is session bookkeeping and is not
// serialized.
func (s *Scheme) MarshalSignature(sig *Signature) ([]byte, error) {
	out := make([]byte, 0, s.params.SignatureSize())
	out = append(out, sig.C[:]...)
	z, err := s.packCentered(sig.Z, s.params.Gamma1-1, s.params.zWidth())
	if err != nil {
		return nil, err
	}
	out = append(out, z...)
	h, err := s.packHint(sig.Hint)
	if err != nil {
		return nil, err
	}
	return append(out, h...), nil
}

// UnmarshalSignature is the inverse of MarshalSignature.
func (s *Scheme) UnmarshalSignature(data []byte) (*Signature, error) {
	if len(data) != s.params.SignatureSize() {
		return nil, fmt.Errorf("%w: signature must be %d bytes, got %d",
			ring.ErrMalformedInput, s.params.SignatureSize(), len(data))
	}
	sig := &Signature{}
	copy(sig.C[:], data[:xof.SeedLen])
	zLen := s.params.L * s.params.polyBytes(s.params.zWidth())
	z, err := s.unpackCentered(data[xof.SeedLen:xof.SeedLen+zLen],
		s.params.L, s.params.Gamma1-1, 2*s.params.Gamma1-2, s.params.zWidth())
	if err != nil {
		return nil, err
	}
	h, err := s.unpackHint(data[xof.SeedLen+zLen:])
	if err != nil {
		return nil, err
	}
	sig.Z, sig.Hint = z, h
	return sig, nil
}

// packHint encodes a hint vector of weight at most Omega as Omega position
// bytes followed by K running counts. This needs N at most 256 so positions
// fit one byte each.
func (s *Scheme) packHint(hint *ring.PolyVec) ([]byte, error) {
	if s.params.N > 256 {
		return nil, fmt.Errorf("%w: hint positions need N <= 256", ring.ErrInvalidParameter)
	}
	out := make([]byte, s.params.Omega+s.params.K)
	idx := 0
	for i, p := range hint.Polys {
		for j, c := range p.Coeffs {
			if c == 0 {
				continue
			}
			if idx == s.params.Omega {
				return nil, fmt.Errorf("%w: hint weight exceeds %d", ring.ErrInvalidParameter, s.params.Omega)
			}
			out[idx] = byte(j)
			idx++
		}
		out[s.params.Omega+i] = byte(idx)
	}
	return out, nil
}

// unpackHint rejects every non-canonical encoding: positions must strictly
// increase within a polynomial, counts must be monotone and within Omega,
// and unused position bytes must be zero.
func (s *Scheme) unpackHint(data []byte) (*ring.PolyVec, error) {
	if len(data) != s.params.Omega+s.params.K {
		return nil, fmt.Errorf("%w: hint must be %d bytes, got %d",
			ring.ErrMalformedInput, s.params.Omega+s.params.K, len(data))
	}
	hint := ring.NewPolyVec(s.params.K, s.params.N)
	idx := 0
	for i := 0; i < s.params.K; i++ {
		end := int(data[s.params.Omega+i])
		if end < idx || end > s.params.Omega {
			return nil, fmt.Errorf("%w: hint counts not monotone", ring.ErrMalformedInput)
		}
		start := idx
		for ; idx < end; idx++ {
			pos := int(data[idx])
			if pos >= s.params.N {
				return nil, fmt.Errorf("%w: hint position %d out of range", ring.ErrMalformedInput, pos)
			}
			if idx > start && int(data[idx-1]) >= pos {
				return nil, fmt.Errorf("%w: hint positions not increasing", ring.ErrMalformedInput)
			}
			hint.Polys[i].Coeffs[pos] = 1
		}
	}
	for j := idx; j < s.params.Omega; j++ {
		if data[j] != 0 {
			return nil, fmt.Errorf("%w: nonzero padding in hint", ring.ErrMalformedInput)
		}
	}
	return hint, nil
}
