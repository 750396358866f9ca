package mlwe

import (
	"fmt"

	"pqlattice/ring"
	"pqlattice/xof"
)

// MarshalPublicKey encodes pk as t at 12 bits per coefficient followed by
// the 32-byte matrix seed.
func (s *Scheme) MarshalPublicKey(pk *PublicKey) ([]byte, error) {
	out, err := ring.EncodeVec(pk.T, tWidth)
	if err != nil {
		return nil, err
	}
	return append(out, pk.Rho[:]...), nil
}

// UnmarshalPublicKey rejects any input whose length or coefficient range is
// off rather than decoding garbage.
func (s *Scheme) UnmarshalPublicKey(data []byte) (*PublicKey, error) {
	if len(data) != s.params.PublicKeySize() {
		return nil, fmt.Errorf("%w: public key must be %d bytes, got %d",
			ring.ErrMalformedInput, s.params.PublicKeySize(), len(data))
	}
	split := len(data) - xof.SeedLen
	t, err := ring.DecodeVec(data[:split], s.params.K, s.params.N, tWidth)
	if err != nil {
		return nil, err
	}
	if err := s.checkCanonical(t); err != nil {
		return nil, err
	}
	for _, p := range t.Polys {
		p.Domain = ring.Eval
	}
	pk := &PublicKey{T: t}
	copy(pk.Rho[:], data[split:])
	return pk, nil
}

// MarshalSecretKey encodes s at 12 bits per coefficient.
func (s *Scheme) MarshalSecretKey(sk *SecretKey) ([]byte, error) {
	return ring.EncodeVec(sk.S, tWidth)
}

// UnmarshalSecretKey is the inverse of MarshalSecretKey.
func (s *Scheme) UnmarshalSecretKey(data []byte) (*SecretKey, error) {
	if len(data) != s.params.SecretKeySize() {
		return nil, fmt.Errorf("%w: secret key must be %d bytes, got %d",
			ring.ErrMalformedInput, s.params.SecretKeySize(), len(data))
	}
	sv, err := ring.DecodeVec(data, s.params.K, s.params.N, tWidth)
	if err != nil {
		return nil, err
	}
	if err := s.checkCanonical(sv); err != nil {
		return nil, err
	}
	return &SecretKey{S: sv}, nil
}

// MarshalCiphertext encodes u at Du bits and v at Dv bits per coefficient.
func (s *Scheme) MarshalCiphertext(ct *Ciphertext) ([]byte, error) {
	out, err := ring.EncodeVec(ct.U, s.params.Du)
	if err != nil {
		return nil, err
	}
	vb, err := ring.Encode(ct.V, s.params.Dv)
	if err != nil {
		return nil, err
	}
	return append(out, vb...), nil
}

// UnmarshalCiphertext is the inverse of MarshalCiphertext.
func (s *Scheme) UnmarshalCiphertext(data []byte) (*Ciphertext, error) {
	if len(data) != s.params.CiphertextSize() {
		return nil, fmt.Errorf("%w: ciphertext must be %d bytes, got %d",
			ring.ErrMalformedInput, s.params.CiphertextSize(), len(data))
	}
	split := s.params.K * s.params.polyBytes(s.params.Du)
	u, err := ring.DecodeVec(data[:split], s.params.K, s.params.N, s.params.Du)
	if err != nil {
		return nil, err
	}
	v, err := ring.Decode(data[split:], s.params.N, s.params.Dv)
	if err != nil {
		return nil, err
	}
	return &Ciphertext{U: u, V: v}, nil
}

// checkCanonical rejects decoded vectors carrying coefficients at or above
// q. The 12-bit key encoding has slack above the modulus, so this closes
// the non-canonical encodings off.
func (s *Scheme) checkCanonical(v *ring.PolyVec) error {
	q := s.ring.Field().Q()
	for _, p := range v.Polys {
		for _, c := range p.Coeffs {
			if c >= q {
				return fmt.Errorf("%w: coefficient %d not canonical mod %d",
					ring.ErrMalformedInput, c, q)
			}
		}
	}
	return nil
}
