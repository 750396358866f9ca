package mlwe

import (
	"fmt"
	"io"

	"pqlattice/compress"
	"pqlattice/ring"
	"pqlattice/sample"
	"pqlattice/xof"
)

// PublicKey is t = A*s + e, kept in the evaluation domain since every use
// of it multiplies, together with the seed that regenerates A.
type PublicKey struct {
	T   *ring.PolyVec // evaluation domain
	Rho [xof.SeedLen]byte
}

// SecretKey is the module-LWE secret s.
type SecretKey struct {
	S *ring.PolyVec // coefficient domain
}

// Ciphertext is the compressed pair (u, v).
type Ciphertext struct {
	U *ring.PolyVec // compressed to Du bits per coefficient
	V *ring.Poly    // compressed to Dv bits per coefficient
}

// KeyGen derives a key pair from a 32-byte seed. The seed is split by the
// G hash into the public matrix seed rho and the noise seed sigma, so the
// whole key pair is replayable.
func (s *Scheme) KeyGen(seed []byte) (*PublicKey, *SecretKey, error) {
	if len(seed) != xof.SeedLen {
		return nil, nil, fmt.Errorf("mlwe: seed must be %d bytes, got %d", xof.SeedLen, len(seed))
	}
	rho, sigma := xof.HashG(seed, nil)

	a, err := sample.ExpandMatrix(s.ring, rho[:], s.params.K, s.params.K)
	if err != nil {
		return nil, nil, err
	}
	var nonce uint16
	sv, err := sample.SecretVec(s.ring, sigma[:], &nonce, s.params.K, s.params.Eta1)
	if err != nil {
		return nil, nil, err
	}
	ev, err := sample.SecretVec(s.ring, sigma[:], &nonce, s.params.K, s.params.Eta1)
	if err != nil {
		return nil, nil, err
	}

	sHat, err := s.ring.NTTVec(sv)
	if err != nil {
		return nil, nil, err
	}
	tHat, err := s.ring.MulMatVec(a, sHat)
	if err != nil {
		return nil, nil, err
	}
	eHat, err := s.ring.NTTVec(ev)
	if err != nil {
		return nil, nil, err
	}
	tHat, err = s.ring.AddVec(tHat, eHat)
	if err != nil {
		return nil, nil, err
	}

	pk := &PublicKey{T: tHat, Rho: rho}
	return pk, &SecretKey{S: sv}, nil
}

// EncryptTo encrypts a MessageSize-byte message under pk using the 32-byte
// coins to derive all randomness. The same (pk, m, coins) triple always
// yields the same ciphertext, which is what the re-encryption check in the
// KEM relies on.
func (s *Scheme) EncryptTo(pk *PublicKey, m, coins []byte) (*Ciphertext, error) {
	if len(m) != s.params.MessageSize() {
		return nil, fmt.Errorf("mlwe: message must be %d bytes, got %d", s.params.MessageSize(), len(m))
	}
	if len(coins) != xof.SeedLen {
		return nil, fmt.Errorf("mlwe: coins must be %d bytes, got %d", xof.SeedLen, len(coins))
	}

	at, err := sample.ExpandMatrixT(s.ring, pk.Rho[:], s.params.K, s.params.K)
	if err != nil {
		return nil, err
	}
	var nonce uint16
	rv, err := sample.SecretVec(s.ring, coins, &nonce, s.params.K, s.params.Eta1)
	if err != nil {
		return nil, err
	}
	e1, err := sample.SecretVec(s.ring, coins, &nonce, s.params.K, s.params.Eta2)
	if err != nil {
		return nil, err
	}
	e2, err := sample.CenteredBinomial(s.ring, xof.PRF(coins, nonce), s.params.Eta2)
	if err != nil {
		return nil, err
	}

	rHat, err := s.ring.NTTVec(rv)
	if err != nil {
		return nil, err
	}
	uHat, err := s.ring.MulMatVec(at, rHat)
	if err != nil {
		return nil, err
	}
	u, err := s.ring.InvNTTVec(uHat)
	if err != nil {
		return nil, err
	}
	u, err = s.ring.AddVec(u, e1)
	if err != nil {
		return nil, err
	}

	vHat, err := s.ring.DotEval(pk.T, rHat)
	if err != nil {
		return nil, err
	}
	v, err := s.ring.InvNTT(vHat)
	if err != nil {
		return nil, err
	}
	v, err = s.ring.Add(v, e2)
	if err != nil {
		return nil, err
	}
	v, err = s.ring.Add(v, s.encodeMessage(m))
	if err != nil {
		return nil, err
	}

	cu, err := compress.CompressVec(s.ring, u, s.params.Du)
	if err != nil {
		return nil, err
	}
	cv, err := compress.CompressPoly(s.ring, v, s.params.Dv)
	if err != nil {
		return nil, err
	}
	return &Ciphertext{U: cu, V: cv}, nil
}

// Decrypt recovers the message from ct. Decryption never fails structurally;
// excessive noise shows up as flipped message bits, which the KEM layer
// catches by re-encryption.
func (s *Scheme) Decrypt(sk *SecretKey, ct *Ciphertext) ([]byte, error) {
	u := compress.DecompressVec(s.ring, ct.U, s.params.Du)
	v := compress.DecompressPoly(s.ring, ct.V, s.params.Dv)

	uHat, err := s.ring.NTTVec(u)
	if err != nil {
		return nil, err
	}
	sHat, err := s.ring.NTTVec(sk.S)
	if err != nil {
		return nil, err
	}
	wHat, err := s.ring.DotEval(sHat, uHat)
	if err != nil {
		return nil, err
	}
	w, err := s.ring.InvNTT(wHat)
	if err != nil {
		return nil, err
	}
	noisy, err := s.ring.Sub(v, w)
	if err != nil {
		return nil, err
	}
	return s.decodeMessage(noisy), nil
}

// encodeMessage lifts message bits into the ring: bit b of the message
// becomes the coefficient b * round(q/2).
func (s *Scheme) encodeMessage(m []byte) *ring.Poly {
	q := s.ring.Field().Q()
	p := ring.NewPoly(s.params.N)
	for i := 0; i < s.params.N; i++ {
		bit := uint32(m[i/8]>>(uint(i)%8)) & 1
		p.Coeffs[i] = compress.Decompress(bit, q, 1)
	}
	return p
}

// decodeMessage rounds each coefficient to the nearer of 0 and q/2: values
// in (q/4, 3q/4) decode to a set bit.
func (s *Scheme) decodeMessage(p *ring.Poly) []byte {
	q := s.ring.Field().Q()
	m := make([]byte, s.params.MessageSize())
	for i, c := range p.Coeffs {
		m[i/8] |= byte(compress.Compress(c, q, 1)) << (uint(i) % 8)
	}
	return m
}

// readSeed draws a fresh 32-byte seed from rand.
func readSeed(rand io.Reader) ([]byte, error) {
	seed := make([]byte, xof.SeedLen)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, fmt.Errorf("mlwe: reading randomness: %w", err)
	}
	return seed, nil
}

// GenerateKeyPair draws a seed from rand and returns the encoded key pair.
func (s *Scheme) GenerateKeyPair(rand io.Reader) (pk, sk []byte, err error) {
	seed, err := readSeed(rand)
	if err != nil {
		return nil, nil, err
	}
	pub, sec, err := s.KeyGen(seed)
	if err != nil {
		return nil, nil, err
	}
	pk, err = s.MarshalPublicKey(pub)
	if err != nil {
		return nil, nil, err
	}
	sk, err = s.MarshalSecretKey(sec)
	if err != nil {
		return nil, nil, err
	}
	return pk, sk, nil
}

// Encrypt is the byte-level form of EncryptTo.
func (s *Scheme) Encrypt(pkBytes, m, coins []byte) ([]byte, error) {
	pk, err := s.UnmarshalPublicKey(pkBytes)
	if err != nil {
		return nil, err
	}
	ct, err := s.EncryptTo(pk, m, coins)
	if err != nil {
		return nil, err
	}
	return s.MarshalCiphertext(ct)
}

// DecryptBytes is the byte-level form of Decrypt.
func (s *Scheme) DecryptBytes(skBytes, ctBytes []byte) ([]byte, error) {
	sk, err := s.UnmarshalSecretKey(skBytes)
	if err != nil {
		return nil, err
	}
	ct, err := s.UnmarshalCiphertext(ctBytes)
	if err != nil {
		return nil, err
	}
	return s.Decrypt(sk, ct)
}
