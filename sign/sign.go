package sign

import (
	"fmt"
	"io"

	"pqlattice/compress"
	"pqlattice/ring"
	"pqlattice/sample"
	"pqlattice/xof"
)

// PublicKey holds the matrix seed and the rounded public vector t1.
type PublicKey struct {
	Rho [xof.SeedLen]byte
	T1  *ring.PolyVec
}

// SecretKey holds everything signing needs: the matrix seed, the signing
// key for deterministic nonces, the public-key digest tr, the short secrets
// and the Power2Round remainder t0.
type SecretKey struct {
	Rho [xof.SeedLen]byte
	Key [xof.SeedLen]byte
	Tr  [xof.SeedLen]byte
	S1  *ring.PolyVec
	S2  *ring.PolyVec
	T0  *ring.PolyVec
}

// Signature is the released triple (c, z, h). Attempts records how many
// rejection iterations signing took, which tests and the demo report.
type Signature struct {
	C        [xof.SeedLen]byte
	Z        *ring.PolyVec
	Hint     *ring.PolyVec
	Attempts int
}

// KeyGen derives a key pair from a 32-byte seed. The seed expands into the
// matrix seed rho, the secret sampling seed sigma and the signing key.
func (s *Scheme) KeyGen(seed []byte) (*PublicKey, *SecretKey, error) {
	if len(seed) != xof.SeedLen {
		return nil, nil, fmt.Errorf("sign: seed must be %d bytes, got %d", xof.SeedLen, len(seed))
	}
	stream := xof.Shake256(seed)
	var rho, sigma, key [xof.SeedLen]byte
	if _, err := io.ReadFull(stream, rho[:]); err != nil {
		return nil, nil, err
	}
	if _, err := io.ReadFull(stream, sigma[:]); err != nil {
		return nil, nil, err
	}
	if _, err := io.ReadFull(stream, key[:]); err != nil {
		return nil, nil, err
	}

	a, err := sample.ExpandMatrix(s.ring, rho[:], s.params.K, s.params.L)
	if err != nil {
		return nil, nil, err
	}
	var nonce uint16
	s1, err := sample.SecretVec(s.ring, sigma[:], &nonce, s.params.L, int(s.params.Eta))
	if err != nil {
		return nil, nil, err
	}
	s2, err := sample.SecretVec(s.ring, sigma[:], &nonce, s.params.K, int(s.params.Eta))
	if err != nil {
		return nil, nil, err
	}

	s1Hat, err := s.ring.NTTVec(s1)
	if err != nil {
		return nil, nil, err
	}
	tHat, err := s.ring.MulMatVec(a, s1Hat)
	if err != nil {
		return nil, nil, err
	}
	t, err := s.ring.InvNTTVec(tHat)
	if err != nil {
		return nil, nil, err
	}
	t, err = s.ring.AddVec(t, s2)
	if err != nil {
		return nil, nil, err
	}

	t1, t0 := compress.Power2RoundVec(s.ring, t, s.params.D)
	pk := &PublicKey{Rho: rho, T1: t1}
	pkBytes, err := s.MarshalPublicKey(pk)
	if err != nil {
		return nil, nil, err
	}
	sk := &SecretKey{Rho: rho, Key: key, Tr: xof.HashH(pkBytes), S1: s1, S2: s2, T0: t0}
	return pk, sk, nil
}

// Sign produces a signature on msg. Signing is deterministic: the per-
// attempt masking vectors are derived from the signing key and the message
// digest, so the same (sk, msg) pair always yields the same signature.
func (s *Scheme) Sign(sk *SecretKey, msg []byte) (*Signature, error) {
	a, err := sample.ExpandMatrix(s.ring, sk.Rho[:], s.params.K, s.params.L)
	if err != nil {
		return nil, err
	}
	s1Hat, err := s.ring.NTTVec(sk.S1)
	if err != nil {
		return nil, err
	}
	s2Hat, err := s.ring.NTTVec(sk.S2)
	if err != nil {
		return nil, err
	}
	t0Hat, err := s.ring.NTTVec(sk.T0)
	if err != nil {
		return nil, err
	}

	mu := xof.Sum256(sk.Tr[:], msg)
	rhoPrime := xof.Sum256(sk.Key[:], mu[:])
	beta := s.params.Beta()

	var nonce uint16
	for attempt := 1; attempt <= s.params.MaxAttempts; attempt++ {
		y, err := sample.BoundedVec(s.ring, rhoPrime[:], &nonce, s.params.L, s.params.Gamma1-1)
		if err != nil {
			return nil, err
		}
		yHat, err := s.ring.NTTVec(y)
		if err != nil {
			return nil, err
		}
		wHat, err := s.ring.MulMatVec(a, yHat)
		if err != nil {
			return nil, err
		}
		w, err := s.ring.InvNTTVec(wHat)
		if err != nil {
			return nil, err
		}
		w1 := compress.HighBitsVec(s.ring, w, s.params.Gamma2)
		w1Bytes, err := ring.EncodeVec(w1, s.params.w1Width())
		if err != nil {
			return nil, err
		}
		cSeed := xof.Sum256(mu[:], w1Bytes)
		c, err := sample.ChallengeInBall(s.ring, cSeed[:], s.params.Tau)
		if err != nil {
			return nil, err
		}
		cHat, err := s.ring.NTT(c)
		if err != nil {
			return nil, err
		}

		cs1, err := s.mulChallenge(cHat, s1Hat)
		if err != nil {
			return nil, err
		}
		z, err := s.ring.AddVec(y, cs1)
		if err != nil {
			return nil, err
		}
		zNorm, err := s.ring.InfNormVec(z)
		if err != nil {
			return nil, err
		}
		if zNorm >= s.params.Gamma1-beta {
			continue
		}

		cs2, err := s.mulChallenge(cHat, s2Hat)
		if err != nil {
			return nil, err
		}
		wMinus, err := s.ring.SubVec(w, cs2)
		if err != nil {
			return nil, err
		}
		_, r0 := compress.DecomposeVec(s.ring, wMinus, s.params.Gamma2)
		r0Norm, err := s.ring.InfNormVec(r0)
		if err != nil {
			return nil, err
		}
		if r0Norm >= s.params.Gamma2-beta {
			continue
		}

		ct0, err := s.mulChallenge(cHat, t0Hat)
		if err != nil {
			return nil, err
		}
		ct0Norm, err := s.ring.InfNormVec(ct0)
		if err != nil {
			return nil, err
		}
		// The hint lemma only covers corrections below gamma2.
		if ct0Norm >= s.params.Gamma2 {
			continue
		}
		negCT0 := &ring.PolyVec{Polys: make([]*ring.Poly, s.params.K)}
		for i, p := range ct0.Polys {
			np, err := s.ring.Neg(p)
			if err != nil {
				return nil, err
			}
			negCT0.Polys[i] = np
		}
		wCorr, err := s.ring.AddVec(wMinus, ct0)
		if err != nil {
			return nil, err
		}
		hint := compress.MakeHintVec(s.ring, negCT0, wCorr, s.params.Gamma2)
		if compress.Weight(hint) > s.params.Omega {
			continue
		}

		return &Signature{C: cSeed, Z: z, Hint: hint, Attempts: attempt}, nil
	}
	return nil, ErrRejectionOverflow
}

// Verify reports whether sig is a valid signature on msg under pk.
func (s *Scheme) Verify(pk *PublicKey, msg []byte, sig *Signature) (bool, error) {
	if sig.Z.K() != s.params.L || sig.Hint.K() != s.params.K {
		return false, nil
	}
	zNorm, err := s.ring.InfNormVec(sig.Z)
	if err != nil {
		return false, err
	}
	if zNorm >= s.params.Gamma1-s.params.Beta() {
		return false, nil
	}
	if compress.Weight(sig.Hint) > s.params.Omega {
		return false, nil
	}

	a, err := sample.ExpandMatrix(s.ring, pk.Rho[:], s.params.K, s.params.L)
	if err != nil {
		return false, err
	}
	pkBytes, err := s.MarshalPublicKey(pk)
	if err != nil {
		return false, err
	}
	tr := xof.HashH(pkBytes)
	mu := xof.Sum256(tr[:], msg)

	c, err := sample.ChallengeInBall(s.ring, sig.C[:], s.params.Tau)
	if err != nil {
		return false, err
	}
	cHat, err := s.ring.NTT(c)
	if err != nil {
		return false, err
	}
	zHat, err := s.ring.NTTVec(sig.Z)
	if err != nil {
		return false, err
	}
	azHat, err := s.ring.MulMatVec(a, zHat)
	if err != nil {
		return false, err
	}

	// Reconstruct A*z - c*t1*2^D, the commitment up to the hinted error.
	scale := s.ring.Field().Reduce(int64(1) << uint(s.params.D))
	t1Scaled := &ring.PolyVec{Polys: make([]*ring.Poly, s.params.K)}
	for i, p := range pk.T1.Polys {
		sp, err := s.ring.MulScalar(p, scale)
		if err != nil {
			return false, err
		}
		t1Scaled.Polys[i] = sp
	}
	t1Hat, err := s.ring.NTTVec(t1Scaled)
	if err != nil {
		return false, err
	}
	ct1Hat, err := s.ring.MulEvalScalarVec(cHat, t1Hat)
	if err != nil {
		return false, err
	}
	wHat, err := s.ring.SubVec(azHat, ct1Hat)
	if err != nil {
		return false, err
	}
	wApprox, err := s.ring.InvNTTVec(wHat)
	if err != nil {
		return false, err
	}

	w1 := compress.UseHintVec(s.ring, sig.Hint, wApprox, s.params.Gamma2)
	w1Bytes, err := ring.EncodeVec(w1, s.params.w1Width())
	if err != nil {
		return false, err
	}
	cSeed := xof.Sum256(mu[:], w1Bytes)
	return cSeed == sig.C, nil
}

// GenerateKeyPair draws a seed from rand and returns the encoded key pair.
func (s *Scheme) GenerateKeyPair(rand io.Reader) (pk, sk []byte, err error) {
	seed := make([]byte, xof.SeedLen)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, nil, fmt.Errorf("sign: reading randomness: %w", err)
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

// SignMessage is the byte-level form of Sign.
func (s *Scheme) SignMessage(skBytes, msg []byte) ([]byte, error) {
	sk, err := s.UnmarshalSecretKey(skBytes)
	if err != nil {
		return nil, err
	}
	sig, err := s.Sign(sk, msg)
	if err != nil {
		return nil, err
	}
	return s.MarshalSignature(sig)
}

// VerifyMessage is the byte-level form of Verify. A malformed signature
// encoding verifies false rather than erroring.
func (s *Scheme) VerifyMessage(pkBytes, msg, sigBytes []byte) (bool, error) {
	pk, err := s.UnmarshalPublicKey(pkBytes)
	if err != nil {
		return false, err
	}
	sig, err := s.UnmarshalSignature(sigBytes)
	if err != nil {
		return false, nil
	}
	return s.Verify(pk, msg, sig)
}

// mulChallenge multiplies every entry of an evaluation-domain vector by the
// transformed challenge and maps the result back to coefficients.
func (s *Scheme) mulChallenge(cHat *ring.Poly, vHat *ring.PolyVec) (*ring.PolyVec, error) {
	prod, err := s.ring.MulEvalScalarVec(cHat, vHat)
	if err != nil {
		return nil, err
	}
	return s.ring.InvNTTVec(prod)
}
