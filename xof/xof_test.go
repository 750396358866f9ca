package xof

import (
	"bytes"
	"io"
	"testing"
)

func read(t *testing.T, r io.Reader, n int) []byte {
	t.Helper()
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		t.Fatalf("reading stream: %v", err)
	}
	return out
}

func TestStreamsDeterministic(t *testing.T) {
	a := read(t, Shake128([]byte("seed"), []byte("more")), 64)
	b := read(t, Shake128([]byte("seed"), []byte("more")), 64)
	if !bytes.Equal(a, b) {
		t.Fatal("same inputs gave different streams")
	}
	// Absorbing the concatenation in one piece is the same stream.
	c := read(t, Shake128([]byte("seedmore")), 64)
	if !bytes.Equal(a, c) {
		t.Fatal("split absorption changed the stream")
	}
	d := read(t, Shake256([]byte("seed")), 64)
	if bytes.Equal(a, d) {
		t.Fatal("SHAKE128 and SHAKE256 should differ")
	}
}

func TestPRFDomainSeparation(t *testing.T) {
	seed := []byte("prf-seed-material-goes-here-....")
	a := read(t, PRF(seed, 0), 32)
	b := read(t, PRF(seed, 1), 32)
	c := read(t, PRF(seed, 256), 32)
	if bytes.Equal(a, b) || bytes.Equal(b, c) || bytes.Equal(a, c) {
		t.Fatal("distinct nonces gave identical streams")
	}
	a2 := read(t, PRF(seed, 0), 32)
	if !bytes.Equal(a, a2) {
		t.Fatal("same nonce gave a different stream")
	}
}

func TestHashGSplits(t *testing.T) {
	m := []byte("message")
	h := Sum256([]byte("pk"))
	k1, c1 := HashG(m, h[:])
	k2, c2 := HashG(m, h[:])
	if k1 != k2 || c1 != c2 {
		t.Fatal("HashG is not deterministic")
	}
	if k1 == c1 {
		t.Fatal("the two halves should differ")
	}
	k3, _ := HashG([]byte("other"), h[:])
	if k1 == k3 {
		t.Fatal("different messages gave the same key half")
	}

	// The halves come from one SHA3-512 digest.
	d := Sum512(m, h[:])
	if !bytes.Equal(k1[:], d[:SeedLen]) || !bytes.Equal(c1[:], d[SeedLen:]) {
		t.Fatal("HashG halves disagree with the SHA3-512 digest")
	}
}

func TestKeyedPRNG(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)
	p1, err := NewKeyedPRNG(key)
	if err != nil {
		t.Fatalf("NewKeyedPRNG: %v", err)
	}
	p2, err := NewKeyedPRNG(key)
	if err != nil {
		t.Fatalf("NewKeyedPRNG: %v", err)
	}
	if !bytes.Equal(read(t, p1, 48), read(t, p2, 48)) {
		t.Fatal("same key gave different PRNG streams")
	}
}
